package handlers

import (
	"net/http"
)

// UIHandler serves the embedded browser chat page.
type UIHandler struct{}

// NewUIHandler creates a new UIHandler.
func NewUIHandler() *UIHandler {
	return &UIHandler{}
}

// ServeHTTP handles GET /ui.
func (h *UIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(chatPageHTML))
}

const chatPageHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>FlexOne</title>
  <style>
    :root {
      color-scheme: dark;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 760px;
      background: #050b18;
      color: #e4ecff;
    }
    h1 {
      font-size: 1.6rem;
      color: #fff;
    }
    #log {
      background: rgba(12, 19, 35, 0.85);
      border: 1px solid rgba(99, 102, 241, 0.2);
      border-radius: 16px;
      padding: 1.5rem;
      min-height: 320px;
      margin-bottom: 1rem;
      overflow-y: auto;
      max-height: 60vh;
    }
    .msg {
      margin-bottom: 1rem;
      line-height: 1.6;
    }
    .msg.user {
      color: #93c5fd;
    }
    .msg.assistant {
      color: #cbd5f5;
    }
    .msg .who {
      font-weight: 600;
      margin-right: 0.5rem;
      color: #c7d2fe;
    }
    form {
      display: flex;
      gap: 0.5rem;
    }
    input[type=text] {
      flex: 1;
      padding: 0.75rem 1rem;
      border-radius: 10px;
      border: 1px solid rgba(99, 102, 241, 0.4);
      background: #0f172a;
      color: #e4ecff;
      font-size: 1rem;
    }
    button {
      padding: 0.75rem 1.5rem;
      border-radius: 10px;
      border: none;
      background: #6366f1;
      color: #fff;
      font-size: 1rem;
      cursor: pointer;
    }
    button:disabled {
      opacity: 0.5;
    }
    label {
      color: #94a3b8;
      font-size: 0.9rem;
    }
  </style>
</head>
<body>
  <h1>FlexOne</h1>
  <div id="log"></div>
  <form id="chat-form">
    <input type="text" id="prompt" placeholder="Ask me here..." autocomplete="off">
    <button type="submit" id="send">Send</button>
  </form>
  <p><label><input type="checkbox" id="use-kb" checked> Use knowledge base</label></p>
  <script>
    const log = document.getElementById('log');
    const form = document.getElementById('chat-form');
    const prompt = document.getElementById('prompt');
    const send = document.getElementById('send');
    const useKB = document.getElementById('use-kb');

    function append(who, html) {
      const div = document.createElement('div');
      div.className = 'msg ' + who;
      const label = document.createElement('span');
      label.className = 'who';
      label.textContent = who === 'user' ? 'You' : 'FlexOne';
      div.appendChild(label);
      const body = document.createElement('span');
      if (html.rendered) {
        body.innerHTML = html.rendered;
      } else {
        body.textContent = html.text;
      }
      div.appendChild(body);
      log.appendChild(div);
      log.scrollTop = log.scrollHeight;
    }

    form.addEventListener('submit', async (e) => {
      e.preventDefault();
      const message = prompt.value.trim();
      if (!message) return;
      append('user', {text: message});
      prompt.value = '';
      send.disabled = true;
      try {
        const r = await fetch('/chat/simple', {
          method: 'POST',
          headers: {'Content-Type': 'application/json'},
          body: JSON.stringify({message: message, use_kb: useKB.checked, render_html: true}),
        });
        const data = await r.json();
        if (!r.ok) {
          append('assistant', {text: 'Error: ' + (data.error || r.status)});
        } else if (data.response_html) {
          append('assistant', {rendered: data.response_html});
        } else {
          append('assistant', {text: data.response});
        }
      } catch (err) {
        append('assistant', {text: 'Error: ' + err});
      } finally {
        send.disabled = false;
        prompt.focus();
      }
    });
  </script>
</body>
</html>
`
