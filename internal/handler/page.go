package handler

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/AlexZinkM/midnight-hello/internal/model"
)

type pageData struct {
	Deployment *model.DeploymentDescriptor
	MaxLength  int
}

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// Index handles GET /
func (h *MidnightHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := pageData{Deployment: h.deployment(), MaxLength: model.MaxMessageLength}
	if err := indexTemplate.Execute(w, data); err != nil {
		h.logger.Error("failed to render index page", zap.Error(err))
	}
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Midnight Hello World</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 760px; margin: 2rem auto; padding: 0 1rem; }
.panel { border: 1px solid #ccc; border-radius: 8px; padding: 1rem; margin-bottom: 1rem; }
.error { color: #b00020; }
.muted { color: #666; font-size: .9rem; }
textarea { width: 100%; }
</style>
</head>
<body>
<h1>Midnight Hello World</h1>
{{if not .Deployment}}
<div class="panel" id="not-deployed">
  <h2>Contract Not Deployed</h2>
  <p>Run the deploy script to create <code>deployment.json</code>, then reload this page.</p>
</div>
{{else}}
<div class="panel">
  <h2>Wallet</h2>
  <p id="wallet-status">Checking wallet...</p>
  <button id="connect" hidden>Connect Wallet</button>
  <p class="error" id="wallet-error"></p>
</div>

<div class="panel">
  <h2>Store a message</h2>
  <form id="message-form">
    <textarea id="message" maxlength="{{.MaxLength}}" rows="4" placeholder="Enter your message"></textarea>
    <p class="muted"><span id="count">0</span>/{{.MaxLength}}</p>
    <button type="submit">Submit</button>
  </form>
  <p class="error" id="submit-error"></p>
</div>

<div class="panel">
  <h2>Current message</h2>
  <p id="current-message" class="muted">Loading...</p>
  <button id="refresh">Refresh</button>
  <p class="muted">Contract: <code>{{.Deployment.ContractAddress}}</code> (deployed {{.Deployment.DeployedAt}})</p>
</div>
{{end}}

<div class="panel">
  <h2>How it works</h2>
  <p>Your wallet proves and submits a transaction calling the contract's <code>storeMessage</code> circuit. The indexer then serves the new contract state, which this page decodes and displays.</p>
  <h3>Resources</h3>
  <ul>
    <li><a href="https://docs.midnight.network/">Midnight documentation</a></li>
    <li><a href="/swagger/index.html">API reference</a></li>
  </ul>
</div>

{{if .Deployment}}
<script>
const $ = (id) => document.getElementById(id);

async function api(path, opts) {
  const res = await fetch(path, Object.assign({ credentials: 'same-origin', headers: { 'Content-Type': 'application/json' } }, opts));
  const body = await res.json().catch(() => ({}));
  if (!res.ok) throw new Error(body.error || res.statusText);
  return body;
}

async function loadWallet() {
  const s = await api('/api/wallet');
  if (!s.detected) { $('wallet-status').textContent = 'No wallet detected. Start the wallet service.'; return; }
  if (s.connected) { $('wallet-status').textContent = 'Connected: ' + s.address + ' (balance ' + s.balance + ')'; return; }
  $('wallet-status').textContent = 'Wallet detected.';
  $('connect').hidden = false;
}

async function loadMessage() {
  $('current-message').textContent = 'Loading...';
  try {
    const m = await api('/api/message');
    $('current-message').textContent = m.found ? m.message : 'No message stored yet.';
  } catch (e) {
    $('current-message').textContent = 'Failed to load message: ' + e.message;
  }
}

$('connect').onclick = async () => {
  $('wallet-error').textContent = '';
  try {
    const c = await api('/api/wallet/connect', { method: 'POST' });
    $('wallet-status').textContent = 'Connected: ' + c.address + ' (balance ' + c.balance + ')';
    $('connect').hidden = true;
  } catch (e) { $('wallet-error').textContent = e.message; }
};

$('message').oninput = () => { $('count').textContent = $('message').value.length; };

$('message-form').onsubmit = async (ev) => {
  ev.preventDefault();
  $('submit-error').textContent = '';
  try {
    await api('/api/message', { method: 'POST', body: JSON.stringify({ message: $('message').value }) });
    $('message').value = '';
    await loadMessage();
  } catch (e) { $('submit-error').textContent = e.message; }
};

$('refresh').onclick = loadMessage;

loadWallet().catch((e) => { $('wallet-error').textContent = e.message; });
loadMessage();
</script>
{{end}}
</body>
</html>
`
