package httpapi

import "net/http"

func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	html := `<!doctype html>
<html lang="de">
<head>
  <meta charset="utf-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1"/>
  <title>Düngerrechner — Demo</title>
  <style>
    body { font-family: system-ui, -apple-system, Segoe UI, Roboto, Arial, sans-serif; margin: 16px; }
    textarea { width: 100%; min-height: 200px; font-family: ui-monospace, Menlo, Consolas, monospace; }
    button { padding: 10px 14px; font-size: 16px; }
    pre { white-space: pre-wrap; word-wrap: break-word; background: #f6f6f6; padding: 12px; border-radius: 10px; }
    .cols { display: grid; gap: 12px; grid-template-columns: 1fr; }
    @media (min-width: 900px) { .cols { grid-template-columns: 1fr 1fr; } }
    .card { border: 1px solid #e6e6e6; border-radius: 12px; padding: 12px; }
    .muted { color: #666; font-size: 14px; }
  </style>
</head>
<body>
  <h2>Düngerrechner — Demo</h2>
  <div class="muted">Server: <code>` + r.Host + `</code> — Produkte: <a href="/api/products">/api/products</a>, Doku: <a href="/swagger/index.html">/swagger</a></div>

  <div class="cols" style="margin-top:12px;">
    <div class="card">
      <div><b>Berechnen (JSON → POST /api/compute)</b></div>
      <textarea id="computePayload"></textarea>
      <div style="margin-top:10px;"><button id="btnCompute">Berechnen</button></div>
      <pre id="computeOut">…</pre>
    </div>
    <div class="card">
      <div><b>Vorschlag (JSON → POST /api/suggest)</b></div>
      <textarea id="suggestPayload"></textarea>
      <div style="margin-top:10px;"><button id="btnSuggest">Vorschlagen</button></div>
      <pre id="suggestOut">…</pre>
    </div>
  </div>

<script>
const water = { profile: { n: 2, ca: 55, mg: 12, s: 20 }, share_percent: 100 };

document.getElementById("computePayload").value = JSON.stringify({
  doses: [{ product: "YaraTera Calcinit", dose: 6 }],
  water: water
}, null, 2);

document.getElementById("suggestPayload").value = JSON.stringify({
  phase: "vegetative",
  water: water
}, null, 2);

async function post(path, taId, outId) {
  const out = document.getElementById(outId);
  out.textContent = "…";
  let payload;
  try { payload = JSON.parse(document.getElementById(taId).value); } catch (e) {
    out.textContent = "JSON-Fehler: " + e.message;
    return;
  }
  try {
    const res = await fetch(path, {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify(payload)
    });
    out.textContent = await res.text();
  } catch (e) {
    out.textContent = "Fehler: " + e.message;
  }
}

document.getElementById("btnCompute").addEventListener("click", () => post("/api/compute", "computePayload", "computeOut"));
document.getElementById("btnSuggest").addEventListener("click", () => post("/api/suggest", "suggestPayload", "suggestOut"));
</script>
</body>
</html>`

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}
