package api

const docsHTML = `<!doctype html>
<html lang="en" data-theme="dark">
<head>
  <meta charset="utf-8" />
  <meta name="referrer" content="same-origin" />
  <meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no" />
  <title>Healing Horizons Dashboard API</title>
  <link href="https://unpkg.com/@stoplight/elements@9.0.0/styles.min.css" rel="stylesheet" />
  <script src="https://unpkg.com/@stoplight/elements@9.0.0/web-components.min.js" crossorigin="anonymous"></script>
</head>
<body style="height: 100vh; margin: 0; position: relative;">
  <a href="/docs/notifications" style="
    position: fixed;
    top: 12px;
    right: 16px;
    z-index: 9999;
    background: #161b22;
    border: 1px solid #30363d;
    border-radius: 6px;
    color: #58a6ff;
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
    font-size: 12px;
    font-weight: 500;
    padding: 5px 12px;
    text-decoration: none;
  ">Notification Stream Docs</a>
  <elements-api
    apiDescriptionUrl="/openapi.json"
    router="hash"
    layout="sidebar"
    tryItCredentialsPolicy="same-origin"
    darkMode
  />
</body>
</html>`


const notificationDocsHTML = `<!doctype html>
<html lang="en" data-theme="dark">
<head>
  <meta charset="utf-8" />
  <title>Healing Horizons Notifications</title>
  <style>
    body { background: #0d1117; color: #c9d1d9; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; margin: 0 auto; max-width: 760px; padding: 32px 24px; line-height: 1.5; }
    code, pre { background: #161b22; border: 1px solid #30363d; border-radius: 6px; font-size: 13px; }
    code { padding: 1px 5px; }
    pre { padding: 12px; overflow-x: auto; }
    a { color: #58a6ff; }
    table { border-collapse: collapse; width: 100%; }
    td, th { border-bottom: 1px solid #30363d; padding: 6px 8px; text-align: left; }
  </style>
</head>
<body>
  <p><a href="/docs">&larr; API reference</a></p>
  <h1>Notification stream</h1>
  <p>Toasts, the analysis modal and the loading indicator are published as notifications.
  Subscribe over Server-Sent Events or WebSocket; both carry the same JSON payload.</p>
  <table>
    <tr><th>Transport</th><th>Endpoint</th></tr>
    <tr><td>SSE</td><td><code>GET /api/v1/notifications/stream</code></td></tr>
    <tr><td>WebSocket</td><td><code>GET /api/v1/notifications/ws</code></td></tr>
    <tr><td>Recent (polling)</td><td><code>GET /api/v1/notifications</code></td></tr>
  </table>
  <p>Filter by kind with <code>?kinds=toast,modal</code>. Kinds are <code>toast</code>, <code>modal</code> and <code>loading</code>.</p>
  <h2>Payload</h2>
<pre>{
  "seq": 12,
  "kind": "modal",
  "modal": {
    "title": "AI Insight",
    "mood": "hopeful",
    "next_steps": ["Take a short walk", "Write one thing you are grateful for"]
  },
  "at": "2026-06-10T12:00:00Z"
}</pre>
<pre>{ "seq": 13, "kind": "toast", "level": "success", "message": "Entry saved", "at": "..." }
{ "seq": 14, "kind": "loading", "visible": false, "at": "..." }</pre>
  <p>Slow subscribers have events dropped rather than blocking the dashboard.</p>
</body>
</html>`
