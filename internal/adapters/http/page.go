package http

// indexHTML is a self-contained demo page: it submits a workspace, follows
// the SSE stream, and redraws the board from /api/state.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>blockstep</title>
<style>
  body { font-family: sans-serif; max-width: 860px; margin: 2rem auto; color: #222; }
  h1 { font-size: 1.4rem; }
  #board { display: grid; gap: 4px; margin: 1rem 0; }
  .cell { width: 48px; height: 48px; display: flex; align-items: center;
          justify-content: center; font-size: 1.6rem; background: #f0f0f0;
          border-radius: 6px; }
  textarea { width: 100%; height: 10rem; font-family: monospace; }
  button { margin-right: 0.5rem; padding: 0.4rem 1rem; }
  #log { background: #1b1b1b; color: #9fef9f; font-family: monospace;
         font-size: 0.8rem; padding: 0.6rem; height: 10rem; overflow-y: scroll;
         white-space: pre-wrap; }
</style>
</head>
<body>
<h1>blockstep</h1>
<div id="board"></div>
<p id="verdict"></p>
<textarea id="workspace">{
  "blocks": {
    "blocks": [
      { "type": "repeat", "fields": { "TIMES": 2 },
        "inputs": { "DO": { "block": { "type": "move_forward" } } } },
      { "type": "say", "fields": { "TEXT": "done" } }
    ]
  }
}</textarea>
<p>
  <button onclick="startRun()">Run</button>
  <button onclick="post('/api/cancel')">Cancel</button>
  <button onclick="post('/api/reset').then(refresh)">Reset</button>
</p>
<div id="log"></div>
<script>
async function refresh() {
  const state = await (await fetch('/api/state')).json();
  const board = state.board;
  const el = document.getElementById('board');
  el.style.gridTemplateColumns = 'repeat(' + board.cols + ', 48px)';
  el.innerHTML = '';
  for (let x = 0; x < board.rows; x++) {
    for (let y = 0; y < board.cols; y++) {
      const cell = document.createElement('div');
      cell.className = 'cell';
      if (board.robot.x === x && board.robot.y === y) cell.textContent = '\u{1F916}';
      else if (board.goal.x === x && board.goal.y === y) cell.textContent = '⭐';
      el.appendChild(cell);
    }
  }
  document.getElementById('verdict').textContent = state.verdict || '';
}
function log(line) {
  const el = document.getElementById('log');
  el.textContent += line + '\n';
  el.scrollTop = el.scrollHeight;
}
function post(path, body) {
  return fetch(path, { method: 'POST', body: body,
    headers: { 'Content-Type': 'application/json' } });
}
async function startRun() {
  const resp = await post('/api/runs', document.getElementById('workspace').value);
  const data = await resp.json();
  log(resp.ok ? 'run ' + data.run_id : 'error: ' + data.error);
}
const events = new EventSource('/api/events');
events.onmessage = function (ev) {
  log(ev.data);
  refresh();
};
refresh();
</script>
</body>
</html>
`
