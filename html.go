/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

const homeHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Double Agent</title>
<style>
  body { font-family: system-ui, -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 2rem; }
  h1 { margin-bottom: 0.5rem; }
  a.start { display: inline-block; margin-top: 1rem; padding: 0.5rem 1rem; border: 1px solid #333; border-radius: 4px; text-decoration: none; color: inherit; }
</style>
</head>
<body>
<h1>Double Agent</h1>
<p>A two-player cooperative word-guessing game. Start a session, share the link
or QR code with a friend, and take turns cluing each other toward your agents.
Three cards are agents for both of you. Avoid the assassins.</p>
<a class="start" href="agents">Start a new game</a>
</body>
</html>
`

func serveHomePage(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)
		_, _ = w.Write([]byte(homeHTML))
	}
}

// Browser client. Renders from game_state snapshots; relayed peer events
// and presence updates arrive on the same socket.
const gameHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Double Agent</title>
<style>
  body { font-family: system-ui, -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 1rem; }
  #status { margin-bottom: 0.5rem; font-size: 0.9rem; }
  #board { display: grid; grid-template-columns: repeat(5, 1fr); gap: 6px; max-width: 640px; }
  .card { padding: 1rem 0.25rem; text-align: center; border: 1px solid #999; border-radius: 4px; cursor: pointer; text-transform: capitalize; }
  .card.mine-o { border-color: #2a7; border-width: 2px; }
  .card.mine-a { border-color: #c33; border-width: 2px; }
  .card.done { opacity: 0.45; cursor: default; }
  .card.hit-o { background: #cfc; }
  .card.hit-i { background: #eee; }
  .card.hit-a { background: #fcc; }
  #panel { margin-top: 1rem; max-width: 640px; }
  #log { margin-top: 1rem; padding: 0; list-style: none; max-height: 12rem; overflow-y: auto; font-size: 0.9rem; }
  #log li { padding: 0.15rem 0; border-bottom: 1px solid #eee; }
  button, input { padding: 0.4rem 0.6rem; }
</style>
</head>
<body>
<h1>Double Agent</h1>
<div id="status">Connecting…</div>
<div id="board"></div>
<div id="panel">
  <form id="clueform">
    <input id="clue" placeholder="One-word clue" autocomplete="off">
    <button type="submit">Give clue</button>
    <button type="button" id="endguessing">End guessing</button>
    <button type="button" id="swapturn">Swap turn</button>
    <button type="button" id="unlock">Unlock cards</button>
    <button type="button" id="endgame">End game</button>
    <button type="button" id="playagain" hidden>Play again</button>
    <button type="button" id="share">QR</button>
  </form>
  <img id="qr" hidden width="256" height="256">
  <ul id="log"></ul>
</div>

<script>
(function() {
  const statusEl = document.getElementById('status');
  const boardEl = document.getElementById('board');
  const logEl = document.getElementById('log');
  const clueEl = document.getElementById('clue');

  let slot = '';
  let state = null;
  let peers = {};

  const proto = (location.protocol === 'https:') ? 'wss://' : 'ws://';
  const wsPath = location.pathname.replace(/\/$/, '') + '/ws';
  const ws = new WebSocket(proto + location.host + wsPath);

  function send(msg) { ws.send(JSON.stringify(msg)); }

  ws.onopen = function() {
    statusEl.textContent = 'Connected.';
    const name = prompt('Enter your name:') || 'Player';
    send({ type: 'hello', name: name });
  };

  function renderStatus() {
    if (!state) return;
    let text = '';
    if (state.status === 'waiting') {
      text = 'Waiting for a second player. Share this link or the QR code.';
    } else if (state.status === 'win' || state.status === 'loss') {
      text = 'Game over: ' + state.status + '.';
      document.getElementById('playagain').hidden = false;
    } else {
      const mine = slot && state.current_turn === slot;
      text = (mine ? 'Your turn' : "Partner's turn") +
        (state.card_lock ? ' - clue needed' : ' - guessing') +
        ' | agents found: ' + state.correct_count + '/15' +
        ' | mistakes: ' + state.mistake_count + '/' + state.mistake_limit +
        ' | turns: ' + state.turn_count + '/' + state.turn_limit;
    }
    const names = Object.values(peers).map(function(p) { return p.name + ' (' + p.status + ')'; });
    if (names.length) text += ' | ' + names.join(', ');
    statusEl.textContent = text;
  }

  function renderBoard() {
    boardEl.innerHTML = '';
    if (!state || !state.cards) return;
    const cards = state.cards.slice().sort(function(a, b) { return a.position - b.position; });
    cards.forEach(function(c) {
      const div = document.createElement('div');
      div.className = 'card';
      div.textContent = c.word;
      const mine = slot === 'player2' ? c.p2_identifier : c.p1_identifier;
      if (slot && mine === 'O') div.classList.add('mine-o');
      if (slot && mine === 'A') div.classList.add('mine-a');
      const iDid = slot === 'player2' ? c.p2_identified : c.p1_identified;
      if (iDid) {
        div.classList.add('done');
        const other = slot === 'player2' ? c.p1_identifier : c.p2_identifier;
        div.classList.add(other === 'O' ? 'hit-o' : other === 'A' ? 'hit-a' : 'hit-i');
      }
      div.onclick = function() { send({ type: 'card', position: c.position }); };
      boardEl.appendChild(div);
    });
  }

  function renderLog() {
    logEl.innerHTML = '';
    if (!state || !state.event_log) return;
    state.event_log.slice().reverse().forEach(function(e) {
      const li = document.createElement('li');
      li.textContent = e.type === 'clue' ? ('Clue ' + e.number + ': ' + e.text) : e.text;
      logEl.appendChild(li);
    });
  }

  function render() { renderStatus(); renderBoard(); renderLog(); }

  ws.onmessage = function(event) {
    try {
      const msg = JSON.parse(event.data);
      if (msg.type === 'session_info') { slot = msg.slot || ''; render(); return; }
      if (msg.type === 'game_state') { state = msg.game; render(); return; }
      if (msg.type === 'presence') { peers = msg.peers || {}; renderStatus(); return; }
      if (msg.type === 'rejected') { alert(msg.reason); return; }
      if (msg.type === 'redirect') {
        location.pathname = location.pathname.replace(/[^\/]+$/, msg.game_id);
        return;
      }
    } catch (e) {
      console.error('bad message', e);
    }
  };

  ws.onclose = function() { statusEl.textContent = 'Disconnected.'; };
  ws.onerror = function() { statusEl.textContent = 'Error with WebSocket.'; };

  document.getElementById('clueform').onsubmit = function(e) {
    e.preventDefault();
    send({ type: 'clue', clue: clueEl.value });
    clueEl.value = '';
  };
  document.getElementById('endguessing').onclick = function() { send({ type: 'end_guessing' }); };
  document.getElementById('swapturn').onclick = function() { send({ type: 'swap_turn' }); };
  document.getElementById('unlock').onclick = function() { send({ type: 'unlock_cards' }); };
  document.getElementById('endgame').onclick = function() {
    if (confirm('End this game?')) send({ type: 'end_game' });
  };
  document.getElementById('playagain').onclick = function() { send({ type: 'play_again' }); };
  document.getElementById('share').onclick = function() {
    const img = document.getElementById('qr');
    img.src = location.pathname.replace(/\/$/, '') + '/qr';
    img.hidden = !img.hidden;
  };

  // Presence heartbeat: online while the tab is visible, idle otherwise.
  setInterval(function() {
    if (ws.readyState !== WebSocket.OPEN) return;
    send({ type: 'presence', status: document.hidden ? 'idle' : 'online' });
  }, 30000);
})();
</script>
</body>
</html>
`

func serveGamePage(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		// Seat identity is tied to this cookie, so it has to be issued here
		// where a normal response is written, before the websocket dial.
		getOrSetPlayerID(w, r)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)
		_, _ = w.Write([]byte(gameHTML))
	}
}
