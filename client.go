package main

// Browser client for the quiz, served from constants so the binary stays
// self-contained. Flags are rendered as regional-indicator emoji from the
// country code, so no image assets are needed.

const quizHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>flagparty</title>
<style>
  body { font-family: system-ui, -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 2rem; max-width: 40rem; }
  h1 { margin-bottom: 0.5rem; }
  #status { margin-bottom: 1rem; font-size: 0.9rem; }
  #flag { font-size: 6rem; line-height: 1; margin: 1rem 0; }
  #options button { font-size: 1rem; margin: 0.25rem; padding: 0.5rem 1rem; }
  #scores, #users { padding: 0; list-style: none; }
  #scores li, #users li { padding: 0.15rem 0; }
  #chatlog { border-top: 1px solid #ddd; margin-top: 1rem; padding-top: 0.5rem; font-size: 0.9rem; }
  #qr { margin-top: 1rem; }
  .hidden { display: none; }
</style>
</head>
<body>
<h1>flagparty</h1>
<div id="status">Connecting…</div>

<div id="lobby">
  <button id="create">Create room</button>
  <select id="difficulty">
    <option value="easy">easy</option>
    <option value="medium">medium</option>
    <option value="hard">hard</option>
  </select>
  <input id="length" type="number" value="5" min="1" size="3">
  <br>
  <input id="roomcode" placeholder="Room code" maxlength="6">
  <button id="join">Join room</button>
  <ul id="roomlist"></ul>
</div>

<div id="game" class="hidden">
  <div>Room <b id="code"></b> <img id="qr" class="hidden" width="160" height="160" alt="QR join link"></div>
  <div id="turn"></div>
  <div id="flag"></div>
  <div id="options"></div>
  <ul id="users"></ul>
  <ul id="scores"></ul>
  <input id="chat" placeholder="Say something">
  <div id="chatlog"></div>
  <button id="leave">Leave room</button>
</div>

<script src="/quiz/app.js"></script>
</body>
</html>
`

const quizJS = `(function() {
  const statusEl = document.getElementById('status');
  const lobbyEl = document.getElementById('lobby');
  const gameEl = document.getElementById('game');

  let userId = '';
  let roomCode = '';

  const proto = (location.protocol === 'https:') ? 'wss://' : 'ws://';
  const wsPath = location.pathname.replace(/\/$/, '') + '/ws';
  const ws = new WebSocket(proto + location.host + wsPath);

  function send(msg) { ws.send(JSON.stringify(msg)); }

  // "FI" -> regional indicator pair
  function flagEmoji(code) {
    return String.fromCodePoint.apply(null,
      code.toUpperCase().split('').map(function(c) { return 0x1F1E6 + c.charCodeAt(0) - 65; }));
  }

  function enterRoom(code) {
    roomCode = code;
    document.getElementById('code').textContent = code;
    const qr = document.getElementById('qr');
    qr.src = location.pathname.replace(/\/$/, '') + '/room/' + code + '/qr';
    qr.classList.remove('hidden');
    lobbyEl.classList.add('hidden');
    gameEl.classList.remove('hidden');
  }

  ws.onopen = function() {
    statusEl.textContent = 'Connected.';
    userId = prompt('Enter your name:') || '';
    send({ type: 'requestRooms' });

    const preset = new URLSearchParams(location.search).get('room');
    if (preset && userId) {
      send({ type: 'joinRoom', roomCode: preset, userId: userId });
      enterRoom(preset.toUpperCase());
    }
  };

  document.getElementById('create').onclick = function() {
    send({
      type: 'createRoom',
      userId: userId,
      difficulty: document.getElementById('difficulty').value,
      length: parseInt(document.getElementById('length').value, 10) || 1
    });
  };

  document.getElementById('join').onclick = function() {
    const code = document.getElementById('roomcode').value.trim();
    if (!code) { return; }
    send({ type: 'joinRoom', roomCode: code, userId: userId });
    enterRoom(code.toUpperCase());
  };

  document.getElementById('leave').onclick = function() {
    send({ type: 'leaveRoom', roomCode: roomCode, userId: userId });
    roomCode = '';
    gameEl.classList.add('hidden');
    lobbyEl.classList.remove('hidden');
    send({ type: 'requestRooms' });
  };

  document.getElementById('chat').onkeydown = function(e) {
    if (e.key !== 'Enter' || !this.value) { return; }
    send({ type: 'sendMessage', roomCode: roomCode, userId: userId, message: this.value });
    this.value = '';
  };

  function renderState(state) {
    if (state.gameOver) {
      document.getElementById('turn').textContent = 'Game over!';
      document.getElementById('flag').textContent = '';
      document.getElementById('options').innerHTML = '';
      return;
    }

    document.getElementById('turn').textContent =
      'Turn ' + state.currentTurnNumber + ': ' + state.currentTurn;
    document.getElementById('flag').textContent = flagEmoji(state.currentFlag.code);

    const answers = state.options.concat([state.currentFlag]);
    answers.sort(function() { return Math.random() - 0.5; });

    const optionsEl = document.getElementById('options');
    optionsEl.innerHTML = '';
    answers.forEach(function(c) {
      const btn = document.createElement('button');
      btn.textContent = c.name;
      btn.onclick = function() {
        send({ type: 'makeGuess', roomCode: roomCode, userId: userId, guess: c.code });
      };
      optionsEl.appendChild(btn);
    });

    const scoresEl = document.getElementById('scores');
    scoresEl.innerHTML = '';
    Object.keys(state.points).forEach(function(user) {
      const li = document.createElement('li');
      li.textContent = user + ': ' + state.points[user];
      scoresEl.appendChild(li);
    });
  }

  ws.onmessage = function(event) {
    let msg;
    try { msg = JSON.parse(event.data); } catch (e) { return; }

    switch (msg.type) {
    case 'roomCreated':
      enterRoom(msg.code);
      break;
    case 'updateUsers':
      const usersEl = document.getElementById('users');
      usersEl.innerHTML = '';
      (msg.users || []).forEach(function(u) {
        const li = document.createElement('li');
        li.textContent = u;
        usersEl.appendChild(li);
      });
      break;
    case 'updateGameState':
      renderState(msg.state);
      break;
    case 'userJoined':
      statusEl.textContent = msg.userId + ' joined.';
      break;
    case 'userLeft':
      statusEl.textContent = msg.userId + ' left.';
      break;
    case 'message':
      const logEl = document.getElementById('chatlog');
      const line = document.createElement('div');
      line.textContent = msg.userId + ': ' + msg.message;
      logEl.prepend(line);
      break;
    case 'rooms':
      const listEl = document.getElementById('roomlist');
      listEl.innerHTML = '';
      (msg.rooms || []).forEach(function(r) {
        const li = document.createElement('li');
        li.textContent = r.code + ' (' + r.difficulty + ', ' + r.users.length + ' players)';
        listEl.appendChild(li);
      });
      break;
    case 'error':
      statusEl.textContent = msg.message;
      break;
    }
  };

  ws.onclose = function() {
    statusEl.textContent = 'Disconnected.';
  };

  ws.onerror = function() {
    statusEl.textContent = 'Error with WebSocket.';
  };
})();
`
