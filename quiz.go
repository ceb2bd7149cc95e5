// Flagparty quiz game
//
// Players join a shared room and take turns guessing which country a
// displayed flag belongs to. Rooms are created with a difficulty tier and
// a target round count; the game ends after length*2 turns.
//
// Features:
// - Single websocket endpoint at /quiz/ws; rooms addressed by 6-letter codes
// - createRoom / joinRoom / leaveRoom / sendMessage / makeGuess /
//   requestFlags / requestRooms commands, JSON over the socket
// - Room codes matched case-insensitively on join
// - Each flag is shown with three wrong answers drawn from the same tier
// - Scores and latest guesses broadcast to the room after every turn
// - Errors (unknown room, out-of-turn guess) go only to the offending client
// - Rooms torn down when the last member leaves or disconnects
// - In-browser QR button to share a room join link, backed by go-qrcode

package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// ClientCommand is the envelope for every message from a client.
type ClientCommand struct {
	Type       string `json:"type"`                 // "createRoom", "joinRoom", "leaveRoom", "sendMessage", "makeGuess", "requestFlags", "requestRooms"
	UserID     string `json:"userId,omitempty"`     // all but requestRooms
	RoomCode   string `json:"roomCode,omitempty"`   // all but createRoom / requestRooms
	Difficulty string `json:"difficulty,omitempty"` // createRoom / requestFlags
	Length     int    `json:"length,omitempty"`     // createRoom
	Gamemode   string `json:"gamemode,omitempty"`   // createRoom, informational
	Message    string `json:"message,omitempty"`    // sendMessage
	Guess      string `json:"guess,omitempty"`      // makeGuess
}

// Messages sent to clients
type RoomCreatedMessage struct {
	Type string `json:"type"` // "roomCreated"
	Code string `json:"code"`
}

type UserJoinedMessage struct {
	Type   string `json:"type"` // "userJoined"
	UserID string `json:"userId"`
}

type UserLeftMessage struct {
	Type   string `json:"type"` // "userLeft"
	UserID string `json:"userId"`
}

type UpdateUsersMessage struct {
	Type  string   `json:"type"` // "updateUsers"
	Users []string `json:"users"`
}

type UpdateGameStateMessage struct {
	Type  string     `json:"type"` // "updateGameState"
	State *GameState `json:"state"`
}

// ChatMessage relays sendMessage payloads; the room state is untouched.
type ChatMessage struct {
	Type    string `json:"type"` // "message"
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// FlagsMessage answers requestFlags, tagged with the requesting user.
type FlagsMessage struct {
	Type         string    `json:"type"` // "flags"
	Country      Country   `json:"country"`
	WrongAnswers []Country `json:"wrongAnswers"`
	UserID       string    `json:"userId"`
}

type RoomListMessage struct {
	Type  string  `json:"type"` // "rooms"
	Rooms []*Room `json:"rooms"`
}

// Sent to a single client when a command fails; never broadcast.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

type Client struct {
	id   string // connection ID, for logging
	conn *websocket.Conn
	send chan any

	// room and user are only touched from the hub loop.
	room string
	user string
}

type clientCommand struct {
	client *Client
	msg    ClientCommand
}

// Hub is the coordinator: it owns the room store, the game engine, and
// the country catalog, and serializes every command through a single run
// loop so each one is processed to completion before the next.
type Hub struct {
	store   *RoomStore
	engine  *GameSessionEngine
	catalog *CountryCatalog

	clients  map[*Client]bool
	register chan *Client
	unreg    chan *Client
	commands chan clientCommand
}

func newHub(store *RoomStore, engine *GameSessionEngine, catalog *CountryCatalog) *Hub {
	return &Hub{
		store:    store,
		engine:   engine,
		catalog:  catalog,
		clients:  make(map[*Client]bool),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		commands: make(chan clientCommand),
	}
}

func (h *Hub) run(cfg *Config) {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			logf(cfg, "QUIZ: Client %s connected", c.id)

		case c := <-h.unreg:
			h.disconnect(cfg, c)

		case cmd := <-h.commands:
			h.dispatch(cfg, cmd.client, cmd.msg)
		}
	}
}

// disconnect drops the client and leaves its room, so rooms abandoned by
// closing the browser are still torn down.
func (h *Hub) disconnect(cfg *Config, c *Client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}

	if c.room != "" && c.user != "" {
		code := c.room
		c.room = ""
		h.leaveRoom(cfg, code, c.user)
	}

	logf(cfg, "QUIZ: Client %s disconnected", c.id)
}

func (h *Hub) dispatch(cfg *Config, c *Client, msg ClientCommand) {
	switch msg.Type {
	case "createRoom":
		h.handleCreateRoom(cfg, c, msg)
	case "joinRoom":
		h.handleJoinRoom(cfg, c, msg)
	case "leaveRoom":
		h.handleLeaveRoom(cfg, c, msg)
	case "sendMessage":
		h.handleSendMessage(c, msg)
	case "makeGuess":
		h.handleMakeGuess(cfg, c, msg)
	case "requestFlags":
		h.handleRequestFlags(c, msg)
	case "requestRooms":
		h.sendTo(c, RoomListMessage{
			Type:  "rooms",
			Rooms: h.store.Rooms(),
		})
	default:
		// ignore unknown types
	}
}

func (h *Hub) handleCreateRoom(cfg *Config, c *Client, msg ClientCommand) {
	if msg.UserID == "" {
		return
	}

	difficulty, err := ParseDifficulty(msg.Difficulty)
	if err != nil {
		h.sendTo(c, ErrorMessage{Type: "error", Message: err.Error()})
		return
	}

	room := h.store.CreateRoom(msg.UserID, difficulty, msg.Length, msg.Gamemode)

	state, err := h.engine.InitSession(room)
	if err != nil {
		h.store.LeaveRoom(room.Code, msg.UserID)
		h.sendTo(c, ErrorMessage{Type: "error", Message: err.Error()})
		return
	}

	c.room = room.Code
	c.user = msg.UserID

	h.sendTo(c, RoomCreatedMessage{Type: "roomCreated", Code: room.Code})
	h.broadcastRoom(room.Code, UserJoinedMessage{Type: "userJoined", UserID: msg.UserID})
	h.broadcastRoom(room.Code, UpdateUsersMessage{Type: "updateUsers", Users: h.store.UsersInRoom(room.Code)})
	h.broadcastRoom(room.Code, UpdateGameStateMessage{Type: "updateGameState", State: state})
	h.broadcastAll(RoomListMessage{Type: "rooms", Rooms: h.store.Rooms()})

	logf(cfg, "QUIZ: User %q created room %s (%s, %d rounds)", msg.UserID, room.Code, difficulty, room.Length)
}

func (h *Hub) handleJoinRoom(cfg *Config, c *Client, msg ClientCommand) {
	if msg.UserID == "" || msg.RoomCode == "" {
		return
	}

	room, err := h.store.JoinRoom(msg.RoomCode, msg.UserID)
	if err != nil {
		h.sendTo(c, ErrorMessage{Type: "error", Message: err.Error()})
		return
	}

	c.room = room.Code
	c.user = msg.UserID

	h.broadcastRoom(room.Code, UserJoinedMessage{Type: "userJoined", UserID: msg.UserID})
	h.broadcastRoom(room.Code, UpdateUsersMessage{Type: "updateUsers", Users: h.store.UsersInRoom(room.Code)})
	if state, ok := h.engine.GameState(room.Code); ok {
		h.broadcastRoom(room.Code, UpdateGameStateMessage{Type: "updateGameState", State: state})
	}

	logf(cfg, "QUIZ: User %q joined room %s", msg.UserID, room.Code)
}

func (h *Hub) handleLeaveRoom(cfg *Config, c *Client, msg ClientCommand) {
	if c.room == msg.RoomCode {
		c.room = ""
	}
	h.leaveRoom(cfg, msg.RoomCode, msg.UserID)
}

// leaveRoom removes the user, tears down an emptied room, and tells the
// remaining members. The leaver's own room field must already be cleared
// so it no longer receives room broadcasts.
func (h *Hub) leaveRoom(cfg *Config, code, userID string) {
	if h.store.LeaveRoom(code, userID) {
		h.engine.DropSession(code)
		logf(cfg, "QUIZ: Room %s has been deleted", code)
	} else {
		logf(cfg, "QUIZ: User %q left room %s", userID, code)
	}

	h.broadcastRoom(code, UserLeftMessage{Type: "userLeft", UserID: userID})
	h.broadcastRoom(code, UpdateUsersMessage{Type: "updateUsers", Users: h.store.UsersInRoom(code)})
}

func (h *Hub) handleSendMessage(c *Client, msg ClientCommand) {
	h.broadcastRoom(msg.RoomCode, ChatMessage{
		Type:    "message",
		UserID:  msg.UserID,
		Message: msg.Message,
	})
}

func (h *Hub) handleMakeGuess(cfg *Config, c *Client, msg ClientCommand) {
	room, ok := h.store.Room(msg.RoomCode)
	if !ok {
		h.sendTo(c, ErrorMessage{Type: "error", Message: ErrRoomNotFound.Error() + ": " + msg.RoomCode})
		return
	}

	if err := h.engine.MakeGuess(room, msg.UserID, msg.Guess); err != nil {
		h.sendTo(c, ErrorMessage{Type: "error", Message: err.Error()})
		return
	}

	if state, ok := h.engine.GameState(room.Code); ok {
		h.broadcastRoom(room.Code, UpdateGameStateMessage{Type: "updateGameState", State: state})
	}

	logf(cfg, "QUIZ: User %q guessed %q in room %s", msg.UserID, msg.Guess, room.Code)
}

func (h *Hub) handleRequestFlags(c *Client, msg ClientCommand) {
	difficulty, err := ParseDifficulty(msg.Difficulty)
	if err != nil {
		h.sendTo(c, ErrorMessage{Type: "error", Message: err.Error()})
		return
	}

	country, err := h.catalog.PickCountry(difficulty)
	if err != nil {
		h.sendTo(c, ErrorMessage{Type: "error", Message: err.Error()})
		return
	}
	wrong, err := h.catalog.WrongAnswers(difficulty, country.Code)
	if err != nil {
		h.sendTo(c, ErrorMessage{Type: "error", Message: err.Error()})
		return
	}

	h.broadcastRoom(msg.RoomCode, FlagsMessage{
		Type:         "flags",
		Country:      country,
		WrongAnswers: wrong,
		UserID:       msg.UserID,
	})
}

func (h *Hub) sendTo(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcastRoom(code string, msg any) {
	for client := range h.clients {
		if client.room != code {
			continue
		}
		select {
		case client.send <- msg:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

func (h *Hub) broadcastAll(msg any) {
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocket handler: every connection shares the one hub.
func serveQuizWS(cfg *Config, h *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &Client{
			id:   uuid.NewString(),
			conn: conn,
			send: make(chan any, 8),
		}

		h.register <- client

		go client.writePump()
		client.readPump(h)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unreg <- c
		_ = c.conn.Close()
	}()

	for {
		var msg ClientCommand
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		h.commands <- clientCommand{
			client: c,
			msg:    msg,
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// serveRoomList exposes the lobby listing over plain HTTP as well, for
// clients that only want to poll.
func serveRoomList(cfg *Config, store *RoomStore, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		securityHeaders(cfg, w)

		if err := json.NewEncoder(w).Encode(store.Rooms()); err != nil {
			errs <- err

			return
		}
	}
}

// QR handler: generates a PNG QR code for a room join link using go-qrcode.
func qrHandler(cfg *Config, path string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		code := ps.ByName("code")
		if code == "" {
			http.Error(w, "missing room code", http.StatusBadRequest)
			return
		}

		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + cfg.prefix + path + "?room=" + strings.ToUpper(code)

		const qrSize = 320 // mobile-friendly size
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}

func quizIndexHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)

		_, _ = w.Write([]byte(quizHTML))
	}
}

func quizJsHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		securityHeaders(cfg, w)

		_, _ = w.Write([]byte(quizJS))
	}
}

// registerQuizGame sets up routes so that:
//   - $path                   → HTML client (?room=CODE prefills a join)
//   - $path/app.js            → client script
//   - $path/ws                → shared WebSocket endpoint
//   - $path/rooms             → JSON lobby listing
//   - $path/room/:code/qr     → PNG QR code for a room join link
func registerQuizGame(cfg *Config, path string, mux *httprouter.Router, errs chan<- error) error {
	catalog := newCountryCatalog()
	if err := catalog.validate(); err != nil {
		return err
	}

	store := NewRoomStore()
	engine := NewGameSessionEngine(catalog)

	hub := newHub(store, engine, catalog)
	go hub.run(cfg)

	mux.GET(cfg.prefix+path, quizIndexHandler(cfg))
	mux.GET(cfg.prefix+path+"/app.js", quizJsHandler(cfg))
	mux.GET(cfg.prefix+path+"/ws", serveQuizWS(cfg, hub))
	mux.GET(cfg.prefix+path+"/rooms", serveRoomList(cfg, store, errs))
	mux.GET(cfg.prefix+path+"/room/:code/qr", qrHandler(cfg, path))

	return nil
}
