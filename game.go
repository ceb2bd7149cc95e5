package main

import (
	"errors"
	"fmt"
	"sync"
)

var ErrNotYourTurn = errors.New("not your turn")

// GameState is the per-room quiz state broadcast to players after every
// successful guess. Guesses holds each user's latest guess only; Points
// accumulate across turns.
type GameState struct {
	CurrentTurn       string            `json:"currentTurn"`
	CurrentTurnNumber int               `json:"currentTurnNumber"`
	CurrentFlag       Country           `json:"currentFlag"`
	Options           []Country         `json:"options"`
	Guesses           map[string]string `json:"guesses"`
	Points            map[string]int    `json:"points"`
	GameOver          bool              `json:"gameOver"`
}

func (gs *GameState) snapshot() *GameState {
	out := *gs
	out.Options = append([]Country(nil), gs.Options...)
	out.Guesses = make(map[string]string, len(gs.Guesses))
	for k, v := range gs.Guesses {
		out.Guesses[k] = v
	}
	out.Points = make(map[string]int, len(gs.Points))
	for k, v := range gs.Points {
		out.Points[k] = v
	}
	return &out
}

// GameSessionEngine owns the game state for every active room, keyed by
// room code. A state exists exactly as long as its room does: InitSession
// pairs with RoomStore.CreateRoom, DropSession with room teardown.
// All methods are safe for concurrent use; returned states are copies.
type GameSessionEngine struct {
	mu      sync.Mutex
	catalog *CountryCatalog
	states  map[string]*GameState
}

func NewGameSessionEngine(catalog *CountryCatalog) *GameSessionEngine {
	return &GameSessionEngine{
		catalog: catalog,
		states:  make(map[string]*GameState),
	}
}

// InitSession creates the state for a freshly created room. The first
// turn belongs to the room's creator.
func (e *GameSessionEngine) InitSession(room *Room) (*GameState, error) {
	flag, err := e.catalog.PickCountry(room.Difficulty)
	if err != nil {
		return nil, err
	}
	options, err := e.catalog.WrongAnswers(room.Difficulty, flag.Code)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	state := &GameState{
		CurrentTurn:       room.Users[0],
		CurrentTurnNumber: 1,
		CurrentFlag:       flag,
		Options:           options,
		Guesses:           make(map[string]string),
		Points:            make(map[string]int),
	}
	e.states[room.Code] = state

	return state.snapshot(), nil
}

// GameState returns the state for the exact room code, if it exists.
func (e *GameSessionEngine) GameState(code string) (*GameState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, ok := e.states[code]
	if !ok {
		return nil, false
	}
	return state.snapshot(), true
}

// DropSession discards the state for a torn-down room.
func (e *GameSessionEngine) DropSession(code string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.states, code)
}

// MakeGuess records the guess, awards a point when the guessed code
// matches the current flag, and advances the turn whether or not the
// guess was right. A failed call leaves the state completely unchanged;
// once the game is over the state is frozen and further guesses are
// ignored.
func (e *GameSessionEngine) MakeGuess(room *Room, userID, guess string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, ok := e.states[room.Code]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, room.Code)
	}
	if state.CurrentTurn != userID {
		return ErrNotYourTurn
	}
	if state.GameOver {
		return nil
	}

	// Draw the next challenge before mutating anything, so a catalog
	// failure cannot leave a half-updated state.
	next := state.CurrentTurnNumber + 1
	var flag Country
	var options []Country
	if next <= room.Length*2 {
		var err error
		flag, err = e.catalog.PickCountry(room.Difficulty)
		if err != nil {
			return err
		}
		options, err = e.catalog.WrongAnswers(room.Difficulty, flag.Code)
		if err != nil {
			return err
		}
	}

	state.Guesses[userID] = guess
	if guess == state.CurrentFlag.Code {
		state.Points[userID]++
	}

	if next > room.Length*2 {
		state.GameOver = true
		return nil
	}

	state.CurrentTurn = nextPlayerAfter(room.Users, state.CurrentTurn)
	state.CurrentTurnNumber = next
	state.CurrentFlag = flag
	state.Options = options

	return nil
}

// nextPlayerAfter picks the first room member whose ID differs from the
// current player. In a two-player room this alternates strictly; with
// three or more members it always lands on the first non-current member
// in join order rather than rotating round-robin. A solo room keeps the
// turn where it is.
func nextPlayerAfter(users []string, current string) string {
	for _, u := range users {
		if u != current {
			return u
		}
	}
	return current
}
