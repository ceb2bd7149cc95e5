package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *GameSessionEngine {
	t.Helper()

	catalog := newCountryCatalog()
	require.NoError(t, catalog.validate())
	return NewGameSessionEngine(catalog)
}

func testRoom(users []string, length int) *Room {
	return &Room{
		Code:       "ABCDEF",
		Users:      users,
		Difficulty: DifficultyEasy,
		Length:     length,
	}
}

func TestInitSession(t *testing.T) {
	engine := newTestEngine(t)
	room := testRoom([]string{"alice", "bob"}, 3)

	state, err := engine.InitSession(room)
	require.NoError(t, err)

	assert.Equal(t, "alice", state.CurrentTurn)
	assert.Equal(t, 1, state.CurrentTurnNumber)
	assert.False(t, state.GameOver)
	assert.Empty(t, state.Guesses)
	assert.Empty(t, state.Points)
	assert.NotEmpty(t, state.CurrentFlag.Code)

	require.Len(t, state.Options, wrongAnswerCount)
	for _, c := range state.Options {
		assert.NotEqual(t, state.CurrentFlag.Code, c.Code, "options must not contain the current flag")
	}
}

func TestGameStateUnknownRoom(t *testing.T) {
	engine := newTestEngine(t)

	_, ok := engine.GameState("ZZZZZZ")
	assert.False(t, ok)
}

func TestMakeGuessUnknownRoom(t *testing.T) {
	engine := newTestEngine(t)

	err := engine.MakeGuess(testRoom([]string{"alice"}, 1), "alice", "FI")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestMakeGuessNotYourTurn(t *testing.T) {
	engine := newTestEngine(t)
	room := testRoom([]string{"alice", "bob"}, 3)

	before, err := engine.InitSession(room)
	require.NoError(t, err)

	err = engine.MakeGuess(room, "bob", before.CurrentFlag.Code)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	// A failed guess leaves the state completely unchanged.
	after, ok := engine.GameState(room.Code)
	require.True(t, ok)
	assert.Equal(t, before, after)
}

func TestMakeGuessCorrectScoresAndAdvances(t *testing.T) {
	engine := newTestEngine(t)
	room := testRoom([]string{"alice", "bob"}, 3)

	state, err := engine.InitSession(room)
	require.NoError(t, err)

	require.NoError(t, engine.MakeGuess(room, "alice", state.CurrentFlag.Code))

	state, ok := engine.GameState(room.Code)
	require.True(t, ok)
	assert.Equal(t, 1, state.Points["alice"])
	assert.Equal(t, state.CurrentFlag.Code, state.Guesses["alice"])
	assert.Equal(t, "bob", state.CurrentTurn)
	assert.Equal(t, 2, state.CurrentTurnNumber)
	assert.False(t, state.GameOver)
}

func TestMakeGuessWrongAdvancesWithoutScoring(t *testing.T) {
	engine := newTestEngine(t)
	room := testRoom([]string{"alice", "bob"}, 3)

	_, err := engine.InitSession(room)
	require.NoError(t, err)

	require.NoError(t, engine.MakeGuess(room, "alice", "XX"))

	state, ok := engine.GameState(room.Code)
	require.True(t, ok)
	assert.Zero(t, state.Points["alice"])
	assert.Equal(t, "XX", state.Guesses["alice"])
	assert.Equal(t, "bob", state.CurrentTurn)
	assert.Equal(t, 2, state.CurrentTurnNumber)
}

func TestRepeatedCorrectGuessesAccumulate(t *testing.T) {
	engine := newTestEngine(t)
	room := testRoom([]string{"alice", "bob"}, 10)

	_, err := engine.InitSession(room)
	require.NoError(t, err)

	// Alice guesses correctly on every one of her turns; Bob always misses.
	for i := 0; i < 3; i++ {
		state, ok := engine.GameState(room.Code)
		require.True(t, ok)
		require.Equal(t, "alice", state.CurrentTurn)
		require.NoError(t, engine.MakeGuess(room, "alice", state.CurrentFlag.Code))
		require.NoError(t, engine.MakeGuess(room, "bob", "XX"))

		state, ok = engine.GameState(room.Code)
		require.True(t, ok)
		assert.Equal(t, i+1, state.Points["alice"])
	}
}

func TestTurnAlternatesBetweenTwoPlayers(t *testing.T) {
	engine := newTestEngine(t)
	room := testRoom([]string{"alice", "bob"}, 5)

	_, err := engine.InitSession(room)
	require.NoError(t, err)

	want := []string{"bob", "alice", "bob", "alice"}
	for _, next := range want {
		state, ok := engine.GameState(room.Code)
		require.True(t, ok)
		require.NoError(t, engine.MakeGuess(room, state.CurrentTurn, "XX"))

		state, ok = engine.GameState(room.Code)
		require.True(t, ok)
		assert.Equal(t, next, state.CurrentTurn)
	}
}

func TestTurnOrderStarvesThirdPlayer(t *testing.T) {
	engine := newTestEngine(t)
	room := testRoom([]string{"alice", "bob", "carol"}, 10)

	_, err := engine.InitSession(room)
	require.NoError(t, err)

	// The next player is always the first member whose ID differs from the
	// current one, so a third member never gets a turn.
	for i := 0; i < 6; i++ {
		state, ok := engine.GameState(room.Code)
		require.True(t, ok)
		require.NotEqual(t, "carol", state.CurrentTurn)
		require.NoError(t, engine.MakeGuess(room, state.CurrentTurn, "XX"))
	}
}

func TestSoloRoomKeepsTurn(t *testing.T) {
	engine := newTestEngine(t)
	room := testRoom([]string{"alice"}, 3)

	_, err := engine.InitSession(room)
	require.NoError(t, err)

	require.NoError(t, engine.MakeGuess(room, "alice", "XX"))

	state, ok := engine.GameState(room.Code)
	require.True(t, ok)
	assert.Equal(t, "alice", state.CurrentTurn)
	assert.Equal(t, 2, state.CurrentTurnNumber)
}

func TestGameOverAfterTwiceLengthTurns(t *testing.T) {
	for _, length := range []int{1, 2, 4} {
		t.Run(fmt.Sprintf("length=%d", length), func(t *testing.T) {
			engine := newTestEngine(t)
			room := testRoom([]string{"alice", "bob"}, length)

			_, err := engine.InitSession(room)
			require.NoError(t, err)

			for k := 1; k <= length*2; k++ {
				state, ok := engine.GameState(room.Code)
				require.True(t, ok)
				require.False(t, state.GameOver, "game over too early, after %d guesses", k-1)
				require.NoError(t, engine.MakeGuess(room, state.CurrentTurn, "XX"))
			}

			state, ok := engine.GameState(room.Code)
			require.True(t, ok)
			assert.True(t, state.GameOver)
			assert.Equal(t, length*2, state.CurrentTurnNumber, "no turn fields update once the bound is hit")
		})
	}
}

func TestFinishedGameIsFrozen(t *testing.T) {
	engine := newTestEngine(t)
	room := testRoom([]string{"alice", "bob"}, 1)

	_, err := engine.InitSession(room)
	require.NoError(t, err)

	for k := 0; k < 2; k++ {
		state, ok := engine.GameState(room.Code)
		require.True(t, ok)
		require.NoError(t, engine.MakeGuess(room, state.CurrentTurn, "XX"))
	}

	before, ok := engine.GameState(room.Code)
	require.True(t, ok)
	require.True(t, before.GameOver)

	require.NoError(t, engine.MakeGuess(room, before.CurrentTurn, before.CurrentFlag.Code))

	after, ok := engine.GameState(room.Code)
	require.True(t, ok)
	assert.Equal(t, before, after)
}

func TestEndGameScenario(t *testing.T) {
	// Room with difficulty=easy, length=1, created by alice; bob joins.
	engine := newTestEngine(t)
	room := testRoom([]string{"alice"}, 1)

	state, err := engine.InitSession(room)
	require.NoError(t, err)
	require.Equal(t, "alice", state.CurrentTurn)

	room.Users = append(room.Users, "bob")

	// Alice guesses correctly: one point, turn passes to bob.
	require.NoError(t, engine.MakeGuess(room, "alice", state.CurrentFlag.Code))
	state, ok := engine.GameState(room.Code)
	require.True(t, ok)
	assert.Equal(t, 1, state.Points["alice"])
	assert.Equal(t, "bob", state.CurrentTurn)
	assert.Equal(t, 2, state.CurrentTurnNumber)

	// Bob's guess would push the turn count past 2*1, ending the game.
	require.NoError(t, engine.MakeGuess(room, "bob", "XX"))
	state, ok = engine.GameState(room.Code)
	require.True(t, ok)
	assert.True(t, state.GameOver)
}

func TestDropSession(t *testing.T) {
	engine := newTestEngine(t)
	room := testRoom([]string{"alice"}, 1)

	_, err := engine.InitSession(room)
	require.NoError(t, err)

	engine.DropSession(room.Code)

	_, ok := engine.GameState(room.Code)
	assert.False(t, ok)
}

func TestGameStateSnapshotsAreCopies(t *testing.T) {
	engine := newTestEngine(t)
	room := testRoom([]string{"alice"}, 3)

	_, err := engine.InitSession(room)
	require.NoError(t, err)

	state, ok := engine.GameState(room.Code)
	require.True(t, ok)
	state.Points["mallory"] = 99
	state.Guesses["mallory"] = "XX"

	fresh, ok := engine.GameState(room.Code)
	require.True(t, ok)
	assert.Empty(t, fresh.Points)
	assert.Empty(t, fresh.Guesses)
}
