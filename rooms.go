package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var ErrRoomNotFound = errors.New("room not found")

const (
	roomCodeLength  = 6
	roomCodeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Room is one active quiz lobby. Users holds member IDs in join order;
// that order drives turn rotation, so it is never sorted.
type Room struct {
	Code       string     `json:"code"`
	Users      []string   `json:"users"`
	Difficulty Difficulty `json:"difficulty"`
	Length     int        `json:"length"`
	Gamemode   string     `json:"gamemode,omitempty"`
}

func (r *Room) snapshot() *Room {
	out := *r
	out.Users = append([]string(nil), r.Users...)
	return &out
}

// RoomStore owns the set of active rooms. All methods are safe for
// concurrent use; returned rooms are copies.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*Room),
	}
}

// newRoomCodeLocked generates a crypto-random room code and ensures it
// doesn't collide with an active room.
func (rs *RoomStore) newRoomCodeLocked() string {
	for {
		buf := make([]byte, roomCodeLength)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, roomCodeLength)
		for i := range out {
			out[i] = roomCodeLetters[int(buf[i])%len(roomCodeLetters)]
		}
		code := string(out)

		if _, exists := rs.rooms[code]; !exists {
			return code
		}
	}
}

// CreateRoom registers a new room with the creator as its only member.
func (rs *RoomStore) CreateRoom(userID string, difficulty Difficulty, length int, gamemode string) *Room {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	room := &Room{
		Code:       rs.newRoomCodeLocked(),
		Users:      []string{userID},
		Difficulty: difficulty,
		Length:     length,
		Gamemode:   gamemode,
	}
	rs.rooms[room.Code] = room

	return room.snapshot()
}

// JoinRoom appends the user to the room's member list. The code is
// matched case-insensitively. Full or in-progress rooms are not rejected.
func (rs *RoomStore) JoinRoom(code, userID string) (*Room, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	room, ok := rs.rooms[strings.ToUpper(code)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, code)
	}
	room.Users = append(room.Users, userID)

	return room.snapshot(), nil
}

// LeaveRoom removes the user from the room, matching the code exactly.
// Removing the last member deletes the room; the caller is told so it can
// drop the associated game state. Unknown rooms and users are no-ops.
func (rs *RoomStore) LeaveRoom(code, userID string) (deleted bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	room, ok := rs.rooms[code]
	if !ok {
		return false
	}

	dst := room.Users[:0]
	for _, u := range room.Users {
		if u == userID {
			continue
		}
		dst = append(dst, u)
	}
	room.Users = dst

	if len(room.Users) == 0 {
		delete(rs.rooms, code)
		return true
	}
	return false
}

// Room returns the room with the exact code, if it exists.
func (rs *RoomStore) Room(code string) (*Room, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	room, ok := rs.rooms[code]
	if !ok {
		return nil, false
	}
	return room.snapshot(), true
}

// UsersInRoom returns the member IDs in join order, or an empty slice if
// the room is absent.
func (rs *RoomStore) UsersInRoom(code string) []string {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	room, ok := rs.rooms[code]
	if !ok {
		return []string{}
	}
	return append([]string(nil), room.Users...)
}

// Rooms returns a snapshot of every active room, for lobby listings.
func (rs *RoomStore) Rooms() []*Room {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	out := make([]*Room, 0, len(rs.rooms))
	for _, room := range rs.rooms {
		out = append(out, room.snapshot())
	}
	return out
}
