package main

import "fmt"

// RoomKey is the canonical composite identity used across every index
// so a Hall with id=5 never collides with a Lab with id=5
// (spec.md §3, "Room-key helper").
type RoomKey struct {
	Kind RoomKind
	ID   int
}

func (k RoomKey) String() string {
	return fmt.Sprintf("%s_%d", k.Kind, k.ID)
}

func roomKeyOf(r Room) RoomKey {
	return RoomKey{Kind: r.Kind(), ID: r.RoomID()}
}

// compositeID renders the JSON wire form, e.g. "hall_3" or "lab_12".
func (k RoomKey) compositeID() string {
	return k.String()
}
