package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/rentx/internal/store"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgLoaded MsgKind = iota
	MsgActionComplete
	MsgStoreChanged
)

// result is the payload of every [Msg]: the operation that finished, the state after it, and its error.
type result struct {
	op       string
	snapshot store.Snapshot
	err      error
}

// loadedMsg is the constructor for [MsgLoaded]
func loadedMsg(snap store.Snapshot, err error) Msg {
	return Msg{kind: MsgLoaded, data: result{op: "initialize", snapshot: snap, err: err}}
}

// actionCompleteMsg is the constructor for [MsgActionComplete]
func actionCompleteMsg(op string, snap store.Snapshot, err error) Msg {
	return Msg{kind: MsgActionComplete, data: result{op: op, snapshot: snap, err: err}}
}

// storeChangedMsg is the constructor for [MsgStoreChanged]
func storeChangedMsg(snap store.Snapshot) Msg {
	return Msg{kind: MsgStoreChanged, data: result{op: "changed", snapshot: snap}}
}
