package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mooreolith/todo-docker/internal/models"
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
	MsgListed MsgKind = iota
	MsgMutated
)

// Kind reports which constructor built the message.
func (m Msg) Kind() MsgKind {
	return m.kind
}

type listed struct {
	todos []models.Todo
	err   error
}

type mutated struct {
	op  string
	err error
}

// listedMsg is the constructor for [MsgListed]
func listedMsg(todos []models.Todo, err error) Msg {
	return Msg{kind: MsgListed, data: listed{todos, err}}
}

// mutatedMsg is the constructor for [MsgMutated]. op is add, update or remove.
func mutatedMsg(op string, err error) Msg {
	return Msg{kind: MsgMutated, data: mutated{op, err}}
}
