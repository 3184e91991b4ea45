package model

import "fmt"

type Command int

const (
	CMD_NONE Command = iota
	CMD_LEFT
	CMD_RIGHT
	CMD_DROP
	CMD_TICK
	CMD_COMMIT
	CMD_RESET
)

func (c Command) Name() string {
	switch c {
	case CMD_LEFT:
		return "LEFT"
	case CMD_RIGHT:
		return "RIGHT"
	case CMD_DROP:
		return "DROP"
	case CMD_TICK:
		return "TICK"
	case CMD_COMMIT:
		return "COMMIT"
	case CMD_RESET:
		return "RESET"
	default:
		return fmt.Sprintf("n/a:%d", c)
	}
}

type EventKind int

const (
	EV_RESET EventKind = iota + 1
	EV_SPAWN
	EV_MOVE
	EV_LOCK
	EV_PENDING
	EV_CLEAR
	EV_GAME_OVER
)

func (k EventKind) Name() string {
	switch k {
	case EV_RESET:
		return "RESET"
	case EV_SPAWN:
		return "SPAWN"
	case EV_MOVE:
		return "MOVE"
	case EV_LOCK:
		return "LOCK"
	case EV_PENDING:
		return "PENDING"
	case EV_CLEAR:
		return "CLEAR"
	case EV_GAME_OVER:
		return "GAME_OVER"
	default:
		return fmt.Sprintf("n/a:%d", k)
	}
}

type Event struct {
	Kind  EventKind
	Piece Piece
	Cells Group
	Chain int
}

type ServerMessage struct {
	SessionId int32
	Snapshot  Snapshot
	Events    []Event
}

type ClientMessage struct {
	Command Command
}
