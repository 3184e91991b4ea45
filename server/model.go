package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zucenko/puyo/model"
)

type GameServer struct {
	Settings     Settings
	GameSessions []*GameSession
	GameRequests chan GameRequest
	InfoRequests chan InfoRequest
	Upgrader     *websocket.Upgrader
	lastId       int32
}

type GameSessionState int

const (
	GS_NEW GameSessionState = iota
	GS_PLAY
	GS_OVER
)

// GameSession is the only driver of its engine: every engine call happens on
// the goroutine running Loop.
type GameSession struct {
	Id                    int32
	State                 GameSessionState
	Engine                *model.Engine
	Settings              Settings
	PlayerSessions        []*PlayerSession
	Errors                chan int32
	Events                chan PlayerEvent
	PlayerConnectRequests chan PlayerConnectRequest
	Commits               chan int
	Done                  chan struct{}

	// info is read by the http handlers, Loop keeps it current
	infoMutex sync.RWMutex
	info      SessionInfo
	snapshot  model.Snapshot

	// commitGen tells a timer for the current pending cells from one whose
	// cells went away with a reset
	commitScheduled bool
	commitGen       int
}

type PlayerSessionState int

const (
	PS_NEW PlayerSessionState = iota + 1
	PS_PLAY
	PS_ERR
	PS_ERR_SEC
)

type PlayerSession struct {
	State       PlayerSessionState
	Id          int32
	GameSession *GameSession
	Conn        *websocket.Conn
	GameOver    chan struct{}

	MessagesToSend chan model.ServerMessage

	DebugInMessages  int
	DebugOutMessages int
	DebugLastMessage time.Time
	DebugLastPing    time.Time
	DebugPings       int
}

// SessionInfo is the json view of a session.
type SessionInfo struct {
	Id      int32  `json:"id"`
	State   string `json:"state"`
	Status  string `json:"status"`
	Chain   int    `json:"chain"`
	Players int    `json:"players"`
}

// SessionView is the json view of one board.
type SessionView struct {
	Info    SessionInfo  `json:"info"`
	Board   []string     `json:"board"`
	Piece   *model.Piece `json:"piece,omitempty"`
	Groups  int          `json:"groups"`
	Pending int          `json:"pending"`
}
