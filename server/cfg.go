package server

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/puyo/model"
)

const HTTP_SUCCESS = 200
const HTTP_BAD_REQUEST = 400
const HTTP_NOT_FOUND = 404
const HTTP_TIMEOUT = 408
const HTTP_SERVER_ERR = 503

type ResponseCode int

const (
	GAME_READY ResponseCode = iota
	GAME_NOT_FOUND
	GAME_INVALIDE
)

func (h ResponseCode) ToHttp() int {
	switch h {
	case GAME_READY:
		return HTTP_SUCCESS
	case GAME_NOT_FOUND:
		return HTTP_NOT_FOUND
	case GAME_INVALIDE:
		return HTTP_BAD_REQUEST
	default:
		panic(h)
	}
}

func (gss GameSessionState) Name() string {
	switch gss {
	case GS_NEW:
		return "GS_NEW"
	case GS_PLAY:
		return "GS_PLAY"
	case GS_OVER:
		return "GS_OVER"
	default:
		return fmt.Sprintf("n/a:%d", gss)
	}
}

func (ps PlayerSessionState) Name() string {
	switch ps {
	case PS_NEW:
		return "NEW"
	case PS_PLAY:
		return "PLAY"
	case PS_ERR:
		return "ERR"
	case PS_ERR_SEC:
		return "ERR_SEC"
	default:
		return "N/A"
	}
}

type GameContextAwaiting struct {
	ResponseCode ResponseCode
	GameSession  *GameSession
}

type GameRequest struct {
	GameContextAwaiting chan GameContextAwaiting
}

// InfoRequest asks for one session (Id > 0) or all of them.
type InfoRequest struct {
	Id    int32
	Reply chan []*GameSession
}

type PlayerConnectRequest struct {
	Con      *websocket.Conn
	GameOver chan struct{}
}

type PlayerEvent struct {
	Player    int32
	GameEvent GameEvent
}

type GameEvent struct {
	Command model.Command
}

type Settings struct {
	Port         string
	Cols, Rows   int
	TickInterval time.Duration
	ClearDelay   time.Duration
	Layout       string
}

func DefaultSettings() Settings {
	return Settings{
		Port:         "8080",
		Cols:         model.DefaultCols,
		Rows:         model.DefaultRows,
		TickInterval: time.Second,
		ClearDelay:   500 * time.Millisecond,
	}
}

// SettingsFromEnv overrides the defaults with PORT, BOARD_COLS, BOARD_ROWS,
// TICK_MS, CLEAR_DELAY_MS and LAYOUT.
func SettingsFromEnv() (Settings, error) {
	s := DefaultSettings()
	if port := os.Getenv("PORT"); port != "" {
		s.Port = port
	} else {
		log.Printf("Defaulting to port %s", s.Port)
	}
	ints := []struct {
		name   string
		target *int
	}{
		{"BOARD_COLS", &s.Cols},
		{"BOARD_ROWS", &s.Rows},
	}
	for _, i := range ints {
		v, err := envInt(i.name)
		if err != nil {
			return s, err
		}
		if v > 0 {
			*i.target = v
		}
	}
	durations := []struct {
		name   string
		target *time.Duration
	}{
		{"TICK_MS", &s.TickInterval},
		{"CLEAR_DELAY_MS", &s.ClearDelay},
	}
	for _, d := range durations {
		v, err := envInt(d.name)
		if err != nil {
			return s, err
		}
		if v > 0 {
			*d.target = time.Duration(v) * time.Millisecond
		}
	}
	s.Layout = os.Getenv("LAYOUT")
	return s, nil
}

func envInt(name string) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", name, raw, err)
	}
	return v, nil
}
