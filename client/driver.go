package client

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/zucenko/puyo/model"
)

// Driver feeds the window with boards, either from a local engine or from
// a session server.
type Driver interface {
	Send(c model.Command)
	Update(dt time.Duration)
	Snapshot() model.Snapshot
	Events() []model.Event
	Close() error
}

type Settings struct {
	Server       string
	Layout       string
	TickInterval time.Duration
	ClearDelay   time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		TickInterval: time.Second,
		ClearDelay:   500 * time.Millisecond,
	}
}

// SettingsFromEnv reads PUYO_SERVER (ws url, empty plays offline),
// PUYO_LAYOUT, TICK_MS and CLEAR_DELAY_MS.
func SettingsFromEnv() (Settings, error) {
	s := DefaultSettings()
	s.Server = os.Getenv("PUYO_SERVER")
	s.Layout = os.Getenv("PUYO_LAYOUT")
	for name, target := range map[string]*time.Duration{
		"TICK_MS":        &s.TickInterval,
		"CLEAR_DELAY_MS": &s.ClearDelay,
	} {
		raw := os.Getenv(name)
		if raw == "" {
			continue
		}
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			return s, fmt.Errorf("%s=%q: not a positive number of milliseconds", name, raw)
		}
		*target = time.Duration(ms) * time.Millisecond
	}
	return s, nil
}

// playerCommand tells the commands a player may send from the ones the
// driver owns.
func playerCommand(c model.Command) bool {
	switch c {
	case model.CMD_LEFT, model.CMD_RIGHT, model.CMD_DROP, model.CMD_RESET:
		return true
	}
	return false
}

// Binding maps a key code of the window library to a player command.
type Binding struct {
	Key     int
	Command model.Command
}

// Pressed returns the commands of the keys pressed this frame, in the order
// of bindings.
func Pressed(bindings []Binding, justPressed func(key int) bool) []model.Command {
	out := make([]model.Command, 0)
	for _, b := range bindings {
		if justPressed(b.Key) {
			out = append(out, b.Command)
		}
	}
	return out
}
