package client

import (
	"encoding/gob"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/puyo/model"
)

// RemoteDriver shows the board of a session on the server. Only the game
// loop calls its methods, the connection is read on its own goroutine.
type RemoteDriver struct {
	Conn      *websocket.Conn
	SessionId int32
	messages  chan model.ServerMessage
	snapshot  model.Snapshot
	events    []model.Event
	closed    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func Dial(url string) (*RemoteDriver, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	d := &RemoteDriver{
		Conn:     conn,
		messages: make(chan model.ServerMessage, 32),
		closed:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	go d.loopRead()
	return d, nil
}

func (d *RemoteDriver) loopRead() {
	defer close(d.closed)
	for {
		_, r, err := d.Conn.NextReader()
		if err != nil {
			log.Infof("RemoteDriver read ended %v", err)
			return
		}
		mes := model.ServerMessage{}
		if err := gob.NewDecoder(r).Decode(&mes); err != nil {
			log.Warnf("RemoteDriver cant decode %v", err)
			return
		}
		select {
		case d.messages <- mes:
		case <-d.done:
			return
		}
	}
}

func (d *RemoteDriver) Send(c model.Command) {
	if !playerCommand(c) {
		return
	}
	w, err := d.Conn.NextWriter(websocket.BinaryMessage)
	if err != nil {
		log.Warnf("RemoteDriver cant get writer %v", err)
		return
	}
	if err := gob.NewEncoder(w).Encode(model.ClientMessage{Command: c}); err != nil {
		log.Warnf("RemoteDriver cant encode %v", err)
	}
	if err := w.Close(); err != nil {
		log.Warnf("RemoteDriver cant close writer %v", err)
	}
}

// Update takes whatever arrived since the last frame, the server owns the
// clock so dt is not used.
func (d *RemoteDriver) Update(dt time.Duration) {
	for {
		select {
		case mes := <-d.messages:
			d.SessionId = mes.SessionId
			d.snapshot = mes.Snapshot
			d.events = append(d.events, mes.Events...)
		default:
			return
		}
	}
}

func (d *RemoteDriver) Snapshot() model.Snapshot {
	return d.snapshot
}

func (d *RemoteDriver) Events() []model.Event {
	evs := d.events
	d.events = nil
	return evs
}

// Connected is false once the server went away.
func (d *RemoteDriver) Connected() bool {
	select {
	case <-d.closed:
		return false
	default:
		return true
	}
}

func (d *RemoteDriver) Close() error {
	d.closeOnce.Do(func() {
		close(d.done)
	})
	return d.Conn.Close()
}
