package server

import (
	"encoding/gob"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/puyo/model"
)

func NewGameServer(settings Settings) *GameServer {
	return &GameServer{
		Settings:     settings,
		GameSessions: make([]*GameSession, 0),
		GameRequests: make(chan GameRequest),
		InfoRequests: make(chan InfoRequest),
		Upgrader:     &websocket.Upgrader{},
	}
}

func (s *GameServer) HandleHttpCall() http.HandlerFunc {
	timeout := 200 * time.Millisecond
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("HandleHttpCall - Conection received")

		gcas := make(chan GameContextAwaiting, 1)
		select {
		case s.GameRequests <- GameRequest{GameContextAwaiting: gcas}:
			log.Printf("HandleHttpCall -> GameServer.GameRequests")
		case <-time.After(timeout):
			log.Warn("GameRequests TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}

		var gca GameContextAwaiting
		select {
		case gca = <-gcas:
			log.Printf("HandleHttpCall GameContextAwaiting <- code:%d", gca.ResponseCode)
			switch gca.ResponseCode {
			case GAME_NOT_FOUND:
				fallthrough
			case GAME_INVALIDE:
				w.WriteHeader(gca.ResponseCode.ToHttp())
				return
			case GAME_READY:
				log.Printf("HandleHttpCall ok, have GameSession %d", gca.GameSession.Id)
			default:
				log.Errorf("gca.ResponseCode not expected:%v", gca.ResponseCode)
				w.WriteHeader(HTTP_SERVER_ERR)
				return
			}
		case <-time.After(timeout):
			log.Warnf("HandleHttpCall GameContextAwaiting <- TIMEOUTED")
			go abandonLate(gcas)
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}

		con, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already answered the request
			log.Printf("HandleHttpCall websocket upgrade err %v", err)
			gca.GameSession.Abandon()
			return
		}
		defer con.Close()

		gameOver := make(chan struct{})
		select {
		case gca.GameSession.PlayerConnectRequests <- PlayerConnectRequest{
			Con:      con,
			GameOver: gameOver}:
		case <-time.After(timeout):
			log.Warnf("HandleHttpCall PlayerConnectRequests TIMEOUTED")
			gca.GameSession.Abandon()
			return
		}

		log.Info("HandleHttpCall and wait for gameover")
		<-gameOver
	}
}

// abandonLate ends a session the handler stopped waiting for. The server
// loop got the request, so its answer still arrives.
func abandonLate(gcas chan GameContextAwaiting) {
	gca := <-gcas
	if gca.GameSession != nil {
		gca.GameSession.Abandon()
	}
}

func (s *GameServer) Loop() {
	log.Printf("GameServer.Loop starting")
	for {
		select {
		case gameReq := <-s.GameRequests:
			gameReq.GameContextAwaiting <- GameContextAwaiting{
				ResponseCode: GAME_READY,
				GameSession:  s.findOrCreate(),
			}
		case infoReq := <-s.InfoRequests:
			found := make([]*GameSession, 0)
			for _, gs := range s.GameSessions {
				if infoReq.Id == 0 || infoReq.Id == gs.Id {
					found = append(found, gs)
				}
			}
			infoReq.Reply <- found
		}
	}
}

// findOrCreate forgets finished sessions and starts a new one, every player
// gets a board of its own.
func (s *GameServer) findOrCreate() *GameSession {
	alive := s.GameSessions[:0]
	for _, gs := range s.GameSessions {
		if gs.Info().State != GS_OVER.Name() {
			alive = append(alive, gs)
		}
	}
	s.GameSessions = alive

	s.lastId++
	log.Infof("create GameSession %d", s.lastId)
	gs := NewGameSession(s.lastId, s.newEngine(), s.Settings)
	go gs.Loop()
	s.GameSessions = append(s.GameSessions, gs)
	return gs
}

// Sessions asks the server loop for the sessions matching id, 0 means all.
func (s *GameServer) Sessions(id int32) []*GameSession {
	reply := make(chan []*GameSession, 1)
	s.InfoRequests <- InfoRequest{Id: id, Reply: reply}
	return <-reply
}

func NewGameSession(id int32, engine *model.Engine, settings Settings) *GameSession {
	gs := &GameSession{
		Id:                    id,
		State:                 GS_NEW,
		Engine:                engine,
		Settings:              settings,
		PlayerSessions:        make([]*PlayerSession, 0),
		Errors:                make(chan int32),
		Events:                make(chan PlayerEvent, 16),
		PlayerConnectRequests: make(chan PlayerConnectRequest),
		Commits:               make(chan int),
		Done:                  make(chan struct{}),
	}
	engine.Events()
	gs.refresh()
	return gs
}

func (gs *GameSession) Loop() {
	log.Infof("GameSession.Loop %d start", gs.Id)
	ticker := time.NewTicker(gs.Settings.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case pcr := <-gs.PlayerConnectRequests:
			log.Info("GameSession.Loop PlayerConnectRequests")
			ps := gs.addPlayer(pcr.Con, pcr.GameOver)
			gs.State = GS_PLAY
			ps.State = PS_PLAY
			gs.refresh()
			gs.send(ps, ps.MakeGameSetupMessage())
		case errPlayer := <-gs.Errors:
			log.Warnf("killing GS %d", gs.Id)
			gs.State = GS_OVER
			for _, ps := range gs.PlayerSessions {
				if ps.Id == errPlayer {
					ps.State = PS_ERR
				} else {
					ps.State = PS_ERR_SEC
				}
				close(ps.GameOver)
			}
			gs.refresh()
			close(gs.Done)
			return
		case pe := <-gs.Events:
			gs.broadcast(gs.Turn(pe))
		case <-ticker.C:
			if gs.State == GS_PLAY {
				gs.broadcast(gs.apply(model.CMD_TICK))
			}
		case gen := <-gs.Commits:
			if gen != gs.commitGen {
				log.Debugf("GameSession %d stale commit %d", gs.Id, gen)
				continue
			}
			gs.commitScheduled = false
			gs.broadcast(gs.apply(model.CMD_COMMIT))
		}
	}
}

// Turn applies one player command. Ticks and commits belong to the session
// and are refused.
func (gs *GameSession) Turn(pe PlayerEvent) *model.ServerMessage {
	switch pe.GameEvent.Command {
	case model.CMD_LEFT, model.CMD_RIGHT, model.CMD_DROP, model.CMD_RESET:
		return gs.apply(pe.GameEvent.Command)
	default:
		log.Warnf("GameSession %d player %d sent %s", gs.Id, pe.Player, pe.GameEvent.Command.Name())
		return nil
	}
}

func (gs *GameSession) apply(cmd model.Command) *model.ServerMessage {
	gs.Engine.Apply(cmd)
	evs := gs.Engine.Events()
	if len(evs) == 0 {
		return nil
	}
	for _, ev := range evs {
		log.Debugf("GameSession %d %s chain:%d cells:%d", gs.Id, ev.Kind.Name(), ev.Chain, len(ev.Cells))
	}
	gs.scheduleCommit()
	gs.refresh()
	return &model.ServerMessage{
		SessionId: gs.Id,
		Snapshot:  gs.Snapshot(),
		Events:    evs,
	}
}

// scheduleCommit leaves the pending cells visible for ClearDelay before
// they are removed.
func (gs *GameSession) scheduleCommit() {
	if len(gs.Engine.Pending()) == 0 {
		if gs.commitScheduled {
			gs.commitScheduled = false
			gs.commitGen++
		}
		return
	}
	if gs.commitScheduled {
		return
	}
	gs.commitScheduled = true
	gen := gs.commitGen
	time.AfterFunc(gs.Settings.ClearDelay, func() {
		select {
		case gs.Commits <- gen:
		case <-gs.Done:
		}
	})
}

func (gs *GameSession) refresh() {
	snap := gs.Engine.Snapshot()
	gs.infoMutex.Lock()
	defer gs.infoMutex.Unlock()
	gs.snapshot = snap
	gs.info = SessionInfo{
		Id:      gs.Id,
		State:   gs.State.Name(),
		Status:  snap.Status.Name(),
		Chain:   snap.Chain,
		Players: len(gs.PlayerSessions),
	}
}

func (gs *GameSession) Info() SessionInfo {
	gs.infoMutex.RLock()
	defer gs.infoMutex.RUnlock()
	return gs.info
}

func (gs *GameSession) Snapshot() model.Snapshot {
	gs.infoMutex.RLock()
	defer gs.infoMutex.RUnlock()
	return gs.snapshot
}

func (gs *GameSession) broadcast(mes *model.ServerMessage) {
	if mes == nil {
		return
	}
	for _, ps := range gs.PlayerSessions {
		gs.send(ps, *mes)
	}
}

// send never blocks the session loop, every message carries a full snapshot
// so a dropped one is repaired by the next.
func (gs *GameSession) send(ps *PlayerSession, mes model.ServerMessage) {
	select {
	case ps.MessagesToSend <- mes:
	default:
		log.Warnf("GameSession %d dropping message for player %d, queue FULL", gs.Id, ps.Id)
	}
}

func (gs *GameSession) addPlayer(
	conn *websocket.Conn,
	gameOver chan struct{},
) *PlayerSession {
	log.Printf("GameSession.addPlayer")
	ps := &PlayerSession{
		State:          PS_NEW,
		Id:             int32(len(gs.PlayerSessions) + 1),
		GameSession:    gs,
		Conn:           conn,
		GameOver:       gameOver,
		MessagesToSend: make(chan model.ServerMessage, 10),
	}
	conn.SetPingHandler(
		func(message string) error {
			err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second))
			ps.DebugLastPing = time.Now()
			ps.DebugPings++
			if err == websocket.ErrCloseSent {
				return nil
			} else if e, ok := err.(net.Error); ok && e.Temporary() {
				return nil
			}
			return err
		})
	go ps.LoopChannelRead()
	go ps.LoopChannelWrite()
	gs.PlayerSessions = append(gs.PlayerSessions, ps)
	return ps
}

// Abandon ends a session from outside of its loop.
func (gs *GameSession) Abandon() {
	select {
	case gs.Errors <- 0:
	case <-gs.Done:
	}
}

func (ps *PlayerSession) fail() {
	select {
	case ps.GameSession.Errors <- ps.Id:
	case <-ps.GameSession.Done:
	}
}

func (ps *PlayerSession) LoopChannelRead() {
	log.Printf("LoopChannelRead STARTED")
	for {
		_, r, err := ps.Conn.NextReader()
		if err != nil {
			log.Printf("LoopChannelRead err reading message from Conn %v", err)
			ps.fail()
			break
		}
		cm := &model.ClientMessage{}
		if err = gob.NewDecoder(r).Decode(cm); err != nil {
			log.Warnf("cant decode %v", err)
			ps.fail()
			break
		}
		log.Debugf("LoopChannelRead %s", cm.Command.Name())
		ps.DebugLastMessage = time.Now()
		ps.DebugInMessages++

		select {
		case ps.GameSession.Events <- PlayerEvent{
			Player:    ps.Id,
			GameEvent: GameEvent{Command: cm.Command},
		}:
		default:
			log.Warnf("Dropping Data red from socket but.. GameSession.Events FULL")
		}
	}
	log.Printf("LoopChannelRead ENDED")
}

func (ps *PlayerSession) MakeGameSetupMessage() model.ServerMessage {
	return model.ServerMessage{
		SessionId: ps.GameSession.Id,
		Snapshot:  ps.GameSession.Snapshot(),
		Events:    []model.Event{},
	}
}

// this function only consumes. no worries about full buffer stuck
func (ps *PlayerSession) LoopChannelWrite() {
	log.Printf("PlayerSession.LoopChannelWrite STARTED")
loop:
	for {
		select {
		case mes := <-ps.MessagesToSend:
			w, err := ps.Conn.NextWriter(websocket.BinaryMessage)
			if err != nil {
				log.Warnf("PlayerSession.LoopChannelWrite cant get writer %v", err)
				ps.fail()
				break loop
			}
			if err = gob.NewEncoder(w).Encode(mes); err != nil {
				log.Warnf("PlayerSession.LoopChannelWrite cant encode %v", err)
				ps.fail()
				break loop
			}
			if err = w.Close(); err != nil {
				log.Warnf("PlayerSession.LoopChannelWrite cant close writer %v", err)
				ps.fail()
				break loop
			}
			ps.DebugOutMessages++
		case <-ps.GameSession.Done:
			break loop
		}
	}
	log.Printf("LoopChannelWrite ENDED")
}

func (gs *GameSession) View() SessionView {
	snap := gs.Snapshot()
	view := SessionView{
		Info:    gs.Info(),
		Board:   strings.Split(strings.TrimSuffix(snap.Grid.String(), "\n"), "\n"),
		Groups:  len(snap.Groups),
		Pending: len(snap.Pending),
	}
	if snap.HasPiece {
		p := snap.Piece
		view.Piece = &p
	}
	return view
}
