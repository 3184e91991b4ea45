package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/puyo/server"
)

const URI_WS = "/play"
const URI_SESSIONS = "/sessions"
const URI_SESSION = "/sessions/:id"

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("GET", URI_WS, s.GameServer.HandleHttpCall())
	s.router.HandleFunc("GET", URI_SESSIONS, s.handleSessions())
	s.router.HandleFunc("GET", URI_SESSION, s.handleSession())
}

func (s *Server) handleSessions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infos := make([]server.SessionInfo, 0)
		for _, gs := range s.GameServer.Sessions(0) {
			infos = append(infos, gs.Info())
		}
		respond(w, http.StatusOK, infos)
	}
}

func (s *Server) handleSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(way.Param(r.Context(), "id"))
		if err != nil || id <= 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		found := s.GameServer.Sessions(int32(id))
		if len(found) == 0 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		respond(w, http.StatusOK, found[0].View())
	}
}

func respond(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("respond %v", err)
	}
}
