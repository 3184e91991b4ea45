package main

import (
	"net/http"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/puyo/server"
)

type Server struct {
	router     *way.Router
	GameServer *server.GameServer
}

func main() {
	settings, err := server.SettingsFromEnv()
	if err != nil {
		log.Fatalln(err)
	}
	log.Infof("board %dx%d tick:%v clear delay:%v", settings.Cols, settings.Rows, settings.TickInterval, settings.ClearDelay)
	Server := Server{
		GameServer: server.NewGameServer(settings),
	}
	go Server.GameServer.Loop()
	Server.routes()
	log.Fatalln(http.ListenAndServe(":"+settings.Port, Server.router))
}
