package server

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/puyo/model"
)

// Load reads the starting board of new sessions.
func Load(path string) (model.Grid, error) {
	file, err := os.Open(path)
	if err != nil {
		return model.Grid{}, err
	}
	defer file.Close()
	g, err := model.ReadGrid(file)
	if err != nil {
		return model.Grid{}, fmt.Errorf("layout %s: %w", path, err)
	}
	return g, nil
}

func (s *GameServer) newEngine() *model.Engine {
	opts := []model.Option{
		model.WithRand(rand.New(rand.NewSource(time.Now().UnixNano()))),
	}
	if s.Settings.Layout != "" {
		g, err := Load(s.Settings.Layout)
		if err != nil {
			log.Errorf("ERR LOADING %v, starting empty", err)
		} else {
			opts = append(opts, model.WithGrid(g))
		}
	}
	return model.NewEngine(s.Settings.Cols, s.Settings.Rows, opts...)
}
