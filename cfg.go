package main

import (
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/ebitenutil"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/puyo/client"
	"github.com/zucenko/puyo/model"
)

// Load reads a starting board shipped next to the binary.
func Load(path string) (model.Grid, error) {
	file, err := ebitenutil.OpenFile(path)
	if err != nil {
		return model.Grid{}, err
	}
	defer file.Close()
	return model.ReadGrid(file)
}

func newDriver(settings client.Settings) (client.Driver, error) {
	if settings.Server != "" {
		log.Infof("connecting to %s", settings.Server)
		remote, err := client.Dial(settings.Server)
		if err != nil {
			return nil, err
		}
		return remote, nil
	}
	opts := []model.Option{
		model.WithRand(rand.New(rand.NewSource(time.Now().UnixNano()))),
	}
	if settings.Layout != "" {
		g, err := Load(settings.Layout)
		if err != nil {
			log.Printf("failed loading layout %s: %v", settings.Layout, err)
		} else {
			opts = append(opts, model.WithGrid(g))
		}
	}
	return client.NewLocalDriver(settings, model.NewEngine(model.DefaultCols, model.DefaultRows, opts...)), nil
}
