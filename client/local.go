package client

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/puyo/model"
)

// LocalDriver plays offline. It counts frame time to tick the engine and
// to commit pending clears.
type LocalDriver struct {
	Engine       *model.Engine
	Settings     Settings
	sinceTick    time.Duration
	sincePending time.Duration
}

func NewLocalDriver(settings Settings, engine *model.Engine) *LocalDriver {
	return &LocalDriver{
		Engine:   engine,
		Settings: settings,
	}
}

func (d *LocalDriver) Send(c model.Command) {
	if !playerCommand(c) {
		log.Warnf("LocalDriver refusing %s", c.Name())
		return
	}
	d.Engine.Apply(c)
	if c == model.CMD_RESET {
		d.sinceTick = 0
		d.sincePending = 0
	}
}

func (d *LocalDriver) Update(dt time.Duration) {
	if len(d.Engine.Pending()) > 0 {
		d.sincePending += dt
		if d.sincePending >= d.Settings.ClearDelay {
			d.sincePending = 0
			d.Engine.CommitRemoval()
		}
		return
	}
	d.sinceTick += dt
	if d.sinceTick >= d.Settings.TickInterval {
		d.sinceTick = 0
		d.Engine.Tick()
	}
}

func (d *LocalDriver) Snapshot() model.Snapshot {
	return d.Engine.Snapshot()
}

func (d *LocalDriver) Events() []model.Event {
	return d.Engine.Events()
}

func (d *LocalDriver) Close() error {
	return nil
}
