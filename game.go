package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/golang/freetype/truetype"
	"github.com/hajimehoshi/ebiten"
	"github.com/hajimehoshi/ebiten/ebitenutil"
	"github.com/hajimehoshi/ebiten/inpututil"
	"github.com/hajimehoshi/ebiten/text"
	log "github.com/sirupsen/logrus"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/zucenko/puyo/client"
	"github.com/zucenko/puyo/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	size     = 40
	border   = 12
	tileSize = 64
	fps      = 60
)

var screenWidth = model.DefaultCols*size + 2*border
var screenHeight = model.DefaultRows*size + 2*border + 24

// keys are checked in this order, a move pressed together with a drop
// happens first
var keys = []client.Binding{
	{Key: int(ebiten.KeyLeft), Command: model.CMD_LEFT},
	{Key: int(ebiten.KeyRight), Command: model.CMD_RIGHT},
	{Key: int(ebiten.KeyDown), Command: model.CMD_DROP},
	{Key: int(ebiten.KeySpace), Command: model.CMD_DROP},
	{Key: int(ebiten.KeyR), Command: model.CMD_RESET},
}

type Game struct {
	Driver   client.Driver
	Tweens   map[*gween.Tween]*Action
	snapshot model.Snapshot

	tile       *ebiten.Image
	frame      *Nine
	OverLabel  *ebiten.Image
	LostLabel  *ebiten.Image
	lastPiece  model.Piece
	fallOffset float64
	pulse      float64
}

var Font font.Face

func init() {
	tt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		log.Fatal(err)
	}
	const dpi = 72
	Font = truetype.NewFace(tt, &truetype.Options{
		Size:    36,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
}

func NewGame(driver client.Driver) (*Game, error) {
	tile, err := discImage(tileSize)
	if err != nil {
		return nil, err
	}
	frameImg, err := frameImage(border)
	if err != nil {
		return nil, err
	}
	frame := NewNine(frameImg, border, COLOR_FRAME)
	frame.SetBounds(0, 0, screenWidth, model.DefaultRows*size+2*border)

	overLabel, err := prepareTextImage("GAME OVER")
	if err != nil {
		return nil, err
	}
	lostLabel, err := prepareTextImage("OFFLINE")
	if err != nil {
		return nil, err
	}
	return &Game{
		Driver:    driver,
		Tweens:    make(map[*gween.Tween]*Action),
		tile:      tile,
		frame:     frame,
		OverLabel: overLabel,
		LostLabel: lostLabel,
		pulse:     1,
	}, nil
}

func prepareTextImage(s string) (*ebiten.Image, error) {
	image, err := ebiten.NewImage(screenWidth, 60, ebiten.FilterLinear)
	if err != nil {
		return nil, err
	}
	width := font.MeasureString(Font, s).Ceil()
	text.Draw(image, s, Font, (screenWidth-width)/2, 45, color.White)
	return image, nil
}

func (g *Game) input() {
	pressed := client.Pressed(keys, func(key int) bool {
		return inpututil.IsKeyJustPressed(ebiten.Key(key))
	})
	for _, c := range pressed {
		g.Driver.Send(c)
	}
}

func (g *Game) react(evs []model.Event) {
	for _, ev := range evs {
		switch ev.Kind {
		case model.EV_SPAWN:
			g.lastPiece = ev.Piece
		case model.EV_MOVE:
			if ev.Piece.Row > g.lastPiece.Row {
				g.fallOffset = -size
				fall := g.animate(-size, 0, .15, ease.OutQuad, func(v float32) {
					g.fallOffset = float64(v)
				})
				fall.addOnFinish(func() {
					g.fallOffset = 0
				})
			}
			g.lastPiece = ev.Piece
		case model.EV_LOCK:
			g.fallOffset = 0
		case model.EV_PENDING:
			setPulse := func(v float32) {
				g.pulse = float64(v)
			}
			fade := g.animate(1, .2, .2, ease.InOutQuad, setPulse)
			back := fade.next(gween.New(.2, 1, .2, ease.InOutQuad), setPulse)
			back.next(gween.New(1, .2, .1, ease.InOutQuad), setPulse)
		case model.EV_CLEAR:
			log.Infof("chain %d cleared %d cells", ev.Chain, len(ev.Cells))
			g.pulse = 1
		case model.EV_GAME_OVER:
			log.Info("game over")
		case model.EV_RESET:
			g.fallOffset = 0
			g.pulse = 1
		}
	}
}

func (g *Game) update(screen *ebiten.Image) error {
	g.input()
	g.Driver.Update(time.Second / fps)
	g.snapshot = g.Driver.Snapshot()
	g.react(g.Driver.Events())
	g.updateTweens(1.0 / fps)

	if ebiten.IsDrawingSkipped() {
		return nil
	}
	return g.draw(screen)
}

func (g *Game) draw(screen *ebiten.Image) error {
	if err := screen.Fill(color.RGBA{
		uint8(COLOR_BACKGROUND.r * 0xff),
		uint8(COLOR_BACKGROUND.g * 0xff),
		uint8(COLOR_BACKGROUND.b * 0xff),
		0xff}); err != nil {
		return err
	}
	g.frame.Draw(screen)

	s := g.snapshot
	for r, row := range s.Grid.Cells {
		for c, cell := range row {
			if cell == model.COLOR_NONE {
				continue
			}
			coord := model.Coord{Col: c, Row: r}
			alpha := 1.0
			if s.Removing(coord) {
				alpha = g.pulse
			}
			if s.Highlighted(coord) {
				g.drawTile(screen, coord, COLOR_HIGHLIGHT, .35*alpha, 1, 0)
			}
			g.drawTile(screen, coord, COLORS[cell], alpha, .86, 0)
		}
	}
	if s.HasPiece {
		g.drawTile(screen, model.Coord{Col: s.Piece.Col, Row: s.Piece.Row}, COLORS[s.Piece.Color], 1, .86, g.fallOffset)
	}

	if s.Status == model.ST_GAME_OVER {
		g.drawLabel(screen, g.OverLabel)
	} else if remote, ok := g.Driver.(*client.RemoteDriver); ok && !remote.Connected() {
		g.drawLabel(screen, g.LostLabel)
	}

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s  chain:%d", s.Status.Name(), s.Chain), border, screenHeight-20)
	return nil
}

func (g *Game) drawTile(screen *ebiten.Image, c model.Coord, clr GameColor, alpha, scale, dy float64) {
	px := size * scale
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(px/tileSize, px/tileSize)
	op.GeoM.Translate(
		float64(border+c.Col*size)+(size-px)/2,
		float64(border+c.Row*size)+(size-px)/2+dy)
	op.ColorM.Scale(clr.r, clr.g, clr.b, alpha)
	screen.DrawImage(g.tile, op)
}

func (g *Game) drawLabel(screen *ebiten.Image, label *ebiten.Image) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, float64(border+model.DefaultRows*size/2-30))
	screen.DrawImage(label, op)
}

func main() {
	settings, err := client.SettingsFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	driver, err := newDriver(settings)
	if err != nil {
		log.Fatal(err)
	}
	defer driver.Close()

	game, err := NewGame(driver)
	if err != nil {
		log.Fatal(err)
	}
	if err := ebiten.Run(game.update, screenWidth, screenHeight, 1, "Puyo"); err != nil {
		log.Fatal(err)
	}
}
