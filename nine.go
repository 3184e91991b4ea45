package main

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten"
)

// Nine stretches a frame image over any rectangle, the corners keep their
// size and only the edges and the middle are scaled.
type Nine struct {
	image               *ebiten.Image
	corner              int
	color               GameColor
	alpha               float64
	x, y, width, height int
}

func NewNine(img *ebiten.Image, corner int, color GameColor) *Nine {
	return &Nine{image: img, corner: corner, color: color, alpha: 1}
}

func (n *Nine) SetBounds(x, y, width, height int) {
	n.x, n.y = x, y
	n.width, n.height = width, height
}

func (n *Nine) Draw(screen *ebiten.Image) {
	w, h := n.image.Size()
	srcX := [4]int{0, n.corner, w - n.corner, w}
	srcY := [4]int{0, n.corner, h - n.corner, h}
	dstX := [4]int{n.x, n.x + n.corner, n.x + n.width - n.corner, n.x + n.width}
	dstY := [4]int{n.y, n.y + n.corner, n.y + n.height - n.corner, n.y + n.height}

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sub := n.image.SubImage(image.Rect(srcX[i], srcY[j], srcX[i+1], srcY[j+1])).(*ebiten.Image)
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(
				float64(dstX[i+1]-dstX[i])/float64(srcX[i+1]-srcX[i]),
				float64(dstY[j+1]-dstY[j])/float64(srcY[j+1]-srcY[j]))
			op.GeoM.Translate(float64(dstX[i]), float64(dstY[j]))
			op.ColorM.Scale(n.color.r, n.color.g, n.color.b, n.alpha)
			screen.DrawImage(sub, op)
		}
	}
}

// frameImage is a square of 3*corner pixels, opaque border and a faint
// middle.
func frameImage(corner int) (*ebiten.Image, error) {
	size := 3 * corner
	pix := make([]byte, 4*size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			alpha := byte(0x30)
			if x < corner/2 || y < corner/2 || x >= size-corner/2 || y >= size-corner/2 {
				alpha = 0xff
			}
			i := 4 * (y*size + x)
			pix[i], pix[i+1], pix[i+2], pix[i+3] = alpha, alpha, alpha, alpha
		}
	}
	img, err := ebiten.NewImage(size, size, ebiten.FilterDefault)
	if err != nil {
		return nil, err
	}
	return img, img.ReplacePixels(pix)
}

// discImage is a white disc with soft edges used for every cell.
func discImage(size int) (*ebiten.Image, error) {
	pix := make([]byte, 4*size*size)
	radius := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)+.5-radius, float64(y)+.5-radius
			d := radius - math.Sqrt(dx*dx+dy*dy)
			if d <= 0 {
				continue
			}
			alpha := byte(0xff)
			if d < 1 {
				alpha = byte(d * 0xff)
			}
			i := 4 * (y*size + x)
			// premultiplied
			pix[i], pix[i+1], pix[i+2], pix[i+3] = alpha, alpha, alpha, alpha
		}
	}
	img, err := ebiten.NewImage(size, size, ebiten.FilterLinear)
	if err != nil {
		return nil, err
	}
	return img, img.ReplacePixels(pix)
}
