package main

import "github.com/zucenko/puyo/model"

func HexToF32(u uint32) GameColor {
	b := float64(0xff&u) / 255
	g := float64(0xff&(u>>8)) / 255
	r := float64(0xff&(u>>16)) / 255
	return GameColor{r, g, b}
}

type GameColor struct {
	r float64
	g float64
	b float64
}

var COLOR_BACKGROUND = HexToF32(0x1f2937)
var COLOR_FRAME = HexToF32(0x8b5cf6)
var COLOR_HIGHLIGHT = HexToF32(0xffffff)

var COLORS = map[model.Color]GameColor{
	model.COLOR_RED:    HexToF32(0xff6b6b),
	model.COLOR_TEAL:   HexToF32(0x4ecdc4),
	model.COLOR_BLUE:   HexToF32(0x45b7d1),
	model.COLOR_YELLOW: HexToF32(0xfed766),
	model.COLOR_PURPLE: HexToF32(0x8a2be2),
}
