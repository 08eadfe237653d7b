package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette hex values
const (
	HexBackground = "#000000"
	HexDot        = "#FFFFFF"
	HexText       = "#D0D0D0"
	HexCorrect    = "#32FF32"
	HexIncorrect  = "#FF5050"
	HexSelected   = "#FFD700"
	HexStatusBg   = "#87CEFA"
	HexStatusText = "#000000"
)

// Theme holds resolved terminal colours
type Theme struct {
	Background tcell.Color
	Outline    tcell.Color
	Dot        tcell.Color
	Text       tcell.Color
	Correct    tcell.Color
	Incorrect  tcell.Color
	Selected   tcell.Color
	StatusBg   tcell.Color
	StatusText tcell.Color
}

// HexColor parses #RRGGBB, falling back to def on malformed input
func HexColor(hex string, def tcell.Color) tcell.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return def
	}
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// NewTheme resolves the palette; outline comes from the patch geometry
func NewTheme(outlineHex string) Theme {
	return Theme{
		Background: HexColor(HexBackground, tcell.ColorBlack),
		Outline:    HexColor(outlineHex, tcell.ColorWhite),
		Dot:        HexColor(HexDot, tcell.ColorWhite),
		Text:       HexColor(HexText, tcell.ColorWhite),
		Correct:    HexColor(HexCorrect, tcell.ColorGreen),
		Incorrect:  HexColor(HexIncorrect, tcell.ColorRed),
		Selected:   HexColor(HexSelected, tcell.ColorYellow),
		StatusBg:   HexColor(HexStatusBg, tcell.ColorBlue),
		StatusText: HexColor(HexStatusText, tcell.ColorBlack),
	}
}

// Blend mixes two hex colours in Lab space, t in [0,1]
func Blend(fromHex, toHex string, t float64) tcell.Color {
	a, errA := colorful.Hex(fromHex)
	b, errB := colorful.Hex(toHex)
	if errA != nil || errB != nil {
		return tcell.ColorDefault
	}
	r, g, bl := a.BlendLab(b, t).Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(bl))
}
