package parameter

// Terminal layout
const (
	// HeaderRows is reserved above the patches for prompts
	HeaderRows = 2

	// FooterRows is reserved below the patches for labels and the status bar
	FooterRows = 3

	// MinCols and MinRows are the smallest terminal the world can be drawn in
	MinCols = 40
	MinRows = 12
)

// Glyphs
const (
	GlyphDot      = '●'
	GlyphHLine    = '─'
	GlyphVLine    = '│'
	GlyphCornerTL = '┌'
	GlyphCornerTR = '┐'
	GlyphCornerBL = '└'
	GlyphCornerBR = '┘'
)
