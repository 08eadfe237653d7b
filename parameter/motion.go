package parameter

// Screen Geometry
const (
	// DefaultDPI is the CSS reference density used when no physical size is configured
	DefaultDPI = 96.0

	// MMPerInch converts inches to millimeters
	MMPerInch = 25.4
)

// Patch Geometry
const (
	// PatchOutlineThickness is the patch border width in pixels
	PatchOutlineThickness = 1.0

	// PatchOutlineColor is the patch border colour (hex, parsed by the renderer)
	PatchOutlineColor = "#FFFFFF"

	// TutorialPatchScale shrinks tutorial patches and gap (1/1.4)
	TutorialPatchScale = 1 / 1.4
)

// Dot Placement
const (
	// DotSpawnSeparationMultiplier widens the placement grid step beyond the minimum separation
	DotSpawnSeparationMultiplier = 1.5

	// MaxPlacementAttempts bounds rejection sampling per dot in random placement mode
	MaxPlacementAttempts = 1000
)

// Quadtree Limits
const (
	// QuadTreeMaxObjects is the object count a node holds before subdividing
	QuadTreeMaxObjects = 10

	// QuadTreeMaxLevels is the deepest subdivision level
	QuadTreeMaxLevels = 5
)

// Feedback Timing
const (
	// SelectedFeedbackDivisor shortens the patch-selected phase relative to FeedbackTimeMs
	SelectedFeedbackDivisor = 2.5
)
