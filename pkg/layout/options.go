package layout

// Options configures a single layout pass. The zero value is not usable;
// start from DefaultOptions and override what you need.
type Options struct {
	// RootHint is the preferred level-0 module. When empty or unknown, the
	// root set falls back to the modules without incoming edges, then to the
	// first module in input order.
	RootHint string

	// Selection restricts the pass to the given module ids; ids of output
	// slots are resolved to their parent modules. Everything outside the
	// selection keeps its position and acts as an immovable obstacle. An
	// empty selection lays out the whole flow.
	Selection []string

	// XSpacing and YSpacing are the grid distances between levels and
	// between siblings within a level.
	XSpacing float64
	YSpacing float64

	// ClusterMultiplier widens the horizontal band reserved per connected
	// component, expressed in level widths.
	ClusterMultiplier float64

	// OffsetX and OffsetY shift level 0 away from the canvas origin.
	OffsetX float64
	OffsetY float64

	// CollisionPadding expands every bounding box before overlap tests.
	CollisionPadding float64

	// CollisionMargin is the extra gap left under a blocking box when a
	// candidate is pushed downward.
	CollisionMargin float64

	// MaxCollisionRetries bounds the downward-push loop per candidate. When
	// the budget is exhausted the last candidate is accepted as-is: a
	// lingering overlap is degraded output, never a failure.
	MaxCollisionRetries int

	// Branching group geometry: an output slot stack below the parent's
	// header, all derived from the slot count and index alone.
	SlotWidth        float64
	SlotHeight       float64
	HeaderHeight     float64
	SlotSpacing      float64
	FirstSlotSpacing float64
	GroupPadding     float64
}

// DefaultOptions returns the spacing and geometry defaults used by the
// editor canvas.
func DefaultOptions() Options {
	return Options{
		XSpacing:            320,
		YSpacing:            160,
		ClusterMultiplier:   4,
		OffsetX:             80,
		OffsetY:             80,
		CollisionPadding:    24,
		CollisionMargin:     40,
		MaxCollisionRetries: 16,
		SlotWidth:           280,
		SlotHeight:          44,
		HeaderHeight:        56,
		SlotSpacing:         12,
		FirstSlotSpacing:    8,
		GroupPadding:        16,
	}
}
