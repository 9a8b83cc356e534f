package excelformat

// Style aspects understood by the writers.
const (
	AspectFont      = "font"
	AspectPattern   = "pattern"
	AspectAlignment = "alignment"
	AspectBorders   = "borders"
)

// Descriptor describes the visual style of one cell as aspect -> property -> value,
// e.g. {"font": {"bold": true}, "pattern": {"pattern": "solid_fill", "fore_color": "red"}}.
// A nil Descriptor means "no style".
type Descriptor map[string]map[string]interface{}

// Clone returns a deep copy of d. Property values are copied by assignment.
func (d Descriptor) Clone() Descriptor {
	if d == nil {
		return nil
	}
	out := make(Descriptor, len(d))
	for aspect, props := range d {
		cp := make(map[string]interface{}, len(props))
		for k, v := range props {
			cp[k] = v
		}
		out[aspect] = cp
	}
	return out
}

// Merge copies every property of other into d, overriding properties d already has.
// Properties of d that other does not mention are kept.
func (d Descriptor) Merge(other Descriptor) {
	for aspect, props := range other {
		dst, ok := d[aspect]
		if !ok || dst == nil {
			dst = make(map[string]interface{}, len(props))
			d[aspect] = dst
		}
		for k, v := range props {
			dst[k] = v
		}
	}
}

// IsEmpty reports whether d carries no property at all.
func (d Descriptor) IsEmpty() bool {
	for _, props := range d {
		if len(props) > 0 {
			return false
		}
	}
	return true
}

// HeaderStyle is the default style of header and index cells.
func HeaderStyle() Descriptor {
	return Descriptor{
		AspectFont: {"bold": true},
		AspectBorders: {
			"top":    "thin",
			"right":  "thin",
			"bottom": "thin",
			"left":   "thin",
		},
		AspectAlignment: {"horizontal": "center", "vertical": "top"},
	}
}

// CellKind tells header, index and data cells apart.
type CellKind int

const (
	KindData CellKind = iota
	KindHeader
	KindIndex
)

func (k CellKind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindIndex:
		return "index"
	default:
		return "data"
	}
}

// Cell is one formatted cell on its way to a writer. Row and Col are 0-based and
// relative to the export start offsets.
type Cell struct {
	Row   int
	Col   int
	Value interface{}
	Style Descriptor
	Kind  CellKind

	// MergeEndRow/MergeEndCol are the inclusive end of a merged range starting at
	// (Row, Col). Both are zero when the cell is not merged.
	MergeEndRow int
	MergeEndCol int
}

// Merged reports whether the cell spans more than itself.
func (c *Cell) Merged() bool {
	return c.MergeEndRow > c.Row || c.MergeEndCol > c.Col
}
