// Package pagesize resolves named page sizes and orientations to absolute
// dimensions in PDF points.
package pagesize

import "strings"

// Orientation of a page.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Size is a page size in points.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Named page sizes.
const (
	Letter  = "LETTER"
	A4      = "A4"
	Legal   = "LEGAL"
	Tabloid = "TABLOID"
	A5      = "A5"
)

var named = map[string]Size{
	Letter:  {612, 792},
	A4:      {595.28, 841.89},
	Legal:   {612, 1008},
	Tabloid: {792, 1224},
	A5:      {419.53, 595.28},
}

// Names returns the supported size names in a stable order.
func Names() []string {
	return []string{Letter, A4, Legal, Tabloid, A5}
}

// Known reports whether name is a supported size name (case-insensitive).
func Known(name string) bool {
	_, ok := named[strings.ToUpper(strings.TrimSpace(name))]
	return ok
}

// Lookup returns the portrait dimensions of a named size.
func Lookup(name string) (Size, bool) {
	s, ok := named[strings.ToUpper(strings.TrimSpace(name))]
	return s, ok
}

// Resolve returns the dimensions of the named size in the given orientation.
// Unknown names fall back to Letter; Resolve never fails.
func Resolve(name string, o Orientation) Size {
	base, ok := Lookup(name)
	if !ok {
		base = named[Letter]
	}
	return orient(base, o)
}

// ResolveCustom orients an explicit width and height. Non-positive
// dimensions fall back to Letter.
func ResolveCustom(width, height float64, o Orientation) Size {
	if width <= 0 || height <= 0 {
		return orient(named[Letter], o)
	}
	return orient(Size{Width: width, Height: height}, o)
}

// ParseOrientation maps "landscape"/"L" to Landscape and anything else to Portrait.
func ParseOrientation(s string) Orientation {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "landscape", "l":
		return Landscape
	default:
		return Portrait
	}
}

func orient(s Size, o Orientation) Size {
	if o == Landscape {
		return Size{Width: s.Height, Height: s.Width}
	}
	return s
}
