// Package fields holds the editable field model: typed fields placed on
// document pages in normalized coordinates, the signers they can be assigned
// to, and a Session that owns the per-page collection together with its
// undo/redo history.
package fields

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lvillar/signpdf/geometry"
)

// Type is the kind of a field.
type Type string

const (
	Signature Type = "signature"
	Text      Type = "text"
	Checkbox  Type = "checkbox"
	Date      Type = "date"
)

// Types lists every field type.
var Types = []Type{Signature, Text, Checkbox, Date}

var (
	ErrInvalidPage = errors.New("fields: page numbers start at 1")
	ErrUnknownType = errors.New("fields: unknown field type")
)

// Valid reports whether t is a known field type.
func (t Type) Valid() bool {
	switch t {
	case Signature, Text, Checkbox, Date:
		return true
	}
	return false
}

// ParseType parses a field type name (case-insensitive).
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

// DefaultRect returns the rectangle a new field of type t starts with.
func DefaultRect(t Type) geometry.Rect {
	if t == Signature {
		return geometry.Rect{X: 0.1, Y: 0.1, W: 0.25, H: 0.08}
	}
	return geometry.Rect{X: 0.1, Y: 0.1, W: 0.18, H: 0.06}
}

// Field is a typed annotation placed on a page. The rectangle is embedded so
// that x, y, w and h serialize at the top level of the field.
type Field struct {
	ID   string `json:"id"`
	Page int    `json:"page"`
	geometry.Rect
	Type     Type   `json:"type"`
	Label    string `json:"label,omitempty"`
	SignerID string `json:"signerId,omitempty"`
}

// Patch is a partial update. Nil members are left unchanged.
type Patch struct {
	Rect     *geometry.Rect
	Label    *string
	SignerID *string
}

// RectPatch returns a Patch that only moves or resizes a field.
func RectPatch(r geometry.Rect) Patch { return Patch{Rect: &r} }

// LabelPatch returns a Patch that only changes the label.
func LabelPatch(s string) Patch { return Patch{Label: &s} }

func (p Patch) apply(f Field) Field {
	if p.Rect != nil {
		f.Rect = geometry.ClampField(*p.Rect)
	}
	if p.Label != nil {
		f.Label = *p.Label
	}
	if p.SignerID != nil {
		f.SignerID = *p.SignerID
	}
	return f
}

// FieldsByPage maps 1-based page numbers to the fields on that page, in
// insertion order. Later fields draw on top of earlier ones.
type FieldsByPage map[int][]Field

// Clone returns a deep copy of fbp. Pages without fields are dropped.
func (fbp FieldsByPage) Clone() FieldsByPage {
	out := make(FieldsByPage, len(fbp))
	for page, list := range fbp {
		if len(list) == 0 {
			continue
		}
		out[page] = append([]Field(nil), list...)
	}
	return out
}

// Pages returns the page numbers that hold at least one field, ascending.
func (fbp FieldsByPage) Pages() []int {
	pages := make([]int, 0, len(fbp))
	for page, list := range fbp {
		if len(list) > 0 {
			pages = append(pages, page)
		}
	}
	sort.Ints(pages)
	return pages
}

// Count returns the total number of fields.
func (fbp FieldsByPage) Count() int {
	n := 0
	for _, list := range fbp {
		n += len(list)
	}
	return n
}

// Signer is a named slot fields can be assigned to. ColorClass is an opaque
// styling hint for editors.
type Signer struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ColorClass string `json:"colorClass"`
}

// DefaultSigners returns the two signers every new session starts with.
func DefaultSigners() []Signer {
	return []Signer{
		{ID: "s1", Name: "Signer 1", ColorClass: "border-emerald-500"},
		{ID: "s2", Name: "Signer 2", ColorClass: "border-amber-500"},
	}
}

// EditingState is the serializable state of an editing session, as kept by
// a persistence collaborator under a per-document key.
type EditingState struct {
	Fields           FieldsByPage `json:"fields"`
	SignatureDataURL string       `json:"signatureDataUrl,omitempty"`
	Signers          []Signer     `json:"signers,omitempty"`
}
