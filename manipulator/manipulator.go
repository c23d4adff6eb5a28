// Package manipulator implements the direct-manipulation state machine used
// to place fields on a page: select, drag, resize from a corner handle, and
// keyboard nudging, with alignment guides against the page and sibling
// fields.
//
// Pointer positions are display pixels. They are converted to normalized
// deltas with the current page display size, applied to the rectangle the
// field had when the gesture started, snapped to the grid and clamped before
// being committed. Intermediate moves are coalesced through a Scheduler: at
// most one commit is pending at a time, and PointerUp always commits the
// final position synchronously.
package manipulator

import (
	"math"
	"strings"

	"github.com/lvillar/signpdf/fields"
	"github.com/lvillar/signpdf/geometry"
)

// Keyboard nudge steps in normalized units.
const (
	FineStep   = 0.0025
	CoarseStep = 0.01
)

// Mode is the gesture state.
type Mode int

const (
	Idle Mode = iota
	Dragging
	Resizing
)

// String returns the lower-case mode name.
func (m Mode) String() string {
	switch m {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Corner identifies a resize handle.
type Corner string

const (
	NW Corner = "nw"
	NE Corner = "ne"
	SW Corner = "sw"
	SE Corner = "se"
)

// Committer receives the field changes produced by gestures.
// *fields.Session implements it.
type Committer interface {
	Page(page int) []fields.Field
	UpdateField(page int, id string, p fields.Patch) bool
	RemoveField(page int, id string) bool
	BeginBatch()
	EndBatch()
}

// Option configures a Manipulator.
type Option func(*Manipulator)

// WithScheduler sets how intermediate pointer moves are committed.
// The default commits every move immediately.
func WithScheduler(s Scheduler) Option {
	return func(m *Manipulator) { m.sched = s }
}

// Manipulator tracks the gesture on one displayed page.
type Manipulator struct {
	c     Committer
	sched Scheduler

	page         int
	pageW, pageH float64

	mode     Mode
	corner   Corner
	selected string

	base           geometry.Rect
	startX, startY float64

	pending   *geometry.Rect
	scheduled bool
	guides    []Guide
}

// New returns an idle manipulator committing to c.
func New(c Committer, opts ...Option) *Manipulator {
	m := &Manipulator{c: c, sched: Immediate{}, page: 1}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetPage sets the displayed page and its size in pixels. Switching to another
// page drops the selection.
func (m *Manipulator) SetPage(page int, width, height float64) {
	if page != m.page {
		m.cancel()
		m.selected = ""
	}
	m.page = page
	m.pageW, m.pageH = width, height
}

// Mode returns the current gesture state.
func (m *Manipulator) Mode() Mode { return m.mode }

// Corner returns the active resize handle while resizing.
func (m *Manipulator) Corner() Corner { return m.corner }

// Select marks a field on the current page as selected.
func (m *Manipulator) Select(id string) bool {
	if _, ok := m.field(id); !ok {
		return false
	}
	m.selected = id
	return true
}

// Deselect clears the selection.
func (m *Manipulator) Deselect() { m.selected = "" }

// Selected returns the selected field, if any.
func (m *Manipulator) Selected() (fields.Field, bool) {
	if m.selected == "" {
		return fields.Field{}, false
	}
	return m.field(m.selected)
}

// PointerDown starts dragging the field id from pixel position (x, y).
func (m *Manipulator) PointerDown(id string, x, y float64) bool {
	if m.mode != Idle || !m.Select(id) {
		return false
	}
	return m.begin(Dragging, "", x, y)
}

// PointerDownHandle starts resizing the selected field from a corner handle.
// Handles are only available on the selected field.
func (m *Manipulator) PointerDownHandle(id string, c Corner, x, y float64) bool {
	if m.mode != Idle || id == "" || id != m.selected {
		return false
	}
	switch c {
	case NW, NE, SW, SE:
	default:
		return false
	}
	return m.begin(Resizing, c, x, y)
}

func (m *Manipulator) begin(mode Mode, c Corner, x, y float64) bool {
	f, ok := m.field(m.selected)
	if !ok {
		return false
	}
	m.mode, m.corner = mode, c
	m.base = f.Rect
	m.startX, m.startY = x, y
	m.c.BeginBatch()
	return true
}

// PointerMove updates the active gesture. The resulting rectangle is
// committed on the next scheduler tick.
func (m *Manipulator) PointerMove(x, y float64) {
	if m.mode == Idle {
		return
	}
	r := m.rectAt(x, y)
	m.pending = &r
	m.updateGuides(r)
	if !m.scheduled {
		m.scheduled = true
		m.sched.Schedule(m.flush)
	}
}

// PointerUp ends the gesture, committing the rectangle for (x, y) before it
// returns.
func (m *Manipulator) PointerUp(x, y float64) {
	if m.mode == Idle {
		return
	}
	r := m.rectAt(x, y)
	m.pending = &r
	m.flush()
	m.finish()
}

// Cancel ends the gesture, keeping whatever was already committed.
func (m *Manipulator) Cancel() { m.cancel() }

func (m *Manipulator) cancel() {
	if m.mode == Idle {
		return
	}
	m.pending = nil
	m.finish()
}

func (m *Manipulator) finish() {
	m.mode, m.corner = Idle, ""
	m.guides = nil
	m.c.EndBatch()
}

// flush commits the pending rectangle, if any.
func (m *Manipulator) flush() {
	m.scheduled = false
	if m.pending == nil {
		return
	}
	r := *m.pending
	m.pending = nil
	m.commit(r)
}

func (m *Manipulator) commit(r geometry.Rect) {
	f, ok := m.field(m.selected)
	if !ok || sameRect(f.Rect, r) {
		return
	}
	m.c.UpdateField(m.page, m.selected, fields.RectPatch(r))
}

// rectAt applies the pixel delta from the gesture start to the baseline rect.
func (m *Manipulator) rectAt(x, y float64) geometry.Rect {
	var dx, dy float64
	if m.pageW > 0 {
		dx = (x - m.startX) / m.pageW
	}
	if m.pageH > 0 {
		dy = (y - m.startY) / m.pageH
	}
	b := m.base
	var r geometry.Rect
	switch {
	case m.mode == Dragging:
		r = geometry.Rect{
			X: clamp(b.X+dx, 0, 1-b.W),
			Y: clamp(b.Y+dy, 0, 1-b.H),
			W: b.W,
			H: b.H,
		}
	case m.corner == NW:
		r = geometry.Rect{X: b.X + dx, Y: b.Y + dy, W: b.W - dx, H: b.H - dy}
	case m.corner == NE:
		r = geometry.Rect{X: b.X, Y: b.Y + dy, W: b.W + dx, H: b.H - dy}
	case m.corner == SW:
		r = geometry.Rect{X: b.X + dx, Y: b.Y, W: b.W - dx, H: b.H + dy}
	default: // SE
		r = geometry.Rect{X: b.X, Y: b.Y, W: b.W + dx, H: b.H + dy}
	}
	return geometry.Normalize(r)
}

// KeyDown handles a key press while a field is selected. Arrow keys nudge by
// FineStep when fine is set and by CoarseStep otherwise; Escape deselects;
// Delete and Backspace remove the field. It reports whether the key was used.
func (m *Manipulator) KeyDown(key string, fine bool) bool {
	f, ok := m.Selected()
	if !ok {
		return false
	}
	step := CoarseStep
	if fine {
		step = FineStep
	}
	var dx, dy float64
	switch strings.ToLower(key) {
	case "arrowleft", "left":
		dx = -step
	case "arrowright", "right":
		dx = step
	case "arrowup", "up":
		dy = -step
	case "arrowdown", "down":
		dy = step
	case "escape", "esc":
		m.cancel()
		m.selected = ""
		return true
	case "delete", "backspace":
		m.cancel()
		m.c.RemoveField(m.page, f.ID)
		m.selected = ""
		return true
	default:
		return false
	}
	if m.mode != Idle {
		return false
	}
	r := f.Rect
	r.X = round3(clamp(r.X+dx, 0, 1-r.W))
	r.Y = round3(clamp(r.Y+dy, 0, 1-r.H))
	m.commit(geometry.ClampField(r))
	return true
}

// Guides returns the alignment guides for the active gesture. They are
// empty while idle.
func (m *Manipulator) Guides() []Guide {
	return append([]Guide(nil), m.guides...)
}

func (m *Manipulator) updateGuides(r geometry.Rect) {
	var others []geometry.Rect
	for _, f := range m.c.Page(m.page) {
		if f.ID != m.selected {
			others = append(others, f.Rect)
		}
	}
	m.guides = ComputeGuides(r, others)
}

// SizeBadge returns the pixel size of the selected field on the displayed page.
func (m *Manipulator) SizeBadge() (width, height int, ok bool) {
	f, ok := m.Selected()
	if !ok {
		return 0, 0, false
	}
	p := geometry.ToPixels(f.Rect, m.pageW, m.pageH)
	return int(math.Round(p.Width)), int(math.Round(p.Height)), true
}

func (m *Manipulator) field(id string) (fields.Field, bool) {
	for _, f := range m.c.Page(m.page) {
		if f.ID == id {
			return f, true
		}
	}
	return fields.Field{}, false
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Min(math.Max(v, lo), hi)
}

func sameRect(a, b geometry.Rect) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps &&
		math.Abs(a.W-b.W) < eps && math.Abs(a.H-b.H) < eps
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
