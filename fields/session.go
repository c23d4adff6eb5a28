package fields

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/lvillar/signpdf/geometry"
)

// Session owns the fields of one open document and their history.
//
// Every mutation pushes the state it replaces onto the undo stack and clears
// the redo stack, so an immediately following Undo restores the previous
// state exactly. Snapshots are deep copies.
//
// A Session is not safe for concurrent use; it has a single owner.
type Session struct {
	fields  FieldsByPage
	undo    []FieldsByPage
	redo    []FieldsByPage
	signers []Signer

	newID func() string
	limit int

	batchDepth int
	batchSaved bool
}

// Option configures a Session.
type Option func(*Session)

// WithIDGenerator replaces the random UUID generator used for new fields.
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) { s.newID = fn }
}

// WithHistoryLimit caps the undo stack at n entries, dropping the oldest.
// Zero means unlimited.
func WithHistoryLimit(n int) Option {
	return func(s *Session) { s.limit = n }
}

// WithSigners replaces the default signers.
func WithSigners(signers []Signer) Option {
	return func(s *Session) { s.signers = append([]Signer(nil), signers...) }
}

// NewSession returns an empty session with the default signers.
func NewSession(opts ...Option) *Session {
	s := &Session{
		fields:  FieldsByPage{},
		signers: DefaultSigners(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// checkpoint records the current state before a mutation. Inside a batch
// only the first mutation is recorded.
func (s *Session) checkpoint() {
	if s.batchDepth > 0 {
		if s.batchSaved {
			return
		}
		s.batchSaved = true
	}
	s.undo = append(s.undo, s.fields.Clone())
	if s.limit > 0 && len(s.undo) > s.limit {
		s.undo = s.undo[len(s.undo)-s.limit:]
	}
	s.redo = nil
}

// BeginBatch groups the following mutations into a single undo step until
// the matching EndBatch. Batches nest.
func (s *Session) BeginBatch() {
	if s.batchDepth == 0 {
		s.batchSaved = false
	}
	s.batchDepth++
}

// EndBatch closes the innermost batch.
func (s *Session) EndBatch() {
	if s.batchDepth > 0 {
		s.batchDepth--
	}
}

// AddField appends a new field of type t to page. The type's default
// rectangle is used unless init overrides it. The result is clamped to the
// page.
func (s *Session) AddField(page int, t Type, init *Patch) (Field, error) {
	if page < 1 {
		return Field{}, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}
	if !t.Valid() {
		return Field{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}

	f := Field{ID: s.newID(), Page: page, Rect: DefaultRect(t), Type: t}
	if init != nil {
		f = init.apply(f)
	}
	f.Rect = geometry.ClampField(f.Rect)

	s.checkpoint()
	s.fields[page] = append(s.fields[page], f)
	return f, nil
}

// UpdateField merges p into the field id on page. It reports false, and
// records nothing, when the field does not exist.
func (s *Session) UpdateField(page int, id string, p Patch) bool {
	i := s.index(page, id)
	if i < 0 {
		return false
	}
	s.checkpoint()
	list := append([]Field(nil), s.fields[page]...)
	list[i] = p.apply(list[i])
	s.fields[page] = list
	return true
}

// RemoveField deletes the field id from page. It reports false, and records
// nothing, when the field does not exist.
func (s *Session) RemoveField(page int, id string) bool {
	i := s.index(page, id)
	if i < 0 {
		return false
	}
	s.checkpoint()
	old := s.fields[page]
	list := make([]Field, 0, len(old)-1)
	list = append(list, old[:i]...)
	list = append(list, old[i+1:]...)
	if len(list) == 0 {
		delete(s.fields, page)
	} else {
		s.fields[page] = list
	}
	return true
}

// SetAll replaces every field, e.g. after loading saved state. Page numbers
// below 1 are dropped; rectangles are clamped and each field's Page is set
// from its map key.
func (s *Session) SetAll(state FieldsByPage) {
	s.checkpoint()
	next := FieldsByPage{}
	for page, list := range state {
		if page < 1 || len(list) == 0 {
			continue
		}
		out := make([]Field, len(list))
		for i, f := range list {
			f.Page = page
			f.Rect = geometry.ClampField(f.Rect)
			out[i] = f
		}
		next[page] = out
	}
	s.fields = next
}

// Clear removes every field.
func (s *Session) Clear() {
	s.checkpoint()
	s.fields = FieldsByPage{}
}

// Undo restores the state before the last mutation. It reports false when
// there is nothing to undo.
func (s *Session) Undo() bool {
	if len(s.undo) == 0 {
		return false
	}
	s.redo = append(s.redo, s.fields)
	s.fields = s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	// the next mutation of an open batch starts a new undo step
	s.batchSaved = false
	return true
}

// Redo reapplies the last undone mutation. It reports false when there is
// nothing to redo.
func (s *Session) Redo() bool {
	if len(s.redo) == 0 {
		return false
	}
	s.undo = append(s.undo, s.fields)
	s.fields = s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.batchSaved = false
	return true
}

// CanUndo reports whether Undo would change the state.
func (s *Session) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether Redo would change the state.
func (s *Session) CanRedo() bool { return len(s.redo) > 0 }

// Fields returns a deep copy of the current state.
func (s *Session) Fields() FieldsByPage { return s.fields.Clone() }

// Page returns a copy of the fields on page.
func (s *Session) Page(page int) []Field {
	return append([]Field(nil), s.fields[page]...)
}

// Field looks up a single field.
func (s *Session) Field(page int, id string) (Field, bool) {
	i := s.index(page, id)
	if i < 0 {
		return Field{}, false
	}
	return s.fields[page][i], true
}

func (s *Session) index(page int, id string) int {
	for i, f := range s.fields[page] {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// Signers returns a copy of the session's signers.
func (s *Session) Signers() []Signer {
	return append([]Signer(nil), s.signers...)
}

// AddSigner appends a signer with the next free "s<n>" id.
func (s *Session) AddSigner(name, colorClass string) Signer {
	n := len(s.signers) + 1
	for s.signer("s"+strconv.Itoa(n)) >= 0 {
		n++
	}
	sg := Signer{ID: "s" + strconv.Itoa(n), Name: name, ColorClass: colorClass}
	s.signers = append(s.signers, sg)
	return sg
}

// AssignSigner sets the signer of a field. An empty signerID unassigns it.
// It reports false when the field or the signer does not exist.
func (s *Session) AssignSigner(page int, id, signerID string) bool {
	if signerID != "" && s.signer(signerID) < 0 {
		return false
	}
	return s.UpdateField(page, id, Patch{SignerID: &signerID})
}

func (s *Session) signer(id string) int {
	for i, sg := range s.signers {
		if sg.ID == id {
			return i
		}
	}
	return -1
}

// State returns the serializable state of the session.
func (s *Session) State(signatureDataURL string) EditingState {
	return EditingState{
		Fields:           s.fields.Clone(),
		SignatureDataURL: signatureDataURL,
		Signers:          s.Signers(),
	}
}

// Restore replaces the fields (as one undoable step) and, when st carries
// any, the signers.
func (s *Session) Restore(st EditingState) {
	s.SetAll(st.Fields)
	if len(st.Signers) > 0 {
		s.signers = append([]Signer(nil), st.Signers...)
	}
}
