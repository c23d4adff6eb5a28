package store

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvillar/signpdf/fields"
)

func sampleState(t *testing.T) fields.EditingState {
	t.Helper()
	s := fields.NewSession()
	_, err := s.AddField(1, fields.Signature, nil)
	require.NoError(t, err)
	_, err = s.AddField(2, fields.Date, nil)
	require.NoError(t, err)
	return s.State("data:image/png;base64,AAAA")
}

func testStore(t *testing.T, st Store) {
	ctx := context.Background()
	key := Key("contract.pdf")

	_, err := st.Load(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	want := sampleState(t)
	require.NoError(t, st.Save(ctx, key, want))

	got, err := st.Load(ctx, key)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("loaded state mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, st.Delete(ctx, key))
	_, err = st.Load(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, st.Delete(ctx, key), "deleting a missing key is not an error")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, st.Save(cancelled, key, want), context.Canceled)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	state := sampleState(t)
	require.NoError(t, st.Save(ctx, "k", state))

	state.Fields[1][0].Label = "changed after save"
	got, err := st.Load(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, got.Fields[1][0].Label)
}

func TestFileStore(t *testing.T) {
	fsys := afero.NewMemMapFs()
	st, err := NewFileStore(fsys, "/data/sessions", nil)
	require.NoError(t, err)
	testStore(t, st)
}

func TestFileStoreLayout(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	st, err := NewFileStore(fsys, "/data", nil)
	require.NoError(t, err)

	require.NoError(t, st.Save(ctx, Key("Q3 report/final.pdf"), sampleState(t)))
	ok, err := afero.Exists(fsys, "/data/Q3_report_final.pdf-f5331083.json")
	require.NoError(t, err)
	assert.True(t, ok)

	keys, err := st.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sigapp:Q3 report/final.pdf"}, keys)

	require.NoError(t, afero.WriteFile(fsys, "/data/broken.json", []byte("{"), 0o644))
	_, err = st.Load(ctx, Key("broken"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"sigapp:contract.pdf": "contract.pdf.json",
		"sigapp:../../etc":    "_.._etc-74ccf3c5.json",
		"sigapp:":             "_-e3b0c442.json",
		"plain key":           "plain_key-21e19b51.json",
		"sigapp:a_b":          "a_b.json",
	}
	for in, want := range tests {
		assert.Equal(t, want, FileName(in), in)
	}
}

func TestFileStoreDistinctKeys(t *testing.T) {
	ctx := context.Background()
	st, err := NewFileStore(afero.NewMemMapFs(), "/data", nil)
	require.NoError(t, err)

	names := []string{"a b", "a/b", "a_b"}
	for i, name := range names {
		state := sampleState(t)
		state.SignatureDataURL = name
		require.NoError(t, st.Save(ctx, Key(name), state), i)
	}
	for _, name := range names {
		got, err := st.Load(ctx, Key(name))
		require.NoError(t, err)
		assert.Equal(t, name, got.SignatureDataURL)
	}

	keys, err := st.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sigapp:a b", "sigapp:a/b", "sigapp:a_b"}, keys)
}
