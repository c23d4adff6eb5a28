package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvillar/signpdf/pageops"
)

func newEnv() (*env, *bytes.Buffer) {
	var out bytes.Buffer
	return &env{fs: afero.NewMemMapFs(), stdout: &out, stderr: &bytes.Buffer{}}, &out
}

func TestRunUsage(t *testing.T) {
	e, _ := newEnv()
	assert.ErrorIs(t, run(context.Background(), e, nil), errUsage)
	assert.ErrorIs(t, run(context.Background(), e, []string{"sign"}), errUsage)
}

func TestGenerateInfoFlatten(t *testing.T) {
	ctx := context.Background()
	e, out := newEnv()

	require.NoError(t, run(ctx, e, []string{"generate", "--title", "Lease", "--pages", "2", "-o", "/in.pdf"}))

	require.NoError(t, run(ctx, e, []string{"info", "/in.pdf"}))
	var info pageops.Info
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, 2, info.PageCount)
	assert.InDelta(t, 612, info.Pages[0].Width, 0.01)

	fieldsJSON := `{"fields": {"2": [{"id": "d", "type": "date", "x": 0.1, "y": 0.8, "w": 0.2, "h": 0.05}]}}`
	require.NoError(t, afero.WriteFile(e.fs, "/fields.json", []byte(fieldsJSON), 0o644))

	require.NoError(t, run(ctx, e, []string{"flatten", "--fields", "/fields.json", "--audit-trail", "-o", "/out.pdf", "/in.pdf"}))
	data, err := afero.ReadFile(e.fs, "/out.pdf")
	require.NoError(t, err)
	got, err := pageops.Probe(data)
	require.NoError(t, err)
	assert.Equal(t, 3, got.PageCount)
}

func TestValidateRejects(t *testing.T) {
	e, out := newEnv()
	require.NoError(t, afero.WriteFile(e.fs, "/fake.pdf", []byte("not a pdf at all"), 0o644))

	err := run(context.Background(), e, []string{"validate", "/fake.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")
	assert.True(t, strings.Contains(out.String(), `"ok": false`))
}

func TestParseFields(t *testing.T) {
	bare, err := parseFields([]byte(`{"1": [{"id": "a", "type": "text", "x": 0.1, "y": 0.1, "w": 0.2, "h": 0.05}]}`))
	require.NoError(t, err)
	assert.Equal(t, 1, bare.Count())

	wrapped, err := parseFields([]byte(`{"fields": {"3": [{"id": "b", "type": "checkbox"}]}}`))
	require.NoError(t, err)
	assert.Len(t, wrapped[3], 1)

	_, err = parseFields([]byte(`[1, 2]`))
	assert.Error(t, err)
}
