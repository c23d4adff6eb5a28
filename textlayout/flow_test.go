package textlayout

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapParagraphs(t *testing.T) {
	lines := Wrap("one two\n\nthree", 100, 10, WrapOptions{ParagraphSpacing: true}, mono)
	require.Len(t, lines, 4)
	assert.Equal(t, Line{Text: "one two", Paragraph: 0, First: true}, lines[0])
	assert.True(t, lines[1].Blank)
	assert.True(t, lines[2].Blank, "empty paragraph still contributes spacing")
	assert.Equal(t, Line{Text: "three", Paragraph: 2, First: true}, lines[3])
}

func TestWrapMaxParagraphs(t *testing.T) {
	lines := Wrap("a\nb\nc\nd", 100, 10, WrapOptions{MaxParagraphs: 2}, mono)
	assert.Equal(t, 2, ContentLines(lines))
}

func TestFlowMaxLinesEllipsis(t *testing.T) {
	var paras []string
	for i := 1; i <= 40; i++ {
		paras = append(paras, fmt.Sprintf("Paragraph %d lorem ipsum dolor sit amet.", i))
	}
	lines := Wrap(strings.Join(paras, "\n"), 400, 10, WrapOptions{ParagraphSpacing: true}, mono)

	res := Flow(lines, FlowOptions{MaxLines: 3, Ellipsis: true})
	assert.True(t, res.Truncated)
	assert.True(t, res.Ellipsis)
	assert.Equal(t, 3, ContentLines(res.Lines))
	assert.False(t, res.Lines[len(res.Lines)-1].Blank)
}

func TestFlowVerticalCap(t *testing.T) {
	lines := Wrap("a\nb\nc\nd\ne", 100, 10, WrapOptions{}, mono)
	res := Flow(lines, FlowOptions{MaxHeight: 36, LineHeight: 12})
	assert.Len(t, res.Lines, 3)
	assert.True(t, res.Truncated)
	assert.False(t, res.Ellipsis, "ellipsis not requested")
}

func TestFlowNoTruncation(t *testing.T) {
	lines := Wrap("a\nb", 100, 10, WrapOptions{ParagraphSpacing: true}, mono)
	res := Flow(lines, FlowOptions{MaxLines: 2, Ellipsis: true})
	assert.False(t, res.Truncated)
	assert.False(t, res.Ellipsis)
	assert.Len(t, res.Lines, 3)
}
