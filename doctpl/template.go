package doctpl

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	templateLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Placeholder", Pattern: `\{[A-Za-z]+\}`},
		{Name: "Text", Pattern: `[^{]+|\{`},
	})

	templateParser = participle.MustBuild[Template](
		participle.Lexer(templateLexer),
	)
)

// Template is a parsed footer or page-number template: literal text mixed
// with {name} placeholders.
type Template struct {
	Parts []*TemplatePart `parser:"@@*"`
}

// TemplatePart is either a placeholder or a literal run.
type TemplatePart struct {
	Placeholder string `parser:"  @Placeholder"`
	Text        string `parser:"| @Text"`
}

// ParseTemplate parses s into a Template.
func ParseTemplate(s string) (*Template, error) {
	if s == "" {
		return &Template{}, nil
	}
	t, err := templateParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("doctpl: parsing template %q: %w", s, err)
	}
	return t, nil
}

// Execute substitutes vars into the template. Placeholders without a value
// are written literally.
func (t *Template) Execute(vars map[string]string) string {
	var b strings.Builder
	for _, p := range t.Parts {
		if p.Placeholder == "" {
			b.WriteString(p.Text)
			continue
		}
		name := strings.Trim(p.Placeholder, "{}")
		if v, ok := vars[name]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(p.Placeholder)
		}
	}
	return b.String()
}

// Placeholders returns the placeholder names used by the template, in order.
func (t *Template) Placeholders() []string {
	var names []string
	for _, p := range t.Parts {
		if p.Placeholder != "" {
			names = append(names, strings.Trim(p.Placeholder, "{}"))
		}
	}
	return names
}

// Expand parses and executes s in one step.
func Expand(s string, vars map[string]string) (string, error) {
	t, err := ParseTemplate(s)
	if err != nil {
		return "", err
	}
	return t.Execute(vars), nil
}
