package formatter

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	tt "github.com/gnoswap-labs/gsg/internal/types"
)

// DefaultTemplate prints `<display-name>: <rendered-text>`.
const DefaultTemplate = "{{file .Filename}}: {{.Text}}"

// LineFormatter formats output lines through a text/template. The template
// sees a types.Line and the functions file (colored file name) and
// oneline (joins lines with a space).
type LineFormatter struct {
	tmpl      *template.Template
	fileStyle *color.Color
}

// New parses format, or DefaultTemplate when format is empty. Color is
// forced on or off regardless of the terminal.
func New(format string, colorize bool) (*LineFormatter, error) {
	if format == "" {
		format = DefaultTemplate
	}

	fileStyle := color.New(color.FgMagenta, color.Bold)
	if colorize {
		fileStyle.EnableColor()
	} else {
		fileStyle.DisableColor()
	}

	funcMap := template.FuncMap{
		"file": func(name string) string {
			return fileStyle.Sprint(name)
		},
		"oneline": func(s string) string {
			return strings.Join(strings.Fields(s), " ")
		},
	}

	tmpl, err := template.New("line").Funcs(funcMap).Parse(format)
	if err != nil {
		return nil, fmt.Errorf("invalid output format: %w", err)
	}
	return &LineFormatter{tmpl: tmpl, fileStyle: fileStyle}, nil
}

// Format renders one line, without a trailing newline.
func (f *LineFormatter) Format(line tt.Line) (string, error) {
	var b strings.Builder
	if err := f.tmpl.Execute(&b, line); err != nil {
		return "", fmt.Errorf("formatting line: %w", err)
	}
	return b.String(), nil
}

// FormatAll renders lines, each terminated by a newline.
func (f *LineFormatter) FormatAll(lines []tt.Line) (string, error) {
	var b strings.Builder
	for _, line := range lines {
		s, err := f.Format(line)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
