package errors

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// style is an ANSI SGR parameter list.
type style string

const (
	styleError style = "1;31"
	styleCode  style = "1;37"
	styleHint  style = "36"
	styleMuted style = "90"
	styleLink  style = "34"
)

// plain disables ANSI styling, for output that is not a terminal.
var plain bool

// DisableColors turns ANSI styling off.
func DisableColors() {
	plain = true
}

// EnableColors turns ANSI styling back on.
func EnableColors() {
	plain = false
}

func (s style) apply(text string) string {
	if plain {
		return text
	}
	return "\033[" + string(s) + "m" + text + "\033[0m"
}

// detailWidth is the column at which Format wraps the detail text.
const detailWidth = 70

// Format renders the error for a terminal: a header line, the wrapped
// detail and cause, then the suggestion and documentation link.
func (e *ReactorError) Format() string {
	var b strings.Builder

	header := styleError.apply("ERROR:")
	if e.Code != "" {
		header = styleError.apply("ERROR") + " " + styleCode.apply(e.Code+":")
	}
	fmt.Fprintf(&b, "\n%s %s\n\n", header, e.Message)

	parts := make([]string, 0, 2)
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	if e.Wrapped != nil {
		parts = append(parts, e.Wrapped.Error())
	}
	if lines := wrapText(strings.Join(parts, ": "), detailWidth); len(lines) > 0 {
		for _, line := range lines {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteByte('\n')
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s%s\n\n", styleHint.apply("Hint: "), e.Suggestion)
	}
	if e.DocURL != "" {
		fmt.Fprintf(&b, "  %s%s\n", styleMuted.apply("Learn more: "), styleLink.apply(e.DocURL))
	}
	return b.String()
}

// FormatCompact renders "CODE: Message", or just the message when the
// error has no code.
func (e *ReactorError) FormatCompact() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// wrapText splits text into lines of at most width bytes, breaking on
// whitespace. A single word longer than width gets a line of its own.
func wrapText(text string, width int) []string {
	var (
		lines []string
		line  strings.Builder
	)
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// PrintError writes err to w. A ReactorError anywhere in the chain gets the
// full Format rendering; anything else is printed on one line.
func PrintError(w io.Writer, err error) {
	var re *ReactorError
	if errors.As(err, &re) {
		io.WriteString(w, re.Format())
		return
	}
	fmt.Fprintf(w, "%s %v\n", styleError.apply("Error:"), err)
}
