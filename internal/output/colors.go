package output

import "github.com/fatih/color"

var (
	dim      = color.New(color.Faint)
	failure  = color.New(color.FgRed)
	positive = color.New(color.FgGreen)
)

// Colors are applied only if escapes are allowed, the global switch of the color package is left alone.

func TerminalFormatAsDim(text string, escapes bool) string {
	return format(dim, text, escapes)
}

func TerminalFormatAsError(text string, escapes bool) string {
	return format(failure, text, escapes)
}

func TerminalFormatAsSuccess(text string, escapes bool) string {
	return format(positive, text, escapes)
}

func format(c *color.Color, text string, escapes bool) string {
	if !escapes {
		return text
	}
	c.EnableColor()
	return c.Sprint(text)
}
