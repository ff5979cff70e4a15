package output

import (
	"fmt"
	"io"
)

type Class int

const (
	Required Class = iota
	Error
	Normal
	Verbose
)

// Printer routes user-facing output by class: errors go to the diagnosis stream, everything else to the terminal.
// Classes not included are dropped.
type Printer struct {
	classes    map[Class]bool
	terminal   io.Writer
	diagnosis  io.Writer
	useEscapes bool
}

func NewPrinter(terminal io.Writer, diagnosis io.Writer, include []Class, allowEscapes bool) (p Printer) {
	p = Printer{
		classes:    map[Class]bool{},
		terminal:   terminal,
		diagnosis:  diagnosis,
		useEscapes: allowEscapes,
	}
	for _, class := range include {
		p.classes[class] = true
	}
	return
}

// ClassesFor yields the output classes matching the quiet/verbose switches.
func ClassesFor(quiet bool, verbose bool) []Class {
	switch {
	case quiet:
		return []Class{Required, Error}
	case verbose:
		return []Class{Required, Error, Normal, Verbose}
	default:
		return []Class{Required, Error, Normal}
	}
}

func (p Printer) Out(class Class, format string, values ...interface{}) {
	if !p.classes[class] {
		return
	}
	target := p.terminal
	if class == Error {
		target = p.diagnosis
		format = TerminalFormatAsError(format, p.useEscapes)
	}
	fmt.Fprintf(target, format, values...)
}

func (p Printer) Escapes() bool {
	return p.useEscapes
}
