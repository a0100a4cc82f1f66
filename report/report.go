// Package report renders decoded advertisements for the console or as
// JSON lines.
package report

import (
	"github.com/rigado/adscan"
	"github.com/rigado/adscan/adv"
)

// Entry is the decode result of one advertising event.
type Entry struct {
	Adv      *adscan.Advertisement
	Elements []adv.Element
	// Err is nil, or wraps the *adv.MalformedElement that stopped decoding.
	Err error
}

// Formatter writes entries to its output.
type Formatter interface {
	Format(e *Entry) error
}

// FormatterFunc adapts an ordinary function to a Formatter.
type FormatterFunc func(e *Entry) error

// Format calls f(e).
func (f FormatterFunc) Format(e *Entry) error {
	return f(e)
}
