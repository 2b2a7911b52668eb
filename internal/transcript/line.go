// Package transcript understands the raw capture format: the per-line
// grammar, encounter range detection, and the metadata scan that recovers
// instance info and the acting player from a selected range.
package transcript

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrParse reports a line that does not match the capture grammar. It aborts
// the whole run; a fixture is produced fully consistent or not at all.
var ErrParse = errors.New("parse transcript line")

// RawLine is one split capture line. The wall-clock tag between the angle
// brackets is discarded; only the elapsed offset matters for replay.
type RawLine struct {
	Elapsed float64
	Event   string
	Params  string
}

// linePattern matches `<elapsed wallclock> [EVENT] params`.
var linePattern = regexp.MustCompile(`^<([0-9]+(?:\.[0-9]+)?) [^>]*> \[([^\]]+)\] ?(.*)$`)

// ParseLine splits one raw capture line per the line grammar.
func ParseLine(raw string) (RawLine, error) {
	m := linePattern.FindStringSubmatch(raw)
	if m == nil {
		return RawLine{}, fmt.Errorf("%w: %q", ErrParse, raw)
	}
	elapsed, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return RawLine{}, fmt.Errorf("%w: bad elapsed time in %q", ErrParse, raw)
	}
	return RawLine{Elapsed: elapsed, Event: m[2], Params: m[3]}, nil
}
