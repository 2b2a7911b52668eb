package transcript

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRange reports that the encounter bounds could not be auto-detected.
var ErrRange = errors.New("detect encounter range")

// Encounter markers, matched as substrings of the raw line.
const (
	markerStart = "ENCOUNTER_START"
	markerEnd   = "ENCOUNTER_END"
	markerKill  = "BOSS_KILL"
)

// Range is an inclusive, 0-based line range within an entry.
type Range struct {
	First, Last int
}

// DetectRange scans every line for the encounter markers and requires
// exactly one start and one end. A trailing BOSS_KILL no more than
// killWindow lines past the end extends the range; captures intentionally
// keep late duplicate kill confirmations to exercise completion dedup.
func DetectRange(lines []string, killWindow int) (Range, error) {
	var starts, ends, kills []int
	for i, line := range lines {
		if strings.Contains(line, markerStart) {
			starts = append(starts, i)
		}
		if strings.Contains(line, markerEnd) {
			ends = append(ends, i)
		}
		if strings.Contains(line, markerKill) {
			kills = append(kills, i)
		}
	}
	if len(starts) != 1 || len(ends) != 1 {
		return Range{}, fmt.Errorf(
			"%w: need exactly one %s and one %s, found %s at %s and %s at %s; pass explicit bounds",
			ErrRange, markerStart, markerEnd,
			markerStart, offsetList(starts), markerEnd, offsetList(ends))
	}
	r := Range{First: starts[0], Last: ends[0]}
	if len(kills) > 0 {
		lastKill := kills[len(kills)-1]
		if lastKill > r.Last && lastKill <= r.Last+killWindow {
			r.Last = lastKill
		}
	}
	if r.First > r.Last {
		return Range{}, fmt.Errorf("%w: %s at %d after %s at %d", ErrRange, markerStart, starts[0], markerEnd, ends[0])
	}
	return r, nil
}

// ExplicitRange validates caller-supplied bounds, bypassing marker scanning.
func ExplicitRange(first, last, lineCount int) (Range, error) {
	if first < 0 || last >= lineCount || first > last {
		return Range{}, fmt.Errorf("%w: explicit bounds %d..%d outside entry of %d lines", ErrRange, first, last, lineCount)
	}
	return Range{First: first, Last: last}, nil
}

// offsetList prints candidate offsets as 1-based line numbers, matching the
// index comments the addon writes into the saved file.
func offsetList(offsets []int) string {
	if len(offsets) == 0 {
		return "none"
	}
	parts := make([]string, len(offsets))
	for i, o := range offsets {
		parts[i] = fmt.Sprintf("%d", o+1)
	}
	return strings.Join(parts, ", ")
}
