// Package transcribe turns raw capture lines into the structured event rows
// a replay fixture needs, dropping everything the detection logic never
// looks at and reconstructing combat-log semantics the capture format lost.
package transcribe

import (
	"regexp"
	"strings"

	"transcript-fixture/internal/luaval"
	"transcript-fixture/internal/transcript"
)

// Event is one emitted fixture row: a relative timestamp and the ordered
// typed fields, event name first.
type Event struct {
	Timestamp float64
	Fields    []luaval.Value
}

// Transcriber converts one selected range, line by line. It owns the
// per-run state: the timestamp baseline, the once-per-run missing-flags
// warning latch, and suppression counters.
type Transcriber struct {
	playerName       string
	ignoredSpells    map[int64]bool
	ignoredCreatures map[int64]bool

	baseline    float64
	baselineSet bool
	flagsWarned bool

	// Suppressed counts dropped lines per rule, for the end-of-run summary.
	Suppressed map[string]int
}

// New returns a Transcriber for one run. playerName drives the self
// affiliation bit during flag reconstruction; the ignore lists drop events
// for spells and creatures known to be irrelevant to detection.
func New(playerName string, ignoredSpells, ignoredCreatures map[int64]bool) *Transcriber {
	return &Transcriber{
		playerName:       playerName,
		ignoredSpells:    ignoredSpells,
		ignoredCreatures: ignoredCreatures,
		Suppressed:       make(map[string]int),
	}
}

const (
	debugPrefix     = "DBM_"
	nameplatePrefix = "NAME_PLATE_UNIT"
	unitCastPrefix  = "UNIT_SPELLCAST"
	cleuEvent       = "CLEU"
)

// unitCastPattern pulls the `unit : castGUID : spellId` triple out of a
// unit cast line, e.g. `Ragnaros(boss1):Cast-3-4234-409-26838-20566-0003:20566`.
var unitCastPattern = regexp.MustCompile(`\(([a-z]+[0-9]*)\):([^:#]+):([0-9]+)$`)

func (t *Transcriber) drop(rule string) *Event {
	t.Suppressed[rule]++
	return nil
}

// Transcribe produces zero or one event for a raw line. The first line of
// the range, emitted or not, fixes the timestamp baseline; every event's
// timestamp is relative to it.
func (t *Transcriber) Transcribe(line transcript.RawLine) *Event {
	if !t.baselineSet {
		t.baseline = line.Elapsed
		t.baselineSet = true
	}
	ts := line.Elapsed - t.baseline

	switch {
	case strings.HasPrefix(line.Event, debugPrefix):
		return t.drop("debug telemetry")
	case strings.HasPrefix(line.Event, nameplatePrefix):
		return t.drop("nameplate churn")
	case strings.HasPrefix(line.Event, unitCastPrefix):
		return t.unitCast(ts, line)
	case line.Event == "PLAYER_TARGET_CHANGED" || line.Event == "UNIT_TARGET":
		// Target reconstruction from this signal is deferred.
		return t.drop("target change")
	case line.Event == cleuEvent:
		return t.combatLog(ts, line.Params)
	default:
		return t.generic(ts, line)
	}
}

// unitCast handles UNIT_SPELLCAST_* lines. The player's own casts are
// redundant with the combat log and dropped.
func (t *Transcriber) unitCast(ts float64, line transcript.RawLine) *Event {
	m := unitCastPattern.FindStringSubmatch(line.Params)
	if m == nil {
		return t.drop("unmatched unit cast")
	}
	unit, castGUID, spellID := m[1], m[2], m[3]
	if unit == "player" {
		return t.drop("own unit cast")
	}
	return &Event{Timestamp: ts, Fields: []luaval.Value{
		luaval.String(line.Event),
		luaval.String(unit),
		luaval.String(castGUID),
		luaval.Coerce(spellID),
	}}
}

func (t *Transcriber) generic(ts float64, line transcript.RawLine) *Event {
	fields := []luaval.Value{luaval.String(line.Event)}
	if line.Params != "" {
		for _, token := range strings.Split(line.Params, "#") {
			fields = append(fields, luaval.Coerce(token))
		}
	}
	return &Event{Timestamp: ts, Fields: fields}
}
