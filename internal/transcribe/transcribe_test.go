package transcribe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transcript-fixture/internal/luaval"
	"transcript-fixture/internal/transcript"
)

func line(elapsed float64, event, params string) transcript.RawLine {
	return transcript.RawLine{Elapsed: elapsed, Event: event, Params: params}
}

func TestTranscribeSuppressesTelemetry(t *testing.T) {
	tr := New("Korrina", nil, nil)

	assert.Nil(t, tr.Transcribe(line(1, "DBM_Debug", "GetInstanceInfo(): ...")))
	assert.Nil(t, tr.Transcribe(line(1, "DBM_TimerStart", "x")))
	assert.Nil(t, tr.Transcribe(line(1, "NAME_PLATE_UNIT_ADDED", "nameplate1")))
	assert.Nil(t, tr.Transcribe(line(1, "NAME_PLATE_UNIT_REMOVED", "nameplate1")))
	assert.Nil(t, tr.Transcribe(line(1, "PLAYER_TARGET_CHANGED", "")))
	assert.Nil(t, tr.Transcribe(line(1, "UNIT_TARGET", "boss1")))
}

func TestTranscribeUnitCast(t *testing.T) {
	tr := New("Korrina", nil, nil)

	// The player's own casts are redundant with the combat log.
	ev := tr.Transcribe(line(5, "UNIT_SPELLCAST_SUCCEEDED",
		"Korrina(player):Cast-3-4234-2549-26838-413051-000323F4E7:413051"))
	assert.Nil(t, ev)

	ev = tr.Transcribe(line(6, "UNIT_SPELLCAST_START",
		"Fyrakk(boss1):Cast-3-4234-2549-26838-417455-000323F4E8:417455"))
	require.NotNil(t, ev)
	assert.Equal(t, []luaval.Value{
		luaval.String("UNIT_SPELLCAST_START"),
		luaval.String("boss1"),
		luaval.String("Cast-3-4234-2549-26838-417455-000323F4E8"),
		luaval.Int(417455),
	}, ev.Fields)
}

func TestTranscribeGeneric(t *testing.T) {
	tr := New("Korrina", nil, nil)

	ev := tr.Transcribe(line(0, "ENCOUNTER_START", "2549#Fyrakk, the Blazing#16#20"))
	require.NotNil(t, ev)
	assert.Equal(t, []luaval.Value{
		luaval.String("ENCOUNTER_START"),
		luaval.Int(2549),
		luaval.String("Fyrakk, the Blazing"),
		luaval.Int(16),
		luaval.Int(20),
	}, ev.Fields)
}

func TestTranscribeGenericNoParams(t *testing.T) {
	tr := New("Korrina", nil, nil)

	ev := tr.Transcribe(line(3, "PLAYER_REGEN_DISABLED", ""))
	require.NotNil(t, ev)
	assert.Equal(t, []luaval.Value{luaval.String("PLAYER_REGEN_DISABLED")}, ev.Fields)
}

func TestTranscribeTimestampsRelativeToFirstLine(t *testing.T) {
	tr := New("Korrina", nil, nil)

	// The first line fixes the baseline even when it is suppressed.
	assert.Nil(t, tr.Transcribe(line(25.5, "DBM_Debug", "pull detected")))

	ev := tr.Transcribe(line(25.5, "ENCOUNTER_START", "2549#Fyrakk#16#20"))
	require.NotNil(t, ev)
	assert.Equal(t, 0.0, ev.Timestamp)

	ev = tr.Transcribe(line(31.75, "ENCOUNTER_END", "2549#Fyrakk#16#20#0"))
	require.NotNil(t, ev)
	assert.InDelta(t, 6.25, ev.Timestamp, 1e-9)
}

func TestTranscribeCountsSuppressions(t *testing.T) {
	tr := New("Korrina", nil, nil)

	tr.Transcribe(line(1, "DBM_Debug", "x"))
	tr.Transcribe(line(2, "DBM_Debug", "y"))
	tr.Transcribe(line(3, "PLAYER_TARGET_CHANGED", ""))

	assert.Equal(t, 2, tr.Suppressed["debug telemetry"])
	assert.Equal(t, 1, tr.Suppressed["target change"])
}
