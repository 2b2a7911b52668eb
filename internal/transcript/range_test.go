package transcript

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticLog builds a 100-line log with the given markers placed by
// 0-based offset.
func syntheticLog(markers map[int]string) []string {
	lines := make([]string, 100)
	for i := range lines {
		lines[i] = fmt.Sprintf("<%d.00 21:00:00> [CHAT_MSG_MONSTER_YELL] line %d", i, i)
	}
	for offset, marker := range markers {
		lines[offset] = fmt.Sprintf("<%d.00 21:00:00> [%s] 2549#Fyrakk#16#20", offset, marker)
	}
	return lines
}

func TestDetectRange(t *testing.T) {
	lines := syntheticLog(map[int]string{10: "ENCOUNTER_START", 40: "ENCOUNTER_END"})
	r, err := DetectRange(lines, 50)
	require.NoError(t, err)
	assert.Equal(t, Range{First: 10, Last: 40}, r)
}

func TestDetectRangeNoStart(t *testing.T) {
	lines := syntheticLog(map[int]string{40: "ENCOUNTER_END"})
	_, err := DetectRange(lines, 50)
	assert.ErrorIs(t, err, ErrRange)
}

func TestDetectRangeMultipleStarts(t *testing.T) {
	lines := syntheticLog(map[int]string{5: "ENCOUNTER_START", 10: "ENCOUNTER_START", 40: "ENCOUNTER_END"})
	_, err := DetectRange(lines, 50)
	require.ErrorIs(t, err, ErrRange)
	// Candidate offsets are listed 1-based for manual override.
	assert.Contains(t, err.Error(), "6, 11")
	assert.Contains(t, err.Error(), "41")
}

func TestDetectRangeKillExtension(t *testing.T) {
	lines := syntheticLog(map[int]string{10: "ENCOUNTER_START", 40: "ENCOUNTER_END", 55: "BOSS_KILL"})
	r, err := DetectRange(lines, 50)
	require.NoError(t, err)
	assert.Equal(t, Range{First: 10, Last: 55}, r)
}

func TestDetectRangeKillTooLate(t *testing.T) {
	lines := syntheticLog(map[int]string{10: "ENCOUNTER_START", 40: "ENCOUNTER_END", 95: "BOSS_KILL"})
	r, err := DetectRange(lines, 50)
	require.NoError(t, err)
	assert.Equal(t, Range{First: 10, Last: 40}, r)
}

func TestDetectRangeKillBeforeEnd(t *testing.T) {
	lines := syntheticLog(map[int]string{10: "ENCOUNTER_START", 35: "BOSS_KILL", 40: "ENCOUNTER_END"})
	r, err := DetectRange(lines, 50)
	require.NoError(t, err)
	assert.Equal(t, Range{First: 10, Last: 40}, r)
}

func TestExplicitRange(t *testing.T) {
	r, err := ExplicitRange(3, 7, 10)
	require.NoError(t, err)
	assert.Equal(t, Range{First: 3, Last: 7}, r)

	_, err = ExplicitRange(7, 3, 10)
	assert.ErrorIs(t, err, ErrRange)

	_, err = ExplicitRange(3, 12, 10)
	assert.ErrorIs(t, err, ErrRange)

	_, err = ExplicitRange(-1, 3, 10)
	assert.ErrorIs(t, err, ErrRange)
}
