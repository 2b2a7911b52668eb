// Package fixture assembles and renders the replay fixture literal consumed
// by the boss-mod test registry.
package fixture

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"transcript-fixture/internal/luaval"
	"transcript-fixture/internal/transcribe"
	"transcript-fixture/internal/transcript"
)

// Fixture is everything one run produces: metadata plus the ordered rows.
// Name, addon and mod are filled in by hand once the fixture is committed.
type Fixture struct {
	GameVersion string
	Instance    *transcript.InstanceInfo
	PlayerName  string
	Events      []transcribe.Event
}

// ResolvePlayerName picks between the caller-supplied and deduced player
// names. An explicit value wins; a disagreement is worth a warning but not
// a failed run.
func ResolvePlayerName(explicit, deduced string) string {
	if explicit != "" && deduced != "" && explicit != deduced {
		log.Warn().
			Str("flag", explicit).
			Str("deduced", deduced).
			Msg("Player name from --player disagrees with the transcript; using the flag value")
	}
	if explicit != "" {
		return explicit
	}
	return deduced
}

// Render writes the complete fixture literal to w.
func Render(w io.Writer, f Fixture) error {
	var b strings.Builder
	b.WriteString("DBM.Test:DefineTest{\n")
	b.WriteString("\tname = \"TODO\",\n")
	fmt.Fprintf(&b, "\tgameVersion = %s,\n", luaval.Quote(f.GameVersion))
	b.WriteString("\taddon = \"TODO\",\n")
	b.WriteString("\tmod = \"TODO\",\n")
	b.WriteString("\tinstanceInfo = {\n")
	writeInstance(&b, f.Instance)
	b.WriteString("\t},\n")
	fmt.Fprintf(&b, "\tplayerName = %s,\n", luaval.Quote(f.PlayerName))
	b.WriteString("\tlog = {\n")
	for _, ev := range f.Events {
		b.WriteString("\t\t")
		b.WriteString(renderRow(ev))
		b.WriteString(",\n")
	}
	b.WriteString("\t},\n")
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeInstance(b *strings.Builder, info *transcript.InstanceInfo) {
	if info == nil {
		return
	}
	fields := []struct {
		name  string
		value luaval.Value
	}{
		{"name", info.Name},
		{"instanceType", info.InstanceType},
		{"difficultyID", info.DifficultyID},
		{"difficultyName", info.DifficultyName},
		{"maxPlayers", info.MaxPlayers},
		{"dynamicDifficulty", info.DynamicDifficulty},
		{"isDynamic", info.IsDynamic},
		{"instanceID", info.InstanceID},
		{"instanceGroupSize", info.InstanceGroupSize},
		{"lfgDungeonID", info.LfgDungeonID},
	}
	for _, f := range fields {
		fmt.Fprintf(b, "\t\t%s = %s,\n", f.name, luaval.Emit(f.value))
	}
}

// renderRow prints one event row as a Lua tuple. Timestamps always carry
// two decimals so rows stay visually aligned with hand-written fixtures.
func renderRow(ev transcribe.Event) string {
	parts := make([]string, 0, len(ev.Fields)+1)
	parts = append(parts, fmt.Sprintf("%.2f", ev.Timestamp))
	for _, v := range ev.Fields {
		parts = append(parts, luaval.Emit(v))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
