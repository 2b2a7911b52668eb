package transcript

import (
	"regexp"
	"strings"

	"transcript-fixture/internal/luaval"
)

// InstanceInfo carries the instance snapshot logged by the addon's debug
// channel. Fields stay typed values; the fixture emits them verbatim.
type InstanceInfo struct {
	Name              luaval.Value
	InstanceType      luaval.Value
	DifficultyID      luaval.Value
	DifficultyName    luaval.Value
	MaxPlayers        luaval.Value
	DynamicDifficulty luaval.Value
	IsDynamic         luaval.Value
	InstanceID        luaval.Value
	InstanceGroupSize luaval.Value
	LfgDungeonID      luaval.Value
}

// Metadata is what a single forward scan of the selected range recovers.
type Metadata struct {
	Instance    *InstanceInfo
	PlayerName  string
	GameVersion string
}

const instanceInfoPrefix = "GetInstanceInfo(): "

// legacyVersionPrefix marks entries captured on the era client; those
// fixtures replay under the legacy ruleset.
const legacyVersionPrefix = "Version: 1."

// playerCastPattern pulls the acting player's name out of a successful
// self cast, e.g. `Korrina(player):Cast-3-...:413051`.
var playerCastPattern = regexp.MustCompile(`^([^(:#]+)\(player\)`)

// ExtractMetadata scans the selected range once, stopping early when both
// the instance info and the player name have been found.
func ExtractMetadata(entryName string, lines []string, r Range) (Metadata, error) {
	md := Metadata{GameVersion: "Retail"}
	if strings.HasPrefix(entryName, legacyVersionPrefix) {
		md.GameVersion = "SeasonOfDiscovery"
	}
	for i := r.First; i <= r.Last && i < len(lines); i++ {
		line, err := ParseLine(lines[i])
		if err != nil {
			return Metadata{}, err
		}
		if md.Instance == nil && line.Event == "DBM_Debug" && strings.HasPrefix(line.Params, instanceInfoPrefix) {
			md.Instance = parseInstanceInfo(strings.TrimPrefix(line.Params, instanceInfoPrefix))
		}
		if md.PlayerName == "" && line.Event == "UNIT_SPELLCAST_SUCCEEDED" {
			if m := playerCastPattern.FindStringSubmatch(line.Params); m != nil {
				md.PlayerName = m[1]
			}
		}
		if md.Instance != nil && md.PlayerName != "" {
			break
		}
	}
	return md, nil
}

// parseInstanceInfo coerces the comma-separated snapshot fields. The nine
// fixed fields anchor from the right because instance names may themselves
// contain ", "; old captures omit the trailing lfgDungeonID, which then
// defaults to nil.
func parseInstanceInfo(params string) *InstanceInfo {
	tokens := strings.Split(params, ", ")
	if len(tokens) < 9 {
		return nil
	}
	var name string
	var rest []string
	if len(tokens) == 9 {
		name, rest = tokens[0], tokens[1:]
	} else {
		name = strings.Join(tokens[:len(tokens)-9], ", ")
		rest = tokens[len(tokens)-9:]
	}
	get := func(i int) luaval.Value {
		if i < len(rest) {
			return luaval.Coerce(rest[i])
		}
		return luaval.Nil()
	}
	return &InstanceInfo{
		Name:              luaval.Coerce(name),
		InstanceType:      get(0),
		DifficultyID:      get(1),
		DifficultyName:    get(2),
		MaxPlayers:        get(3),
		DynamicDifficulty: get(4),
		IsDynamic:         get(5),
		InstanceID:        get(6),
		InstanceGroupSize: get(7),
		LfgDungeonID:      get(8),
	}
}
