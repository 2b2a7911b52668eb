package transcribe

import (
	"regexp"
	"strconv"
	"strings"
)

// Unit flag bit groups: affiliation, reaction, control, type.
const (
	flagAffiliationMine     = 0x1
	flagAffiliationParty    = 0x2
	flagAffiliationOutsider = 0x8
	flagReactionFriendly    = 0x10
	flagReactionHostile     = 0x40
	flagControlPlayer       = 0x100
	flagControlNPC          = 0x200
	flagTypePlayer          = 0x400
	flagTypeNPC             = 0x800
	flagTypePet             = 0x1000

	flagTarget     = 0x10000
	flagFocus      = 0x20000
	flagMainTank   = 0x40000
	flagMainAssist = 0x80000
	flagNone       = 0x80000000
)

// normalizeFlags strips the historical special-unit bits older clients
// logged, by sequential subtraction on the running value. The main-tank
// branch subtracts the main-assist bit; that asymmetry is how captures were
// always normalized and existing fixtures depend on it, so it stays.
func normalizeFlags(flags int64) int64 {
	if flags >= flagNone {
		flags -= flagNone
	}
	if flags >= flagMainAssist {
		flags -= flagMainAssist
	}
	if flags >= flagMainTank {
		flags -= flagMainAssist
	}
	if flags >= flagFocus {
		flags -= flagFocus
	}
	if flags >= flagTarget {
		flags -= flagTarget
	}
	return flags
}

// role is what a GUID's prefix reveals about a unit.
type role struct {
	isPlayer   bool
	isPet      bool
	isNpc      bool
	creatureID int64
}

// creatureIDPattern pulls the numeric id out of creature-shaped GUIDs,
// e.g. `Creature-0-4234-2549-26838-204931-000323F4E7` → 204931.
var creatureIDPattern = regexp.MustCompile(`^(?:Creature|GameObject)-[0-9]+-[0-9]+-[0-9]+-[0-9]+-([0-9]+)-`)

func classifyGUID(guid string) role {
	var r role
	switch {
	case strings.HasPrefix(guid, "Player-"):
		r.isPlayer = true
	case strings.HasPrefix(guid, "Pet-"):
		r.isPet = true
	case strings.HasPrefix(guid, "Creature-"), strings.HasPrefix(guid, "Vehicle-"):
		r.isNpc = true
	}
	if m := creatureIDPattern.FindStringSubmatch(guid); m != nil {
		r.creatureID, _ = strconv.ParseInt(m[1], 10, 64)
	}
	return r
}

// reconstructFlags approximates a unit's flag mask when the capture lacks
// one. It cannot know reaction history, so players and pets are assumed
// friendly and NPCs hostile; fixtures encode expectations derived from this
// approximation, so it must not get smarter.
func (t *Transcriber) reconstructFlags(name string, r role) int64 {
	switch {
	case r.isPlayer:
		affiliation := int64(flagAffiliationParty)
		if name != "" && name == t.playerName {
			affiliation = flagAffiliationMine
		}
		return affiliation | flagReactionFriendly | flagControlPlayer | flagTypePlayer
	case r.isPet:
		return flagAffiliationParty | flagReactionFriendly | flagControlPlayer | flagTypePet
	case r.isNpc:
		return flagAffiliationOutsider | flagReactionHostile | flagControlNPC | flagTypeNPC
	default:
		return 0
	}
}
