package transcribe

import (
	"strings"

	"github.com/rs/zerolog/log"

	"transcript-fixture/internal/luaval"
)

// emittedEventTag is the event name every reconstructed combat-log row
// carries in the fixture.
const emittedEventTag = "COMBAT_LOG_EVENT_UNFILTERED"

// condensedSuffix marks sub-events captured in the abbreviated shape that
// omits flags, raid flags and extra args.
const condensedSuffix = "-CONDENSED"

var castFamily = map[string]bool{
	"SPELL_CAST_START":   true,
	"SPELL_CAST_SUCCESS": true,
	"SPELL_CAST_FAILED":  true,
}

var damageFamily = map[string]bool{
	"SPELL_DAMAGE":          true,
	"SPELL_PERIODIC_DAMAGE": true,
	"SPELL_PERIODIC_MISSED": true,
	"SPELL_MISSED":          true,
	"DAMAGE_SHIELD":         true,
	"DAMAGE_SHIELD_MISSED":  true,
	"SWING_DAMAGE":          true,
}

var auraFamily = map[string]bool{
	"SPELL_AURA_APPLIED":      true,
	"SPELL_AURA_APPLIED_DOSE": true,
	"SPELL_AURA_REMOVED":      true,
	"SPELL_AURA_REMOVED_DOSE": true,
	"SPELL_AURA_REFRESH":      true,
}

// combatLog reconstructs one combat-log row from the capture's lossy
// encoding, or drops it when detection logic never consumes it.
func (t *Transcriber) combatLog(ts float64, params string) *Event {
	tokens := strings.Split(params, "#")
	values := make([]luaval.Value, len(tokens))
	for i, token := range tokens {
		values[i] = luaval.Coerce(token)
	}
	get := func(i int) luaval.Value {
		if i < len(values) {
			return values[i]
		}
		return luaval.Nil()
	}

	subEvent := tokens[0]
	condensed := strings.HasSuffix(subEvent, condensedSuffix)

	var (
		hasFlags               bool
		sourceFlags            int64
		sourceGUID, sourceName luaval.Value
		destGUID, destName     luaval.Value
		spellID, spellName     luaval.Value
		extraArg1, extraArg2   luaval.Value
	)
	if condensed {
		// (subEvent, sourceGUID, sourceName, <unused>, spellId, spellName)
		sourceGUID, sourceName = get(1), get(2)
		destGUID, destName = luaval.String(""), luaval.Nil()
		spellID, spellName = get(4), get(5)
		extraArg1, extraArg2 = luaval.Nil(), luaval.Nil()
	} else {
		// (subEvent, sourceFlags?, sourceGUID, sourceName, destGUID,
		//  destName, spellId, spellName, extraArg1, extraArg2)
		hasFlags = get(1).IsNumber()
		shift := 0
		if hasFlags {
			sourceFlags = get(1).AsInt()
			shift = 1
		}
		sourceGUID, sourceName = get(shift+1), get(shift+2)
		destGUID, destName = get(shift+3), get(shift+4)
		spellID, spellName = get(shift+5), get(shift+6)
		extraArg1, extraArg2 = get(shift+7), get(shift+8)
		if !hasFlags && subEvent == "SPELL_CAST_START" && !t.flagsWarned {
			t.flagsWarned = true
			log.Warn().Msg("Transcript did not log unit flags on cast starts; reconstructing them from GUIDs")
		}
	}
	if hasFlags {
		sourceFlags = normalizeFlags(sourceFlags)
	}

	src := classifyGUID(sourceGUID.AsString())
	dst := classifyGUID(destGUID.AsString())

	// Suppression rules, first match wins.
	switch {
	case spellID.IsNumber() && t.ignoredSpells[spellID.AsInt()]:
		return t.drop("ignored spell")
	case t.ignoredCreature(src) || t.ignoredCreature(dst):
		return t.drop("ignored creature")
	case subEvent == "SPELL_SUMMON" && (src.isPlayer || src.isPet):
		return t.drop("player summon")
	case (strings.HasSuffix(subEvent, "_ENERGIZE") || strings.HasSuffix(subEvent, "_HEAL")) && (dst.isPlayer || dst.isPet):
		return t.drop("player heal")
	case (castFamily[subEvent] || subEvent == "SPELL_EXTRA_ATTACKS") && (src.isPlayer || src.isPet):
		return t.drop("player cast")
	case damageFamily[subEvent] && (src.isPlayer || src.isPet):
		return t.drop("player damage")
	case auraFamily[subEvent] &&
		(extraArg1.AsString() == "BUFF" && (dst.isPlayer || dst.isPet) ||
			extraArg1.AsString() == "DEBUFF" && dst.isNpc):
		return t.drop("player aura")
	}

	subEvent = strings.TrimSuffix(subEvent, condensedSuffix)
	if !hasFlags {
		sourceFlags = t.reconstructFlags(sourceName.AsString(), src)
	}
	destFlags := t.reconstructFlags(destName.AsString(), dst)

	// Raid flags and spell school are never captured; they emit as zero.
	return &Event{Timestamp: ts, Fields: []luaval.Value{
		luaval.String(emittedEventTag),
		luaval.String(subEvent),
		sourceGUID,
		sourceName,
		luaval.Mask(sourceFlags),
		luaval.Mask(0),
		destGUID,
		destName,
		luaval.Mask(destFlags),
		luaval.Mask(0),
		spellID,
		spellName,
		luaval.Mask(0),
		extraArg1,
		extraArg2,
	}}
}

func (t *Transcriber) ignoredCreature(r role) bool {
	return r.creatureID != 0 && t.ignoredCreatures[r.creatureID]
}
