package game

import (
	"slices"

	"github.com/pefman/warcry-anvil/internal/models"
)

const unarmedRunemark = "Fist"

// resolveTemplate substitutes the working stats into a template, then adds
// the source's own numeric effects. The template itself is read only.
func resolveTemplate(name, source string, tpl models.ProfileTemplate, fx models.ProfileEffects, stats models.StatBlock) Profile {
	p := Profile{
		Name:           name,
		Source:         source,
		Range:          [2]int{tpl.Range[0].Resolve(stats), tpl.Range[1].Resolve(stats)},
		Attacks:        tpl.Attacks.Resolve(stats),
		Strength:       tpl.Strength.Resolve(stats),
		Damage:         tpl.Damage.Resolve(stats),
		Crit:           tpl.Crit.Resolve(stats),
		WeaponRunemark: tpl.WeaponRunemark,
	}
	p.Range[1] += fx.RangeBonus
	p.Attacks += fx.AttackBonus
	p.Strength += fx.StrengthBonus
	p.Damage += fx.DamageBonus
	p.Crit += fx.CritBonus
	return p
}

// UnarmedProfile is the implicit fist attack: range 0-1, penalised attacks,
// damage and crit (each floored), strength untouched.
func UnarmedProfile(stats models.StatBlock, pen models.UnarmedPenalties) Profile {
	return Profile{
		Name:           UnarmedName,
		Source:         SourceUnarmed,
		Range:          [2]int{0, 1},
		Attacks:        max(stats.Get(models.Attacks)+pen.AttackPenalty, pen.MinimumValues.Attacks),
		Strength:       stats.Get(models.Strength),
		Damage:         max(stats.Get(models.Damage)+pen.DamagePenalty, pen.MinimumValues.Damage),
		Crit:           max(stats.Get(models.Crit)+pen.CritPenalty, pen.MinimumValues.Crit),
		WeaponRunemark: unarmedRunemark,
	}
}

// BuildProfiles resolves every equipped profile in display order: primary,
// secondary, archetype, mount. Unarmed is prepended when nothing else can
// fight in melee, or when the primary weapon forfeits normal melee.
func BuildProfiles(l Loadout, stats models.StatBlock, rules models.Rules) []Profile {
	armed := []Profile{}
	if w := l.Primary; w != nil && w.Profile != nil {
		armed = append(armed, resolveTemplate(w.Name, SourcePrimary, *w.Profile, w.Effects, stats))
	}
	if w := l.Secondary; w != nil && w.Profile != nil {
		armed = append(armed, resolveTemplate(w.Name, SourceSecondary, *w.Profile, w.Effects, stats))
	}
	if a := l.Archetype; a != nil && a.Profile != nil {
		armed = append(armed, resolveTemplate(templateName(a.Profile, a.Name), SourceArchetype, *a.Profile, models.ProfileEffects{}, stats))
	}
	if m := l.Mount; m != nil && m.Profile != nil {
		armed = append(armed, resolveTemplate(templateName(m.Profile, m.Name), SourceMount, *m.Profile, models.ProfileEffects{}, stats))
	}

	if !NeedsUnarmed(l, armed) {
		return armed
	}
	return append([]Profile{UnarmedProfile(stats, rules.UnarmedPenalties)}, armed...)
}

// NeedsUnarmed reports whether the Unarmed profile belongs in the list.
func NeedsUnarmed(l Loadout, armed []Profile) bool {
	if l.Primary != nil && l.Primary.FighterEffects.TreatAsUnarmedInMelee {
		return true
	}
	return !slices.ContainsFunc(armed, Profile.IsMelee)
}

func templateName(tpl *models.ProfileTemplate, fallback string) string {
	if tpl.Name != "" {
		return tpl.Name
	}
	return fallback
}
