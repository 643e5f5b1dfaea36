package game

import (
	"slices"
	"strings"

	"github.com/pefman/warcry-anvil/internal/models"
)

// isBlessingMelee is the stricter melee test used for blessing targets:
// minimum range 0 and maximum range within meleeMax.
func isBlessingMelee(p Profile, meleeMax int) bool {
	return p.Range[0] == 0 && p.Range[1] <= meleeMax
}

func eligibleFor(b models.Blessing, p Profile, meleeMax int) bool {
	switch b.TargetProfile {
	case models.TargetAny:
		return true
	case models.TargetMelee:
		return isBlessingMelee(p, meleeMax)
	default:
		return false
	}
}

// EligibleTargets lists, in profile order and without duplicates, the names
// of profiles that may receive the blessing's weapon effect. It is empty for
// blessings that need no target.
func EligibleTargets(b *models.Blessing, profiles []Profile, meleeMax int) []string {
	out := []string{}
	if b == nil || !b.NeedsTarget() {
		return out
	}
	for _, p := range profiles {
		if eligibleFor(*b, p, meleeMax) && !slices.Contains(out, p.Name) {
			out = append(out, p.Name)
		}
	}
	return out
}

// ApplyBlessing returns a copy of profiles with the weapon effect applied to
// the first eligible profile named target. At most one profile changes.
func ApplyBlessing(profiles []Profile, b models.Blessing, target string, meleeMax int) ([]Profile, bool) {
	out := slices.Clone(profiles)
	if !b.NeedsTarget() {
		return out, false
	}
	i := slices.IndexFunc(out, func(p Profile) bool {
		return p.Name == target && eligibleFor(b, p, meleeMax)
	})
	if i < 0 {
		return out, false
	}
	fx := b.WeaponEffect
	out[i].Attacks += fx.AttackBonus
	out[i].Strength += fx.StrengthBonus
	out[i].Damage += fx.DamageBonus
	out[i].Crit += fx.CritBonus
	out[i].Blessed = true
	return out, true
}

// resolveBlessingTarget validates the chosen target weapon and applies the
// blessing's weapon effect. A target is never chosen on the user's behalf.
func (p *pass) resolveBlessingTarget() {
	b := p.load.Blessing
	targets := EligibleTargets(b, p.profiles, p.rules.MeleeMaxRange)
	p.opts.BlessingTargets = targets
	p.opts.BlessingTargetEnabled = len(targets) > 0

	want := strings.TrimSpace(p.sel.BlessingTargetWeapon)
	p.sel.BlessingTargetWeapon = None
	if b == nil || !b.NeedsTarget() {
		return
	}
	if len(targets) == 0 {
		p.notef("No eligible target weapon for the '%s' Divine Blessing. Its weapon effect is not applied.", b.Name)
		return
	}
	chosen := want != "" && !isNone(want)
	if !chosen || !slices.Contains(targets, want) {
		if chosen {
			p.notef("%s is not an eligible target for the '%s' Divine Blessing.", want, b.Name)
		}
		p.notef("Please select a target weapon for the '%s' Divine Blessing.", b.Name)
		return
	}

	p.profiles, _ = ApplyBlessing(p.profiles, *b, want, p.rules.MeleeMaxRange)
	p.sel.BlessingTargetWeapon = want
}
