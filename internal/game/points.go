package game

import "github.com/pefman/warcry-anvil/internal/models"

// Point item kinds.
const (
	KindFighter   = "Fighter"
	KindArchetype = "Archetype"
	KindPrimary   = "Primary Weapon"
	KindSecondary = "Secondary Equipment"
	KindMount     = "Mount"
	KindRunemark  = "Additional Runemark"
	KindBlessing  = "Divine Blessing"
)

// BlessingCost picks the low cost below the wounds threshold, the high cost otherwise.
func BlessingCost(b models.Blessing, wounds, threshold int) int {
	if wounds < threshold {
		return b.PointsLow
	}
	return b.PointsHigh
}

// TallyPoints itemises and sums the cost of the loadout. wounds must be the
// final working Wounds, after every stat effect including the blessing's own.
func TallyPoints(l Loadout, wounds int, rules models.Rules) Points {
	var pts Points
	add := func(kind, name string, cost int) {
		pts.Items = append(pts.Items, PointItem{Kind: kind, Name: name, Points: cost})
		pts.Total += cost
	}
	if l.Fighter != nil {
		add(KindFighter, l.Fighter.Name, l.Fighter.Points)
	}
	if l.Archetype != nil {
		add(KindArchetype, l.Archetype.Name, l.Archetype.Points)
	}
	if l.Primary != nil {
		add(KindPrimary, l.Primary.Name, l.Primary.Points)
	}
	if l.Secondary != nil {
		add(KindSecondary, l.Secondary.Name, l.Secondary.Points)
	}
	if l.Mount != nil {
		add(KindMount, l.Mount.Name, l.Mount.Points)
	}
	if l.Runemark != nil {
		add(KindRunemark, l.Runemark.Name, l.Runemark.Points)
	}
	if l.Blessing != nil {
		add(KindBlessing, l.Blessing.Name, BlessingCost(*l.Blessing, wounds, rules.BlessingWoundsThreshold))
	}
	if pts.Items == nil {
		pts.Items = []PointItem{}
	}
	return pts
}
