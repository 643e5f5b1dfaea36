package game

import "github.com/pefman/warcry-anvil/internal/models"

// ResolveStats builds the working stat block. Layers apply in a fixed order:
// archetype, mount, primary weapon, secondary weapon, blessing. The mount's
// movement cap is applied once, last, so no later bonus can exceed it.
func ResolveStats(l Loadout) models.StatBlock {
	var block models.StatBlock
	if l.Fighter != nil {
		block = l.Fighter.Stats
	}
	for _, fx := range statLayers(l) {
		fx.ApplyTo(&block)
	}
	if l.Mount != nil {
		l.Mount.Restrictions.CapMovement(&block)
	}
	return block
}

func statLayers(l Loadout) []models.StatEffects {
	var layers []models.StatEffects
	if l.Archetype != nil {
		layers = append(layers, l.Archetype.FighterEffects)
	}
	if l.Mount != nil {
		layers = append(layers, l.Mount.FighterEffects)
	}
	if l.Primary != nil {
		layers = append(layers, l.Primary.FighterEffects)
	}
	if l.Secondary != nil {
		layers = append(layers, l.Secondary.FighterEffects)
	}
	if l.Blessing != nil {
		layers = append(layers, l.Blessing.FighterEffects)
	}
	return layers
}
