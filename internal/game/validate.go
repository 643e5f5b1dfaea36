package game

import (
	"fmt"

	"github.com/pefman/warcry-anvil/internal/models"
)

// Validate runs the advisory checks over a finished pass. It never changes
// the build; a cap of zero or less is treated as "no cap".
func Validate(rules models.Rules, l Loadout, runemarks []string, profiles []Profile) []string {
	msgs := []string{}
	if rules.MaxRunemarks > 0 && len(runemarks) > rules.MaxRunemarks {
		msgs = append(msgs, fmt.Sprintf("A fighter can have a maximum of %d runemarks. Please adjust your selections.", rules.MaxRunemarks))
	}
	if rules.MaxAttackActions > 0 && len(profiles) > rules.MaxAttackActions {
		msgs = append(msgs, fmt.Sprintf("A fighter can have a maximum of %d attack actions. Please adjust your equipment selections.", rules.MaxAttackActions))
	}
	if l.Secondary != nil && l.Primary != nil && !l.Primary.IsOneHanded() {
		msgs = append(msgs, fmt.Sprintf("%s is two-handed and cannot be combined with %s.", l.Primary.Name, l.Secondary.Name))
	}
	return msgs
}
