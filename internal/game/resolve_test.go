package game

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pefman/warcry-anvil/internal/catalog"
	"github.com/pefman/warcry-anvil/internal/models"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.LoadDir(context.Background(), "../catalog/testdata/valid")
	require.NoError(t, err)
	return cat
}

func profileNames(ps []Profile) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func findProfile(t *testing.T, ps []Profile, name string) Profile {
	t.Helper()
	i := slices.IndexFunc(ps, func(p Profile) bool { return p.Name == name })
	require.GreaterOrEqual(t, i, 0, "profile %q not in %v", name, profileNames(ps))
	return ps[i]
}

func TestResolveDefaults(t *testing.T) {
	cat := testCatalog(t)

	res := Resolve(cat, Selection{})

	assert.Equal(t, UnnamedFighter, res.Name)
	assert.Equal(t, "Human", res.Selection.FighterType)
	assert.Equal(t, "Order", res.FactionRunemark)
	assert.Equal(t, "Commander", res.Selection.Archetype)
	assert.Equal(t, "Hand Weapon", res.Selection.PrimaryWeapon)
	assert.Equal(t, None, res.Selection.SecondaryWeapon)
	assert.Equal(t, None, res.Selection.Mount)
	assert.Equal(t, None, res.Selection.Blessing)
	assert.Equal(t, None, res.BlessingText)
	assert.Equal(t, []string{"Leader"}, res.Runemarks)
	assert.Equal(t, []string{"Hand Weapon"}, profileNames(res.Profiles))
	assert.Empty(t, res.Messages)
	assert.NotNil(t, res.Messages)
	assert.Equal(t, 4, res.Movement())
	assert.Equal(t, 3, res.Toughness())
	assert.Equal(t, 15, res.Wounds())
	assert.True(t, res.Options.FactionRequired)
	assert.True(t, res.Options.SecondaryEnabled)
}

func TestResolveUnarmedWhenNoWeapon(t *testing.T) {
	cat := testCatalog(t)

	res := Resolve(cat, Selection{FighterType: "Human", PrimaryWeapon: None})

	require.Len(t, res.Profiles, 1)
	u := res.Profiles[0]
	assert.Equal(t, UnarmedName, u.Name)
	assert.Equal(t, SourceUnarmed, u.Source)
	assert.Equal(t, [2]int{0, 1}, u.Range)
	assert.Equal(t, 2, u.Attacks, "max(3-1, 1)")
	assert.Equal(t, 3, u.Strength)
	assert.Equal(t, 1, u.Damage, "floored at 1")
	assert.Equal(t, 2, u.Crit)
}

func TestResolveMountWoundsPushBlessingCost(t *testing.T) {
	cat := testCatalog(t)

	// Duardin W18 + Daemonic Steed W+6 = 24, over the threshold.
	res := Resolve(cat, Selection{
		FighterType:          "Duardin",
		Mount:                "Daemonic Steed",
		Blessing:             "Blessing of Might",
		BlessingTargetWeapon: "Hand Weapon",
	})

	assert.Equal(t, 24, res.Wounds())
	item := res.Points.Items[len(res.Points.Items)-1]
	assert.Equal(t, PointItem{Kind: KindBlessing, Name: "Blessing of Might", Points: 20}, item)
}

func TestResolveBlessingOwnWoundsCount(t *testing.T) {
	cat := testCatalog(t)

	// Human W15 + Daemonic Steed 6 = 21, then Vigour +4 = 25.
	res := Resolve(cat, Selection{FighterType: "Human", Mount: "Daemonic Steed", Blessing: "Blessing of Vigour"})

	assert.Equal(t, 25, res.Wounds())
	assert.Equal(t, 15, res.Points.Items[len(res.Points.Items)-1].Points)
	assert.Equal(t, "Add 4 to this fighter's Wounds characteristic.", res.BlessingText)
}

func TestResolveForbiddenArchetypeReverts(t *testing.T) {
	cat := testCatalog(t)

	res := Resolve(cat, Selection{FighterType: "Ogor", Archetype: "Zealot"})

	assert.Equal(t, "Commander", res.Selection.Archetype)
	assert.Equal(t, []string{"Ogor cannot be a Zealot. Reverting Archetype to Commander."}, res.Messages)
	assert.NotContains(t, res.Options.Archetypes, "Zealot")
}

func TestResolveForbiddenFactionReverts(t *testing.T) {
	cat := testCatalog(t)

	res := Resolve(cat, Selection{FighterType: "Human", FactionRunemark: "Death", Archetype: "Priest"})

	assert.Equal(t, "Commander", res.Selection.Archetype)
	assert.Equal(t, []string{"Death cannot have a Priest Archetype. Reverting Archetype to Commander."}, res.Messages)
}

func TestResolveTwoHandedDisablesSecondary(t *testing.T) {
	cat := testCatalog(t)

	res := Resolve(cat, Selection{FighterType: "Human", PrimaryWeapon: "Great Weapon (Two-handed)", SecondaryWeapon: "Shield"})

	assert.Equal(t, "Great Weapon", res.Selection.PrimaryWeapon)
	assert.Equal(t, None, res.Selection.SecondaryWeapon)
	assert.False(t, res.Options.SecondaryEnabled)
	assert.Empty(t, res.Options.SecondaryWeapons)
	assert.Equal(t, []string{"Secondary equipment requires a one-handed primary weapon. Reverting Secondary Equipment."}, res.Messages)

	gw := findProfile(t, res.Profiles, "Great Weapon")
	assert.Equal(t, Profile{
		Name: "Great Weapon", Source: SourcePrimary, Range: [2]int{0, 1},
		Attacks: 2, Strength: 4, Damage: 2, Crit: 5, WeaponRunemark: "Axe",
	}, gw)

	back := Resolve(cat, Selection{FighterType: "Human", PrimaryWeapon: "Hand Weapon", SecondaryWeapon: "Shield"})
	assert.True(t, back.Options.SecondaryEnabled)
	assert.Equal(t, "Shield", back.Selection.SecondaryWeapon)
	assert.Equal(t, 4, back.Toughness())
}

func TestResolveMageRestrictions(t *testing.T) {
	cat := testCatalog(t)

	res := Resolve(cat, Selection{FighterType: "Human", Archetype: "Mage", PrimaryWeapon: "Bow", SecondaryWeapon: "Shield"})

	assert.Equal(t, "Hand Weapon", res.Selection.PrimaryWeapon)
	assert.Equal(t, None, res.Selection.SecondaryWeapon)
	assert.NotContains(t, res.Options.PrimaryWeapons, "Bow")
	assert.Equal(t, []string{
		"Mage Archetype requires a one-handed primary weapon. Reverting Primary Weapon to Hand Weapon.",
		"Mage Archetype forbids secondary equipment. Reverting Secondary Equipment.",
	}, res.Messages)
	assert.Equal(t, []string{"Hand Weapon", "Arcane Bolt"}, profileNames(res.Profiles))
}

func TestResolveUnknownFighter(t *testing.T) {
	cat := testCatalog(t)

	res := Resolve(cat, Selection{FighterType: "Gargant"})

	assert.Equal(t, "Human", res.Selection.FighterType)
	require.Len(t, res.Messages, 1)
	assert.Contains(t, res.Messages[0], "Gargant")
}

func TestResolveMountRestrictions(t *testing.T) {
	cat := testCatalog(t)

	ogor := Resolve(cat, Selection{FighterType: "Ogor", Mount: "Warhorse"})
	assert.Equal(t, None, ogor.Selection.Mount)
	assert.Equal(t, []string{"Ogor cannot take a Warhorse. Reverting Mount."}, ogor.Messages)
	assert.NotContains(t, ogor.Options.Mounts, "Warhorse")

	malignant := Resolve(cat, Selection{FighterType: "Malignant", Mount: "Warhorse"})
	assert.Equal(t, "Warhorse", malignant.Selection.Mount)
	assert.NotContains(t, malignant.Runemarks, models.MountedRunemark)

	human := Resolve(cat, Selection{FighterType: "Human", Mount: "Warhorse"})
	assert.Contains(t, human.Runemarks, models.MountedRunemark)
	assert.Equal(t, []string{"Hand Weapon", "Hooves"}, profileNames(human.Profiles))
}

func TestResolveExtraRunemark(t *testing.T) {
	cat := testCatalog(t)

	res := Resolve(cat, Selection{FighterType: "Human", Runemark: "Scout"})
	assert.Equal(t, []string{"Leader", "Scout"}, res.Runemarks)
	assert.NotContains(t, res.Options.Runemarks, "Leader")

	dup := Resolve(cat, Selection{FighterType: "Human", Runemark: "Leader"})
	assert.Equal(t, None, dup.Selection.Runemark)
	assert.Equal(t, []string{"Leader runemark is already granted. Reverting Additional Runemark."}, dup.Messages)

	mounted := Resolve(cat, Selection{FighterType: "Human", Mount: "Warhorse", Runemark: "Fly"})
	assert.Equal(t, None, mounted.Selection.Runemark)
	assert.NotContains(t, mounted.Options.Runemarks, "Fly")
	assert.Equal(t, []string{"Fly runemark cannot be taken by a mounted fighter. Reverting Additional Runemark."}, mounted.Messages)
}

func TestResolveMovementCapAfterBlessing(t *testing.T) {
	cat := testCatalog(t)

	// Aelf Mv5 + Warhorse 4 + Swiftness 2 = 11, capped at 8.
	res := Resolve(cat, Selection{FighterType: "Aelf", Mount: "Warhorse", Blessing: "Blessing of Swiftness"})

	assert.Equal(t, 8, res.Movement())
}

func TestResolveMinimumFloor(t *testing.T) {
	cat := testCatalog(t)

	human := Resolve(cat, Selection{FighterType: "Human", Archetype: "Warrior"})
	assert.Equal(t, 4, human.Stats.Get(models.Attacks))
	assert.Equal(t, 4, findProfile(t, human.Profiles, "Hand Weapon").Attacks)

	ogor := Resolve(cat, Selection{FighterType: "Ogor", Archetype: "Warrior"})
	assert.Equal(t, 4, ogor.Stats.Get(models.Attacks))
}

func TestResolveTreatAsUnarmed(t *testing.T) {
	cat := testCatalog(t)

	blades := Resolve(cat, Selection{FighterType: "Human", PrimaryWeapon: "Throwing Blades"})
	assert.Equal(t, []string{UnarmedName, "Throwing Blades"}, profileNames(blades.Profiles))

	bow := Resolve(cat, Selection{FighterType: "Human", PrimaryWeapon: "Bow"})
	assert.Equal(t, []string{UnarmedName, "Bow"}, profileNames(bow.Profiles))

	spear := Resolve(cat, Selection{FighterType: "Human", PrimaryWeapon: "Spear"})
	assert.Equal(t, []string{"Spear"}, profileNames(spear.Profiles))
	assert.Equal(t, [2]int{0, 2}, spear.Profiles[0].Range)
}

func TestResolveBlessingTarget(t *testing.T) {
	cat := testCatalog(t)

	t.Run("applied to chosen melee profile", func(t *testing.T) {
		res := Resolve(cat, Selection{FighterType: "Human", Blessing: "Blessing of Might", BlessingTargetWeapon: "Hand Weapon"})
		assert.Empty(t, res.Messages)
		p := findProfile(t, res.Profiles, "Hand Weapon")
		assert.True(t, p.Blessed)
		assert.Equal(t, 4, p.Strength)
		assert.Equal(t, "Add 1 to the Strength characteristic of one melee weapon.", res.BlessingText)
	})

	t.Run("no target chosen asks and applies nothing", func(t *testing.T) {
		res := Resolve(cat, Selection{FighterType: "Human", Blessing: "Blessing of Might"})
		assert.Equal(t, []string{"Please select a target weapon for the 'Blessing of Might' Divine Blessing."}, res.Messages)
		assert.Equal(t, None, res.Selection.BlessingTargetWeapon)
		assert.True(t, res.Options.BlessingTargetEnabled)
		for _, p := range res.Profiles {
			assert.False(t, p.Blessed)
		}
	})

	t.Run("long range weapon is not melee", func(t *testing.T) {
		res := Resolve(cat, Selection{FighterType: "Human", PrimaryWeapon: "Throwing Blades", Blessing: "Blessing of Might", BlessingTargetWeapon: "Throwing Blades"})
		assert.Equal(t, []string{UnarmedName}, res.Options.BlessingTargets)
		assert.Equal(t, []string{
			"Throwing Blades is not an eligible target for the 'Blessing of Might' Divine Blessing.",
			"Please select a target weapon for the 'Blessing of Might' Divine Blessing.",
		}, res.Messages)
	})

	t.Run("any class accepts ranged", func(t *testing.T) {
		res := Resolve(cat, Selection{FighterType: "Human", PrimaryWeapon: "Bow", Blessing: "Blessing of Wrath", BlessingTargetWeapon: "Bow"})
		assert.Empty(t, res.Messages)
		bow := findProfile(t, res.Profiles, "Bow")
		assert.True(t, bow.Blessed)
		assert.Equal(t, 2, bow.Damage)
		assert.Equal(t, 5, bow.Crit)
	})

	t.Run("untargeted blessing has no selector", func(t *testing.T) {
		res := Resolve(cat, Selection{FighterType: "Human", Blessing: "Blessing of Swiftness", BlessingTargetWeapon: "Hand Weapon"})
		assert.False(t, res.Options.BlessingTargetEnabled)
		assert.Equal(t, None, res.Selection.BlessingTargetWeapon)
		assert.Equal(t, 6, res.Movement())
	})
}

func TestResolveNoEligibleTarget(t *testing.T) {
	cat := testCatalog(t)
	b, ok := cat.Blessing("Blessing of Might")
	require.True(t, ok)

	profiles := []Profile{{Name: "Bow", Range: [2]int{3, 15}}}
	assert.Empty(t, EligibleTargets(&b, profiles, models.MeleeMaxRange))

	out, applied := ApplyBlessing(profiles, b, "Bow", models.MeleeMaxRange)
	assert.False(t, applied)
	assert.Equal(t, profiles, out)
}

func TestResolveAttackActionCap(t *testing.T) {
	cat := testCatalog(t)

	res := Resolve(cat, Selection{FighterType: "Human", Archetype: "Priest", SecondaryWeapon: "Off-hand Weapon"})

	assert.Equal(t, []string{"Hand Weapon", "Off-hand Weapon", "Smite"}, profileNames(res.Profiles))
	assert.Equal(t, []string{"A fighter can have a maximum of 2 attack actions. Please adjust your equipment selections."}, res.Messages)
	assert.Equal(t, 2, findProfile(t, res.Profiles, "Off-hand Weapon").Attacks)
}

func TestResolveIsIdempotent(t *testing.T) {
	cat := testCatalog(t)
	sel := Selection{
		FighterName:          "Grimnir",
		FighterType:          "Aelf",
		FactionRunemark:      "Chaos",
		Archetype:            "Zealot",
		PrimaryWeapon:        "Spear",
		SecondaryWeapon:      "Throwing Knives",
		Mount:                "Warhorse",
		Blessing:             "Blessing of Wrath",
		BlessingTargetWeapon: "Throwing Knives",
		Runemark:             "Scout",
	}

	first := Resolve(cat, sel)
	second := Resolve(cat, sel)
	assert.Equal(t, first, second)

	// The reconciled selection resolves to the same fighter.
	again := Resolve(cat, first.Selection)
	assert.Equal(t, first.Stats, again.Stats)
	assert.Equal(t, first.Profiles, again.Profiles)
	assert.Equal(t, first.Points, again.Points)
	assert.Equal(t, first.Selection, again.Selection)
}

func TestResolveDoesNotMutateCatalog(t *testing.T) {
	cat := testCatalog(t)
	before := cat.Snapshot()

	Resolve(cat, Selection{FighterType: "Human", Archetype: "Warrior", Mount: "Warhorse", Blessing: "Blessing of Might", BlessingTargetWeapon: "Hand Weapon"})

	assert.Equal(t, before, cat.Snapshot())
}

func TestEligibilityNeverPermitsForbiddenArchetype(t *testing.T) {
	cat := testCatalog(t)

	for _, f := range cat.Fighters() {
		factions := append([]string{""}, f.FactionRunemarks...)
		for _, faction := range factions {
			for _, a := range cat.Archetypes() {
				res := Resolve(cat, Selection{FighterType: f.Name, FactionRunemark: faction, Archetype: a.Name})
				chosen, ok := cat.Archetype(res.Selection.Archetype)
				require.True(t, ok)
				assert.False(t, chosen.Restrictions.ForbidsFighter(f.Name), "%s/%s", f.Name, chosen.Name)
				assert.False(t, chosen.Restrictions.ForbidsFaction(res.FactionRunemark), "%s/%s", res.FactionRunemark, chosen.Name)
			}
		}
	}
}

func TestUnarmedPresence(t *testing.T) {
	cat := testCatalog(t)

	for _, primary := range append([]string{None}, cat.Names().PrimaryWeapons...) {
		for _, secondary := range append([]string{None}, cat.Names().SecondaryWeapons...) {
			for _, mount := range []string{None, "Warhorse", "Daemonic Steed"} {
				res := Resolve(cat, Selection{FighterType: "Human", PrimaryWeapon: primary, SecondaryWeapon: secondary, Mount: mount})

				unarmed := 0
				otherMelee := false
				for _, p := range res.Profiles {
					if p.Source == SourceUnarmed {
						unarmed++
					} else if p.IsMelee() {
						otherMelee = true
					}
				}
				override := primary == "Throwing Blades"
				switch {
				case override || !otherMelee:
					assert.Equal(t, 1, unarmed, "%s/%s/%s", primary, secondary, mount)
				default:
					assert.Zero(t, unarmed, "%s/%s/%s", primary, secondary, mount)
				}
			}
		}
	}
}

func TestBlessingAppliedToAtMostOneMeleeProfile(t *testing.T) {
	cat := testCatalog(t)

	for _, primary := range cat.Names().PrimaryWeapons {
		for _, target := range []string{"", UnarmedName, primary, "Hooves"} {
			res := Resolve(cat, Selection{FighterType: "Human", PrimaryWeapon: primary, Mount: "Warhorse", Blessing: "Blessing of Might", BlessingTargetWeapon: target})
			blessed := 0
			for _, p := range res.Profiles {
				if p.Blessed {
					blessed++
					assert.Zero(t, p.Range[0])
					assert.LessOrEqual(t, p.Range[1], models.MeleeMaxRange)
				}
			}
			assert.LessOrEqual(t, blessed, 1)
		}
	}
}
