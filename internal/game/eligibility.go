package game

import (
	"slices"
	"strings"

	"github.com/pefman/warcry-anvil/internal/catalog"
	"github.com/pefman/warcry-anvil/internal/models"
)

// Loadout is the reconciled set of reference entries chosen for one pass.
// Pointers are to copies owned by the pass; nil means nothing chosen.
type Loadout struct {
	Fighter   *models.Fighter
	Faction   string
	Archetype *models.Archetype
	Primary   *models.Weapon
	Secondary *models.Weapon
	Mount     *models.Mount
	Blessing  *models.Blessing
	Runemark  *models.ExtraRunemark
}

func fighterName(f *models.Fighter) string {
	if f == nil {
		return ""
	}
	return f.Name
}

// FactionOptions returns the fighter's faction runemarks. A faction is
// required whenever the list is non-empty.
func FactionOptions(f *models.Fighter) (opts []string, required bool) {
	if f == nil {
		return []string{}, false
	}
	opts = slices.Clone(f.FactionRunemarks)
	if opts == nil {
		opts = []string{}
	}
	return opts, len(opts) > 0
}

// ArchetypeOptions lists archetypes that forbid neither the fighter nor the faction.
func ArchetypeOptions(cat *catalog.Catalog, fighter, faction string) []string {
	out := []string{}
	for _, a := range cat.Archetypes() {
		if a.Restrictions.ForbidsFighter(fighter) || a.Restrictions.ForbidsFaction(faction) {
			continue
		}
		out = append(out, a.Name)
	}
	return out
}

// PrimaryOptions lists primary weapons, one-handed only when the archetype demands it.
func PrimaryOptions(cat *catalog.Catalog, a *models.Archetype) []string {
	oneHandedOnly := a != nil && a.Restrictions.OneHandedOnly()
	out := []string{}
	for _, w := range cat.PrimaryWeapons() {
		if oneHandedOnly && !w.IsOneHanded() {
			continue
		}
		out = append(out, w.Name)
	}
	return out
}

// SecondaryOptions is empty and disabled unless the primary weapon is
// one-handed and the archetype allows secondary equipment.
func SecondaryOptions(cat *catalog.Catalog, primary *models.Weapon, a *models.Archetype) (opts []string, enabled bool) {
	if primary == nil || !primary.IsOneHanded() {
		return []string{}, false
	}
	if a != nil && a.Restrictions.NoSecondary() {
		return []string{}, false
	}
	opts = []string{}
	for _, w := range cat.SecondaryWeapons() {
		opts = append(opts, w.Name)
	}
	return opts, true
}

// MountOptions lists mounts that do not forbid the fighter.
func MountOptions(cat *catalog.Catalog, fighter string) []string {
	out := []string{}
	for _, m := range cat.Mounts() {
		if m.Restrictions.ForbidsFighter(fighter) {
			continue
		}
		out = append(out, m.Name)
	}
	return out
}

// RunemarkOptions lists extra runemarks not already held, dropping those
// barred from mounted fighters when mounted is set.
func RunemarkOptions(cat *catalog.Catalog, held []string, mounted bool) []string {
	out := []string{}
	for _, r := range cat.ExtraRunemarks() {
		if slices.Contains(held, r.Name) {
			continue
		}
		if mounted && r.Restrictions.ForbidsMounted() {
			continue
		}
		out = append(out, r.Name)
	}
	return out
}

// accumulateRunemarks merges base, archetype and mount runemarks without duplicates.
func accumulateRunemarks(l Loadout) []string {
	out := []string{}
	add := func(rm string) {
		if rm != "" && !slices.Contains(out, rm) {
			out = append(out, rm)
		}
	}
	if l.Fighter != nil {
		for _, rm := range l.Fighter.Runemarks {
			add(rm)
		}
	}
	if l.Archetype != nil {
		for _, rm := range l.Archetype.RunemarksAdded {
			add(rm)
		}
	}
	if l.Mount != nil {
		for _, rm := range l.Mount.RunemarksAdded {
			if rm == models.MountedRunemark && !l.Mount.Restrictions.GrantsMountedTo(fighterName(l.Fighter)) {
				continue
			}
			add(rm)
		}
	}
	return out
}

func pickDefault(opts []string, preferred string) string {
	if slices.Contains(opts, preferred) {
		return preferred
	}
	if len(opts) > 0 {
		return opts[0]
	}
	return None
}

// ========================= Reconciliation =========================
// Each step validates one selector against its freshly computed option set.
// Illegal choices fall back to a default and leave a message; nothing panics.

func (p *pass) reconcileFighter() {
	fighters := p.cat.Fighters()
	p.opts.Fighters = make([]string, len(fighters))
	for i, f := range fighters {
		p.opts.Fighters[i] = f.Name
	}

	fallback := func() {
		if len(fighters) == 0 {
			p.sel.FighterType = None
			return
		}
		f := fighters[0]
		p.load.Fighter = &f
		p.sel.FighterType = f.Name
	}

	want := strings.TrimSpace(p.sel.FighterType)
	if want == "" || isNone(want) {
		fallback()
		return
	}
	f, ok := p.cat.Fighter(want)
	if !ok {
		fallback()
		p.notef("Unknown fighter %q. Reverting Fighter Type to %s.", want, p.sel.FighterType)
		return
	}
	p.load.Fighter = &f
	p.sel.FighterType = f.Name
}

func (p *pass) reconcileFaction() {
	opts, required := FactionOptions(p.load.Fighter)
	p.opts.Factions = opts
	p.opts.FactionRequired = required

	want := strings.TrimSpace(p.sel.FactionRunemark)
	if slices.Contains(opts, want) {
		p.load.Faction = want
		return
	}

	chosen := None
	if required {
		chosen = opts[0]
	}
	if want != "" && !isNone(want) {
		p.notef("%s is not an available faction runemark for %s. Reverting Faction Runemark to %s.",
			want, fighterName(p.load.Fighter), chosen)
	}
	p.sel.FactionRunemark = chosen
	if chosen != None {
		p.load.Faction = chosen
	}
}

func (p *pass) reconcileArchetype() {
	fighter := fighterName(p.load.Fighter)
	opts := ArchetypeOptions(p.cat, fighter, p.load.Faction)
	p.opts.Archetypes = opts
	fallback := pickDefault(opts, p.rules.DefaultArchetype)

	want := strings.TrimSpace(p.sel.Archetype)
	switch {
	case want == "" || isNone(want):
	default:
		a, ok := p.cat.Archetype(want)
		switch {
		case !ok:
			p.notef("Unknown archetype %q. Reverting Archetype to %s.", want, fallback)
		case a.Restrictions.ForbidsFighter(fighter):
			p.notef("%s cannot be a %s. Reverting Archetype to %s.", fighter, a.Name, fallback)
		case a.Restrictions.ForbidsFaction(p.load.Faction):
			p.notef("%s cannot have a %s Archetype. Reverting Archetype to %s.", p.load.Faction, a.Name, fallback)
		default:
			p.load.Archetype = &a
			p.sel.Archetype = a.Name
			return
		}
	}

	p.sel.Archetype = fallback
	if a, ok := p.cat.Archetype(fallback); ok {
		p.load.Archetype = &a
	}
}

func (p *pass) reconcilePrimary() {
	opts := PrimaryOptions(p.cat, p.load.Archetype)
	p.opts.PrimaryWeapons = opts
	fallback := pickDefault(opts, p.rules.DefaultPrimaryWeapon)

	want := choiceName(p.sel.PrimaryWeapon)
	switch {
	case want == "":
	case isNone(want):
		p.sel.PrimaryWeapon = None
		return
	default:
		w, ok := p.cat.PrimaryWeapon(want)
		switch {
		case !ok:
			p.notef("Unknown primary weapon %q. Reverting Primary Weapon to %s.", want, fallback)
		case p.load.Archetype != nil && p.load.Archetype.Restrictions.OneHandedOnly() && !w.IsOneHanded():
			p.notef("%s Archetype requires a one-handed primary weapon. Reverting Primary Weapon to %s.",
				p.load.Archetype.Name, fallback)
		default:
			p.load.Primary = &w
			p.sel.PrimaryWeapon = w.Name
			return
		}
	}

	p.sel.PrimaryWeapon = fallback
	if w, ok := p.cat.PrimaryWeapon(fallback); ok {
		p.load.Primary = &w
	}
}

func (p *pass) reconcileSecondary() {
	opts, enabled := SecondaryOptions(p.cat, p.load.Primary, p.load.Archetype)
	p.opts.SecondaryWeapons = opts
	p.opts.SecondaryEnabled = enabled

	want := choiceName(p.sel.SecondaryWeapon)
	p.sel.SecondaryWeapon = None
	if want == "" || isNone(want) {
		return
	}
	w, ok := p.cat.SecondaryWeapon(want)
	switch {
	case !ok:
		p.notef("Unknown secondary equipment %q. Reverting Secondary Equipment.", want)
	case p.load.Archetype != nil && p.load.Archetype.Restrictions.NoSecondary():
		p.notef("%s Archetype forbids secondary equipment. Reverting Secondary Equipment.", p.load.Archetype.Name)
	case !enabled:
		p.notef("Secondary equipment requires a one-handed primary weapon. Reverting Secondary Equipment.")
	default:
		p.load.Secondary = &w
		p.sel.SecondaryWeapon = w.Name
	}
}

func (p *pass) reconcileMount() {
	fighter := fighterName(p.load.Fighter)
	p.opts.Mounts = MountOptions(p.cat, fighter)

	want := strings.TrimSpace(p.sel.Mount)
	p.sel.Mount = None
	if want == "" || isNone(want) {
		return
	}
	m, ok := p.cat.Mount(want)
	switch {
	case !ok:
		p.notef("Unknown mount %q. Reverting Mount.", want)
	case m.Restrictions.ForbidsFighter(fighter):
		p.notef("%s cannot take a %s. Reverting Mount.", fighter, m.Name)
	default:
		p.load.Mount = &m
		p.sel.Mount = m.Name
	}
}

// reconcileRunemark runs after base, archetype and mount runemarks are known.
func (p *pass) reconcileRunemark() {
	held := accumulateRunemarks(p.load)
	mounted := p.load.Mount != nil
	p.opts.Runemarks = RunemarkOptions(p.cat, held, mounted)
	p.runemarks = held

	want := strings.TrimSpace(p.sel.Runemark)
	p.sel.Runemark = None
	if want == "" || isNone(want) {
		return
	}
	r, ok := p.cat.ExtraRunemark(want)
	switch {
	case !ok:
		p.notef("Unknown runemark %q. Reverting Additional Runemark.", want)
	case slices.Contains(held, r.Name):
		p.notef("%s runemark is already granted. Reverting Additional Runemark.", r.Name)
	case mounted && r.Restrictions.ForbidsMounted():
		p.notef("%s runemark cannot be taken by a mounted fighter. Reverting Additional Runemark.", r.Name)
	default:
		p.load.Runemark = &r
		p.sel.Runemark = r.Name
		p.runemarks = append(p.runemarks, r.Name)
	}
}

func (p *pass) reconcileBlessing() {
	blessings := p.cat.Blessings()
	p.opts.Blessings = make([]string, len(blessings))
	for i, b := range blessings {
		p.opts.Blessings[i] = b.Name
	}

	want := strings.TrimSpace(p.sel.Blessing)
	p.sel.Blessing = None
	if want == "" || isNone(want) {
		return
	}
	b, ok := p.cat.Blessing(want)
	if !ok {
		p.notef("Unknown divine blessing %q. Reverting Divine Blessing.", want)
		return
	}
	p.load.Blessing = &b
	p.sel.Blessing = b.Name
}
