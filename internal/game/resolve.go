package game

import (
	"fmt"
	"strings"

	"github.com/pefman/warcry-anvil/internal/catalog"
	"github.com/pefman/warcry-anvil/internal/models"
)

// pass is the state of one resolution. It is created per call to Resolve
// and never shared.
type pass struct {
	cat   *catalog.Catalog
	rules models.Rules

	sel       Selection
	load      Loadout
	opts      Options
	stats     models.StatBlock
	runemarks []string
	profiles  []Profile
	messages  []string
}

func (p *pass) notef(format string, args ...any) {
	p.messages = append(p.messages, fmt.Sprintf(format, args...))
}

// Resolve computes the fighter described by sel. It is deterministic and
// never fails: illegal choices are replaced by defaults and reported in
// Result.Messages, and the reconciled choices are returned in Result.Selection.
func Resolve(cat *catalog.Catalog, sel Selection) Result {
	p := &pass{
		cat:      cat,
		rules:    cat.Rules(),
		sel:      sel,
		messages: []string{},
	}

	// Eligibility: each selector depends on the ones before it.
	p.reconcileFighter()
	p.reconcileFaction()
	p.reconcileArchetype()
	p.reconcilePrimary()
	p.reconcileSecondary()
	p.reconcileMount()
	p.reconcileRunemark()
	p.reconcileBlessing()

	p.stats = ResolveStats(p.load)
	p.profiles = BuildProfiles(p.load, p.stats, p.rules)
	p.resolveBlessingTarget()

	p.messages = append(p.messages, Validate(p.rules, p.load, p.runemarks, p.profiles)...)
	points := TallyPoints(p.load, p.stats.Get(models.Wounds), p.rules)

	name := strings.TrimSpace(sel.FighterName)
	if name == "" {
		name = UnnamedFighter
	}
	faction := p.load.Faction
	if faction == "" {
		faction = None
	}
	blessingText := None
	if p.load.Blessing != nil {
		blessingText = p.load.Blessing.Text()
	}

	return Result{
		Name:            name,
		Selection:       p.sel,
		Stats:           p.stats,
		FactionRunemark: faction,
		Runemarks:       p.runemarks,
		Profiles:        p.profiles,
		BlessingText:    blessingText,
		Points:          points,
		Messages:        p.messages,
		Options:         p.opts,
	}
}
