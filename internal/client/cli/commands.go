package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/dmitrijs2005/paystream/internal/common"
)

// command is one REPL command. A command with no kinds is available
// regardless of the session; otherwise it needs one of the listed dashboards.
type command struct {
	usage string
	kinds []models.DashboardKind
	// unlocked commands of the owner dashboard need the unlock gate passed.
	unlocked bool
	run      func(ctx context.Context, args []string) error
}

var (
	anyView       = []models.DashboardKind{models.DashboardEmployee, models.DashboardAdmin, models.DashboardOwner}
	privileged    = []models.DashboardKind{models.DashboardAdmin, models.DashboardOwner}
	adminOnly     = []models.DashboardKind{models.DashboardAdmin}
	ownerOnly     = []models.DashboardKind{models.DashboardOwner}
	employeeOnly  = []models.DashboardKind{models.DashboardEmployee}
	alwaysVisible []models.DashboardKind
)

func (a *App) buildCommands() map[string]command {
	return map[string]command{
		"keygen":      {usage: "keygen", kinds: alwaysVisible, run: a.keygen},
		"history":     {usage: "history [n | operation-id]", kinds: alwaysVisible, run: a.history},
		"hash-secret": {usage: "hash-secret", kinds: alwaysVisible, run: a.hashSecret},
		"connect":     {usage: "connect", kinds: alwaysVisible, run: a.connect},
		"disconnect":  {usage: "disconnect", kinds: anyView, run: a.disconnect},
		"status":      {usage: "status", kinds: anyView, run: a.status},
		"switch":      {usage: "switch <admin|owner|employee>", kinds: anyView, run: a.switchView},
		"unlock":      {usage: "unlock", kinds: ownerOnly, run: a.unlock},
		"refresh":     {usage: "refresh", kinds: anyView, run: a.refreshCmd},
		"show":        {usage: "show", kinds: anyView, run: a.show},

		"deposit":        {usage: "deposit <amount>", kinds: adminOnly, run: a.deposit},
		"mint":           {usage: "mint [amount]", kinds: adminOnly, run: a.mint},
		"start":          {usage: "start <address> <rate per second>", kinds: adminOnly, run: a.startStream},
		"salary":         {usage: "salary <address> <rate per second>", kinds: adminOnly, run: a.updateSalary},
		"pause":          {usage: "pause <address>", kinds: adminOnly, run: a.pause},
		"resume":         {usage: "resume <address>", kinds: adminOnly, run: a.resume},
		"terminate":      {usage: "terminate <address>", kinds: adminOnly, run: a.terminate},
		"tax":            {usage: "tax <address> <percent>", kinds: adminOnly, run: a.updateTax},
		"collect-tax":    {usage: "collect-tax", kinds: adminOnly, run: a.collectTax},
		"distribute":     {usage: "distribute <address>", kinds: adminOnly, run: a.distributeYield},
		"bonus":          {usage: "bonus <address> <amount> <delay>", kinds: adminOnly, run: a.scheduleBonus},
		"cancel-bonus":   {usage: "cancel-bonus <address> <index>", kinds: adminOnly, run: a.cancelBonus},
		"toggle-offramp": {usage: "toggle-offramp", kinds: privileged, unlocked: true, run: a.toggleOffRamp},
		"exchange-rate":  {usage: "exchange-rate <currency> <rate>", kinds: privileged, unlocked: true, run: a.exchangeRate},
		"yield-rate":     {usage: "yield-rate <bps>", kinds: privileged, unlocked: true, run: a.yieldRate},
		"process":        {usage: "process <address> <index>", kinds: privileged, unlocked: true, run: a.processOffRamp},

		"collect-fees": {usage: "collect-fees", kinds: ownerOnly, unlocked: true, run: a.collectFees},
		"fee":          {usage: "fee <percent>", kinds: ownerOnly, unlocked: true, run: a.platformFee},

		"bonuses":     {usage: "bonuses [address]", kinds: anyView, unlocked: true, run: a.bonuses},
		"offramps":    {usage: "offramps [address]", kinds: anyView, unlocked: true, run: a.listOffRamps},
		"withdraw":    {usage: "withdraw", kinds: employeeOnly, run: a.withdraw},
		"claim-yield": {usage: "claim-yield", kinds: employeeOnly, run: a.claimYield},
		"claim-bonus": {usage: "claim-bonus <index>", kinds: employeeOnly, run: a.claimBonus},
		"offramp":     {usage: "offramp <amount> [currency]", kinds: employeeOnly, run: a.requestOffRamp},
		"watch":       {usage: "watch [ticks]", kinds: employeeOnly, run: a.watch},
	}
}

func (a *App) dashboard() models.DashboardKind {
	s, ok := a.session.Current()
	if !ok {
		return models.DashboardNone
	}
	return s.Dashboard()
}

func (c command) availableIn(kind models.DashboardKind) bool {
	if len(c.kinds) == 0 {
		return true
	}
	for _, k := range c.kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Commands lists the commands available in the current view, sorted.
func (a *App) Commands() []string {
	kind := a.dashboard()
	names := make([]string, 0, len(a.commands))
	for name, c := range a.commands {
		if c.availableIn(kind) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Exec runs the named command after checking it belongs to the current view.
func (a *App) Exec(ctx context.Context, name string, args []string) error {
	c, ok := a.commands[name]
	if !ok {
		return errUnknownCommand
	}
	kind := a.dashboard()
	if !c.availableIn(kind) {
		if kind == models.DashboardNone {
			return fmt.Errorf("%w: %s needs a connected session", common.ErrConnection, name)
		}
		return fmt.Errorf("%w: %s is not available in this view", common.ErrNotPermitted, name)
	}
	if c.unlocked {
		if s, _ := a.session.Current(); s.OwnerLocked() {
			return fmt.Errorf("%w: run unlock first", common.ErrLocked)
		}
	}
	err := c.run(ctx, args)
	if errors.Is(err, errUsage) {
		return fmt.Errorf("usage: %s", c.usage)
	}
	return err
}
