package cli

import (
	"fmt"
	"io"
	"math/big"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/dmitrijs2005/paystream/internal/client/services"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func streamStatus(active, paused bool, rate *big.Int) string {
	switch {
	case active && paused:
		return "paused"
	case active:
		return "streaming"
	case models.IsTerminated(active, rate):
		return "terminated"
	default:
		return "not started"
	}
}

// rawInt prints a ledger integer as stored, without token scaling.
func rawInt(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

func renderAdmin(w io.Writer, snap services.AdminSnapshot) {
	d := snap.Dashboard
	tw := newTable(w)
	fmt.Fprintf(tw, "Treasury\t%s\n", models.FormatToken(d.Treasury))
	fmt.Fprintf(tw, "Tax vault\t%s\n", models.FormatToken(d.TaxVault))
	fmt.Fprintf(tw, "Total yield\t%s\n", models.FormatToken(d.TotalYield))
	fmt.Fprintf(tw, "Yield liability\t%s\n", models.FormatToken(d.YieldLiability))
	fmt.Fprintf(tw, "Contract balance\t%s\n", models.FormatToken(d.ContractBalance))
	fmt.Fprintf(tw, "Employees\t%d (%d active)\n", d.EmployeeCount, d.ActiveCount)
	fmt.Fprintf(tw, "Yield rate\t%d bps\n", d.YieldRateBps)
	fmt.Fprintf(tw, "Off-ramp\t%s\n", onOff(d.OffRampEnabled))
	fmt.Fprintf(tw, "Default tax\t%d%%\n", d.DefaultTaxPercent)
	fmt.Fprintf(tw, "INR rate\t%s\n", rawInt(d.INRRate))
	_ = tw.Flush()

	if len(snap.Employees) == 0 {
		fmt.Fprintln(w, "No employees.")
		return
	}
	fmt.Fprintln(w)
	tw = newTable(w)
	fmt.Fprintln(tw, "#\tADDRESS\tRATE/S\tEARNED\tTAX\tSTATUS")
	for _, e := range snap.Employees {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d%%\t%s\n",
			e.Index, e.Address.Hex(),
			models.FormatUnits(e.RatePerSecond, 18, 6),
			models.FormatToken(e.GrossEarned),
			e.TaxPercent,
			streamStatus(e.Active, e.Paused, e.RatePerSecond))
	}
	_ = tw.Flush()
}

func renderOwner(w io.Writer, snap services.AdminSnapshot) {
	d := snap.Dashboard
	tw := newTable(w)
	fmt.Fprintf(tw, "Platform fee vault\t%s\n", models.FormatToken(d.PlatformFeeVault))
	fmt.Fprintf(tw, "Platform fee\t%d%%\n", d.PlatformFeePercent)
	fmt.Fprintf(tw, "Yield rate\t%d bps\n", d.YieldRateBps)
	fmt.Fprintf(tw, "Off-ramp\t%s\n", onOff(d.OffRampEnabled))
	fmt.Fprintf(tw, "Treasury\t%s\n", models.FormatToken(d.Treasury))
	fmt.Fprintf(tw, "Employees\t%d (%d active)\n", d.EmployeeCount, d.ActiveCount)
	_ = tw.Flush()
}

// renderEmployee shows the salary breakdown. live, when set, replaces the
// fetched gross figure with the running estimate.
func renderEmployee(w io.Writer, snap services.EmployeeSnapshot, live *big.Int, now time.Time) {
	if !snap.HasStream() {
		fmt.Fprintf(w, "No salary stream found for %s.\n", snap.Identity.Hex())
		return
	}
	s := snap.Salary
	tw := newTable(w)
	if live != nil && s.Streaming() {
		fmt.Fprintf(tw, "Earned\t%s (live estimate)\n", models.FormatToken(live))
	} else {
		fmt.Fprintf(tw, "Earned\t%s\n", models.FormatToken(s.GrossEarned))
	}
	fmt.Fprintf(tw, "Net\t%s\n", models.FormatToken(s.NetEarned))
	fmt.Fprintf(tw, "Tax\t%s\n", models.FormatToken(s.TaxAmount))
	fmt.Fprintf(tw, "Platform fee\t%s\n", models.FormatToken(s.PlatformFee))
	fmt.Fprintf(tw, "Withdrawn\t%s\n", models.FormatToken(s.TotalWithdrawn))
	fmt.Fprintf(tw, "Rate\t%s / s\n", models.FormatUnits(s.RatePerSecond, 18, 6))
	fmt.Fprintf(tw, "Status\t%s\n", streamStatus(s.Active, s.Paused, s.RatePerSecond))
	fmt.Fprintf(tw, "Yield\t%s claimable, %s pending\n", models.FormatToken(snap.Yield.Claimable), models.FormatToken(snap.Yield.Pending))
	fmt.Fprintf(tw, "Bonuses\t%s claimable, %s pending\n", models.FormatToken(snap.Bonus.Claimable), models.FormatToken(snap.Bonus.Pending))
	_ = tw.Flush()

	if len(snap.Bonuses) > 0 {
		fmt.Fprintln(w)
		renderBonuses(w, snap.Bonuses, now)
	}
}

func renderBonuses(w io.Writer, list []models.ScheduledBonus, now time.Time) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No scheduled bonuses.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tAMOUNT\tRELEASE\tSTATE")
	for _, b := range list {
		state := "pending"
		switch acts := services.ActionsFor(b, now); {
		case b.Claimed:
			state = "claimed"
		case acts.Claim:
			state = "claimable"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", b.Index, models.FormatToken(b.Amount), b.ReleaseTime.Local().Format(time.DateTime), state)
	}
	_ = tw.Flush()
}

func renderOffRamps(w io.Writer, list []models.OffRampRequest) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No off-ramp requests.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tAMOUNT\tCURRENCY\tSTATE")
	for _, r := range list {
		state := "pending"
		if r.Processed {
			state = "processed"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.Index, models.FormatToken(r.Amount), r.Currency, state)
	}
	_ = tw.Flush()
}

func renderHistory(w io.Writer, recs []models.TxRecord) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No journaled transactions.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "WHEN\tOP ID\tOPERATION\tSTEP\tSTATUS\tHASH")
	for _, r := range recs {
		hash := r.Hash
		if hash == "" {
			hash = "-"
		}
		status := string(r.Status)
		if r.Error != "" {
			status += ": " + r.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.CreatedAt.Local().Format(time.DateTime), r.OperationId, r.Operation, r.Step, status, hash)
	}
	_ = tw.Flush()
}
