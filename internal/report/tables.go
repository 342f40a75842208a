package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/skoirala/nepse-agent/internal/market"
	"github.com/skoirala/nepse-agent/internal/types"
	"github.com/skoirala/nepse-agent/internal/workflow"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

// newTable builds a bordered table in the house style.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Headers(headers...)
}

func render(title string, t *table.Table) string {
	return titleStyle.Render(title) + "\n" + t.String() + "\n"
}

// RenderMembers lists stored members with credentials masked.
func RenderMembers(members []types.MemberRecord) string {
	t := newTable("Name", "DP", "Username", "Kitta", "CRN")
	for _, m := range members {
		t.Row(m.Name, m.DPID, m.Username, strconv.Itoa(m.Kitta), m.CRN)
	}
	return render(fmt.Sprintf("Members (%d)", len(members)), t)
}

// RenderOutcomes lists every workflow outcome plus a per-status tally.
func RenderOutcomes(outcomes []types.WorkflowOutcome) string {
	t := newTable("Member", "Status", "Stages", "Elapsed", "Detail")
	counts := map[types.Status]int{}
	for _, o := range outcomes {
		counts[o.Status]++
		t.Row(o.Member, statusLabel(o.Status),
			fmt.Sprintf("%d/5", o.StagesDone),
			o.Elapsed.Round(time.Second).String(),
			o.Message)
	}

	var tally []string
	for _, s := range []types.Status{
		types.StatusApplied, types.StatusAlreadyApplied, types.StatusAuthFailed,
		types.StatusNoShares, types.StatusAborted, types.StatusIndeterminate,
	} {
		if counts[s] > 0 {
			tally = append(tally, fmt.Sprintf("%s: %d", s, counts[s]))
		}
	}
	return render("Application results", t) + strings.Join(tally, "  ") + "\n"
}

func statusLabel(s types.Status) string {
	switch s {
	case types.StatusApplied:
		return "✓ applied"
	case types.StatusAlreadyApplied:
		return "✓ already applied"
	case types.StatusIndeterminate:
		return "? verify manually"
	default:
		return "✗ " + string(s)
	}
}

// RenderOfferings lists open public offerings.
func RenderOfferings(offerings []market.Offering, now time.Time) string {
	t := newTable("Symbol", "Company", "Type", "Units", "Price", "Closes")
	for _, o := range offerings {
		closes := o.ClosingDate
		if days, ok := o.DaysLeft(now); ok {
			closes = fmt.Sprintf("%dd left", days)
		}
		t.Row(o.Symbol, o.Name, o.Type,
			market.FormatNumber(float64(o.Units)),
			market.FormatRupees(o.Price),
			closes)
	}
	return render(fmt.Sprintf("Open IPOs (%d)", len(offerings)), t)
}

// RenderIndices lists the live index board.
func RenderIndices(indices []market.Index, asOf string) string {
	t := newTable("Index", "Close", "Change", "% Change", "Range", "Turnover")
	for _, idx := range indices {
		t.Row(idx.Symbol,
			fmt.Sprintf("%.2f", idx.Close),
			fmt.Sprintf("%+.2f", idx.PointChange),
			fmt.Sprintf("%+.2f%%", idx.PercentChange),
			fmt.Sprintf("%.2f - %.2f", idx.Low, idx.High),
			market.FormatNumber(idx.Turnover))
	}
	return render("NEPSE indices — "+asOf, t)
}

// RenderSubIndex details one sub-index.
func RenderSubIndex(idx market.Index, asOf string) string {
	name := idx.Symbol
	if idx.Sector != "" {
		name = fmt.Sprintf("%s (%s)", idx.Sector, idx.Symbol)
	}
	t := newTable("Field", "Value")
	t.Row("Close", fmt.Sprintf("%.2f", idx.Close))
	t.Row("Change", fmt.Sprintf("%+.2f (%+.2f%%)", idx.PointChange, idx.PercentChange))
	t.Row("Open", fmt.Sprintf("%.2f", idx.Open))
	t.Row("Range", fmt.Sprintf("%.2f - %.2f", idx.Low, idx.High))
	t.Row("Turnover", market.FormatNumber(idx.Turnover))
	t.Row("As of", asOf)
	return render(name, t)
}

// RenderMovers shows the gainer and loser boards.
func RenderMovers(gainers, losers []market.Mover) string {
	build := func(title string, movers []market.Mover) string {
		t := newTable("#", "Symbol", "LTP", "% Chg", "High", "Low", "Volume")
		for i, m := range movers {
			t.Row(strconv.Itoa(i+1), m.Symbol, m.LTP, m.PercentChange, m.High, m.Low, m.Volume)
		}
		return render(title, t)
	}
	return build("Top gainers", gainers) + build("Top losers", losers)
}

// RenderHoldings lists one member's portfolio rows.
func RenderHoldings(member string, holdings []workflow.Holding) string {
	t := newTable("Scrip", "Balance", "Last Price", "Value")
	for _, h := range holdings {
		t.Row(h.Scrip, h.Balance, h.LastPrice, h.ValueAsOfLTP)
	}
	return render(fmt.Sprintf("Portfolio — %s (%d scrips)", member, len(holdings)), t)
}

// RenderDPs lists depository participants.
func RenderDPs(dps []market.DP) string {
	t := newTable("ID", "Code", "Name")
	for _, dp := range dps {
		t.Row(strconv.Itoa(dp.ID), dp.Code, dp.Name)
	}
	return render(fmt.Sprintf("Depository participants (%d)", len(dps)), t) +
		"Use the ID column as dp_value when adding members.\n"
}

// RenderMarketSummary shows the headline snapshot and the ShareSansar
// boards.
func RenderMarketSummary(snap *market.Snapshot, summary *market.Summary) string {
	var b strings.Builder

	head := newTable("Field", "Value")
	head.Row("NEPSE index", fmt.Sprintf("%.2f", snap.NepseIndex))
	head.Row("Daily change", fmt.Sprintf("%+.2f%%", snap.PercentChange))
	head.Row("Turnover", market.FormatNumber(snap.Turnover))
	head.Row("Advanced / Declined / Unchanged",
		fmt.Sprintf("%d / %d / %d", snap.Advanced, snap.Declined, snap.Unchanged))
	head.Row("Circuit +/-", fmt.Sprintf("%d / %d", snap.PositiveCircuit, snap.NegativeCircuit))
	head.Row("Total traded", strconv.Itoa(snap.TotalTraded()))
	b.WriteString(render("Market summary", head))

	if summary == nil {
		return b.String()
	}
	if summary.AsOf != "" {
		b.WriteString("As of " + summary.AsOf + "\n")
	}
	if len(summary.SectorTurnover) > 0 {
		t := newTable("Sector", "Turnover")
		for _, s := range summary.SectorTurnover {
			t.Row(s.Name, market.FormatNumber(s.Turnover))
		}
		b.WriteString(render("Sector turnover", t))
	}
	if len(summary.TopTurnovers) > 0 {
		t := newTable("Symbol", "Turnover", "LTP")
		for _, e := range summary.TopTurnovers {
			t.Row(e.Symbol, e.Turnover, e.LTP)
		}
		b.WriteString(render("Top turnovers", t))
	}
	if len(summary.TopTraded) > 0 {
		t := newTable("Symbol", "Volume", "LTP")
		for _, e := range summary.TopTraded {
			t.Row(e.Symbol, e.Volume, e.LTP)
		}
		b.WriteString(render("Top traded shares", t))
	}
	if len(summary.TopTransactions) > 0 {
		t := newTable("Symbol", "Transactions", "LTP")
		for _, e := range summary.TopTransactions {
			t.Row(e.Symbol, e.Transactions, e.LTP)
		}
		b.WriteString(render("Top transactions", t))
	}
	if len(summary.TopBrokers) > 0 {
		t := newTable("Broker", "Purchase", "Sales", "Total")
		for _, e := range summary.TopBrokers {
			t.Row(e.Broker, e.Purchase, e.Sales, e.Total)
		}
		b.WriteString(render("Top brokers", t))
	}
	return b.String()
}
