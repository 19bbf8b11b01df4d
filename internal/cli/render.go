package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/ndewijer/portfolio-performance/internal/model"
	"github.com/shopspring/decimal"
)

// printMarkdown renders md for the terminal, or writes it untouched in plain mode.
func (a *App) printMarkdown(md string) error {
	if a.Plain {
		_, err := io.WriteString(a.Out, md)
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(a.Out, out)
	return err
}

// lookupCurrency resolves an ISO 4217 code, e.g. "EUR".
func lookupCurrency(code string) (*money.Currency, error) {
	cur := money.GetCurrency(strings.ToUpper(strings.TrimSpace(code)))
	if cur == nil {
		return nil, fmt.Errorf("unknown currency %q", code)
	}
	return cur, nil
}

// formatMoney formats an amount with the currency's symbol and separators.
// The amount is rounded to the currency's minor unit.
func formatMoney(amount decimal.Decimal, cur *money.Currency) string {
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}

func formatPercent(pct decimal.Decimal) string {
	return pct.StringFixed(2) + "%"
}

// PortfoliosMarkdown lists portfolios with their identifiers.
func PortfoliosMarkdown(portfolios []model.Portfolio) string {
	var b strings.Builder
	b.WriteString("# Portfolios\n\n")
	if len(portfolios) == 0 {
		b.WriteString("No portfolios.\n")
		return b.String()
	}

	b.WriteString("| Name | ID | Archived | Excluded |\n")
	b.WriteString("|:---|:---|:---:|:---:|\n")
	for _, p := range portfolios {
		fmt.Fprintf(&b, "| %s | `%s` | %s | %s |\n", escapeCell(p.Name), p.ID, yesNo(p.IsArchived), yesNo(p.ExcludeFromOverview))
	}
	return b.String()
}

// MonthlyMarkdown renders monthly periods, newest first, as a table.
func MonthlyMarkdown(name string, key model.RangeKey, periods []model.MonthlyPeriod, cur *money.Currency) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Monthly performance: %s (%s)\n\n", escapeCell(name), key)
	if len(periods) == 0 {
		b.WriteString("No valuations recorded.\n")
		return b.String()
	}

	b.WriteString("| Month | Start | End | Net flow | PnL | Return | Cumulative |\n")
	b.WriteString("|:---|---:|---:|---:|---:|---:|---:|\n")
	for _, p := range periods {
		label := p.PeriodLabel
		if p.IsOngoing {
			label += " *"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			label,
			formatMoney(p.StartValue, cur),
			formatMoney(p.EndValue, cur),
			formatMoney(p.NetFlow, cur),
			formatMoney(p.PnL, cur),
			formatPercent(p.ReturnPct),
			formatPercent(p.CumulativeReturn),
		)
	}
	if periods[0].IsOngoing {
		b.WriteString("\n\\* month in progress, valued at the latest known valuation\n")
	}
	return b.String()
}

// MetricsMarkdown renders the headline metrics of a portfolio.
func MetricsMarkdown(name string, m model.PortfolioMetrics, cur *money.Currency) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Metrics: %s\n\n", escapeCell(name))
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|:---|---:|\n")
	fmt.Fprintf(&b, "| Current value | %s |\n", formatMoney(m.CurrentValue, cur))
	fmt.Fprintf(&b, "| Total invested | %s |\n", formatMoney(m.TotalInvested, cur))
	fmt.Fprintf(&b, "| Total withdrawn | %s |\n", formatMoney(m.TotalWithdrawn, cur))
	fmt.Fprintf(&b, "| Net contributions | %s |\n", formatMoney(m.NetContributions, cur))
	fmt.Fprintf(&b, "| Total PnL | %s |\n", formatMoney(m.TotalPnL, cur))
	fmt.Fprintf(&b, "| Simple return | %s |\n", formatPercent(m.SimpleReturnPct))
	return b.String()
}

// ChartMarkdown renders chart points, oldest first.
func ChartMarkdown(name string, key model.RangeKey, points []model.ChartPoint, cur *money.Currency) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Value history: %s (%s)\n\n", escapeCell(name), key)
	if len(points) == 0 {
		b.WriteString("No valuations in range.\n")
		return b.String()
	}

	b.WriteString("| Date | Value | Invested |\n")
	b.WriteString("|:---|---:|---:|\n")
	for _, p := range points {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", p.Date.Format("2006-01-02"), formatMoney(p.Value, cur), formatMoney(p.Invested, cur))
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
