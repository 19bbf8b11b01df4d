package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/google/subcommands"
	"github.com/ndewijer/portfolio-performance/internal/api/request"
	"github.com/ndewijer/portfolio-performance/internal/database"
	"github.com/ndewijer/portfolio-performance/internal/model"
)

type migrateCmd struct {
	app *App
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply pending database migrations" }
func (*migrateCmd) Usage() string {
	return `perfctl migrate

  Creates the database if needed and applies every pending schema migration.
`
}

func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (c *migrateCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	db, err := database.Open(c.app.Config.Database.Path)
	if err != nil {
		return c.app.fail(subcommands.ExitFailure, err)
	}
	defer db.Close()

	if err := database.Migrate(db, c.app.Logger); err != nil {
		return c.app.fail(subcommands.ExitFailure, err)
	}
	version, err := database.SchemaVersion(db)
	if err != nil {
		return c.app.fail(subcommands.ExitFailure, err)
	}
	fmt.Fprintf(c.app.Out, "database %s at schema version %d\n", c.app.Config.Database.Path, version)
	return subcommands.ExitSuccess
}

type refreshCmd struct {
	app *App
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "recalculate materialized monthly performance" }
func (*refreshCmd) Usage() string {
	return `perfctl refresh [<portfolio>]

  Recalculates the stored monthly periods of one portfolio, or of every portfolio
  when no ID is given.
`
}

func (*refreshCmd) SetFlags(*flag.FlagSet) {}

func (c *refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	var portfolioID string
	switch f.NArg() {
	case 0:
	case 1:
		portfolioID = strings.TrimSpace(f.Arg(0))
	default:
		return c.app.fail(subcommands.ExitUsageError, errors.New("refresh takes at most one portfolio ID"))
	}

	db, err := c.app.openDB()
	if err != nil {
		return c.app.fail(subcommands.ExitFailure, err)
	}
	defer db.Close()
	svc := c.app.services(db)

	if portfolioID == "" {
		count, err := svc.materialized.RefreshAll(ctx)
		if err != nil {
			return c.app.fail(subcommands.ExitFailure, err)
		}
		fmt.Fprintf(c.app.Out, "%d portfolios refreshed\n", count)
		return subcommands.ExitSuccess
	}

	periods, err := svc.materialized.RefreshPortfolio(ctx, portfolioID)
	if err != nil {
		return c.app.fail(subcommands.ExitFailure, err)
	}
	fmt.Fprintf(c.app.Out, "%d periods refreshed\n", periods)
	return subcommands.ExitSuccess
}

type portfoliosCmd struct {
	app *App
	all bool
}

func (*portfoliosCmd) Name() string     { return "portfolios" }
func (*portfoliosCmd) Synopsis() string { return "list portfolios and their IDs" }
func (*portfoliosCmd) Usage() string {
	return `perfctl portfolios [-all]

  Lists active portfolios. Use -all to include archived and excluded ones.
`
}

func (c *portfoliosCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "Include archived and excluded portfolios")
}

func (c *portfoliosCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	db, err := c.app.openDB()
	if err != nil {
		return c.app.fail(subcommands.ExitFailure, err)
	}
	defer db.Close()
	svc := c.app.services(db)

	var portfolios []model.Portfolio
	if c.all {
		portfolios, err = svc.portfolio.GetAllPortfolios(ctx)
	} else {
		portfolios, err = svc.portfolio.GetActivePortfolios(ctx)
	}
	if err != nil {
		return c.app.fail(subcommands.ExitFailure, err)
	}
	if err := c.app.printMarkdown(PortfoliosMarkdown(portfolios)); err != nil {
		return c.app.fail(subcommands.ExitFailure, err)
	}
	return subcommands.ExitSuccess
}

// reportFlags are shared by the report commands.
type reportFlags struct {
	portfolioID string
	rangeKey    string
	date        string
	currency    string
}

func (r *reportFlags) set(f *flag.FlagSet, withRange bool, defaultCurrency string) {
	f.StringVar(&r.portfolioID, "p", "", "Portfolio ID (required)")
	f.StringVar(&r.date, "d", "", "Evaluation date YYYY-MM-DD (defaults to today)")
	f.StringVar(&r.currency, "c", defaultCurrency, "Currency used to format amounts")
	if withRange {
		f.StringVar(&r.rangeKey, "r", "ALL", "Range: 30D, 60D, 90D, 1Y, YTD, monthly, yearly, ALL")
	}
}

// report is a validated report invocation.
type report struct {
	query    *request.PerformanceQuery
	currency *money.Currency
}

func (r *reportFlags) parse(app *App) (*report, error) {
	if strings.TrimSpace(r.portfolioID) == "" {
		return nil, errors.New("-p portfolio ID is required")
	}
	query, err := request.ParsePerformanceQuery(r.rangeKey, r.date, app.now())
	if err != nil {
		return nil, err
	}
	cur, err := lookupCurrency(r.currency)
	if err != nil {
		return nil, err
	}
	return &report{query: query, currency: cur}, nil
}

type monthlyCmd struct {
	app   *App
	flags reportFlags
}

func (*monthlyCmd) Name() string     { return "monthly" }
func (*monthlyCmd) Synopsis() string { return "display monthly returns of a portfolio" }
func (*monthlyCmd) Usage() string {
	return `perfctl monthly -p <portfolio> [-r <range>] [-d <date>] [-c <currency>]

  Displays the monthly performance periods of a portfolio, newest first.
`
}

func (c *monthlyCmd) SetFlags(f *flag.FlagSet) {
	c.flags.set(f, true, c.app.Config.Currency)
}

func (c *monthlyCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	rep, err := c.flags.parse(c.app)
	if err != nil {
		return c.app.fail(subcommands.ExitUsageError, err)
	}

	db, err := c.app.openDB()
	if err != nil {
		return c.app.fail(subcommands.ExitFailure, err)
	}
	defer db.Close()
	svc := c.app.services(db)

	portfolio, err := svc.portfolio.GetPortfolio(ctx, c.flags.portfolioID)
	if err != nil {
		return c.app.fail(subcommands.ExitFailure, err)
	}
	periods, err := svc.performance.GetMonthlyPerformance(ctx, portfolio.ID, rep.query.Range, rep.query.AsOf)
	if err != nil {
		return c.app.fail(subcommands.ExitFailure, err)
	}
	if err := c.app.printMarkdown(MonthlyMarkdown(portfolio.Name, rep.query.Range, periods, rep.currency)); err != nil {
		return c.app.fail(subcommands.ExitFailure, err)
	}
	return subcommands.ExitSuccess
}

type metricsCmd struct {
	app   *App
	flags reportFlags
}

func (*metricsCmd) Name() string     { return "metrics" }
func (*metricsCmd) Synopsis() string { return "display value, contributions and PnL of a portfolio" }
func (*metricsCmd) Usage() string {
	return `perfctl metrics -p <portfolio> [-d <date>] [-c <currency>]

  Displays the headline metrics of a portfolio.
`
}

func (c *metricsCmd) SetFlags(f *flag.FlagSet) {
	c.flags.set(f, false, c.app.Config.Currency)
}

func (c *metricsCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	rep, err := c.flags.parse(c.app)
	if err != nil {
		return c.app.fail(subcommands.ExitUsageError, err)
	}

	db, err := c.app.openDB()
	if err != nil {
		return c.app.fail(subcommands.ExitFailure, err)
	}
	defer db.Close()
	svc := c.app.services(db)

	portfolio, err := svc.portfolio.GetPortfolio(ctx, c.flags.portfolioID)
	if err != nil {
		return c.app.fail(subcommands.ExitFailure, err)
	}
	metrics, err := svc.performance.GetMetrics(ctx, portfolio.ID, rep.query.AsOf)
	if err != nil {
		return c.app.fail(subcommands.ExitFailure, err)
	}
	if err := c.app.printMarkdown(MetricsMarkdown(portfolio.Name, metrics, rep.currency)); err != nil {
		return c.app.fail(subcommands.ExitFailure, err)
	}
	return subcommands.ExitSuccess
}

type chartCmd struct {
	app   *App
	flags reportFlags
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "display the value history of a portfolio" }
func (*chartCmd) Usage() string {
	return `perfctl chart -p <portfolio> [-r <range>] [-d <date>] [-c <currency>]

  Displays valuation points with the cumulative invested amount, oldest first.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	c.flags.set(f, true, c.app.Config.Currency)
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	rep, err := c.flags.parse(c.app)
	if err != nil {
		return c.app.fail(subcommands.ExitUsageError, err)
	}

	db, err := c.app.openDB()
	if err != nil {
		return c.app.fail(subcommands.ExitFailure, err)
	}
	defer db.Close()
	svc := c.app.services(db)

	portfolio, err := svc.portfolio.GetPortfolio(ctx, c.flags.portfolioID)
	if err != nil {
		return c.app.fail(subcommands.ExitFailure, err)
	}
	points, err := svc.performance.GetChartData(ctx, portfolio.ID, rep.query.Range, rep.query.AsOf)
	if err != nil {
		return c.app.fail(subcommands.ExitFailure, err)
	}
	if err := c.app.printMarkdown(ChartMarkdown(portfolio.Name, rep.query.Range, points, rep.currency)); err != nil {
		return c.app.fail(subcommands.ExitFailure, err)
	}
	return subcommands.ExitSuccess
}
