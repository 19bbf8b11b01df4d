// Package cli implements the perfctl command line application.
package cli

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/ndewijer/portfolio-performance/internal/config"
	"github.com/ndewijer/portfolio-performance/internal/database"
	"github.com/ndewijer/portfolio-performance/internal/repository"
	"github.com/ndewijer/portfolio-performance/internal/service"
	"github.com/rs/zerolog"
)

// App carries what every subcommand needs: configuration, logger and output streams.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Out    io.Writer
	Err    io.Writer

	// Plain prints raw markdown instead of terminal styled output.
	Plain bool

	now func() time.Time
}

// NewApp creates an App writing reports to stdout and errors to stderr.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{
		Config: cfg,
		Logger: logger,
		Out:    os.Stdout,
		Err:    os.Stderr,
		now:    time.Now,
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander, app *App) {
	c.Register(&migrateCmd{app: app}, "database")
	c.Register(&refreshCmd{app: app}, "database")

	c.Register(&portfoliosCmd{app: app}, "reports")
	c.Register(&monthlyCmd{app: app}, "reports")
	c.Register(&metricsCmd{app: app}, "reports")
	c.Register(&chartCmd{app: app}, "reports")
}

// openDB opens the configured database and refuses to continue on an outdated schema.
func (a *App) openDB() (*sql.DB, error) {
	db, err := database.Open(a.Config.Database.Path)
	if err != nil {
		return nil, err
	}

	version, err := database.SchemaVersion(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}
	if version < database.LatestVersion {
		db.Close()
		return nil, fmt.Errorf("database schema is at version %d, expected %d; run `perfctl migrate`", version, database.LatestVersion)
	}
	return db, nil
}

// services bundles the services used by the report commands.
type services struct {
	portfolio    *service.PortfolioService
	performance  *service.PerformanceService
	materialized *service.MaterializedService
}

func (a *App) services(db *sql.DB) services {
	portfolioRepo := repository.NewPortfolioRepository(db)
	materializedRepo := repository.NewMaterializedRepository(db)
	loader := service.NewDataLoaderService(
		portfolioRepo,
		repository.NewCashFlowRepository(db),
		repository.NewValuationRepository(db),
	)

	perf := service.NewPerformanceService(loader, materializedRepo, a.Logger)
	perf.SetClock(a.now)
	mat := service.NewMaterializedService(materializedRepo, portfolioRepo, loader, a.Config.Snapshot.Workers, a.Logger)
	mat.SetClock(a.now)

	return services{
		portfolio:    service.NewPortfolioService(portfolioRepo, a.Logger),
		performance:  perf,
		materialized: mat,
	}
}

// fail prints err to the error stream and returns status.
func (a *App) fail(status subcommands.ExitStatus, err error) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, "Error: %v\n", err)
	return status
}
