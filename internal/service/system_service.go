package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/ndewijer/portfolio-performance/internal/database"
	"github.com/ndewijer/portfolio-performance/internal/model"
	"github.com/ndewijer/portfolio-performance/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db       *sql.DB
	features map[string]bool
}

// NewSystemService creates a new SystemService.
// features lists optional capabilities reported by the version endpoint.
func NewSystemService(db *sql.DB, features map[string]bool) *SystemService {
	return &SystemService{
		db:       db,
		features: features,
	}
}

// healthCheckTimeout bounds the database ping of a health check.
const healthCheckTimeout = 2 * time.Second

// CheckHealth pings the database, giving up after healthCheckTimeout.
func (s *SystemService) CheckHealth(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	return database.HealthCheck(ctx, s.db)
}

// CheckVersion reports the application version and the applied schema version.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	dbVersion, err := database.SchemaVersion(s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("failed to read schema version: %w", err)
	}

	features := make(map[string]bool, len(s.features))
	for name, enabled := range s.features {
		features[name] = enabled
	}

	info := model.VersionInfo{
		AppVersion:      version.Version,
		DbVersion:       strconv.FormatInt(dbVersion, 10),
		Features:        features,
		MigrationNeeded: dbVersion < database.LatestVersion,
	}

	if info.MigrationNeeded {
		msg := fmt.Sprintf("database schema is at version %d, expected %d; run `perfctl migrate`", dbVersion, database.LatestVersion)
		info.MigrationMessage = &msg
	}

	return info, nil
}
