package jurisdictionfilter

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"records-search/internal/common/config"
	"records-search/internal/common/errors"
	"records-search/internal/common/logger"
	"records-search/internal/models"

	"github.com/lib/pq"
)

// Catalog supplies the fixed set of jurisdictions at process start.
type Catalog interface {
	Load(ctx context.Context) ([]models.JurisdictionOption, error)
}

// StaticCatalog serves the catalog declared in configuration.
type StaticCatalog struct {
	entries []config.JurisdictionConfig
}

func NewStaticCatalog(entries []config.JurisdictionConfig) *StaticCatalog {
	return &StaticCatalog{entries: entries}
}

func (s *StaticCatalog) Load(_ context.Context) ([]models.JurisdictionOption, error) {
	out := make([]models.JurisdictionOption, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, models.JurisdictionOption{ID: e.ID, Label: e.Label})
	}
	if err := checkIdentity(out); err != nil {
		return nil, errors.NewCatalogLoadFailedError(config.CatalogStatic, err)
	}
	return out, nil
}

// PostgresCatalog reads (id, label) rows from a table.
type PostgresCatalog struct {
	db     *sql.DB
	table  string
	logger logger.Logger
}

func NewPostgresCatalog(db *sql.DB, table string, log logger.Logger) *PostgresCatalog {
	return &PostgresCatalog{
		db:     db,
		table:  table,
		logger: log.WithFields(map[string]interface{}{"catalog": config.CatalogPostgres, "table": table}),
	}
}

// Query returns the statement used to read the catalog.
func (p *PostgresCatalog) Query() string {
	return fmt.Sprintf("SELECT id, label FROM %s ORDER BY id", pq.QuoteIdentifier(p.table))
}

func (p *PostgresCatalog) Load(ctx context.Context) ([]models.JurisdictionOption, error) {
	rows, err := p.db.QueryContext(ctx, p.Query())
	if err != nil {
		return nil, errors.NewCatalogLoadFailedError(config.CatalogPostgres, err)
	}
	defer rows.Close()

	var out []models.JurisdictionOption
	for rows.Next() {
		var opt models.JurisdictionOption
		if err := rows.Scan(&opt.ID, &opt.Label); err != nil {
			return nil, errors.NewCatalogLoadFailedError(config.CatalogPostgres, err)
		}
		out = append(out, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewCatalogLoadFailedError(config.CatalogPostgres, err)
	}

	if err := checkIdentity(out); err != nil {
		return nil, errors.NewCatalogLoadFailedError(config.CatalogPostgres, err)
	}

	p.logger.Debug("Loaded jurisdiction catalog", map[string]interface{}{"count": len(out)})
	return out, nil
}

func checkIdentity(options []models.JurisdictionOption) error {
	seen := make(map[int]string, len(options))
	for _, opt := range options {
		if prev, dup := seen[opt.ID]; dup {
			return fmt.Errorf("id %d used by both %q and %q", opt.ID, prev, opt.Label)
		}
		if strings.TrimSpace(opt.Label) == "" {
			return fmt.Errorf("id %d has an empty label", opt.ID)
		}
		seen[opt.ID] = opt.Label
	}
	return nil
}
