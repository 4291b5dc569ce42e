package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgxpool.Pool the stores use. pgx.Tx satisfies it too.
type DBTX interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	config.MaxConns = 20
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Pools holds one pool per configured database. Modules configured with the
// same URL share a pool.
type Pools struct {
	Chat        *pgxpool.Pool
	Finance     *pgxpool.Pool
	HRM         *pgxpool.Pool
	SalesCRM    *pgxpool.Pool
	SupplyChain *pgxpool.Pool

	byURL map[string]*pgxpool.Pool
}

// URLs names the connection string of every database.
type URLs struct {
	Chat, Finance, HRM, SalesCRM, SupplyChain string
}

func OpenPools(ctx context.Context, urls URLs) (*Pools, error) {
	p := &Pools{byURL: make(map[string]*pgxpool.Pool)}
	open := func(url string) (*pgxpool.Pool, error) {
		if pool, ok := p.byURL[url]; ok {
			return pool, nil
		}
		pool, err := NewPool(ctx, url)
		if err != nil {
			return nil, err
		}
		p.byURL[url] = pool
		return pool, nil
	}

	targets := []struct {
		name string
		url  string
		dst  **pgxpool.Pool
	}{
		{"chat", urls.Chat, &p.Chat},
		{"finance", urls.Finance, &p.Finance},
		{"hrm", urls.HRM, &p.HRM},
		{"sales_crm", urls.SalesCRM, &p.SalesCRM},
		{"supply_chain", urls.SupplyChain, &p.SupplyChain},
	}
	for _, t := range targets {
		pool, err := open(t.url)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("open %s database: %w", t.name, err)
		}
		*t.dst = pool
	}
	return p, nil
}

func (p *Pools) Close() {
	for _, pool := range p.byURL {
		pool.Close()
	}
}

func newMigrate(databaseURL string, migrationsFS fs.FS) (*migrate.Migrate, error) {
	d, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", d, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}

func RunMigrations(databaseURL string, migrationsFS fs.FS) error {
	m, err := newMigrate(databaseURL, migrationsFS)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	slog.Info("migrations applied", "version", version, "dirty", dirty)
	return nil
}

// RollbackMigrations reverts the given number of migration steps.
func RollbackMigrations(databaseURL string, migrationsFS fs.FS, steps int) error {
	m, err := newMigrate(databaseURL, migrationsFS)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rollback migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		slog.Info("migrations rolled back", "version", "none")
		return nil
	}
	slog.Info("migrations rolled back", "version", version, "dirty", dirty)
	return nil
}
