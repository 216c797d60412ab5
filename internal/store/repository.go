// Package store persists enriched trades and derived aggregates to Postgres.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dcwatch/dcwatch/internal/contracts"
	"github.com/dcwatch/dcwatch/pkg/logger"
)

// Repository owns the trades, politicians, and tickers tables.
type Repository struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewRepository creates a new trade repository.
func NewRepository(pool *pgxpool.Pool, log *logger.Logger) *Repository {
	return &Repository{pool: pool, logger: log}
}

var schemaStatements = []string{
	`DROP TABLE IF EXISTS trades`,
	`DROP TABLE IF EXISTS politicians`,
	`DROP TABLE IF EXISTS tickers`,
	`CREATE TABLE trades (
		id                TEXT PRIMARY KEY,
		politician        TEXT NOT NULL,
		party             TEXT DEFAULT '',
		state             TEXT DEFAULT '',
		chamber           TEXT DEFAULT '',
		ticker            TEXT DEFAULT '',
		asset_description TEXT DEFAULT '',
		asset_type        TEXT DEFAULT 'stock',
		tx_type           TEXT DEFAULT 'purchase',
		tx_date           TEXT DEFAULT '',
		disclosure_date   TEXT DEFAULT '',
		amount_low        BIGINT DEFAULT 0,
		amount_high       BIGINT DEFAULT 0,
		est_position      BIGINT DEFAULT 0,
		owner             TEXT DEFAULT 'self',
		filing_url        TEXT DEFAULT '',
		is_amended        BOOLEAN DEFAULT FALSE,
		days_late         INTEGER DEFAULT 0,
		price_at_trade    DOUBLE PRECISION,
		current_price     DOUBLE PRECISION,
		est_return        DOUBLE PRECISION
	)`,
	`CREATE TABLE politicians (
		name                TEXT PRIMARY KEY,
		party               TEXT DEFAULT '',
		state               TEXT DEFAULT '',
		chamber             TEXT DEFAULT '',
		total_trades        INTEGER DEFAULT 0,
		trades_with_returns INTEGER DEFAULT 0,
		est_return_1y       DOUBLE PRECISION DEFAULT 0.0,
		win_rate            DOUBLE PRECISION DEFAULT 0.0,
		unique_tickers      INTEGER DEFAULT 0
	)`,
	`CREATE TABLE tickers (
		ticker           TEXT PRIMARY KEY,
		company_name     TEXT DEFAULT '',
		sector           TEXT DEFAULT '',
		trade_count      INTEGER DEFAULT 0,
		purchase_count   INTEGER DEFAULT 0,
		sale_count       INTEGER DEFAULT 0,
		politician_count INTEGER DEFAULT 0
	)`,
	`CREATE INDEX idx_trades_politician ON trades(politician)`,
	`CREATE INDEX idx_trades_ticker ON trades(ticker)`,
	`CREATE INDEX idx_trades_tx_date ON trades(tx_date)`,
	`CREATE INDEX idx_trades_party ON trades(party)`,
	`CREATE INDEX idx_trades_chamber ON trades(chamber)`,
	`CREATE INDEX idx_trades_tx_type ON trades(tx_type)`,
	`CREATE INDEX idx_trades_disclosure_date ON trades(disclosure_date)`,
	`CREATE INDEX idx_politicians_party ON politicians(party)`,
	`CREATE INDEX idx_politicians_chamber ON politicians(chamber)`,
	`CREATE INDEX idx_politicians_return ON politicians(est_return_1y)`,
}

// CreateSchema rebuilds all tables and indexes from scratch. Every build is a
// full recompute, so old rows are dropped first.
func (r *Repository) CreateSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	r.logger.Info("Schema created (tables: trades, politicians, tickers)")
	return nil
}

// InsertTrades upserts all trades. Individual failures are logged and
// skipped, not fatal.
func (r *Repository) InsertTrades(ctx context.Context, trades []*contracts.Trade) (int, error) {
	query := `
		INSERT INTO trades (
			id, politician, party, state, chamber, ticker,
			asset_description, asset_type, tx_type, tx_date,
			disclosure_date, amount_low, amount_high, est_position,
			owner, filing_url, is_amended, days_late,
			price_at_trade, current_price, est_return
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14,
			$15, $16, $17, $18,
			$19, $20, $21
		)
		ON CONFLICT (id) DO UPDATE SET
			price_at_trade = EXCLUDED.price_at_trade,
			current_price = EXCLUDED.current_price,
			est_return = EXCLUDED.est_return,
			days_late = EXCLUDED.days_late
	`

	inserted := 0
	skipped := 0
	for _, t := range trades {
		_, err := r.pool.Exec(ctx, query,
			t.ID, t.Politician, t.Party, t.State, t.Chamber, t.Ticker,
			t.AssetDescription, t.AssetType, t.TxType, t.TxDate,
			t.DisclosureDate, t.AmountLow, t.AmountHigh, t.EstPosition,
			t.Owner, t.FilingURL, t.IsAmended, t.DaysLate,
			t.PriceAtTrade, t.CurrentPrice, t.EstReturn,
		)
		if err != nil {
			r.logger.WithError(err).Warnf("Failed to insert trade %s", t.ID)
			skipped++
			continue
		}
		inserted++
	}

	r.logger.Infof("Inserted %d trades (%d skipped)", inserted, skipped)
	return inserted, nil
}

// BuildPoliticians aggregates the trades table into per-politician rows.
// Trailing-year stats use asOf as the reference date.
func (r *Repository) BuildPoliticians(ctx context.Context, asOf time.Time) (int, error) {
	cutoff := contracts.FormatDate(asOf.AddDate(-1, 0, 0))

	query := `
		INSERT INTO politicians (
			name, party, state, chamber, total_trades,
			trades_with_returns, est_return_1y, win_rate, unique_tickers
		)
		SELECT
			politician,
			MAX(party),
			MAX(state),
			MAX(chamber),
			COUNT(*) AS total_trades,
			COUNT(est_return) AS trades_with_returns,
			ROUND(COALESCE(AVG(
				CASE WHEN est_return IS NOT NULL AND tx_date >= $1
				THEN est_return END
			), 0.0)::numeric, 2) AS est_return_1y,
			ROUND(COALESCE(
				100.0 * SUM(
					CASE WHEN est_return IS NOT NULL
						AND est_return > 0
						AND tx_date >= $1
					THEN 1 ELSE 0 END
				)::numeric / NULLIF(SUM(
					CASE WHEN est_return IS NOT NULL AND tx_date >= $1
					THEN 1 ELSE 0 END
				), 0),
			0.0), 1) AS win_rate,
			COUNT(DISTINCT ticker) AS unique_tickers
		FROM trades
		WHERE politician != ''
		GROUP BY politician
		ON CONFLICT (name) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, cutoff); err != nil {
		return 0, fmt.Errorf("building politicians table: %w", err)
	}

	count, err := r.count(ctx, "politicians")
	if err != nil {
		return 0, err
	}
	r.logger.Infof("Built politicians table: %d entries", count)
	return count, nil
}

// BuildTickers aggregates the trades table into per-ticker rows.
func (r *Repository) BuildTickers(ctx context.Context) (int, error) {
	query := `
		INSERT INTO tickers (
			ticker, company_name, sector, trade_count,
			purchase_count, sale_count, politician_count
		)
		SELECT
			ticker,
			MAX(asset_description) AS company_name,
			'' AS sector,
			COUNT(*) AS trade_count,
			SUM(CASE WHEN tx_type = 'purchase' THEN 1 ELSE 0 END) AS purchase_count,
			SUM(CASE WHEN tx_type IN ('sale_full', 'sale_partial') THEN 1 ELSE 0 END) AS sale_count,
			COUNT(DISTINCT politician) AS politician_count
		FROM trades
		WHERE ticker != ''
		GROUP BY ticker
		ON CONFLICT (ticker) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return 0, fmt.Errorf("building tickers table: %w", err)
	}

	count, err := r.count(ctx, "tickers")
	if err != nil {
		return 0, err
	}
	r.logger.Infof("Built tickers table: %d entries", count)
	return count, nil
}

// Build runs the full rebuild: schema, trade rows, derived tables.
func (r *Repository) Build(ctx context.Context, trades []*contracts.Trade, asOf time.Time) error {
	if err := r.CreateSchema(ctx); err != nil {
		return err
	}
	if _, err := r.InsertTrades(ctx, trades); err != nil {
		return err
	}
	if _, err := r.BuildPoliticians(ctx, asOf); err != nil {
		return err
	}
	if _, err := r.BuildTickers(ctx); err != nil {
		return err
	}

	tradeCount, err := r.count(ctx, "trades")
	if err != nil {
		return err
	}
	r.logger.Infof("Database build complete: %d trades", tradeCount)
	return nil
}

func (r *Repository) count(ctx context.Context, table string) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return count, nil
}
