package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ducminhle1904/perp-signal-bot/internal/signals"
)

// SQLiteSink persists signals to a SQLite database, one row per signal
// with JSON blobs for the category breakdown and reasons.
type SQLiteSink struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteSink opens (or creates) the database at dbPath and runs the
// migration.
func NewSQLiteSink(dbPath string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteSink{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteSink) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol              TEXT NOT NULL,
			timestamp           INTEGER NOT NULL,
			direction           TEXT NOT NULL,
			market_bias         TEXT NOT NULL,
			confidence          REAL NOT NULL,
			risk_level          TEXT NOT NULL,
			total_score         INTEGER NOT NULL,
			normalized_score    REAL NOT NULL,
			per_category_scores TEXT NOT NULL,
			reasons             TEXT NOT NULL,
			recommended_sl_pct  REAL NOT NULL,
			recommended_tp_pct  REAL NOT NULL,
			atr_value           REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_symbol_ts ON signals(symbol, timestamp)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Store inserts one signal row.
func (s *SQLiteSink) Store(ctx context.Context, output *signals.Output) error {
	scores, err := json.Marshal(output.PerCategoryScores)
	if err != nil {
		return fmt.Errorf("marshal category scores: %w", err)
	}
	reasons, err := json.Marshal(output.Reasons)
	if err != nil {
		return fmt.Errorf("marshal reasons: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO signals (
			symbol, timestamp, direction, market_bias, confidence, risk_level,
			total_score, normalized_score, per_category_scores, reasons,
			recommended_sl_pct, recommended_tp_pct, atr_value
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		output.Symbol,
		output.Timestamp.UnixMilli(),
		output.Direction.String(),
		output.MarketBias.String(),
		output.Confidence,
		output.RiskLevel.String(),
		output.TotalScore,
		output.NormalizedScore,
		string(scores),
		string(reasons),
		output.RecommendedSLPct,
		output.RecommendedTPPct,
		output.ATRValue,
	)
	if err != nil {
		return fmt.Errorf("insert signal: %w", err)
	}
	return nil
}

// Latest returns the most recent stored signal for symbol, or nil when
// none exists.
func (s *SQLiteSink) Latest(ctx context.Context, symbol string) (*signals.Output, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT symbol, timestamp, direction, market_bias, confidence, risk_level,
			total_score, normalized_score, per_category_scores, reasons,
			recommended_sl_pct, recommended_tp_pct, atr_value
		FROM signals WHERE symbol = ? ORDER BY timestamp DESC, id DESC LIMIT 1`,
		symbol,
	)

	var (
		out                     signals.Output
		tsMilli                 int64
		direction, bias, risk   string
		scoresJSON, reasonsJSON string
	)
	err := row.Scan(
		&out.Symbol, &tsMilli, &direction, &bias, &out.Confidence, &risk,
		&out.TotalScore, &out.NormalizedScore, &scoresJSON, &reasonsJSON,
		&out.RecommendedSLPct, &out.RecommendedTPPct, &out.ATRValue,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest signal: %w", err)
	}

	out.Timestamp = time.UnixMilli(tsMilli).UTC()
	if err := unmarshalEnum(direction, &out.Direction); err != nil {
		return nil, err
	}
	if err := unmarshalEnum(bias, &out.MarketBias); err != nil {
		return nil, err
	}
	if err := unmarshalEnum(risk, &out.RiskLevel); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(scoresJSON), &out.PerCategoryScores); err != nil {
		return nil, fmt.Errorf("unmarshal category scores: %w", err)
	}
	if err := json.Unmarshal([]byte(reasonsJSON), &out.Reasons); err != nil {
		return nil, fmt.Errorf("unmarshal reasons: %w", err)
	}
	return &out, nil
}

// unmarshalEnum routes a stored string through the enum's JSON decoder.
func unmarshalEnum(s string, out json.Unmarshaler) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return out.UnmarshalJSON(raw)
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
