package sqlx

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"rankboard/core"
)

// Driver names a supported database/sql driver.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
)

// Config holds SQL connection configuration.
type Config struct {
	Driver          Driver        `json:"driver" env:"RANKBOARD_SQL_DRIVER"`
	DSN             string        `json:"dsn" env:"RANKBOARD_SQL_DSN"`
	Table           string        `json:"table" env:"RANKBOARD_SQL_TABLE"`
	Board           string        `json:"board" env:"RANKBOARD_SQL_BOARD"`
	MaxOpenConns    int           `json:"max_open_conns" env:"RANKBOARD_SQL_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `json:"max_idle_conns" env:"RANKBOARD_SQL_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" env:"RANKBOARD_SQL_CONN_MAX_LIFETIME"`
}

// DefaultConfig returns defaults for the given driver.
func DefaultConfig(driver Driver) Config {
	return Config{
		Driver:          driver,
		Table:           "roster_entries",
		Board:           "default",
		MaxOpenConns:    5,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks driver and table settings. DSN is only required by New.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("unsupported driver %q", c.Driver)
	}
	if !identifier.MatchString(c.Table) {
		return fmt.Errorf("invalid table name %q", c.Table)
	}
	return nil
}

// Schema is the table layout Source reads from (postgres flavour).
const Schema = `CREATE TABLE IF NOT EXISTS roster_entries (
	board    TEXT    NOT NULL,
	position INTEGER NOT NULL,
	name     TEXT    NOT NULL,
	score    BIGINT  NOT NULL,
	PRIMARY KEY (board, position)
)`

// Source reads one board's roster from a SQL table ordered by position.
type Source struct {
	db     *sqlx.DB
	driver Driver
	query  string
	board  string
}

type row struct {
	Name  string `db:"name"`
	Score int64  `db:"score"`
}

// New opens and pings a database connection.
func New(cfg Config) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.DSN == "" {
		return nil, errors.New("dsn cannot be empty")
	}
	db, err := sqlx.Connect(string(cfg.Driver), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return newSource(db, cfg), nil
}

// NewWithDB wraps an existing handle using default table settings.
func NewWithDB(db *sqlx.DB, driver Driver) *Source {
	return newSource(db, DefaultConfig(driver))
}

func newSource(db *sqlx.DB, cfg Config) *Source {
	board := cfg.Board
	if board == "" {
		board = "default"
	}
	q := fmt.Sprintf("SELECT name, score FROM %s WHERE board = ? ORDER BY position", cfg.Table)
	return &Source{db: db, driver: cfg.Driver, query: db.Rebind(q), board: board}
}

func (s *Source) Close() error { return s.db.Close() }

func (s *Source) Load(ctx context.Context) ([]*core.Record, error) {
	var rows []row
	if err := s.db.SelectContext(ctx, &rows, s.query, s.board); err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	out := make([]*core.Record, len(rows))
	for i, r := range rows {
		out[i] = core.NewRecord(r.Name, r.Score)
	}
	return out, nil
}
