package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	pq "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/smallwins/internal/logger"
	"github.com/julianstephens/smallwins/internal/migration"
	"github.com/julianstephens/smallwins/migrations"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// SQLStore keeps keys in a single "kv" table on SQLite or PostgreSQL.
type SQLStore struct {
	driver string
	dsn    string
	db     *sqlx.DB
}

// NewSQLiteStore creates a store backed by the SQLite file at path.
func NewSQLiteStore(path string) *SQLStore {
	return &SQLStore{driver: "sqlite", dsn: path}
}

// NewPostgresStore creates a store backed by the given PostgreSQL connection string.
func NewPostgresStore(connStr string) *SQLStore {
	return &SQLStore{driver: "postgres", dsn: connStr}
}

func (s *SQLStore) Init(ctx context.Context) error {
	if s.driver == "sqlite" {
		dir := filepath.Dir(s.dsn)
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := s.open(ctx); err != nil {
		return err
	}

	runner, err := s.runner()
	if err != nil {
		return err
	}
	if _, err := runner.Apply(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *SQLStore) Load(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	if s.driver == "sqlite" {
		if _, err := os.Stat(s.dsn); os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'smallwins init' first")
		}
	}

	if err := s.open(ctx); err != nil {
		return err
	}

	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.Check(ctx)
}

func (s *SQLStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *SQLStore) Location() string {
	if s.driver == "postgres" {
		// Never echo the connection string
		return "postgresql"
	}
	return s.dsn
}

// DB returns the underlying connection, or nil before Init/Load.
func (s *SQLStore) DB() *sqlx.DB {
	return s.db
}

func (s *SQLStore) open(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	db, err := sqlx.Open(s.driver, s.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if s.driver == "sqlite" {
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		if s.driver == "postgres" && strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.dsn) {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	s.db = db
	logger.Debug("Opened store", "driver", s.driver, "location", s.Location())
	return nil
}

func (s *SQLStore) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, s.driver)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", s.driver, err)
	}
	return migration.NewRunner(s.db, subFS), nil
}

// SchemaVersion reports how the database schema compares with this build.
func (s *SQLStore) SchemaVersion(ctx context.Context) (migration.Status, error) {
	if s.db == nil {
		return migration.Status{}, fmt.Errorf("storage not loaded")
	}
	runner, err := s.runner()
	if err != nil {
		return migration.Status{}, err
	}
	st, err := runner.Status(ctx)
	if err != nil {
		return migration.Status{}, fmt.Errorf("failed to read schema version: %w", err)
	}
	return st, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.db == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	var value string
	err := s.db.GetContext(ctx, &value, s.db.Rebind("SELECT value FROM kv WHERE key = ?"), key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(value), nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}

	query := s.db.Rebind(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	_, err := s.db.ExecContext(ctx, query, key, string(value), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}

	_, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM kv WHERE key = ?"), key)
	return err
}

// ValidateConnString checks if a connection string is a valid
// PostgreSQL connection string (URI or DSN) and ensures it does not
// contain a password.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return false, fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if IsPostgres(connStr) {
		parsedURL, err := url.Parse(connStr)
		if err != nil {
			return false, fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := parsedURL.User.Password(); isSet {
			return false, ErrEmbeddedCredentials
		}
		return true, nil
	}

	for _, pair := range strings.Fields(connStr) {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[0]), "password") {
			return false, ErrEmbeddedCredentials
		}
	}
	return true, nil
}

// hasSSLMode checks if the connection string contains an sslmode parameter.
func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "sslmode") {
			return true
		}
	}
	return false
}
