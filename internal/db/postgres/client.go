package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/protoguide/protoguide/internal/db"
)

// Config holds connection parameters for a Postgres pool.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Client owns the *sql.DB pool backed by lib/pq.
type Client struct {
	db *sql.DB
}

// NewClient opens a pool. No connection is made until first use; call
// WaitForReady to block on availability.
func NewClient(cfg Config) (*Client, error) {
	if cfg.DSN == "" {
		return nil, errors.New("dsn is required")
	}

	conn, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return &Client{db: conn}, nil
}

// NewClientFromDB wraps an existing pool. Used by integration tests.
func NewClientFromDB(conn *sql.DB) *Client {
	return &Client{db: conn}
}

// DB exposes the pool to repositories.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// WaitForReady polls Ping until the database responds or timeout expires.
func (c *Client) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.WaitForReady(ctx, c, timeout)
}

// Close releases the pool.
func (c *Client) Close() error {
	return c.db.Close()
}

// IsForeignKeyViolation reports whether err is a foreign key failure.
func IsForeignKeyViolation(err error) bool {
	return pqCode(err) == "23503"
}

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

// Compile-time check: Client satisfies the shared waiter contract.
var _ db.Waiter = (*Client)(nil)

// String hides the DSN from logs.
func (c Config) String() string {
	return fmt.Sprintf("postgres(max_open=%d, max_idle=%d)", c.MaxOpenConns, c.MaxIdleConns)
}
