package db

import (
	"context"
	"fmt"
	"sync"

	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/config"
	"nolsaf-admin/internal/mylogger"

	"github.com/jackc/pgx/v5"
)

// DB holds the single journal connection. pgx.Conn is not safe for concurrent
// use, so every statement goes through withConn.
type DB struct {
	ctx   context.Context
	cfg   *config.DBconfig
	mylog mylogger.Logger
	conn  *pgx.Conn
	mu    *sync.Mutex
}

var _ ports.IDB = (*DB)(nil)

// Start connects to postgres.
func Start(ctx context.Context, dbCfg *config.DBconfig, mylog mylogger.Logger) (*DB, error) {
	d := &DB{
		ctx:   ctx,
		cfg:   dbCfg,
		mylog: mylog,
		mu:    &sync.Mutex{},
	}
	if err := d.connect(); err != nil {
		return nil, err
	}
	return d, nil
}

// Close closes the connection
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return nil
	}
	if err := d.conn.Close(d.ctx); err != nil {
		return fmt.Errorf("close database connection: %v", err)
	}
	return nil
}

// IsAlive pings the DB and reconnects once if the ping fails.
func (d *DB) IsAlive() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return fmt.Errorf("DB is not initialized")
	}
	if err := d.conn.Ping(d.ctx); err != nil {
		if connectionErr := d.connectLocked(); connectionErr != nil {
			return fmt.Errorf("ping failed: %w", err)
		}
	}
	return nil
}

func (d *DB) withConn(fn func(conn *pgx.Conn) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil || d.conn.IsClosed() {
		if err := d.connectLocked(); err != nil {
			return err
		}
	}
	return fn(d.conn)
}

func (d *DB) connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connectLocked()
}

func (d *DB) connectLocked() error {
	conn, err := pgx.Connect(d.ctx, d.cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	d.conn = conn
	return nil
}
