package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"showlog/internal/conn"
)

// openDatabase opens a connection pool and hands the initial probe to the
// connection manager, which retries until the instance responds.
func openDatabase(ctx context.Context, dsn string, manager *conn.Manager) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	const maxWait = 30 * time.Second
	if err := manager.Connect(ctx, db, maxWait); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
