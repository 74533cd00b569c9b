// Package database owns the MySQL connection pool and the schema
// bootstrap. Everything else in the application receives the *sql.DB
// it produces; nothing here knows about users or explanations.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Params carries everything Open needs. The connection fields come
// from the DB_* environment variables and the pool fields from the
// DB_POOL_* ones, all resolved by internal/config.
type Params struct {
	User            string
	Pass            string // empty means no password
	Host            string
	Port            string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// dsn renders the driver connection string. parseTime maps DATETIME
// columns onto time.Time and loc=UTC keeps those times consistent
// across app instances.
func dsn(p Params) string {
	auth := p.User
	if p.Pass != "" {
		auth += ":" + p.Pass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, p.Host, p.Port, p.Name)
}

// Open builds the pool, applies the configured limits and verifies the
// connection with a short ping before handing it out.
func Open(p Params) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn(p))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(p.MaxOpenConns)
	db.SetMaxIdleConns(p.MaxIdleConns)
	db.SetConnMaxLifetime(p.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
