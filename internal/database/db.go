package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// Supported driver names.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

// Options selects the database and how to reach it.
type Options struct {
	Driver     string
	User       string
	Pass       string
	Host       string
	Port       string
	Name       string
	SQLitePath string
}

// DSN builds the driver specific connection string.
func (o Options) DSN() (string, error) {
	switch o.Driver {
	case DriverMySQL, "":
		auth := o.User
		if o.Pass != "" {
			auth = fmt.Sprintf("%s:%s", o.User, o.Pass)
		}
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			auth, o.Host, o.Port, o.Name), nil
	case DriverSQLite:
		return fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1&_txlock=immediate", o.SQLitePath), nil
	default:
		return "", fmt.Errorf("database: unsupported driver %q", o.Driver)
	}
}

// sqliteUnicode is the sqlite3 driver with LOWER replaced by a Unicode
// aware version, so LOWER(col) LIKE ? matches accented text the way MySQL
// collations do.
const sqliteUnicode = "sqlite3_unicode"

func init() {
	sql.Register(sqliteUnicode, &sqlite3.SQLiteDriver{
		ConnectHook: func(c *sqlite3.SQLiteConn) error {
			return c.RegisterFunc("lower", strings.ToLower, true)
		},
	})
}

func (o Options) driverName() string {
	if o.Driver == "" {
		return DriverMySQL
	}
	return o.Driver
}

// sqlDriver is the name registered with database/sql for o.
func (o Options) sqlDriver() string {
	if o.Driver == DriverSQLite {
		return sqliteUnicode
	}
	return o.driverName()
}

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, o Options) (*sql.DB, error) {
	dsn, err := o.DSN()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(o.sqlDriver(), dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	if o.driverName() == DriverSQLite {
		// a single writer; every query inside a transaction must use the tx
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	// Ping with timeout
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
