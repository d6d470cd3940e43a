// Package runlog records per-step quantities of a run in a SQLite database,
// one table of (step, value) rows per quantity
package runlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

var (
	ErrQuantityName    = errors.New("quantity names must be sql identifiers")
	ErrUnknownQuantity = errors.New("quantity not registered")
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Quantity describes one logged value
type Quantity struct {
	Name        string
	Unit        string
	Description string
}

type Log struct {
	db         *sql.DB
	quantities map[string]Quantity
	step       int
}

// Open creates or reopens the run log at path. The path ":memory:" keeps the
// log in memory.
func Open(path string) (*Log, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("run log path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A memory database lives on a single connection
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err = db.Exec(`CREATE TABLE IF NOT EXISTS quantities (
		name TEXT PRIMARY KEY, unit TEXT NOT NULL, description TEXT NOT NULL)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create quantities table: %w", err)
	}
	l := &Log{db: db, quantities: make(map[string]Quantity)}
	rows, err := db.Query(`SELECT name, unit, description FROM quantities`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("read quantities: %w", err)
	}
	for rows.Next() {
		var q Quantity
		if err = rows.Scan(&q.Name, &q.Unit, &q.Description); err != nil {
			_ = rows.Close()
			_ = db.Close()
			return nil, fmt.Errorf("scan quantity: %w", err)
		}
		l.quantities[q.Name] = q
	}
	_ = rows.Close()
	if err = rows.Err(); err != nil {
		_ = db.Close()
		return nil, err
	}
	// Continue after the last recorded step
	for name := range l.quantities {
		var last sql.NullInt64
		if err = db.QueryRow(fmt.Sprintf(`SELECT MAX(step) FROM %s`, name)).Scan(&last); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("last step of %s: %w", name, err)
		}
		if last.Valid && int(last.Int64) >= l.step {
			l.step = int(last.Int64) + 1
		}
	}
	return l, nil
}

func (l *Log) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// AddQuantity registers q and creates its table
func (l *Log) AddQuantity(ctx context.Context, q Quantity) (err error) {
	if !identifier.MatchString(q.Name) || q.Name == "quantities" {
		return fmt.Errorf("%q: %w", q.Name, ErrQuantityName)
	}
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (step INTEGER NOT NULL, value REAL)`, q.Name)); err != nil {
		return fmt.Errorf("create table %s: %w", q.Name, err)
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO quantities (name, unit, description) VALUES (?, ?, ?)`,
		q.Name, q.Unit, q.Description); err != nil {
		return fmt.Errorf("register %s: %w", q.Name, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	l.quantities[q.Name] = q
	return
}

// Quantities lists the registered quantities by name
func (l *Log) Quantities() (qs []Quantity) {
	for _, q := range l.quantities {
		qs = append(qs, q)
	}
	sort.Slice(qs, func(i, j int) bool { return qs[i].Name < qs[j].Name })
	return
}

// Record writes the values of the current step and advances the step
// counter. Every name must be registered.
func (l *Log) Record(ctx context.Context, values map[string]float64) (err error) {
	names := make([]string, 0, len(values))
	for name := range values {
		if _, ok := l.quantities[name]; !ok {
			return fmt.Errorf("%q: %w", name, ErrUnknownQuantity)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for _, name := range names {
		if _, err = tx.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %s (step, value) VALUES (?, ?)`, name),
			l.step, values[name]); err != nil {
			return fmt.Errorf("record %s: %w", name, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	l.step++
	return
}

func (l *Log) Step() int { return l.step }

// Values returns the values of name ordered by step
func (l *Log) Values(ctx context.Context, name string) (values []float64, err error) {
	if _, ok := l.quantities[name]; !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownQuantity)
	}
	rows, err := l.db.QueryContext(ctx, fmt.Sprintf(`SELECT value FROM %s ORDER BY step`, name))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var v sql.NullFloat64
		if err = rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		if v.Valid {
			values = append(values, v.Float64)
		}
	}
	return values, rows.Err()
}

// ValueSums sums the values of every registered quantity
func (l *Log) ValueSums(ctx context.Context) (sums map[string]float64, err error) {
	sums = make(map[string]float64, len(l.quantities))
	for name := range l.quantities {
		var sum sql.NullFloat64
		if err = l.db.QueryRowContext(ctx,
			fmt.Sprintf(`SELECT SUM(value) FROM %s`, name)).Scan(&sum); err != nil {
			return nil, fmt.Errorf("sum %s: %w", name, err)
		}
		sums[name] = sum.Float64
	}
	return
}
