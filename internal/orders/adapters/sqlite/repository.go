// Package sqlite implements the order and customer stores over a single
// SQLite database.
//
// WAL mode is enabled on Open so that the HTTP query handlers never block
// the consumer workers writing ingested orders, and vice versa.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// Register the pure-Go SQLite driver.
	// modernc.org/sqlite avoids CGO, which keeps Docker (Alpine) builds
	// simple.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup.
const schema = `
CREATE TABLE IF NOT EXISTS customers (
    -- Business identifier delivered in the order message; not a surrogate.
    customer_id  INTEGER PRIMARY KEY,

    -- Assigned by the store on first insert (RFC3339 TEXT, SQLite idiom).
    created_at   TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
    -- Business identifier from the message. The PRIMARY KEY is what makes
    -- the ingestion existence check cheap and duplicate inserts impossible.
    order_id     INTEGER PRIMARY KEY,

    customer_id  INTEGER NOT NULL REFERENCES customers(customer_id),

    -- Exact decimal stored as TEXT; the domain recomputes totals on read,
    -- so this column is a persisted convenience, not the source of truth.
    total_amount TEXT    NOT NULL,

    items_count  INTEGER NOT NULL,

    created_at   TEXT    NOT NULL
);

-- Index for the paginated history query: "orders of customer X, newest first".
CREATE INDEX IF NOT EXISTS idx_orders_customer_created ON orders(customer_id, created_at DESC);

CREATE TABLE IF NOT EXISTS order_items (
    item_id      INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id     INTEGER NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
    product      TEXT    NOT NULL,
    quantity     INTEGER NOT NULL,
    price        TEXT    NOT NULL,
    total_price  TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
`

// Repository owns the database handle shared by both stores and provides
// the unit-of-work used to scope an ingestion attempt to one transaction.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and
// applies the schema.
//
//	repo, err := sqlite.Open("./data/orders.db")
func Open(path string) (*Repository, error) {
	// The pure-Go driver takes _pragma query parameters. WAL enables
	// concurrent readers, foreign_keys enforces the order→customer
	// relationship, busy_timeout waits for locks instead of failing.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// txKey carries the active transaction through a context so nested store
// calls inside RunInTx share it.
type txKey struct{}

// dbtx is the subset of *sql.DB and *sql.Tx the stores need.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn returns the transaction bound to ctx, falling back to the pooled
// handle when no transaction is active.
func (r *Repository) conn(ctx context.Context) dbtx {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return r.db
}

// RunInTx executes fn inside a transaction. Every store call made through
// the context passed to fn joins that transaction. The call is reentrant:
// when ctx already carries a transaction, fn simply runs in it.
func (r *Repository) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("sqlite: tx: %w; rollback: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit tx: %w", err)
	}
	return nil
}
