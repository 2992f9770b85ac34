package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iagoomes/btg-orders-challenge/internal/orders/domain"
	"github.com/iagoomes/btg-orders-challenge/internal/orders/usecase"
)

// Page size applied when the caller leaves it unset. The page envelope is
// computed here; the use cases take it verbatim.
const defaultPageSize = 10

// OrderStore is the SQLite implementation of usecase.OrderStore.
type OrderStore struct {
	repo *Repository
}

func NewOrderStore(repo *Repository) *OrderStore {
	return &OrderStore{repo: repo}
}

// Exists reports whether an order with this identity was already saved.
func (s *OrderStore) Exists(ctx context.Context, orderID int64) (bool, error) {
	const q = `SELECT 1 FROM orders WHERE order_id = ?`

	var one int
	err := s.repo.conn(ctx).QueryRowContext(ctx, q, orderID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: exists order %d: %w", orderID, err)
	}
	return true, nil
}

// Save persists the order and its items in one transaction, owned by the
// given customer. Timestamps are assigned here, not by the domain.
func (s *OrderStore) Save(ctx context.Context, order *domain.Order, customer *domain.Customer) (*domain.Order, error) {
	saved := &domain.Order{
		OrderID:    order.OrderID,
		CustomerID: customer.CustomerID,
		Items:      append([]domain.OrderItem(nil), order.Items...),
	}
	saved.UpdateTotals()

	err := s.repo.RunInTx(ctx, func(ctx context.Context) error {
		conn := s.repo.conn(ctx)
		now := time.Now().UTC()

		const insertOrder = `
			INSERT INTO orders (order_id, customer_id, total_amount, items_count, created_at)
			VALUES (?, ?, ?, ?, ?)`

		_, err := conn.ExecContext(ctx, insertOrder,
			saved.OrderID,
			saved.CustomerID,
			saved.TotalAmount.String(),
			saved.ItemsCount,
			formatTime(now),
		)
		if err != nil {
			return fmt.Errorf("sqlite: insert order %d: %w", saved.OrderID, err)
		}

		const insertItem = `
			INSERT INTO order_items (order_id, product, quantity, price, total_price)
			VALUES (?, ?, ?, ?, ?)`

		for idx := range saved.Items {
			item := &saved.Items[idx]
			res, err := conn.ExecContext(ctx, insertItem,
				saved.OrderID,
				item.Product,
				item.Quantity,
				item.Price.String(),
				item.TotalPrice.String(),
			)
			if err != nil {
				return fmt.Errorf("sqlite: insert item %d of order %d: %w", idx, saved.OrderID, err)
			}
			itemID, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("sqlite: item id for order %d: %w", saved.OrderID, err)
			}
			item.ItemID = itemID
		}

		saved.CreatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// FindByID loads the order row without its items.
func (s *OrderStore) FindByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	const q = `
		SELECT order_id, customer_id, total_amount, items_count, created_at
		FROM   orders
		WHERE  order_id = ?`

	order, err := scanOrder(s.repo.conn(ctx).QueryRowContext(ctx, q, orderID))
	if err != nil {
		return nil, fmt.Errorf("sqlite: find order %d: %w", orderID, err)
	}
	return order, nil
}

// FindByIDWithItems loads the order together with its item list,
// preserving insertion order.
func (s *OrderStore) FindByIDWithItems(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.FindByID(ctx, orderID)
	if err != nil || order == nil {
		return order, err
	}

	items, err := loadItems(ctx, s.repo.conn(ctx), orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// FindByCustomerID returns one page of the customer's orders, items
// included. Offset/limit and the total-pages ceiling are computed here.
func (s *OrderStore) FindByCustomerID(ctx context.Context, customerID int64, req usecase.PageRequest) (*usecase.OrderPage, error) {
	conn := s.repo.conn(ctx)

	size := req.Size
	if size <= 0 {
		size = defaultPageSize
	}
	page := req.Page
	if page < 0 {
		page = 0
	}

	total, err := s.CountByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		SELECT order_id, customer_id, total_amount, items_count, created_at
		FROM   orders
		WHERE  customer_id = ?
		ORDER  BY %s
		LIMIT  ? OFFSET ?`, sortClause(req.Sort))

	rows, err := conn.QueryContext(ctx, q, customerID, size, page*size)
	if err != nil {
		return nil, fmt.Errorf("sqlite: page orders of customer %d: %w", customerID, err)
	}
	defer rows.Close()

	var content []*domain.Order
	for rows.Next() {
		order, err := scanOrderRow(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: page orders of customer %d: %w", customerID, err)
		}
		content = append(content, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: page orders of customer %d: %w", customerID, err)
	}

	for _, order := range content {
		items, err := loadItems(ctx, conn, order.OrderID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	return &usecase.OrderPage{
		Content:       content,
		TotalElements: total,
		TotalPages:    int((total + int64(size) - 1) / int64(size)),
		Number:        page,
		Size:          size,
	}, nil
}

// CountByCustomerID returns the number of orders owned by the customer.
func (s *OrderStore) CountByCustomerID(ctx context.Context, customerID int64) (int64, error) {
	const q = `SELECT COUNT(*) FROM orders WHERE customer_id = ?`

	var count int64
	if err := s.repo.conn(ctx).QueryRowContext(ctx, q, customerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlite: count orders of customer %d: %w", customerID, err)
	}
	return count, nil
}

// sortClause maps the page sort onto a whitelisted ORDER BY clause.
// Unknown fields fall back to creation time so a hostile sort parameter
// can never reach the SQL text.
func sortClause(s *usecase.Sort) string {
	column := "created_at"
	direction := "DESC"

	if s != nil {
		switch s.Field {
		case "order_id":
			column = "order_id"
		case "total_amount":
			// TEXT column: cast so ordering is numeric, not lexicographic.
			column = "CAST(total_amount AS REAL)"
		case "created_at":
			column = "created_at"
		}
		if s.Direction == usecase.SortAsc {
			direction = "ASC"
		}
	}

	// order_id tiebreak keeps pages stable for equal timestamps.
	return fmt.Sprintf("%s %s, order_id %s", column, direction, direction)
}

// rowScanner lets scanOrder work over both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row *sql.Row) (*domain.Order, error) {
	order, err := scanOrderFrom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return order, err
}

func scanOrderRow(rows *sql.Rows) (*domain.Order, error) {
	return scanOrderFrom(rows)
}

func scanOrderFrom(sc rowScanner) (*domain.Order, error) {
	var (
		order     domain.Order
		total     string
		createdAt string
	)
	if err := sc.Scan(&order.OrderID, &order.CustomerID, &total, &order.ItemsCount, &createdAt); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("parse total_amount %q: %w", total, err)
	}
	order.TotalAmount = amount

	if order.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &order, nil
}

func loadItems(ctx context.Context, conn dbtx, orderID int64) ([]domain.OrderItem, error) {
	const q = `
		SELECT item_id, product, quantity, price, total_price
		FROM   order_items
		WHERE  order_id = ?
		ORDER  BY item_id`

	rows, err := conn.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load items of order %d: %w", orderID, err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			item  domain.OrderItem
			price string
			total string
		)
		if err := rows.Scan(&item.ItemID, &item.Product, &item.Quantity, &price, &total); err != nil {
			return nil, fmt.Errorf("sqlite: load items of order %d: %w", orderID, err)
		}
		if item.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("sqlite: parse price %q: %w", price, err)
		}
		if item.TotalPrice, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("sqlite: parse total_price %q: %w", total, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: load items of order %d: %w", orderID, err)
	}
	return items, nil
}
