package storage

import (
	"context"
)

type Transaction struct {
	Seq         int64
	ID          string
	AmountCents int64
	Category    string
	Description string
	Date        string
	Type        string
}

type Category struct {
	ID          int64
	Name        string
	Icon        string
	Color       string
	BudgetCents int64
	Position    int64
}

const (
	settingMonthlyBudget = "monthly_budget_cents"
	settingRevision      = "revision"
)

const transactionColumns = `seq, id, amount_cents, category, description, date, type`

func scanTransaction(row interface{ Scan(...interface{}) error }) (Transaction, error) {
	var i Transaction
	err := row.Scan(&i.Seq, &i.ID, &i.AmountCents, &i.Category, &i.Description, &i.Date, &i.Type)
	return i, err
}

const createTransaction = `-- name: CreateTransaction :exec
INSERT INTO transactions (id, amount_cents, category, description, date, type)
VALUES (?, ?, ?, ?, ?, ?)
`

type CreateTransactionParams struct {
	ID          string
	AmountCents int64
	Category    string
	Description string
	Date        string
	Type        string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) error {
	_, err := q.db.ExecContext(ctx, createTransaction,
		arg.ID,
		arg.AmountCents,
		arg.Category,
		arg.Description,
		arg.Date,
		arg.Type,
	)
	return err
}

const getTransaction = `-- name: GetTransaction :one
SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?
`

func (q *Queries) GetTransaction(ctx context.Context, id string) (Transaction, error) {
	return scanTransaction(q.db.QueryRowContext(ctx, getTransaction, id))
}

const updateTransaction = `-- name: UpdateTransaction :exec
UPDATE transactions
SET amount_cents = ?, category = ?, description = ?, date = ?, type = ?
WHERE id = ?
`

type UpdateTransactionParams struct {
	AmountCents int64
	Category    string
	Description string
	Date        string
	Type        string
	ID          string
}

func (q *Queries) UpdateTransaction(ctx context.Context, arg UpdateTransactionParams) error {
	_, err := q.db.ExecContext(ctx, updateTransaction,
		arg.AmountCents,
		arg.Category,
		arg.Description,
		arg.Date,
		arg.Type,
		arg.ID,
	)
	return err
}

const deleteTransaction = `-- name: DeleteTransaction :execrows
DELETE FROM transactions WHERE id = ?
`

func (q *Queries) DeleteTransaction(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteAllTransactions = `-- name: DeleteAllTransactions :exec
DELETE FROM transactions
`

func (q *Queries) DeleteAllTransactions(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllTransactions)
	return err
}

const listTransactions = `-- name: ListTransactions :many
SELECT ` + transactionColumns + ` FROM transactions ORDER BY seq DESC
`

func (q *Queries) ListTransactions(ctx context.Context) ([]Transaction, error) {
	return q.queryTransactions(ctx, listTransactions)
}

const listTransactionsByCategory = `-- name: ListTransactionsByCategory :many
SELECT ` + transactionColumns + ` FROM transactions WHERE category = ? ORDER BY seq DESC
`

func (q *Queries) ListTransactionsByCategory(ctx context.Context, category string) ([]Transaction, error) {
	return q.queryTransactions(ctx, listTransactionsByCategory, category)
}

func (q *Queries) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		i, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createCategory = `-- name: CreateCategory :exec
INSERT INTO categories (id, name, icon, color, budget_cents, position)
VALUES (?, ?, ?, ?, ?, ?)
`

type CreateCategoryParams struct {
	ID          int64
	Name        string
	Icon        string
	Color       string
	BudgetCents int64
	Position    int64
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) error {
	_, err := q.db.ExecContext(ctx, createCategory,
		arg.ID,
		arg.Name,
		arg.Icon,
		arg.Color,
		arg.BudgetCents,
		arg.Position,
	)
	return err
}

const getCategoryByName = `-- name: GetCategoryByName :one
SELECT id, name, icon, color, budget_cents, position FROM categories WHERE name = ?
`

func (q *Queries) GetCategoryByName(ctx context.Context, name string) (Category, error) {
	row := q.db.QueryRowContext(ctx, getCategoryByName, name)
	var i Category
	err := row.Scan(&i.ID, &i.Name, &i.Icon, &i.Color, &i.BudgetCents, &i.Position)
	return i, err
}

const listCategories = `-- name: ListCategories :many
SELECT id, name, icon, color, budget_cents, position FROM categories ORDER BY position, id
`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var i Category
		if err := rows.Scan(&i.ID, &i.Name, &i.Icon, &i.Color, &i.BudgetCents, &i.Position); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const nextCategorySlot = `-- name: NextCategorySlot :one
SELECT COALESCE(MAX(id), 0) + 1, COALESCE(MAX(position), 0) + 1 FROM categories
`

// NextCategorySlot returns the id and position for a newly appended category.
func (q *Queries) NextCategorySlot(ctx context.Context) (id int64, position int64, err error) {
	err = q.db.QueryRowContext(ctx, nextCategorySlot).Scan(&id, &position)
	return id, position, err
}

const updateCategoryBudget = `-- name: UpdateCategoryBudget :execrows
UPDATE categories SET budget_cents = ? WHERE name = ?
`

type UpdateCategoryBudgetParams struct {
	BudgetCents int64
	Name        string
}

func (q *Queries) UpdateCategoryBudget(ctx context.Context, arg UpdateCategoryBudgetParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateCategoryBudget, arg.BudgetCents, arg.Name)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteAllCategories = `-- name: DeleteAllCategories :exec
DELETE FROM categories
`

func (q *Queries) DeleteAllCategories(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllCategories)
	return err
}

const getSetting = `-- name: GetSetting :one
SELECT value FROM settings WHERE key = ?
`

func (q *Queries) GetSetting(ctx context.Context, key string) (int64, error) {
	var value int64
	err := q.db.QueryRowContext(ctx, getSetting, key).Scan(&value)
	return value, err
}

const setSetting = `-- name: SetSetting :exec
INSERT INTO settings (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value
`

func (q *Queries) SetSetting(ctx context.Context, key string, value int64) error {
	_, err := q.db.ExecContext(ctx, setSetting, key, value)
	return err
}

const bumpRevision = `-- name: BumpRevision :exec
UPDATE settings SET value = value + 1 WHERE key = 'revision'
`

func (q *Queries) BumpRevision(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, bumpRevision)
	return err
}
