// Package sqlite backs the document store with a local SQLite database.
// It is the fast primary store when the remote spreadsheet is mirrored
// asynchronously by the worker.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"tracker/internal/store"
)

type Store struct {
	db *sql.DB
}

var _ store.DocumentStore = (*Store)(nil)

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ListAll(ctx context.Context) ([]store.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, amount, type, date FROM transactions ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var docs []store.Document
	for rows.Next() {
		var (
			id, name, txType, date string
			amount                 float64
		)
		if err := rows.Scan(&id, &name, &amount, &txType, &date); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		docs = append(docs, store.Document{
			ID: id,
			Fields: map[string]any{
				store.FieldName:   name,
				store.FieldAmount: amount,
				store.FieldType:   txType,
				store.FieldDate:   date,
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}

	return docs, nil
}

func (s *Store) Create(ctx context.Context, fields map[string]any) (string, error) {
	id := uuid.NewString()
	name, amount, txType, date, err := splitFields(fields)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, name, amount, type, date) VALUES (?, ?, ?, ?, ?)`,
		id, name, amount, txType, date)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite", "id", id, "name", name, "amount", amount)
	return id, nil
}

func (s *Store) Overwrite(ctx context.Context, id string, fields map[string]any) error {
	name, amount, txType, date, err := splitFields(fields)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET name = ?, amount = ?, type = ?, date = ? WHERE id = ?`,
		name, amount, txType, date, id)
	if err != nil {
		return fmt.Errorf("update transaction %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Put writes a row under a caller-chosen id, inserting or replacing.
func (s *Store) Put(ctx context.Context, id string, fields map[string]any) error {
	name, amount, txType, date, err := splitFields(fields)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, name, amount, type, date) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, amount = excluded.amount,
		 type = excluded.type, date = excluded.date`,
		id, name, amount, txType, date)
	if err != nil {
		return fmt.Errorf("put transaction %s: %w", id, err)
	}
	return nil
}

// Remove deletes a row; deleting an absent id is not an error.
func (s *Store) Remove(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return nil
}

// Get fetches a single document by id, used by the mirror worker.
func (s *Store) Get(ctx context.Context, id string) (store.Document, error) {
	var (
		name, txType, date string
		amount             float64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT name, amount, type, date FROM transactions WHERE id = ?`, id).
		Scan(&name, &amount, &txType, &date)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Document{}, store.ErrNotFound
	}
	if err != nil {
		return store.Document{}, fmt.Errorf("get transaction %s: %w", id, err)
	}

	return store.Document{
		ID: id,
		Fields: map[string]any{
			store.FieldName:   name,
			store.FieldAmount: amount,
			store.FieldType:   txType,
			store.FieldDate:   date,
		},
	}, nil
}

func splitFields(fields map[string]any) (name string, amount float64, txType, date string, err error) {
	doc := store.Document{ID: "pending", Fields: fields}
	tx, err := store.DecodeDocument(doc)
	if err != nil {
		return "", 0, "", "", fmt.Errorf("reject malformed document: %w", err)
	}
	return tx.Name, tx.Amount, string(tx.Type), tx.Date.UTC().Format(time.RFC3339), nil
}
