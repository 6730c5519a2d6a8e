package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Filter is an equality filter over column names.
type Filter map[string]any

// Patch is a column -> value update set.
type Patch map[string]any

var ErrEmptyFilter = errors.New("empty filter: refusing to touch every row")

// Store is the row-level client the core services talk to: insert a row, select rows by
// equality filter, update or delete by filter.
type Store interface {
	Insert(ctx context.Context, table string, row any) error
	Select(ctx context.Context, table string, filter Filter, out any) error
	Update(ctx context.Context, table string, filter Filter, patch Patch) (int64, error)
	Delete(ctx context.Context, table string, filter Filter, model any) (int64, error)
}

func (d *DB) Insert(ctx context.Context, table string, row any) error {
	if err := d.Conn.WithContext(ctx).Table(table).Create(row).Error; err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

// Select fills out (a pointer to a slice) with rows matching filter. A nil filter selects all.
func (d *DB) Select(ctx context.Context, table string, filter Filter, out any) error {
	q := d.Conn.WithContext(ctx).Table(table)
	if len(filter) > 0 {
		q = q.Where(map[string]any(filter))
	}
	if err := q.Find(out).Error; err != nil {
		return fmt.Errorf("select from %s: %w", table, err)
	}
	return nil
}

func (d *DB) Update(ctx context.Context, table string, filter Filter, patch Patch) (int64, error) {
	if len(filter) == 0 {
		return 0, ErrEmptyFilter
	}
	if len(patch) == 0 {
		return 0, nil
	}
	res := d.Conn.WithContext(ctx).Table(table).Where(map[string]any(filter)).Updates(map[string]any(patch))
	if res.Error != nil {
		return 0, fmt.Errorf("update %s: %w", table, res.Error)
	}
	return res.RowsAffected, nil
}

func (d *DB) Delete(ctx context.Context, table string, filter Filter, model any) (int64, error) {
	if len(filter) == 0 {
		return 0, ErrEmptyFilter
	}
	res := d.Conn.WithContext(ctx).Table(table).Where(map[string]any(filter)).Delete(model)
	if res.Error != nil {
		return 0, fmt.Errorf("delete from %s: %w", table, res.Error)
	}
	return res.RowsAffected, nil
}

// Transaction runs fn against a Store bound to one transaction.
func (d *DB) Transaction(ctx context.Context, fn func(tx *DB) error) error {
	return d.Conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&DB{Conn: tx})
	})
}
