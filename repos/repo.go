// Package repos kapselt den Datenbankzugriff pro Entität. Jede Methode nimmt
// optional eine laufende Transaktion entgegen; ist tx nil, wird die
// Basisverbindung des Repos verwendet.
package repos

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound wird zurückgegeben, wenn ein Datensatz nicht existiert.
var ErrNotFound = gorm.ErrRecordNotFound

// Page beschreibt einen Ausschnitt einer Liste.
type Page struct {
	Skip  int
	Limit int
}

type crud[T any] struct {
	db  *gorm.DB
	log *zap.Logger
}

func newCrud[T any](db *gorm.DB, log *zap.Logger, name string) crud[T] {
	return crud[T]{db: db, log: log.With(zap.String("repo", name))}
}

func (r crud[T]) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx)
}

func (r crud[T]) Create(ctx context.Context, tx *gorm.DB, m *T) error {
	return r.conn(ctx, tx).Create(m).Error
}

func (r crud[T]) GetByID(ctx context.Context, tx *gorm.DB, id string) (*T, error) {
	var m T
	if err := r.conn(ctx, tx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// Update schreibt nur die übergebenen Spalten und lädt den Datensatz neu.
func (r crud[T]) Update(ctx context.Context, tx *gorm.DB, m *T, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	db := r.conn(ctx, tx)
	if err := db.Model(m).Updates(fields).Error; err != nil {
		return err
	}
	return db.First(m).Error
}

// Delete löscht per Primärschlüssel; Kinder verschwinden über die FK-Kaskaden.
func (r crud[T]) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	res := r.conn(ctx, tx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	r.log.Debug("Deleted row", zap.String("id", id))
	return nil
}

// list zählt alle Treffer von scope und liefert den Ausschnitt page in order.
func (r crud[T]) list(ctx context.Context, tx *gorm.DB, scope func(*gorm.DB) *gorm.DB, order string, page Page) ([]*T, int64, error) {
	db := r.conn(ctx, tx)
	var total int64
	if err := scope(db.Model(new(T))).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := []*T{}
	if err := scope(db).Order(order).Offset(page.Skip).Limit(page.Limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// IsNotFound meldet, ob err einen fehlenden Datensatz beschreibt.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func where(query string, args ...any) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db.Where(query, args...) }
}

func all(db *gorm.DB) *gorm.DB { return db }
