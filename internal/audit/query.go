package audit

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/models"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Filter narrows the audit trail of one barbershop. Zero values mean "any".
type Filter struct {
	BarbershopID uint
	Action       string
	Entity       string
	EntityID     uint
	From         time.Time
	To           time.Time // exclusive
	Page         int
	Limit        int
}

func (f *Filter) normalize() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > MaxPageSize {
		f.Limit = DefaultPageSize
	}
}

type Page struct {
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int64             `json:"total"`
	Logs  []models.AuditLog `json:"logs"`
}

// List returns one page of the trail, newest first.
func (l *Logger) List(ctx context.Context, f Filter) (*Page, error) {
	f.normalize()

	q := l.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("barbershop_id = ?", f.BarbershopID)
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if f.EntityID != 0 {
		q = q.Where("entity_id = ?", f.EntityID)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To)
	}

	page := &Page{Page: f.Page, Limit: f.Limit, Logs: []models.AuditLog{}}
	if err := q.Count(&page.Total).Error; err != nil {
		return nil, err
	}
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&page.Logs).Error; err != nil {
		return nil, err
	}
	return page, nil
}
