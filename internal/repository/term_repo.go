package repository

import (
	"context"

	"github.com/quocanhngo/hifcm/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TermRepository handles database operations for subscription terms
type TermRepository struct {
	db *gorm.DB
}

func NewTermRepository(db *gorm.DB) *TermRepository {
	return &TermRepository{db: db}
}

// Slugs returns every term slug in alphabetical order
func (r *TermRepository) Slugs(ctx context.Context) ([]string, error) {
	var slugs []string
	err := r.db.WithContext(ctx).
		Model(&model.SubscriptionTerm{}).
		Order("slug").
		Pluck("slug", &slugs).Error
	return slugs, err
}

// Ensure inserts a term unless its slug already exists
func (r *TermRepository) Ensure(ctx context.Context, term *model.SubscriptionTerm) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(term).Error
}
