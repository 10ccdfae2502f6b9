package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kairos/internal/models/db_models"
)

type SnapshotRepository interface {
	GetByDestination(ctx context.Context, destination string) (*db_models.DestinationSnapshot, error)
	Upsert(ctx context.Context, snapshot *db_models.DestinationSnapshot) error
	DeleteByDestination(ctx context.Context, destination string) error
}

type snapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) GetByDestination(ctx context.Context, destination string) (*db_models.DestinationSnapshot, error) {
	var snapshot db_models.DestinationSnapshot
	err := r.db.WithContext(ctx).
		First(&snapshot, "destination = ?", normalizeDestination(destination)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}

func (r *snapshotRepository) Upsert(ctx context.Context, snapshot *db_models.DestinationSnapshot) error {
	snapshot.Destination = normalizeDestination(snapshot.Destination)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "destination"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "place_count", "region_count", "updated_at"}),
		}).
		Create(snapshot).Error
}

func (r *snapshotRepository) DeleteByDestination(ctx context.Context, destination string) error {
	err := r.db.WithContext(ctx).
		Where("destination = ?", normalizeDestination(destination)).
		Delete(&db_models.DestinationSnapshot{}).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func normalizeDestination(destination string) string {
	return strings.ToLower(strings.TrimSpace(destination))
}
