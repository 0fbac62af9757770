package logging

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/models"
	"gorm.io/gorm"
)

// GormLogStore keeps system logs in the system_logs table.
type GormLogStore struct {
	db *gorm.DB
}

func NewGormLogStore(db *gorm.DB) *GormLogStore {
	return &GormLogStore{db: db}
}

func (s *GormLogStore) WriteLogs(ctx context.Context, entries []models.SystemLog) error {
	return s.db.WithContext(ctx).CreateInBatches(entries, batchSize).Error
}

func (s *GormLogStore) PruneLogs(ctx context.Context, before time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("timestamp < ?", before).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}
