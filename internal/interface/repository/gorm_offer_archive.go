package repository

import (
	"context"
	"fmt"
	"time"

	"farewatch/internal/domain/entity"
	"farewatch/internal/domain/repository"

	"gorm.io/gorm"
)

// GormOfferArchive implements the OfferArchive interface on PostgreSQL. The
// file store stays the source of truth; this mirror exists for ad-hoc SQL
// over the collected history.
type GormOfferArchive struct {
	db *gorm.DB
}

// ArchivedOffer is the GORM model for one collected offer row.
type ArchivedOffer struct {
	ID            uint   `gorm:"primaryKey"`
	RunTimestamp  string `gorm:"column:run_timestamp;index"`
	Source        string `gorm:"column:source"`
	DepartureDate string `gorm:"column:departure_date"`
	ReturnDate    string `gorm:"column:return_date"`
	Price         *float64
	Airline       string `gorm:"column:airline"`
	Duration      string `gorm:"column:duration"`
	Stops         string `gorm:"column:stops"`
	ObservedAt    time.Time
	CreatedAt     time.Time
}

// TableName overrides the default table name
func (ArchivedOffer) TableName() string {
	return "offer_archive"
}

// NewGormOfferArchive migrates the archive table and returns the repository.
func NewGormOfferArchive(db *gorm.DB) (repository.OfferArchive, error) {
	if err := db.AutoMigrate(&ArchivedOffer{}); err != nil {
		return nil, fmt.Errorf("migrating offer archive: %w", err)
	}
	return &GormOfferArchive{db: db}, nil
}

// ArchiveRun inserts one row per offer collected in the run.
func (r *GormOfferArchive) ArchiveRun(ctx context.Context, timestamp string, offers []entity.Offer) error {
	if len(offers) == 0 {
		return nil
	}
	rows := make([]ArchivedOffer, 0, len(offers))
	for i := range offers {
		o := &offers[i]
		rows = append(rows, ArchivedOffer{
			RunTimestamp:  timestamp,
			Source:        o.Source,
			DepartureDate: o.DepartureDate,
			ReturnDate:    o.ReturnDate,
			Price:         o.Price,
			Airline:       o.Airline,
			Duration:      o.Duration,
			Stops:         o.Stops,
			ObservedAt:    o.ObservedAt,
		})
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("archiving %d offers: %w", len(rows), err)
	}
	return nil
}
