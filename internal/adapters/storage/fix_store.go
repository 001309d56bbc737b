package storage

import (
	"errors"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lcalzada-xor/geotrack/internal/core/domain"
	"github.com/lcalzada-xor/geotrack/internal/core/ports"
)

// fixRowID pins the table to a single row: the store keeps only the
// latest fix, never a track history.
const fixRowID = 1

// FixModel is the GORM model for the persisted fix.
type FixModel struct {
	ID            uint `gorm:"primaryKey"`
	Latitude      float64
	Longitude     float64
	HasFix        bool
	Authorization string
	UpdatedAt     time.Time
}

// SQLiteFixStore persists the latest known fix and authorization state
// using GORM and SQLite, so a restart can seed the provider's
// last-known position.
type SQLiteFixStore struct {
	db *gorm.DB
}

// NewSQLiteFixStore opens (or creates) the database and migrates schema.
func NewSQLiteFixStore(path string) (*SQLiteFixStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&FixModel{}); err != nil {
		return nil, err
	}

	return &SQLiteFixStore{db: db}, nil
}

// SaveFix upserts the latest fix.
func (s *SQLiteFixStore) SaveFix(c domain.Coordinate, auth domain.AuthorizationState, hasFix bool) error {
	model := FixModel{
		ID:            fixRowID,
		Latitude:      c.Latitude,
		Longitude:     c.Longitude,
		HasFix:        hasFix,
		Authorization: string(auth),
		UpdatedAt:     time.Now(),
	}
	return s.db.Save(&model).Error
}

// LoadFix returns the persisted fix. found is false when nothing has
// been saved yet or when the saved row carries no fix.
func (s *SQLiteFixStore) LoadFix() (domain.Coordinate, domain.AuthorizationState, bool, error) {
	var model FixModel
	err := s.db.First(&model, fixRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Coordinate{}, "", false, nil
	}
	if err != nil {
		return domain.Coordinate{}, "", false, err
	}
	coord := domain.Coordinate{Latitude: model.Latitude, Longitude: model.Longitude}
	return coord, domain.AuthorizationState(model.Authorization), model.HasFix, nil
}

// FixObserver subscribes to the location service and writes every
// observed state into the store.
type FixObserver struct {
	store *SQLiteFixStore
}

// NewFixObserver creates the persisting observer. The caller must keep
// the returned pointer alive; the registry holds it only weakly.
func NewFixObserver(store *SQLiteFixStore) *FixObserver {
	return &FixObserver{store: store}
}

func (o *FixObserver) ObserverID() string { return "fix-store" }

func (o *FixObserver) Executor() ports.Executor { return nil }

func (o *FixObserver) OnLocationUpdated(r ports.LocationReader) {
	coord, known := r.CurrentCoordinate()
	if err := o.store.SaveFix(coord, r.CurrentAuthorization(), known); err != nil {
		log.Printf("fix store: save failed: %v", err)
	}
}
