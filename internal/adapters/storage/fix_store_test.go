package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lcalzada-xor/geotrack/internal/core/domain"
)

// setupInMemoryStore creates a SQLiteFixStore used for testing
func setupInMemoryStore(t *testing.T) *SQLiteFixStore {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&FixModel{})
	require.NoError(t, err)

	return &SQLiteFixStore{db: db}
}

func TestLoadFix_Empty(t *testing.T) {
	store := setupInMemoryStore(t)

	_, _, found, err := store.LoadFix()
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestSaveAndLoadFix(t *testing.T) {
	store := setupInMemoryStore(t)

	coord := domain.Coordinate{Latitude: 40.4168, Longitude: -3.7038}
	err := store.SaveFix(coord, domain.AuthorizationAuthorized, true)
	assert.NoError(t, err)

	loaded, auth, found, err := store.LoadFix()
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, coord, loaded)
	assert.Equal(t, domain.AuthorizationAuthorized, auth)
}

func TestSaveFix_KeepsSingleRow(t *testing.T) {
	store := setupInMemoryStore(t)

	first := domain.Coordinate{Latitude: 1.0, Longitude: 2.0}
	second := domain.Coordinate{Latitude: 3.0, Longitude: 4.0}
	require.NoError(t, store.SaveFix(first, domain.AuthorizationAuthorized, true))
	require.NoError(t, store.SaveFix(second, domain.AuthorizationDenied, true))

	var count int64
	store.db.Model(&FixModel{}).Count(&count)
	assert.Equal(t, int64(1), count, "latest only, never a track history")

	loaded, auth, found, err := store.LoadFix()
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, second, loaded)
	assert.Equal(t, domain.AuthorizationDenied, auth)
}

func TestSaveFix_NoFixYet(t *testing.T) {
	store := setupInMemoryStore(t)

	err := store.SaveFix(domain.Coordinate{}, domain.AuthorizationNotDetermined, false)
	assert.NoError(t, err)

	_, auth, found, err := store.LoadFix()
	assert.NoError(t, err)
	assert.False(t, found, "a row without a fix reports no fix")
	assert.Equal(t, domain.AuthorizationNotDetermined, auth)
}
