package scan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"qrkatalog_back_end/internal/i18n"
	"qrkatalog_back_end/internal/models"
)

func setupScanTestDB(t *testing.T) (*gorm.DB, models.Branch, models.Product) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(&models.Branch{}, &models.Product{}, &models.LanguageView{}))

	branch := models.Branch{Name: "Central"}
	require.NoError(t, db.Create(&branch).Error)
	product := models.Product{BranchID: branch.ID, NameEn: "Widget"}
	require.NoError(t, db.Create(&product).Error)

	return db, branch, product
}

func reloadProduct(t *testing.T, db *gorm.DB, id uint) models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p
}

func TestRecordCountsFirstView(t *testing.T) {
	db, branch, product := setupScanTestDB(t)
	rec := NewRecorder(db)
	now := time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC)
	rec.now = func() time.Time { return now }
	guard := NewGuard(nil)

	counted, err := rec.Record(context.Background(), branch.ID, product.ID, i18n.LangEn, "visitor-1", guard)
	require.NoError(t, err)
	assert.True(t, counted)

	got := reloadProduct(t, db, product.ID)
	assert.Equal(t, 1, got.Views)
	require.NotNil(t, got.LastScannedAt)
	assert.Equal(t, now, got.LastScannedAt.UTC())

	var views []models.LanguageView
	require.NoError(t, db.Find(&views).Error)
	require.Len(t, views, 1)
	assert.Equal(t, product.ID, views[0].ProductID)
	assert.Equal(t, i18n.LangEn, views[0].Lang)
}

func TestRecordIsIdempotentWithinSession(t *testing.T) {
	db, branch, product := setupScanTestDB(t)
	rec := NewRecorder(db)
	guard := NewGuard(nil)
	ctx := context.Background()

	counted, err := rec.Record(ctx, branch.ID, product.ID, i18n.LangEn, "visitor-1", guard)
	require.NoError(t, err)
	assert.True(t, counted)

	// Second scan in the same session, even with another language, must not
	// count again.
	counted, err = rec.Record(ctx, branch.ID, product.ID, i18n.LangRu, "visitor-1", guard)
	require.NoError(t, err)
	assert.False(t, counted)

	got := reloadProduct(t, db, product.ID)
	assert.Equal(t, 1, got.Views)

	var lvCount int64
	require.NoError(t, db.Model(&models.LanguageView{}).Count(&lvCount).Error)
	assert.Equal(t, int64(1), lvCount)
}

func TestRecordCountsAgainInNewSession(t *testing.T) {
	db, branch, product := setupScanTestDB(t)
	rec := NewRecorder(db)
	ctx := context.Background()

	_, err := rec.Record(ctx, branch.ID, product.ID, i18n.LangEn, "visitor-1", NewGuard(nil))
	require.NoError(t, err)

	// Fresh guard = fresh session: the same visitor is counted once more.
	counted, err := rec.Record(ctx, branch.ID, product.ID, i18n.LangUz, "visitor-1", NewGuard(nil))
	require.NoError(t, err)
	assert.True(t, counted)

	got := reloadProduct(t, db, product.ID)
	assert.Equal(t, 2, got.Views)
}

func TestRecordDistinctVisitorsShareSession(t *testing.T) {
	db, branch, product := setupScanTestDB(t)
	rec := NewRecorder(db)
	guard := NewGuard(nil)
	ctx := context.Background()

	counted, err := rec.Record(ctx, branch.ID, product.ID, i18n.LangEn, "visitor-1", guard)
	require.NoError(t, err)
	assert.True(t, counted)

	counted, err = rec.Record(ctx, branch.ID, product.ID, i18n.LangEn, "visitor-2", guard)
	require.NoError(t, err)
	assert.True(t, counted)

	got := reloadProduct(t, db, product.ID)
	assert.Equal(t, 2, got.Views)
}

func TestRecordRejectsUnknownLanguage(t *testing.T) {
	db, branch, product := setupScanTestDB(t)
	rec := NewRecorder(db)

	_, err := rec.Record(context.Background(), branch.ID, product.ID, "fr", "visitor-1", NewGuard(nil))
	assert.ErrorIs(t, err, ErrInvalidLanguage)

	got := reloadProduct(t, db, product.ID)
	assert.Zero(t, got.Views)
}

func TestRecordUnknownProductOrBranch(t *testing.T) {
	db, branch, product := setupScanTestDB(t)
	rec := NewRecorder(db)
	ctx := context.Background()

	_, err := rec.Record(ctx, branch.ID, 999, i18n.LangEn, "visitor-1", NewGuard(nil))
	assert.ErrorIs(t, err, models.ErrNotFound)

	// A real product behind the wrong branch is also a miss.
	_, err = rec.Record(ctx, branch.ID+1, product.ID, i18n.LangEn, "visitor-1", NewGuard(nil))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestViewKeyString(t *testing.T) {
	k := ViewKey{BranchID: 1, ProductID: 10, VisitorID: "abc"}
	assert.Equal(t, "1:10:abc", k.String())
}
