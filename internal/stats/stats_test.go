package stats

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

func setupStatsTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(&models.Branch{}, &models.Product{}, &models.LanguageView{}))
	return db
}

// fixedNow anchors every window computation in the tests.
var fixedNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func at(daysAgo int) time.Time {
	return fixedNow.AddDate(0, 0, -daysAgo).Truncate(24 * time.Hour).Add(10 * time.Hour)
}

func seedViews(t *testing.T, db *gorm.DB, productID uint, lang string, ts time.Time, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, db.Create(&models.LanguageView{
			ProductID: productID,
			Lang:      lang,
			CreatedAt: ts,
		}).Error)
	}
}

func seedBranch(t *testing.T, db *gorm.DB) (models.Branch, []models.Product) {
	t.Helper()

	branch := models.Branch{Name: "Central", Address: "Chilonzor 1"}
	require.NoError(t, db.Create(&branch).Error)

	products := []models.Product{
		{BranchID: branch.ID, NameUz: "Olma sharbati", Views: 20},
		{BranchID: branch.ID, NameRu: "Грушевый сок", Views: 20},
		{BranchID: branch.ID, Views: 5},
		{BranchID: branch.ID, NameEn: "Honey", Views: 3},
		{BranchID: branch.ID, NameUz: "Asal", Views: 1},
		{BranchID: branch.ID, NameUz: "Non", Views: 0},
	}
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
	}

	// Keep the derived invariant: language views per product match its
	// counter.
	seedViews(t, db, products[0].ID, i18n.LangEn, at(1), 10)
	seedViews(t, db, products[0].ID, i18n.LangRu, at(3), 5)
	seedViews(t, db, products[0].ID, i18n.LangUz, at(40), 5)
	seedViews(t, db, products[1].ID, i18n.LangUz, at(8), 20)
	seedViews(t, db, products[2].ID, i18n.LangEn, at(100), 5)
	seedViews(t, db, products[3].ID, i18n.LangRu, at(1), 3)
	seedViews(t, db, products[4].ID, i18n.LangUz, at(0), 1)

	return branch, products
}

func newFixedAggregator(db *gorm.DB) *Aggregator {
	a := NewAggregator(db)
	a.now = func() time.Time { return fixedNow }
	return a
}

func TestBranchSummaryTotals(t *testing.T) {
	db := setupStatsTestDB(t)
	branch, _ := seedBranch(t, db)
	agg := newFixedAggregator(db)

	summary, err := agg.BranchSummary(context.Background(), branch.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(49), summary.TotalScans)
	assert.Equal(t, 1, summary.NewUsers)
	assert.Equal(t, 4, summary.RepeatUsers)

	// total_scans equals the branch's language-view count.
	var lvCount int64
	require.NoError(t, db.Model(&models.LanguageView{}).Count(&lvCount).Error)
	assert.Equal(t, lvCount, summary.TotalScans)
}

func TestBranchSummaryLangStats(t *testing.T) {
	db := setupStatsTestDB(t)
	branch, _ := seedBranch(t, db)
	agg := newFixedAggregator(db)

	summary, err := agg.BranchSummary(context.Background(), branch.ID)
	require.NoError(t, err)

	require.Len(t, summary.LangStats, 3)
	assert.Equal(t, int64(26), summary.LangStats[i18n.LangUz])
	assert.Equal(t, int64(8), summary.LangStats[i18n.LangRu])
	assert.Equal(t, int64(15), summary.LangStats[i18n.LangEn])

	var sum int64
	for _, n := range summary.LangStats {
		sum += n
	}
	assert.Equal(t, summary.TotalScans, sum)
}

func TestBranchSummaryDaily(t *testing.T) {
	db := setupStatsTestDB(t)
	branch, _ := seedBranch(t, db)
	agg := newFixedAggregator(db)

	summary, err := agg.BranchSummary(context.Background(), branch.ID)
	require.NoError(t, err)

	require.Len(t, summary.Daily, DailyWindow)

	// Seven consecutive days ending yesterday, oldest first.
	assert.Equal(t, "2026-08-22", summary.Daily[0].Date)
	assert.Equal(t, "2026-08-28", summary.Daily[6].Date)

	byDate := make(map[string]int64)
	for _, d := range summary.Daily {
		byDate[d.Date] = d.Count
	}
	assert.Equal(t, int64(13), byDate["2026-08-28"]) // 10 en + 3 ru
	assert.Equal(t, int64(5), byDate["2026-08-26"])
	assert.Equal(t, int64(0), byDate["2026-08-22"])

	// Today's single scan is outside the window.
	var total int64
	for _, d := range summary.Daily {
		total += d.Count
	}
	assert.Equal(t, int64(18), total)
}

func TestBranchSummaryMonthly(t *testing.T) {
	db := setupStatsTestDB(t)
	branch, _ := seedBranch(t, db)
	agg := newFixedAggregator(db)

	summary, err := agg.BranchSummary(context.Background(), branch.ID)
	require.NoError(t, err)

	// 100-day-old views fall outside the 90-day window; empty months are
	// omitted, not zero-filled.
	require.Len(t, summary.Monthly, 2)
	assert.Equal(t, MonthCount{Date: "2026-07", Count: 5}, summary.Monthly[0])
	assert.Equal(t, MonthCount{Date: "2026-08", Count: 39}, summary.Monthly[1])
}

func TestBranchSummaryTopQR(t *testing.T) {
	db := setupStatsTestDB(t)
	branch, products := seedBranch(t, db)
	agg := newFixedAggregator(db)

	summary, err := agg.BranchSummary(context.Background(), branch.ID)
	require.NoError(t, err)

	require.Len(t, summary.TopQR, 5)

	// Tied 20-view products first in stable id order, then descending.
	assert.Equal(t, "Olma sharbati", summary.TopQR[0].Name)
	assert.Equal(t, 20, summary.TopQR[0].Views)
	assert.Equal(t, "Грушевый сок", summary.TopQR[1].Name)
	assert.Equal(t, 20, summary.TopQR[1].Views)
	assert.Equal(t, 5, summary.TopQR[2].Views)
	assert.Equal(t, 3, summary.TopQR[3].Views)
	assert.Equal(t, 1, summary.TopQR[4].Views)

	// Unnamed product falls back to the synthetic placeholder; the
	// zero-view product never ranks.
	assert.Contains(t, summary.TopQR[2].Name, "Product ")
	for _, entry := range summary.TopQR {
		assert.NotEqual(t, "Non", entry.Name)
	}
	_ = products
}

func TestBranchSummaryEmptyBranch(t *testing.T) {
	db := setupStatsTestDB(t)
	branch := models.Branch{Name: "Empty"}
	require.NoError(t, db.Create(&branch).Error)
	agg := newFixedAggregator(db)

	summary, err := agg.BranchSummary(context.Background(), branch.ID)
	require.NoError(t, err)

	assert.Zero(t, summary.TotalScans)
	assert.Zero(t, summary.NewUsers)
	assert.Zero(t, summary.RepeatUsers)
	require.Len(t, summary.LangStats, 3)
	for _, lang := range i18n.Languages {
		assert.Equal(t, int64(0), summary.LangStats[lang])
	}
	require.Len(t, summary.Daily, DailyWindow)
	for _, d := range summary.Daily {
		assert.Zero(t, d.Count)
	}
	assert.Empty(t, summary.Monthly)
	assert.Empty(t, summary.TopQR)
}

func TestBranchSummaryUnknownBranch(t *testing.T) {
	db := setupStatsTestDB(t)
	agg := newFixedAggregator(db)

	_, err := agg.BranchSummary(context.Background(), 4242)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
