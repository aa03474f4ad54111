// Package stats aggregates a branch's scan history into the summary rendered
// on the admin statistics page.
package stats

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"qrkatalog_back_end/internal/i18n"
	"qrkatalog_back_end/internal/models"
)

// DailyWindow is the number of calendar days in the daily breakdown. The
// window covers the seven days ending yesterday, oldest first.
const DailyWindow = 7

// monthlyLookback bounds the month grouping to the trailing 90 days.
const monthlyLookback = 90 * 24 * time.Hour

// TopQRLimit caps the most-scanned-products ranking.
const TopQRLimit = 5

type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type MonthCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type ProductViews struct {
	Name  string `json:"name"`
	Views int    `json:"views"`
}

// Summary is the full per-branch aggregate. Empty branches produce zeroed
// fields, never an error.
type Summary struct {
	TotalScans  int64            `json:"total_scans"`
	NewUsers    int              `json:"new_users"`
	RepeatUsers int              `json:"repeat_users"`
	LangStats   map[string]int64 `json:"lang_stats"`
	Daily       []DayCount       `json:"daily"`
	Monthly     []MonthCount     `json:"monthly"`
	TopQR       []ProductViews   `json:"top_qr"`
}

type Aggregator struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db, now: time.Now}
}

// BranchSummary computes the scan summary for one branch.
//
// new_users and repeat_users count products viewed exactly once and more than
// once — a coarse proxy carried over from the stats consumer, not a real
// unique-visitor count. Monthly entries omit months with no activity while
// daily entries are zero-filled; the consumer renders both as-is.
func (a *Aggregator) BranchSummary(ctx context.Context, branchID uint) (*Summary, error) {
	db := a.db.WithContext(ctx)

	var branch models.Branch
	err := db.First(&branch, branchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := db.Where("branch_id = ?", branch.ID).Order("id").Find(&products).Error; err != nil {
		return nil, err
	}

	summary := &Summary{
		LangStats: make(map[string]int64, len(i18n.Languages)),
		Daily:     make([]DayCount, 0, DailyWindow),
		Monthly:   []MonthCount{},
		TopQR:     []ProductViews{},
	}

	ids := make([]uint, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
		summary.TotalScans += int64(p.Views)
		switch {
		case p.Views == 1:
			summary.NewUsers++
		case p.Views > 1:
			summary.RepeatUsers++
		}
	}

	if err := a.langStats(db, ids, summary); err != nil {
		return nil, err
	}
	if err := a.daily(db, ids, summary); err != nil {
		return nil, err
	}
	if err := a.monthly(db, ids, summary); err != nil {
		return nil, err
	}
	a.topQR(products, summary)

	return summary, nil
}

// langStats counts language views grouped by language. Every supported code
// is present in the result, zero-defaulted.
func (a *Aggregator) langStats(db *gorm.DB, ids []uint, s *Summary) error {
	for _, lang := range i18n.Languages {
		s.LangStats[lang] = 0
	}
	if len(ids) == 0 {
		return nil
	}

	var rows []struct {
		Lang  string
		Count int64
	}
	err := db.Model(&models.LanguageView{}).
		Select("lang, COUNT(id) AS count").
		Where("product_id IN ?", ids).
		Group("lang").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	for _, row := range rows {
		s.LangStats[row.Lang] = row.Count
	}
	return nil
}

// daily fills exactly DailyWindow entries for the consecutive calendar days
// ending yesterday (UTC), oldest first, zero-filled.
func (a *Aggregator) daily(db *gorm.DB, ids []uint, s *Summary) error {
	today := a.now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -DailyWindow)

	for i := 0; i < DailyWindow; i++ {
		day := start.AddDate(0, 0, i)
		entry := DayCount{Date: day.Format("2006-01-02")}
		if len(ids) > 0 {
			err := db.Model(&models.LanguageView{}).
				Where("product_id IN ?", ids).
				Where("created_at >= ? AND created_at < ?", day, day.AddDate(0, 0, 1)).
				Count(&entry.Count).Error
			if err != nil {
				return err
			}
		}
		s.Daily = append(s.Daily, entry)
	}
	return nil
}

// monthly groups the trailing 90 days of language views by calendar month.
// Month bucketing happens here rather than in SQL so the grouping is
// identical across postgres and the sqlite used in tests.
func (a *Aggregator) monthly(db *gorm.DB, ids []uint, s *Summary) error {
	if len(ids) == 0 {
		return nil
	}

	since := a.now().UTC().Add(-monthlyLookback)
	var stamps []time.Time
	err := db.Model(&models.LanguageView{}).
		Where("product_id IN ?", ids).
		Where("created_at >= ?", since).
		Pluck("created_at", &stamps).Error
	if err != nil {
		return err
	}

	counts := make(map[string]int64)
	for _, ts := range stamps {
		counts[ts.UTC().Format("2006-01")]++
	}

	months := make([]string, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Strings(months)
	for _, m := range months {
		s.Monthly = append(s.Monthly, MonthCount{Date: m, Count: counts[m]})
	}
	return nil
}

// topQR ranks the branch's most-viewed products, descending by view count
// with stable order between ties. Products never scanned are excluded.
func (a *Aggregator) topQR(products []models.Product, s *Summary) {
	viewed := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Views > 0 {
			viewed = append(viewed, p)
		}
	}
	sort.SliceStable(viewed, func(i, j int) bool {
		return viewed[i].Views > viewed[j].Views
	})
	if len(viewed) > TopQRLimit {
		viewed = viewed[:TopQRLimit]
	}
	for _, p := range viewed {
		s.TopQR = append(s.TopQR, ProductViews{Name: p.DisplayName(), Views: p.Views})
	}
}
