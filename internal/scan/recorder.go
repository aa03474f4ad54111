// Package scan records counted product views: at most one per visitor,
// product and session, with a language-view event appended per count.
package scan

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"qrkatalog_back_end/internal/i18n"
	"qrkatalog_back_end/internal/models"
)

// ErrInvalidLanguage is returned for a language code outside the fixed set.
// Handlers map it to a 400.
var ErrInvalidLanguage = errors.New("unsupported language")

type Recorder struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db, now: time.Now}
}

// Record counts a view of the product for the visitor behind guard, unless
// the same visitor was already counted for this product in this session. A
// counted view atomically increments the product's view counter, stamps
// last_scanned_at and appends one LanguageView row. It returns whether the
// view was counted.
//
// The increment runs as views = views + 1 inside the database so concurrent
// scans of the same product cannot lose updates.
func (r *Recorder) Record(ctx context.Context, branchID, productID uint, lang, visitorID string, guard *Guard) (bool, error) {
	if !i18n.Valid(lang) {
		return false, ErrInvalidLanguage
	}

	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND branch_id = ?", productID, branchID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, models.ErrNotFound
	}
	if err != nil {
		return false, err
	}

	key := ViewKey{BranchID: branchID, ProductID: productID, VisitorID: visitorID}
	if guard.Seen(key) {
		return false, nil
	}

	now := r.now().UTC()
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).
			Where("id = ?", product.ID).
			UpdateColumns(map[string]interface{}{
				"views":           gorm.Expr("views + ?", 1),
				"last_scanned_at": now,
			}).Error; err != nil {
			return err
		}
		return tx.Create(&models.LanguageView{
			ProductID: product.ID,
			Lang:      lang,
			CreatedAt: now,
		}).Error
	})
	if err != nil {
		return false, err
	}

	guard.Mark(key)
	return true, nil
}
