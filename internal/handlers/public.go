package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"qrkatalog_back_end/internal/i18n"
	"qrkatalog_back_end/internal/models"
	"qrkatalog_back_end/internal/scan"
)

// loadBranchProduct resolves a product scoped to its branch.
func (h *Handler) loadBranchProduct(c *gin.Context, branchID, productID uint) (*models.Product, error) {
	var product models.Product
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND branch_id = ?", productID, branchID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductEntry is the QR-encoded landing URL. It validates the scan target
// and sends the visitor on to language selection.
func (h *Handler) ProductEntry(c *gin.Context) {
	branchID, ok := uintParam(c, "branch_id")
	if !ok {
		return
	}
	productID, ok := uintParam(c, "product_id")
	if !ok {
		return
	}

	if _, err := h.loadBranchProduct(c, branchID, productID); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/branch/%d/select-language/%d", branchID, productID))
}

// SelectLanguage shows the language choices for a scanned product and stamps
// the product's last-scanned time.
func (h *Handler) SelectLanguage(c *gin.Context) {
	branchID, ok := uintParam(c, "branch_id")
	if !ok {
		return
	}
	productID, ok := uintParam(c, "product_id")
	if !ok {
		return
	}

	product, err := h.loadBranchProduct(c, branchID, productID)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now().UTC()
	if err := h.db.WithContext(c.Request.Context()).Model(product).
		UpdateColumn("last_scanned_at", now).Error; err != nil {
		respondError(c, err)
		return
	}

	languages := make([]gin.H, 0, len(i18n.Languages))
	for _, lang := range i18n.Languages {
		languages = append(languages, gin.H{
			"lang": lang,
			"url":  fmt.Sprintf("/branch/%d/product/%d/%s", branchID, productID, lang),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"product": gin.H{
			"id":    product.ID,
			"name":  product.DisplayName(),
			"image": h.objectURL(product.Image),
		},
		"languages": languages,
	})
}

// ProductDetail serves the localized product page and records the scan. The
// visitor keeps a durable pseudonymous id in a year-long cookie; within one
// session each visitor-product pair is counted at most once.
func (h *Handler) ProductDetail(c *gin.Context) {
	branchID, ok := uintParam(c, "branch_id")
	if !ok {
		return
	}
	productID, ok := uintParam(c, "product_id")
	if !ok {
		return
	}
	lang := c.Param("lang")

	visitorID, err := c.Cookie(visitorCookieName)
	if err != nil || visitorID == "" {
		visitorID = uuid.NewString()
	}

	session, _ := h.sessions.Get(c.Request, viewerSessionName)
	seen, _ := session.Values[viewedSessionKey].(map[string]bool)
	guard := scan.NewGuard(seen)

	counted, err := h.scans.Record(c.Request.Context(), branchID, productID, lang, visitorID, guard)
	if err != nil {
		respondError(c, err)
		return
	}
	if counted {
		session.Values[viewedSessionKey] = guard.Snapshot()
		if err := session.Save(c.Request, c.Writer); err != nil {
			respondError(c, err)
			return
		}
	}

	product, err := h.loadBranchProduct(c, branchID, productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(visitorCookieName, visitorID, visitorCookieMaxAge, "/", "", false, true)

	localized := product.Localize(lang)
	localized.Image = h.objectURL(localized.Image)

	c.JSON(http.StatusOK, gin.H{
		"lang":    lang,
		"labels":  i18n.Labels(lang),
		"product": localized,
	})
}
