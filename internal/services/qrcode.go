package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"qrkatalog_back_end/internal/models"
	"qrkatalog_back_end/internal/storage"
)

// ObjectStore is the slice of the storage service that issuance and the
// upload handlers need. Tests substitute an in-memory implementation.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
}

const qrSize = 512

// QRIssuer encodes the scan-entry URL of a product and persists the image.
type QRIssuer struct {
	db      *gorm.DB
	store   ObjectStore
	baseURL string
}

func NewQRIssuer(db *gorm.DB, store ObjectStore, baseURL string) *QRIssuer {
	return &QRIssuer{db: db, store: store, baseURL: baseURL}
}

// ScanURL is the address encoded into the QR image. Scanning it starts the
// public catalog flow for the product.
func (q *QRIssuer) ScanURL(branchID, productID uint) string {
	return fmt.Sprintf("%s/branch/%d/product/%d", q.baseURL, branchID, productID)
}

// Issue generates the QR image for a product and records the object key on
// the product row. The key is derived from the product id, so re-issuing
// overwrites the previous image. The row is only updated after the upload
// succeeds: a failed upload leaves the prior reference untouched.
func (q *QRIssuer) Issue(ctx context.Context, branchID, productID uint) (string, error) {
	var product models.Product
	err := q.db.WithContext(ctx).
		Where("id = ? AND branch_id = ?", productID, branchID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", models.ErrNotFound
	}
	if err != nil {
		return "", err
	}

	png, err := qrcode.Encode(q.ScanURL(branchID, productID), qrcode.Medium, qrSize)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%d.png", storage.QRCodesPrefix, productID)
	if _, err := q.store.Upload(ctx, key, bytes.NewReader(png), int64(len(png)), "image/png"); err != nil {
		return "", fmt.Errorf("qr upload: %w", err)
	}

	if err := q.db.WithContext(ctx).Model(&product).
		UpdateColumn("qr_code", key).Error; err != nil {
		return "", err
	}
	return key, nil
}
