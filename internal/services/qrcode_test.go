package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"qrkatalog_back_end/internal/models"
)

type fakeStore struct {
	objects    map[string][]byte
	failUpload bool
	removed    []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	if f.failUpload {
		return "", errors.New("storage unavailable")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.objects[key] = data
	return f.PublicURL(key), nil
}

func (f *fakeStore) Remove(_ context.Context, key string) error {
	f.removed = append(f.removed, key)
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "http://store.local/qrkatalog/" + key
}

func setupQRTestDB(t *testing.T) (*gorm.DB, models.Branch, models.Product) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Branch{}, &models.Product{}, &models.LanguageView{}))

	branch := models.Branch{Name: "Central"}
	require.NoError(t, db.Create(&branch).Error)
	product := models.Product{BranchID: branch.ID, NameUz: "Asal"}
	require.NoError(t, db.Create(&product).Error)
	return db, branch, product
}

func TestScanURL(t *testing.T) {
	q := NewQRIssuer(nil, newFakeStore(), "http://example.com")
	assert.Equal(t, "http://example.com/branch/1/product/10", q.ScanURL(1, 10))
}

func TestIssueStoresImageThenRecord(t *testing.T) {
	db, branch, product := setupQRTestDB(t)
	store := newFakeStore()
	q := NewQRIssuer(db, store, "http://example.com")

	key, err := q.Issue(context.Background(), branch.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "qrcodes/1.png", key)

	// The stored image encodes exactly the scan-entry URL.
	want, err := qrcode.Encode(q.ScanURL(branch.ID, product.ID), qrcode.Medium, qrSize)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(want, store.objects[key]))

	var got models.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.Equal(t, key, got.QRCode)
}

func TestIssueIsIdempotent(t *testing.T) {
	db, branch, product := setupQRTestDB(t)
	store := newFakeStore()
	q := NewQRIssuer(db, store, "http://example.com")
	ctx := context.Background()

	first, err := q.Issue(ctx, branch.ID, product.ID)
	require.NoError(t, err)
	second, err := q.Issue(ctx, branch.ID, product.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, store.objects, 1)
}

func TestIssueUploadFailureLeavesRecordUntouched(t *testing.T) {
	db, branch, product := setupQRTestDB(t)
	require.NoError(t, db.Model(&product).UpdateColumn("qr_code", "qrcodes/previous.png").Error)

	store := newFakeStore()
	store.failUpload = true
	q := NewQRIssuer(db, store, "http://example.com")

	_, err := q.Issue(context.Background(), branch.ID, product.ID)
	require.Error(t, err)

	var got models.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.Equal(t, "qrcodes/previous.png", got.QRCode)
	assert.Empty(t, store.objects)
}

func TestIssueUnknownProduct(t *testing.T) {
	db, branch, _ := setupQRTestDB(t)
	q := NewQRIssuer(db, newFakeStore(), "http://example.com")

	_, err := q.Issue(context.Background(), branch.ID, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
