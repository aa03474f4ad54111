package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"qrkatalog_back_end/internal/models"
	"qrkatalog_back_end/internal/storage"
)

// productForm carries every localized field of the product form. Each field
// exists in the three catalog languages.
type productForm struct {
	NameUz string `form:"name_uz"`
	NameRu string `form:"name_ru"`
	NameEn string `form:"name_en"`

	DescriptionUz string `form:"description_uz"`
	DescriptionRu string `form:"description_ru"`
	DescriptionEn string `form:"description_en"`

	ForWhomUz string `form:"for_whom_uz"`
	ForWhomRu string `form:"for_whom_ru"`
	ForWhomEn string `form:"for_whom_en"`

	ComponentsUz string `form:"components_uz"`
	ComponentsRu string `form:"components_ru"`
	ComponentsEn string `form:"components_en"`

	CompanyUz string `form:"company_uz"`
	CompanyRu string `form:"company_ru"`
	CompanyEn string `form:"company_en"`

	UsageUz string `form:"usage_uz"`
	UsageRu string `form:"usage_ru"`
	UsageEn string `form:"usage_en"`

	NotUsageUz string `form:"not_usage_uz"`
	NotUsageRu string `form:"not_usage_ru"`
	NotUsageEn string `form:"not_usage_en"`

	StorageUz string `form:"storage_uz"`
	StorageRu string `form:"storage_ru"`
	StorageEn string `form:"storage_en"`

	ExpiryUz string `form:"expiry_uz"`
	ExpiryRu string `form:"expiry_ru"`
	ExpiryEn string `form:"expiry_en"`

	CertificateUz string `form:"certificate_uz"`
	CertificateRu string `form:"certificate_ru"`
	CertificateEn string `form:"certificate_en"`

	PromotionUz string `form:"promotion_uz"`
	PromotionRu string `form:"promotion_ru"`
	PromotionEn string `form:"promotion_en"`

	ConclusionUz string `form:"conclusion_uz"`
	ConclusionRu string `form:"conclusion_ru"`
	ConclusionEn string `form:"conclusion_en"`

	CountryUz string `form:"country_uz"`
	CountryRu string `form:"country_ru"`
	CountryEn string `form:"country_en"`

	LocationUz string `form:"location_uz"`
	LocationRu string `form:"location_ru"`
	LocationEn string `form:"location_en"`
}

func (f *productForm) apply(p *models.Product) {
	p.NameUz, p.NameRu, p.NameEn = f.NameUz, f.NameRu, f.NameEn
	p.DescriptionUz, p.DescriptionRu, p.DescriptionEn = f.DescriptionUz, f.DescriptionRu, f.DescriptionEn
	p.ForWhomUz, p.ForWhomRu, p.ForWhomEn = f.ForWhomUz, f.ForWhomRu, f.ForWhomEn
	p.ComponentsUz, p.ComponentsRu, p.ComponentsEn = f.ComponentsUz, f.ComponentsRu, f.ComponentsEn
	p.CompanyUz, p.CompanyRu, p.CompanyEn = f.CompanyUz, f.CompanyRu, f.CompanyEn
	p.UsageUz, p.UsageRu, p.UsageEn = f.UsageUz, f.UsageRu, f.UsageEn
	p.NotUsageUz, p.NotUsageRu, p.NotUsageEn = f.NotUsageUz, f.NotUsageRu, f.NotUsageEn
	p.StorageUz, p.StorageRu, p.StorageEn = f.StorageUz, f.StorageRu, f.StorageEn
	p.ExpiryUz, p.ExpiryRu, p.ExpiryEn = f.ExpiryUz, f.ExpiryRu, f.ExpiryEn
	p.CertificateUz, p.CertificateRu, p.CertificateEn = f.CertificateUz, f.CertificateRu, f.CertificateEn
	p.PromotionUz, p.PromotionRu, p.PromotionEn = f.PromotionUz, f.PromotionRu, f.PromotionEn
	p.ConclusionUz, p.ConclusionRu, p.ConclusionEn = f.ConclusionUz, f.ConclusionRu, f.ConclusionEn
	p.CountryUz, p.CountryRu, p.CountryEn = f.CountryUz, f.CountryRu, f.CountryEn
	p.LocationUz, p.LocationRu, p.LocationEn = f.LocationUz, f.LocationRu, f.LocationEn
}

// CreateProduct adds a product under a branch. The image upload must succeed
// before anything is written to the database; the QR code is issued right
// after the insert.
func (h *Handler) CreateProduct(c *gin.Context) {
	branchID, ok := uintParam(c, "branch_id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var branch models.Branch
	if err := h.db.WithContext(ctx).First(&branch, branchID).Error; err != nil {
		respondError(c, err)
		return
	}

	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}
	if !validImageExt(header.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image type (png/jpg/jpeg/webp)"})
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	key := storage.UploadsPrefix + "/" + uniqueObjectName(header.Filename)
	if _, err := h.store.Upload(ctx, key, file, header.Size, header.Header.Get("Content-Type")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed: " + err.Error()})
		return
	}

	product := models.Product{BranchID: branch.ID, Image: key}
	form.apply(&product)

	if err := h.db.WithContext(ctx).Create(&product).Error; err != nil {
		respondError(c, err)
		return
	}

	if qrKey, err := h.qr.Issue(ctx, branch.ID, product.ID); err != nil {
		// The product exists; the QR can be re-issued from the admin panel.
		log.Printf("⚠️ QR issuance failed for product %d: %v", product.ID, err)
	} else {
		product.QRCode = qrKey
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct rewrites the localized fields and optionally replaces the
// image. A replacement image is uploaded before the row is saved.
func (h *Handler) UpdateProduct(c *gin.Context) {
	branchID, ok := uintParam(c, "branch_id")
	if !ok {
		return
	}
	productID, ok := uintParam(c, "product_id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var product models.Product
	err := h.db.WithContext(ctx).
		Where("id = ? AND branch_id = ?", productID, branchID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, models.ErrNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	form.apply(&product)

	var replacedImage string
	if header, err := c.FormFile("image"); err == nil {
		if !validImageExt(header.Filename) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image type (png/jpg/jpeg/webp)"})
			return
		}
		file, err := header.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		defer file.Close()

		key := storage.UploadsPrefix + "/" + uniqueObjectName(header.Filename)
		if _, err := h.store.Upload(ctx, key, file, header.Size, header.Header.Get("Content-Type")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed: " + err.Error()})
			return
		}
		replacedImage = product.Image
		product.Image = key
	}

	// The recorder owns views and last_scanned_at; writing them from the
	// loaded struct would revert any scan counted since the row was read.
	if err := h.db.WithContext(ctx).Model(&product).
		Select("*").
		Omit("id", "views", "last_scanned_at", "created_at").
		Updates(&product).Error; err != nil {
		respondError(c, err)
		return
	}

	if replacedImage != "" && replacedImage != product.Image {
		if err := h.store.Remove(ctx, replacedImage); err != nil {
			log.Printf("⚠️ Failed to remove replaced image %s: %v", replacedImage, err)
		}
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes the product row (cascading its language views) after
// a best-effort cleanup of its stored objects.
func (h *Handler) DeleteProduct(c *gin.Context) {
	branchID, ok := uintParam(c, "branch_id")
	if !ok {
		return
	}
	productID, ok := uintParam(c, "product_id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var product models.Product
	err := h.db.WithContext(ctx).
		Where("id = ? AND branch_id = ?", productID, branchID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, models.ErrNotFound)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	h.removeProductObjects(ctx, &product)

	if err := h.db.WithContext(ctx).Delete(&product).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

// IssueQR (re-)generates the product's QR code image. Idempotent: the object
// key is derived from the product id.
func (h *Handler) IssueQR(c *gin.Context) {
	branchID, ok := uintParam(c, "branch_id")
	if !ok {
		return
	}
	productID, ok := uintParam(c, "product_id")
	if !ok {
		return
	}

	key, err := h.qr.Issue(c.Request.Context(), branchID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"qr_code": key, "url": h.objectURL(key)})
}
