package models

import (
	"fmt"
	"time"

	"qrkatalog_back_end/internal/i18n"
)

// Branch is a physical location owning a set of products. Deleting a branch
// cascades to its products and their language views.
type Branch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null;unique" json:"name"`
	Address   string    `gorm:"size:255" json:"address"`
	CreatedAt time.Time `json:"created_at"`

	Products []Product `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Product is a catalog item with every text field kept in three languages.
type Product struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BranchID uint `gorm:"not null;index" json:"branch_id"`

	NameUz string `gorm:"size:200" json:"name_uz"`
	NameRu string `gorm:"size:200" json:"name_ru"`
	NameEn string `gorm:"size:200" json:"name_en"`

	DescriptionUz string `json:"description_uz"`
	DescriptionRu string `json:"description_ru"`
	DescriptionEn string `json:"description_en"`

	ForWhomUz string `json:"for_whom_uz"`
	ForWhomRu string `json:"for_whom_ru"`
	ForWhomEn string `json:"for_whom_en"`

	ComponentsUz string `json:"components_uz"`
	ComponentsRu string `json:"components_ru"`
	ComponentsEn string `json:"components_en"`

	CompanyUz string `gorm:"size:200" json:"company_uz"`
	CompanyRu string `gorm:"size:200" json:"company_ru"`
	CompanyEn string `gorm:"size:200" json:"company_en"`

	UsageUz string `json:"usage_uz"`
	UsageRu string `json:"usage_ru"`
	UsageEn string `json:"usage_en"`

	NotUsageUz string `json:"not_usage_uz"`
	NotUsageRu string `json:"not_usage_ru"`
	NotUsageEn string `json:"not_usage_en"`

	StorageUz string `json:"storage_uz"`
	StorageRu string `json:"storage_ru"`
	StorageEn string `json:"storage_en"`

	ExpiryUz string `gorm:"size:100" json:"expiry_uz"`
	ExpiryRu string `gorm:"size:100" json:"expiry_ru"`
	ExpiryEn string `gorm:"size:100" json:"expiry_en"`

	CertificateUz string `json:"certificate_uz"`
	CertificateRu string `json:"certificate_ru"`
	CertificateEn string `json:"certificate_en"`

	PromotionUz string `json:"promotion_uz"`
	PromotionRu string `json:"promotion_ru"`
	PromotionEn string `json:"promotion_en"`

	ConclusionUz string `json:"conclusion_uz"`
	ConclusionRu string `json:"conclusion_ru"`
	ConclusionEn string `json:"conclusion_en"`

	CountryUz string `gorm:"size:120" json:"country_uz"`
	CountryRu string `gorm:"size:120" json:"country_ru"`
	CountryEn string `gorm:"size:120" json:"country_en"`

	LocationUz string `gorm:"size:120" json:"location_uz"`
	LocationRu string `gorm:"size:120" json:"location_ru"`
	LocationEn string `gorm:"size:120" json:"location_en"`

	Image  string `gorm:"size:255" json:"image"`
	QRCode string `gorm:"size:255" json:"qr_code"`

	Views         int        `gorm:"not null;default:0" json:"views"`
	LastScannedAt *time.Time `json:"last_scanned_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	LanguageViews []LanguageView `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// LanguageView is an append-only event: one counted view of a product in one
// language. Rows are never updated and only disappear via cascade delete.
type LanguageView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Lang      string    `gorm:"size:10;not null" json:"lang"`
	CreatedAt time.Time `json:"created_at"`
}

// fallback returns the first non-empty variant.
func fallback(uz, ru, en string) string {
	switch {
	case uz != "":
		return uz
	case ru != "":
		return ru
	default:
		return en
	}
}

// DisplayName picks a name by language priority uz > ru > en, with a synthetic
// placeholder when every variant is empty.
func (p *Product) DisplayName() string {
	if name := fallback(p.NameUz, p.NameRu, p.NameEn); name != "" {
		return name
	}
	return fmt.Sprintf("Product %d", p.ID)
}

// LocalizedProduct is the single-language projection served on the public
// detail page.
type LocalizedProduct struct {
	ID          uint   `json:"id"`
	BranchID    uint   `json:"branch_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ForWhom     string `json:"for_whom"`
	Components  string `json:"components"`
	Company     string `json:"company"`
	Usage       string `json:"usage"`
	NotUsage    string `json:"not_usage"`
	Storage     string `json:"storage"`
	Expiry      string `json:"expiry"`
	Certificate string `json:"certificate"`
	Promotion   string `json:"promotion"`
	Conclusion  string `json:"conclusion"`
	Country     string `json:"country"`
	Location    string `json:"location"`
	Image       string `json:"image"`
}

// Localize projects the product onto one language. The name keeps the
// fallback chain so a partially translated product still has a title.
func (p *Product) Localize(lang string) LocalizedProduct {
	lp := LocalizedProduct{
		ID:       p.ID,
		BranchID: p.BranchID,
		Name:     p.DisplayName(),
		Image:    p.Image,
	}
	switch lang {
	case i18n.LangRu:
		lp.Description = p.DescriptionRu
		lp.ForWhom = p.ForWhomRu
		lp.Components = p.ComponentsRu
		lp.Company = p.CompanyRu
		lp.Usage = p.UsageRu
		lp.NotUsage = p.NotUsageRu
		lp.Storage = p.StorageRu
		lp.Expiry = p.ExpiryRu
		lp.Certificate = p.CertificateRu
		lp.Promotion = p.PromotionRu
		lp.Conclusion = p.ConclusionRu
		lp.Country = p.CountryRu
		lp.Location = p.LocationRu
		if p.NameRu != "" {
			lp.Name = p.NameRu
		}
	case i18n.LangEn:
		lp.Description = p.DescriptionEn
		lp.ForWhom = p.ForWhomEn
		lp.Components = p.ComponentsEn
		lp.Company = p.CompanyEn
		lp.Usage = p.UsageEn
		lp.NotUsage = p.NotUsageEn
		lp.Storage = p.StorageEn
		lp.Expiry = p.ExpiryEn
		lp.Certificate = p.CertificateEn
		lp.Promotion = p.PromotionEn
		lp.Conclusion = p.ConclusionEn
		lp.Country = p.CountryEn
		lp.Location = p.LocationEn
		if p.NameEn != "" {
			lp.Name = p.NameEn
		}
	default:
		lp.Description = p.DescriptionUz
		lp.ForWhom = p.ForWhomUz
		lp.Components = p.ComponentsUz
		lp.Company = p.CompanyUz
		lp.Usage = p.UsageUz
		lp.NotUsage = p.NotUsageUz
		lp.Storage = p.StorageUz
		lp.Expiry = p.ExpiryUz
		lp.Certificate = p.CertificateUz
		lp.Promotion = p.PromotionUz
		lp.Conclusion = p.ConclusionUz
		lp.Country = p.CountryUz
		lp.Location = p.LocationUz
		if p.NameUz != "" {
			lp.Name = p.NameUz
		}
	}
	return lp
}
