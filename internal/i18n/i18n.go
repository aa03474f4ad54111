// Package i18n carries the fixed language set of the public catalog and the
// translated section labels rendered on product detail pages.
package i18n

const (
	LangUz = "uz"
	LangRu = "ru"
	LangEn = "en"
)

// Languages lists every supported language code, in display order.
var Languages = []string{LangUz, LangRu, LangEn}

// Valid reports whether lang is one of the supported codes.
func Valid(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}

var labels = map[string]map[string]string{
	LangUz: {
		"description": "Umumiy ma'lumot",
		"components":  "Tarkibiy qismi",
		"company":     "Ishlab chiqaruvchi",
		"usage":       "Foydalanish tartibi",
		"not_usage":   "Foydalanish mumkin bo'lmagan holatlar",
		"storage":     "Saqlash shartlari",
		"expiry":      "Yaroqlilik muddati",
		"certificate": "Sertifikat va standartlar",
		"promotion":   "Aksiya va bonuslar",
		"conclusion":  "Xulosa",
	},
	LangRu: {
		"description": "Общая информация",
		"components":  "Состав",
		"company":     "Производитель",
		"usage":       "Порядок использования",
		"not_usage":   "Противопоказания",
		"storage":     "Условия хранения",
		"expiry":      "Срок годности",
		"certificate": "Сертификаты и стандарты",
		"promotion":   "Акции и бонусы",
		"conclusion":  "Вывод",
	},
	LangEn: {
		"description": "General Information",
		"components":  "Composition",
		"company":     "Manufacturer",
		"usage":       "Usage Instructions",
		"not_usage":   "Contraindications",
		"storage":     "Storage Conditions",
		"expiry":      "Expiry Date",
		"certificate": "Certificates and Standards",
		"promotion":   "Promotions and Bonuses",
		"conclusion":  "Conclusion",
	},
}

// Labels returns the section labels for lang. Unknown codes fall back to
// English so a stale link still renders something readable.
func Labels(lang string) map[string]string {
	if m, ok := labels[lang]; ok {
		return m
	}
	return labels[LangEn]
}
