package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	for _, lang := range Languages {
		assert.True(t, Valid(lang))
	}
	assert.False(t, Valid("fr"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("UZ"))
}

func TestLabelsCoverEveryLanguage(t *testing.T) {
	keys := []string{
		"description", "components", "company", "usage", "not_usage",
		"storage", "expiry", "certificate", "promotion", "conclusion",
	}
	for _, lang := range Languages {
		m := Labels(lang)
		for _, k := range keys {
			assert.NotEmpty(t, m[k], "%s/%s", lang, k)
		}
	}
}

func TestLabelsFallBackToEnglish(t *testing.T) {
	assert.Equal(t, Labels(LangEn), Labels("xx"))
}
