package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase and trim", "  Ahmed   ALI ", "ahmed ali"},
		{"latin diacritics", "Café Résumé", "cafe resume"},
		{"punctuation becomes separator", "ahmed-ali, jr.", "ahmed ali jr"},
		{"arabic alef folding", "أحمد إبراهيم آدم", "احمد ابراهيم ادم"},
		{"taa marbuta and alef maqsura", "فاطمة مصطفى", "فاطمه مصطفي"},
		{"harakat stripped", "مُحَمَّد", "محمد"},
		{"tatweel stripped", "عـــلي", "علي"},
		{"empty", "", ""},
		{"only punctuation", "?!-", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Ahmed Ali", "أَحْمَد عَلِي", "Café-Au_Lait!!", "وحدة ١٢", "",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"ahmed", "ali"}, Tokens("Ahmed, Ali"))
	assert.Equal(t, []string{"صيانه", "مصعد"}, Tokens("صيانة مصعد"))
	assert.Nil(t, Tokens("  ... "))
}
