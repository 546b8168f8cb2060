// Package search turns a free-text expense/note query into structured
// filter parts: a closed set of matched expense categories plus the
// leftover description tokens with their spelling variants.
package search

import (
	"sort"
	"strings"

	"github.com/wessamh/edara-actions/internal/model"
	"github.com/wessamh/edara-actions/internal/textnorm"
)

// Query is the analyzed form of a free-text search. Same input always
// produces the same Query.
type Query struct {
	NormalizedSearch   string
	DescriptionTokens  []string
	DescriptionSummary string
	MatchedCategories  []model.ExpenseCategory
	// TokenVariants maps each description token to the spellings the
	// store should treat as equivalent (OR-expanded ILIKE filters).
	TokenVariants map[string][]string
}

type vocabEntry struct {
	keyword    string
	variants   []string
	categories []model.ExpenseCategory
}

// The working-language vocabulary. Keywords and variants are written in
// their natural spelling and normalized once at init, so lookups always
// compare post-normalization forms.
var vocabSource = []vocabEntry{
	{"فني", []string{"فنيين", "الفني"}, []model.ExpenseCategory{model.CategoryTechnicianWork}},
	{"سباك", []string{"سباكة", "السباك"}, []model.ExpenseCategory{model.CategoryTechnicianWork}},
	{"كهربائي", []string{"الكهربائي", "كهربجي"}, []model.ExpenseCategory{model.CategoryTechnicianWork}},
	{"نجار", []string{"نجارة", "النجار"}, []model.ExpenseCategory{model.CategoryTechnicianWork}},
	{"دهان", []string{"دهانات", "نقاش"}, []model.ExpenseCategory{model.CategoryTechnicianWork}},
	{"صيانة", []string{"الصيانة", "تصليح", "اصلاح"}, []model.ExpenseCategory{model.CategoryTechnicianWork}},
	{"عامل", []string{"عمال", "عمالة", "العامل"}, []model.ExpenseCategory{model.CategoryStaffWork}},
	{"موظف", []string{"موظفين", "الموظف"}, []model.ExpenseCategory{model.CategoryStaffWork}},
	{"يومية", []string{"يوميات", "اليومية"}, []model.ExpenseCategory{model.CategoryStaffWork}},
	{"راتب", []string{"رواتب", "مرتب", "مرتبات"}, []model.ExpenseCategory{model.CategoryStaffWork}},
	{"كهرباء", []string{"الكهرباء", "نور"}, []model.ExpenseCategory{model.CategoryUtilities, model.CategoryTechnicianWork}},
	{"مياه", []string{"ماء", "موية", "المياه"}, []model.ExpenseCategory{model.CategoryUtilities}},
	{"غاز", []string{"الغاز"}, []model.ExpenseCategory{model.CategoryUtilities}},
	{"انترنت", []string{"نت", "الانترنت"}, []model.ExpenseCategory{model.CategoryUtilities}},
	{"فاتورة", []string{"فواتير", "الفاتورة"}, []model.ExpenseCategory{model.CategoryUtilities}},
	{"نثرية", []string{"نثريات"}, []model.ExpenseCategory{model.CategoryOther}},
	{"متفرقات", []string{"متفرقة", "اخرى"}, []model.ExpenseCategory{model.CategoryOther}},
}

// categoryOrder fixes the output order of matched categories.
var categoryOrder = []model.ExpenseCategory{
	model.CategoryTechnicianWork,
	model.CategoryStaffWork,
	model.CategoryUtilities,
	model.CategoryOther,
}

var (
	// normalized keyword (or variant) -> categories
	vocabCategories map[string][]model.ExpenseCategory
	// normalized token -> normalized equivalence group
	variantGroups map[string][]string
)

func init() {
	vocabCategories = make(map[string][]model.ExpenseCategory)
	variantGroups = make(map[string][]string)
	for _, entry := range vocabSource {
		group := make([]string, 0, len(entry.variants)+1)
		group = append(group, textnorm.Normalize(entry.keyword))
		for _, v := range entry.variants {
			group = append(group, textnorm.Normalize(v))
		}
		group = dedupe(group)
		for _, form := range group {
			vocabCategories[form] = append(vocabCategories[form], entry.categories...)
			variantGroups[form] = group
		}
	}
}

func Analyze(freeText string) Query {
	normalized := textnorm.Normalize(freeText)
	tokens := textnorm.Tokens(freeText)

	matched := map[model.ExpenseCategory]bool{}
	var description []string
	for _, token := range tokens {
		categories, hit := lookupCategories(token)
		if !hit {
			description = append(description, token)
			continue
		}
		for _, c := range categories {
			matched[c] = true
		}
	}

	variants := make(map[string][]string, len(description))
	for _, token := range description {
		variants[token] = variantsFor(token)
	}

	var categories []model.ExpenseCategory
	for _, c := range categoryOrder {
		if matched[c] {
			categories = append(categories, c)
		}
	}

	return Query{
		NormalizedSearch:   normalized,
		DescriptionTokens:  description,
		DescriptionSummary: strings.Join(description, " "),
		MatchedCategories:  categories,
		TokenVariants:      variants,
	}
}

func lookupCategories(token string) ([]model.ExpenseCategory, bool) {
	if categories, ok := vocabCategories[token]; ok {
		return categories, true
	}
	if stripped, ok := stripDefiniteArticle(token); ok {
		if categories, ok := vocabCategories[stripped]; ok {
			return categories, true
		}
	}
	return nil, false
}

// variantsFor returns the token itself, its ال-prefixed/stripped twin
// and any vocabulary-declared equivalents, sorted for determinism.
func variantsFor(token string) []string {
	set := []string{token}
	if stripped, ok := stripDefiniteArticle(token); ok {
		set = append(set, stripped)
		set = append(set, variantGroups[stripped]...)
	} else {
		set = append(set, "ال"+token)
	}
	set = append(set, variantGroups[token]...)
	set = dedupe(set)
	sort.Strings(set)
	return set
}

func stripDefiniteArticle(token string) (string, bool) {
	const article = "ال"
	if strings.HasPrefix(token, article) && len(token) > len(article)+2 {
		return strings.TrimPrefix(token, article), true
	}
	return "", false
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
