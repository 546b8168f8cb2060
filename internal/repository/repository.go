// Package repository implements the service Store contract over the
// transactional Postgres store. Reads are plain Raw-SQL scans; every
// multi-entity mutation locks its rows FOR UPDATE and re-runs the
// ledger guards inside one transaction so concurrent calls on the same
// entity serialize on the row lock.
package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// likePattern wraps a token for a contains match. The inputs come from
// the normalizer, so there is no % to escape in practice, but strip the
// wildcards anyway.
func likePattern(token string) string {
	token = strings.NewReplacer("%", "", "_", "").Replace(token)
	return "%" + token + "%"
}

// tokenVariantFilter appends one "(description ILIKE v1 OR ...)" group
// per description token; a token matches if any of its variants does.
func tokenVariantFilter(baseQuery string, args []interface{}, column string, tokens []string, variants map[string][]string) (string, []interface{}) {
	for _, token := range tokens {
		forms := variants[token]
		if len(forms) == 0 {
			forms = []string{token}
		}
		parts := make([]string, 0, len(forms))
		for _, form := range forms {
			parts = append(parts, column+" ILIKE ?")
			args = append(args, likePattern(form))
		}
		baseQuery += fmt.Sprintf(" AND (%s)", strings.Join(parts, " OR "))
	}
	return baseQuery, args
}
