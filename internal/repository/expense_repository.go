package repository

import (
	"context"

	"github.com/wessamh/edara-actions/internal/model"
	"github.com/wessamh/edara-actions/internal/service"
)

func (r *Repository) ListUnitExpenses(ctx context.Context, f service.ExpenseFilter) ([]model.OperationalExpense, error) {
	baseQuery := `
		SELECT id, unit_id, project_id, description, amount, category, source_type, pm_advance_id, note_id, created_at
		FROM operational_expenses
		WHERE unit_id = ?
	`
	args := []interface{}{f.UnitID}
	if len(f.Categories) > 0 {
		baseQuery += " AND category IN ?"
		args = append(args, f.Categories)
	}
	if f.From != nil {
		baseQuery += " AND created_at >= ?"
		args = append(args, *f.From)
	}
	if f.To != nil {
		baseQuery += " AND created_at < ?"
		args = append(args, *f.To)
	}
	baseQuery, args = tokenVariantFilter(baseQuery, args, "description", f.DescriptionTokens, f.TokenVariants)
	baseQuery += " ORDER BY created_at DESC, id ASC"

	var expenses []model.OperationalExpense
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}
