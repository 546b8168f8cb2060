package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wessamh/edara-actions/internal/model"
	"github.com/wessamh/edara-actions/internal/service"
)

func (r *Repository) AccountantByPhone(ctx context.Context, phone string) (*model.Accountant, error) {
	var acc model.Accountant
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, phone, role
		FROM accountants
		WHERE phone = ?
		LIMIT 1
	`, phone).Scan(&acc).Error; err != nil {
		return nil, err
	}
	if acc.ID == uuid.Nil {
		return nil, service.ErrNotFound
	}
	return &acc, nil
}

func (r *Repository) ProjectByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name FROM projects WHERE id = ? LIMIT 1
	`, id).Scan(&project).Error; err != nil {
		return nil, err
	}
	if project.ID == uuid.Nil {
		return nil, service.ErrNotFound
	}
	return &project, nil
}

func (r *Repository) UnitByID(ctx context.Context, id uuid.UUID) (*model.Unit, error) {
	var unit model.Unit
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, label, building_name FROM units WHERE id = ? LIMIT 1
	`, id).Scan(&unit).Error; err != nil {
		return nil, err
	}
	if unit.ID == uuid.Nil {
		return nil, service.ErrNotFound
	}
	return &unit, nil
}

type staffRow struct {
	ID           uuid.UUID
	Name         string
	ProjectID    *uuid.UUID
	Salary       decimal.Decimal
	CreatedAt    time.Time
	PendingTotal decimal.Decimal
	PendingCount int64
}

func (row staffRow) toModel() model.StaffWithAdvances {
	return model.StaffWithAdvances{
		Staff: model.Staff{
			ID:        row.ID,
			Name:      row.Name,
			ProjectID: row.ProjectID,
			Salary:    row.Salary,
			CreatedAt: row.CreatedAt,
		},
		PendingCount: row.PendingCount,
		PendingTotal: row.PendingTotal,
	}
}

const staffSelect = `
	SELECT
		s.id,
		s.name,
		s.project_id,
		s.salary,
		s.created_at,
		s.pending_advance_total AS pending_total,
		COALESCE(p.cnt, 0) AS pending_count
	FROM staff s
	LEFT JOIN (
		SELECT staff_id, COUNT(*) AS cnt
		FROM staff_advances
		WHERE status = 'PENDING'
		GROUP BY staff_id
	) p ON p.staff_id = s.id
`

func (r *Repository) StaffByID(ctx context.Context, id uuid.UUID) (*model.StaffWithAdvances, error) {
	var row staffRow
	if err := r.db.WithContext(ctx).Raw(staffSelect+`
		WHERE s.id = ?
		LIMIT 1
	`, id).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, service.ErrNotFound
	}

	staff := row.toModel()
	if err := r.fillPendingAdvanceIDs(ctx, []*model.StaffWithAdvances{&staff}); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *Repository) ListStaff(ctx context.Context, f service.StaffFilter) ([]model.StaffWithAdvances, error) {
	baseQuery := staffSelect + " WHERE 1=1"
	var args []interface{}
	if f.ProjectID != nil {
		baseQuery += " AND s.project_id = ?"
		args = append(args, *f.ProjectID)
	}
	if f.OnlyPending {
		baseQuery += " AND COALESCE(p.cnt, 0) > 0"
	}
	baseQuery += " ORDER BY s.name ASC, s.id ASC"

	var rows []staffRow
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	staff := make([]model.StaffWithAdvances, 0, len(rows))
	refs := make([]*model.StaffWithAdvances, 0, len(rows))
	for _, row := range rows {
		staff = append(staff, row.toModel())
	}
	for i := range staff {
		refs = append(refs, &staff[i])
	}
	if err := r.fillPendingAdvanceIDs(ctx, refs); err != nil {
		return nil, err
	}
	return staff, nil
}

// fillPendingAdvanceIDs loads the pending advance ids for a candidate
// set in one query and merges them in, so the resolution output can
// surface them without an N+1.
func (r *Repository) fillPendingAdvanceIDs(ctx context.Context, staff []*model.StaffWithAdvances) error {
	withPending := make(map[uuid.UUID]*model.StaffWithAdvances)
	var ids []uuid.UUID
	for _, s := range staff {
		if s.PendingCount > 0 {
			withPending[s.ID] = s
			ids = append(ids, s.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var rows []struct {
		ID      uuid.UUID
		StaffID uuid.UUID
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, staff_id
		FROM staff_advances
		WHERE status = 'PENDING' AND staff_id IN ?
		ORDER BY created_at ASC, id ASC
	`, ids).Scan(&rows).Error; err != nil {
		return err
	}
	for _, row := range rows {
		if s, ok := withPending[row.StaffID]; ok {
			s.PendingAdvIDs = append(s.PendingAdvIDs, row.ID)
		}
	}
	return nil
}
