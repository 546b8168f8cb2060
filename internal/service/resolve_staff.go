package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wessamh/edara-actions/internal/i18n"
	"github.com/wessamh/edara-actions/internal/model"
	"github.com/wessamh/edara-actions/internal/resolve"
)

type staffMatchDTO struct {
	StaffID           uuid.UUID           `json:"staffId"`
	Name              string              `json:"name"`
	ProjectID         *uuid.UUID          `json:"projectId,omitempty"`
	Score             int                 `json:"score"`
	Breakdown         []resolve.ScorePart `json:"breakdown,omitempty"`
	PendingCount      int64               `json:"pendingAdvanceCount"`
	PendingTotal      decimal.Decimal     `json:"pendingAdvanceTotal"`
	PendingAdvanceIDs []uuid.UUID         `json:"pendingAdvanceIds,omitempty"`
}

type resolutionDTO struct {
	NormalizedQuery string          `json:"normalizedQuery"`
	Tokens          []string        `json:"tokens"`
	Matches         []staffMatchDTO `json:"matches"`
	Chosen          *staffMatchDTO  `json:"chosen"`
}

func matchDTO(m resolve.Match) staffMatchDTO {
	return staffMatchDTO{
		StaffID:           m.Staff.ID,
		Name:              m.Staff.Name,
		ProjectID:         m.Staff.ProjectID,
		Score:             m.Score,
		Breakdown:         m.Breakdown,
		PendingCount:      m.Staff.PendingCount,
		PendingTotal:      m.Staff.PendingTotal,
		PendingAdvanceIDs: m.Staff.PendingAdvIDs,
	}
}

func resolutionDTOFrom(res resolve.Resolution) resolutionDTO {
	dto := resolutionDTO{
		NormalizedQuery: res.NormalizedQuery,
		Tokens:          res.Tokens,
		Matches:         make([]staffMatchDTO, 0, len(res.Matches)),
	}
	for _, m := range res.Matches {
		dto.Matches = append(dto.Matches, matchDTO(m))
	}
	if res.Chosen != nil {
		chosen := matchDTO(*res.Chosen)
		dto.Chosen = &chosen
	}
	return dto
}

// resolveStaffRef turns a staffRef into the ranked resolution. The
// direct id path still honors the project/pending filters and falls
// through to the fuzzy query on a miss.
func (s *ActionService) resolveStaffRef(ctx context.Context, ref staffRef) (resolve.Resolution, error) {
	if ref.StaffID != nil {
		staff, err := s.store.StaffByID(ctx, *ref.StaffID)
		switch {
		case err == nil && staffPassesFilters(staff, ref):
			return directResolution(*staff), nil
		case err != nil && !errors.Is(err, ErrNotFound):
			return resolve.Resolution{}, err
		}
		// miss or filtered out: fall through to the query path
	}

	candidates, err := s.store.ListStaff(ctx, StaffFilter{
		ProjectID:   ref.ProjectID,
		OnlyPending: ref.OnlyWithPendingAdvances,
	})
	if err != nil {
		return resolve.Resolution{}, err
	}
	return resolve.Rank(ref.StaffQuery, candidates, s.resolveOpts), nil
}

// mustResolveStaff is the write-path variant: the action needs exactly
// one target, so no match is a 404 and an ambiguous match is a 409
// carrying the candidates as suggestions.
func (s *ActionService) mustResolveStaff(ctx context.Context, ref staffRef) (*model.StaffWithAdvances, error) {
	res, err := s.resolveStaffRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if res.Chosen != nil {
		staff := res.Chosen.Staff
		return &staff, nil
	}
	if len(res.Matches) == 0 {
		query := ref.StaffQuery
		if query == "" && ref.StaffID != nil {
			query = ref.StaffID.String()
		}
		return nil, newActionError(http.StatusNotFound, CodeNotFound, i18n.StaffNotFound(query))
	}
	return nil, newActionError(http.StatusConflict, CodeAmbiguousStaff, i18n.AmbiguousStaff(len(res.Matches))).
		withSuggestions(staffSuggestions(res.Matches))
}

func staffSuggestions(matches []resolve.Match) []Suggestion {
	suggestions := make([]Suggestion, 0, len(matches))
	for _, m := range matches {
		suggestions = append(suggestions, Suggestion{
			Title:  m.Staff.Name,
			Prompt: fmt.Sprintf("Repeat the action for %s", m.Staff.Name),
			Data: map[string]any{
				"staffId":             m.Staff.ID,
				"score":               m.Score,
				"pendingAdvanceCount": m.Staff.PendingCount,
			},
		})
	}
	return suggestions
}

func staffPassesFilters(staff *model.StaffWithAdvances, ref staffRef) bool {
	if ref.ProjectID != nil {
		if staff.ProjectID == nil || *staff.ProjectID != *ref.ProjectID {
			return false
		}
	}
	if ref.OnlyWithPendingAdvances && staff.PendingCount == 0 {
		return false
	}
	return true
}

// directResolution shapes a by-id lookup as a confident resolution so
// both paths produce the same output contract.
func directResolution(staff model.StaffWithAdvances) resolve.Resolution {
	match := resolve.Match{Staff: staff, Score: resolve.ScoreFullName}
	return resolve.Resolution{
		Matches: []resolve.Match{match},
		Chosen:  &match,
	}
}
