// Package resolve ranks staff candidates against a free-text query.
// Ranking is pure: the caller fetches the candidate set (already
// filtered by project scope and pending-advance requirements) and this
// package only scores and orders it, exposing the breakdown so a match
// can be audited.
package resolve

import (
	"sort"
	"strings"

	"github.com/wessamh/edara-actions/internal/model"
	"github.com/wessamh/edara-actions/internal/textnorm"
)

// Score weights. A full normalized-name match dominates everything a
// token-by-token match can accumulate on typical two-part names.
const (
	ScoreFullName    = 100
	ScoreExactToken  = 25
	ScoreTokenPrefix = 15
	ScoreSubstring   = 8
)

type Options struct {
	// MinScore is the least score the top candidate needs before it can
	// be auto-chosen at all.
	MinScore int
	// ChoiceMargin is how far the top score must exceed the runner-up
	// for an automatic choice; otherwise all candidates are surfaced
	// for human confirmation.
	ChoiceMargin int
}

func DefaultOptions() Options {
	return Options{MinScore: 25, ChoiceMargin: 10}
}

type MatchKind string

const (
	MatchFullName    MatchKind = "FULL_NAME"
	MatchExactToken  MatchKind = "EXACT_TOKEN"
	MatchTokenPrefix MatchKind = "TOKEN_PREFIX"
	MatchSubstring   MatchKind = "SUBSTRING"
)

type ScorePart struct {
	QueryToken string    `json:"queryToken"`
	NameToken  string    `json:"nameToken"`
	Kind       MatchKind `json:"kind"`
	Points     int       `json:"points"`
}

type Match struct {
	Staff     model.StaffWithAdvances
	Score     int
	Breakdown []ScorePart
}

type Resolution struct {
	NormalizedQuery string
	Tokens          []string
	Matches         []Match
	// Chosen is non-nil only when exactly one candidate clears both the
	// minimum score and the margin over the runner-up.
	Chosen *Match
}

// Rank never fails: an empty query or candidate set yields an empty
// match list and no chosen staff.
func Rank(query string, candidates []model.StaffWithAdvances, opts Options) Resolution {
	normalized := textnorm.Normalize(query)
	tokens := textnorm.Tokens(query)

	res := Resolution{NormalizedQuery: normalized, Tokens: tokens}
	if len(tokens) == 0 {
		return res
	}

	for _, candidate := range candidates {
		score, breakdown := scoreCandidate(normalized, tokens, candidate.Name)
		if score == 0 {
			continue
		}
		res.Matches = append(res.Matches, Match{
			Staff:     candidate,
			Score:     score,
			Breakdown: breakdown,
		})
	}

	sort.SliceStable(res.Matches, func(i, j int) bool {
		if res.Matches[i].Score != res.Matches[j].Score {
			return res.Matches[i].Score > res.Matches[j].Score
		}
		ni, nj := textnorm.Normalize(res.Matches[i].Staff.Name), textnorm.Normalize(res.Matches[j].Staff.Name)
		if ni != nj {
			return ni < nj
		}
		return res.Matches[i].Staff.ID.String() < res.Matches[j].Staff.ID.String()
	})

	res.Chosen = chooseMatch(res.Matches, opts)
	return res
}

func chooseMatch(matches []Match, opts Options) *Match {
	if len(matches) == 0 {
		return nil
	}
	top := matches[0]
	if top.Score < opts.MinScore {
		return nil
	}
	if len(matches) > 1 && top.Score < matches[1].Score+opts.ChoiceMargin {
		return nil
	}
	return &top
}

func scoreCandidate(normalizedQuery string, queryTokens []string, name string) (int, []ScorePart) {
	normalizedName := textnorm.Normalize(name)
	if normalizedName == "" {
		return 0, nil
	}
	if normalizedName == normalizedQuery {
		return ScoreFullName, []ScorePart{{
			QueryToken: normalizedQuery,
			NameToken:  normalizedName,
			Kind:       MatchFullName,
			Points:     ScoreFullName,
		}}
	}

	nameTokens := strings.Split(normalizedName, " ")
	consumed := make([]bool, len(nameTokens))

	score := 0
	var breakdown []ScorePart
	for _, qt := range queryTokens {
		idx, kind, points := bestTokenMatch(qt, nameTokens, consumed)
		if idx < 0 {
			continue
		}
		consumed[idx] = true
		score += points
		breakdown = append(breakdown, ScorePart{
			QueryToken: qt,
			NameToken:  nameTokens[idx],
			Kind:       kind,
			Points:     points,
		})
	}
	return score, breakdown
}

// bestTokenMatch finds the strongest unconsumed name token for a query
// token. Each name token is consumed by at most one query token, so
// "ahmed ahmed" cannot double-count a single "ahmed".
func bestTokenMatch(queryToken string, nameTokens []string, consumed []bool) (int, MatchKind, int) {
	bestIdx, bestPoints := -1, 0
	var bestKind MatchKind
	for i, nt := range nameTokens {
		if consumed[i] {
			continue
		}
		kind, points := tokenMatch(queryToken, nt)
		if points > bestPoints {
			bestIdx, bestKind, bestPoints = i, kind, points
		}
	}
	return bestIdx, bestKind, bestPoints
}

func tokenMatch(queryToken, nameToken string) (MatchKind, int) {
	switch {
	case queryToken == nameToken:
		return MatchExactToken, ScoreExactToken
	case strings.HasPrefix(nameToken, queryToken):
		return MatchTokenPrefix, ScoreTokenPrefix
	case strings.Contains(nameToken, queryToken):
		return MatchSubstring, ScoreSubstring
	default:
		return "", 0
	}
}
