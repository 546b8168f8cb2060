package service

import "github.com/wessamh/edara-actions/internal/i18n"

// Suggestion is a follow-up the calling automation can offer the
// accountant, e.g. one per candidate after an ambiguous staff match.
// Prompt is ready to send back through the same webhook flow.
type Suggestion struct {
	Title  string         `json:"title"`
	Prompt string         `json:"prompt"`
	Data   map[string]any `json:"data,omitempty"`
}

// Response is the single outbound shape of the webhook, success or
// failure.
type Response struct {
	Success       bool           `json:"success"`
	Data          any            `json:"data,omitempty"`
	Message       string         `json:"message,omitempty"`
	HumanReadable *i18n.Text     `json:"humanReadable,omitempty"`
	Suggestions   []Suggestion   `json:"suggestions,omitempty"`
	Meta          map[string]any `json:"meta,omitempty"`
	Error         string         `json:"error,omitempty"`
	Issues        []string       `json:"issues,omitempty"`
}

// Outcome pairs a response body with the HTTP status mirroring it.
type Outcome struct {
	Status int
	Body   Response
}

// Result is what a handler produces on success; the dispatcher shapes
// it into an Outcome.
type Result struct {
	Status      int // 200 or 201
	Data        any
	Message     string
	Text        i18n.Text
	Suggestions []Suggestion
	Meta        map[string]any
}
