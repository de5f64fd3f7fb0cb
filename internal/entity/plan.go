package entity

import "errors"

// Plan is the language model's structured answer to a user request: what to
// search for, and how to later turn the scraped pages into records.
type Plan struct {
	SearchQuery      string `json:"searchQuery"`
	ExtractionPrompt string `json:"extractionPrompt"`
}

// ErrIncompletePlan is returned when the model's plan is missing a field.
var ErrIncompletePlan = errors.New("plan is missing searchQuery or extractionPrompt")

// Validate checks that both required fields are present.
func (p *Plan) Validate() error {
	if p.SearchQuery == "" || p.ExtractionPrompt == "" {
		return ErrIncompletePlan
	}
	return nil
}
