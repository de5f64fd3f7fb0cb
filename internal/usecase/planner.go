package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/user/scrapeflow/internal/entity"
	"github.com/user/scrapeflow/internal/repository"
)

const planPromptTemplate = `You are an expert AI planner for a generalized web scraping system. Take the user's request and output a structured JSON plan.

Steps:
1. Analyze the user's explicit request AND infer the implicit, commonly expected details for that type of data (for jobs: company, role, salary, apply link; for restaurants: name, address, rating, contact; for products: title, price, brand, buy link).
2. Define a schema covering both explicit and reasonable implicit fields. Keep field names concise and consistent, suitable for tabular export.
3. Return a JSON object with exactly two keys:
- "searchQuery": a focused web search query, broad enough to find reliable sources but precise enough to target authoritative directories or review platforms.
- "extractionPrompt": a detailed instruction for extracting structured data from raw page text. List each schema field explicitly and use "N/A" for missing values.

Rules:
- Output must be a valid JSON object only, no prose and no markdown.
- Exclude LinkedIn and Reddit from the search.

User's request:
%s`

// Planner turns a free-text user request into a validated extraction plan
// by asking the language model for a structured JSON answer.
type Planner struct {
	llm repository.LanguageModel
}

// NewPlanner creates a new planner over the given language model.
func NewPlanner(llm repository.LanguageModel) *Planner {
	return &Planner{llm: llm}
}

// Plan produces the plan for one user request. The run cannot proceed
// without it: a model error, unparseable output, or a missing field all
// fail the stage.
func (p *Planner) Plan(ctx context.Context, userPrompt string) (*entity.Plan, error) {
	raw, err := p.llm.Complete(ctx, fmt.Sprintf(planPromptTemplate, userPrompt))
	if err != nil {
		if errors.Is(err, repository.ErrMissingCredential) {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrPlanningFailed, err)
	}

	var plan entity.Plan
	if err := json.Unmarshal([]byte(extractJSONPayload(raw)), &plan); err != nil {
		slog.Error("Planner returned unparseable output", "error", err)
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrPlanningFailed, err)
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlanningFailed, err)
	}

	slog.Info("Plan generated", "search_query", plan.SearchQuery)
	return &plan, nil
}
