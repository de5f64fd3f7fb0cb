package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/user/scrapeflow/internal/entity"
	"github.com/user/scrapeflow/internal/repository"
	"github.com/user/scrapeflow/pkg/metrics"
)

const (
	pageSeparator = "\n\n---\n\n"

	extractionTemplate = "%s\n\nHere are the scraped pages:\n%s\n\nYour response must be ONLY the valid JSON data you have extracted."

	repairTemplate = `The following text was supposed to be valid JSON but is not. Correct it into well-formed JSON that preserves the original data. Respond with ONLY the corrected JSON, no prose and no markdown.

%s`
)

// Extractor runs the extraction prompt over each chunk of scraped pages and
// collects a per-chunk result or inline error marker. Chunks are processed
// independently and sequentially; one chunk's failure never prevents the
// next from being attempted.
type Extractor struct {
	llm repository.LanguageModel
}

// NewExtractor creates a new extractor over the given language model.
func NewExtractor(llm repository.LanguageModel) *Extractor {
	return &Extractor{llm: llm}
}

// ExtractAll processes every chunk in order. The only fatal condition is a
// missing API credential; everything else degrades to an error marker in
// that chunk's result slot.
func (e *Extractor) ExtractAll(ctx context.Context, extractionPrompt string, chunks [][]*entity.ScrapedPage) ([]entity.ChunkResult, error) {
	results := make([]entity.ChunkResult, 0, len(chunks))
	for i, chunk := range chunks {
		result, err := e.extractChunk(ctx, extractionPrompt, i, chunk)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (e *Extractor) extractChunk(ctx context.Context, extractionPrompt string, index int, chunk []*entity.ScrapedPage) (entity.ChunkResult, error) {
	prompt := fmt.Sprintf(extractionTemplate, extractionPrompt, serializeChunk(chunk))

	metrics.LLMCallsTotal.WithLabelValues("extract").Inc()
	raw, err := e.llm.Complete(ctx, prompt)
	if err != nil {
		if errors.Is(err, repository.ErrMissingCredential) {
			return entity.ChunkResult{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		slog.Error("Extraction call failed for chunk", "chunk", index, "error", err)
		return chunkFailure(index), nil
	}

	if data, ok := parseJSONValue(raw); ok {
		return entity.ChunkResult{Index: index, Data: data}, nil
	}

	// One bounded repair pass: ask the model to fix its own output, then
	// parse once more.
	slog.Warn("Chunk output was not valid JSON, attempting repair", "chunk", index)
	metrics.LLMCallsTotal.WithLabelValues("repair").Inc()
	fixed, err := e.llm.Complete(ctx, fmt.Sprintf(repairTemplate, raw))
	if err == nil {
		if data, ok := parseJSONValue(fixed); ok {
			return entity.ChunkResult{Index: index, Data: data}, nil
		}
	}

	slog.Error("Chunk extraction failed after repair attempt", "chunk", index)
	return chunkFailure(index), nil
}

func chunkFailure(index int) entity.ChunkResult {
	return entity.ChunkResult{Index: index, Error: fmt.Sprintf("Failed to process chunk %d", index)}
}

// parseJSONValue extracts and validates a JSON value from raw model output.
func parseJSONValue(raw string) (json.RawMessage, bool) {
	payload := extractJSONPayload(raw)
	if !json.Valid([]byte(payload)) {
		return nil, false
	}
	return json.RawMessage(payload), true
}

// serializeChunk renders the chunk's pages as fixed-field text blocks joined
// by a visible separator, the form the extraction prompt expects.
func serializeChunk(chunk []*entity.ScrapedPage) string {
	blocks := make([]string, 0, len(chunk))
	for _, page := range chunk {
		blocks = append(blocks, serializePage(page))
	}
	return strings.Join(blocks, pageSeparator)
}

func serializePage(page *entity.ScrapedPage) string {
	var b strings.Builder
	b.WriteString("URL: ")
	b.WriteString(page.URL)
	b.WriteString("\nTITLE: ")
	b.WriteString(page.Title)
	b.WriteString("\nMETA: ")
	b.WriteString(page.MetaDescription)
	if page.Failed() {
		b.WriteString("\nERROR: ")
		b.WriteString(page.Error)
	}
	b.WriteString("\nTEXT: ")
	b.WriteString(page.BodyText)
	return b.String()
}
