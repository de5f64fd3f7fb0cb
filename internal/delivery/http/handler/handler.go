package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/user/scrapeflow/internal/delivery/http/request"
	"github.com/user/scrapeflow/internal/delivery/http/response"
	"github.com/user/scrapeflow/internal/entity"
	"github.com/user/scrapeflow/internal/export"
	"github.com/user/scrapeflow/internal/usecase"
)

type Handler struct {
	pipeline usecase.Pipeline
}

func NewHandler(pipeline usecase.Pipeline) *Handler {
	return &Handler{
		pipeline: pipeline,
	}
}

func (h *Handler) HandleRunPipeline(w http.ResponseWriter, r *http.Request) {
	var req request.RunPipelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Prompt == "" {
		h.writeJSONError(w, "Prompt is required", http.StatusBadRequest)
		return
	}

	result, err := h.pipeline.Run(r.Context(), req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrQuotaExceeded):
			h.writeJSONError(w, err.Error(), http.StatusTooManyRequests)
		case errors.Is(err, usecase.ErrNoURLsFound):
			h.writeJSONError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, usecase.ErrPlanningFailed):
			h.writeJSONError(w, err.Error(), http.StatusBadGateway)
		case errors.Is(err, usecase.ErrConfiguration):
			h.writeJSONError(w, err.Error(), http.StatusInternalServerError)
		default:
			slog.Error("Pipeline run failed", "error", err)
			h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, toPipelineResponse(result))
}

func (h *Handler) HandleQuotaStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.pipeline.QuotaStatus(r.Context())
	if err != nil {
		slog.Error("Failed to read quota status", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, response.QuotaStatusResponse{
		Used:      status.Used,
		Remaining: status.Remaining,
		Limit:     status.Limit,
	})
}

func (h *Handler) HandleRecentRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			h.writeJSONError(w, "limit must be an integer between 1 and 100", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	runs, err := h.pipeline.RecentRuns(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to list recent runs", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	summaries := make([]response.RunSummaryResponse, 0, len(runs))
	for _, run := range runs {
		summaries = append(summaries, response.RunSummaryResponse{
			ID:          run.ID,
			Prompt:      run.Prompt,
			SearchQuery: run.SearchQuery,
			URLCount:    run.URLCount,
			ChunkCount:  run.ChunkCount,
			CreatedAt:   run.CreatedAt,
		})
	}
	h.writeJSON(w, http.StatusOK, summaries)
}

// HandleExport turns a flat record list into an xlsx download. The body is
// the flattened `results` produced by a pipeline run.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	var records []map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		h.writeJSONError(w, "Invalid request body, expected a JSON array of objects", http.StatusBadRequest)
		return
	}
	if len(records) == 0 {
		h.writeJSONError(w, "Invalid or empty data provided", http.StatusBadRequest)
		return
	}

	data, err := export.EncodeXLSX(records)
	if err != nil {
		slog.Error("Failed to encode spreadsheet", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="scraped_data.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("Failed to write spreadsheet response", "error", err)
	}
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toPipelineResponse(result *entity.PipelineResult) response.PipelineResponse {
	results := make([]response.ChunkResultResponse, 0, len(result.Results))
	for _, chunk := range result.Results {
		results = append(results, response.ChunkResultResponse{
			Index: chunk.Index,
			Data:  chunk.Data,
			Error: chunk.Error,
		})
	}
	return response.PipelineResponse{
		Plan: response.PlanResponse{
			SearchQuery:      result.Plan.SearchQuery,
			ExtractionPrompt: result.Plan.ExtractionPrompt,
		},
		Results: results,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
