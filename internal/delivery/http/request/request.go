package request

// RunPipelineRequest is the body of POST /api/pipeline.
type RunPipelineRequest struct {
	Prompt string `json:"prompt"`
}
