package models

// UploadResponse is the success body of POST /upload.
type UploadResponse struct {
	Message    string `json:"message"`
	LLMOutput  string `json:"llm_output"`
	AnalysisID string `json:"analysis_id,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type AnalysisResponse struct {
	ID           string  `json:"id"`
	Status       string  `json:"status"`
	Prompt       string  `json:"prompt"`
	Model        string  `json:"model"`
	Output       *string `json:"output,omitempty"`
	ErrorMessage *string `json:"error_message,omitempty"`
}
