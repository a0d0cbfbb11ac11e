// Package client posts the upload form to the /upload endpoint and decodes
// whatever comes back into an UploadResult.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	FieldJobFile    = "job_file"
	FieldResumeFile = "resume_file"
	FieldPrompt     = "prompt"
)

// FilePart is one file of the multipart body.
type FilePart struct {
	Name      string
	MediaType string
	Content   []byte
}

// UploadRequest is a snapshot of the form at submit time.
type UploadRequest struct {
	JobFile    FilePart
	ResumeFile FilePart
	Prompt     string
}

// Uploader sends one UploadRequest and returns the decoded response. An error
// is returned only when no response was obtained.
type Uploader interface {
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)
}

// TransportError reports a request that failed before any response arrived.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type HTTPUploader struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPUploader posts to endpoint. A zero timeout leaves requests unbounded.
func NewHTTPUploader(endpoint string, timeout time.Duration) *HTTPUploader {
	return NewHTTPUploaderWithClient(endpoint, &http.Client{Timeout: timeout})
}

func NewHTTPUploaderWithClient(endpoint string, httpClient *http.Client) *HTTPUploader {
	return &HTTPUploader{endpoint: endpoint, httpClient: httpClient}
}

func (u *HTTPUploader) Endpoint() string {
	return u.endpoint
}

// Upload implements Uploader.
func (u *HTTPUploader) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	body, contentType, err := encodeForm(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")

	log.Debug().
		Str("endpoint", u.endpoint).
		Str("job_file", req.JobFile.Name).
		Str("resume_file", req.ResumeFile.Name).
		Msg("📤 Sending upload")

	resp, err := u.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return Decode(resp.StatusCode, raw), nil
}

func encodeForm(req UploadRequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := writeFile(w, FieldJobFile, req.JobFile); err != nil {
		return nil, "", err
	}
	if err := writeFile(w, FieldResumeFile, req.ResumeFile); err != nil {
		return nil, "", err
	}
	if err := w.WriteField(FieldPrompt, req.Prompt); err != nil {
		return nil, "", fmt.Errorf("failed to write prompt field: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, field string, f FilePart) error {
	mediaType := f.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, f.Name))
	h.Set("Content-Type", mediaType)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create %s part: %w", field, err)
	}
	if _, err := part.Write(f.Content); err != nil {
		return fmt.Errorf("failed to write %s part: %w", field, err)
	}
	return nil
}

// UploadResult is the response decoded once at the boundary. String fields
// are empty when the body lacked them, held a non-string, or was not a JSON
// object at all.
type UploadResult struct {
	StatusCode int
	LLMOutput  string
	Message    string
	Error      string
	Raw        []byte
}

// Decode never fails: a body that is not a JSON object simply yields no fields.
func Decode(statusCode int, raw []byte) *UploadResult {
	res := &UploadResult{StatusCode: statusCode, Raw: raw}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return res
	}

	res.LLMOutput = stringField(fields, "llm_output")
	res.Message = stringField(fields, "message")
	res.Error = stringField(fields, "error")
	return res
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func (r *UploadResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Output picks the success text: llm_output, then message, then the raw body.
func (r *UploadResult) Output() string {
	if r.LLMOutput != "" {
		return r.LLMOutput
	}
	if r.Message != "" {
		return r.Message
	}
	return string(bytes.TrimSpace(r.Raw))
}

// FailureMessage picks the server's explanation of a failure: error, then
// message. It is empty when the server gave neither.
func (r *UploadResult) FailureMessage() string {
	if r.Error != "" {
		return r.Error
	}
	return r.Message
}
