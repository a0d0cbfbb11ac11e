package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRequest() UploadRequest {
	return UploadRequest{
		JobFile:    FilePart{Name: "job.pdf", MediaType: "application/pdf", Content: []byte("%PDF job")},
		ResumeFile: FilePart{Name: "Resume.PDF", Content: []byte("%PDF resume")},
		Prompt:     "Is this a fit?",
	}
}

func TestHTTPUploader_SendsMultipartForm(t *testing.T) {
	type received struct {
		method, path           string
		jobName, jobType       string
		jobBody, resumeBody    string
		resumeName, resumeType string
		prompt                 string
	}
	var got received

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method, got.path = r.Method, r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))

		jf, jh, err := r.FormFile(FieldJobFile)
		require.NoError(t, err)
		b, _ := io.ReadAll(jf)
		got.jobName, got.jobType, got.jobBody = jh.Filename, jh.Header.Get("Content-Type"), string(b)

		rf, rh, err := r.FormFile(FieldResumeFile)
		require.NoError(t, err)
		b, _ = io.ReadAll(rf)
		got.resumeName, got.resumeType, got.resumeBody = rh.Filename, rh.Header.Get("Content-Type"), string(b)

		got.prompt = r.FormValue(FieldPrompt)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Upload successful","llm_output":"Great fit"}`))
	}))
	defer srv.Close()

	u := NewHTTPUploader(srv.URL+"/upload", 0)
	res, err := u.Upload(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/upload", got.path)
	assert.Equal(t, "job.pdf", got.jobName)
	assert.Equal(t, "application/pdf", got.jobType)
	assert.Equal(t, "%PDF job", got.jobBody)
	assert.Equal(t, "Resume.PDF", got.resumeName)
	assert.Equal(t, "application/octet-stream", got.resumeType)
	assert.Equal(t, "%PDF resume", got.resumeBody)
	assert.Equal(t, "Is this a fit?", got.prompt)

	assert.True(t, res.OK())
	assert.Equal(t, "Great fit", res.Output())
}

func TestHTTPUploader_EmptyPromptIsSent(t *testing.T) {
	var present bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, present = r.MultipartForm.Value[FieldPrompt]
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	req := sampleRequest()
	req.Prompt = ""
	_, err := NewHTTPUploader(srv.URL, 0).Upload(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, present)
}

func TestHTTPUploader_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "missing field"}`))
	}))
	defer srv.Close()

	res, err := NewHTTPUploader(srv.URL, 0).Upload(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.False(t, res.OK())
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "missing field", res.FailureMessage())
}

func TestHTTPUploader_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res, err := NewHTTPUploader(url, 0).Upload(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Nil(t, res)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.NotEmpty(t, err.Error())
	assert.Equal(t, te.Err.Error(), err.Error())
}

func TestHTTPUploader_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewHTTPUploader(srv.URL, 50*time.Millisecond).Upload(context.Background(), sampleRequest())

	var te *TransportError
	assert.True(t, errors.As(err, &te))
}

func TestHTTPUploader_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPUploader(srv.URL, 0).Upload(ctx, sampleRequest())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantOK      bool
		wantOutput  string
		wantFailure string
	}{
		{"llm output", 200, `{"llm_output": "Great fit"}`, true, "Great fit", ""},
		{"llm output wins over message", 200, `{"message": "Upload successful", "llm_output": "Great fit"}`, true, "Great fit", "Upload successful"},
		{"message fallback", 200, `{"message": "queued"}`, true, "queued", "queued"},
		{"empty llm output falls back", 201, `{"llm_output": "", "message": "queued"}`, true, "queued", "queued"},
		{"raw body fallback", 200, `{"status": "ok"}`, true, `{"status": "ok"}`, ""},
		{"non-string field ignored", 200, `{"llm_output": 42}`, true, `{"llm_output": 42}`, ""},
		{"not json", 200, "plain text\n", true, "plain text", ""},
		{"json array", 200, `["a"]`, true, `["a"]`, ""},
		{"error field", 400, `{"error": "missing field"}`, false, "", "missing field"},
		{"error wins over message", 500, `{"error": "boom", "message": "try later"}`, false, "", "boom"},
		{"message on failure", 500, `{"message": "Something went wrong, please try again"}`, false, "", "Something went wrong, please try again"},
		{"failure without fields", 502, `<html>bad gateway</html>`, false, "", ""},
		{"redirect is not ok", 302, `{}`, false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Decode(tt.status, []byte(tt.body))

			assert.Equal(t, tt.wantOK, res.OK())
			if tt.wantOK {
				assert.Equal(t, tt.wantOutput, res.Output())
			}
			assert.Equal(t, tt.wantFailure, res.FailureMessage())
		})
	}
}

func TestTransportError_Empty(t *testing.T) {
	assert.Equal(t, "", (&TransportError{}).Error())
	assert.Nil(t, (&TransportError{}).Unwrap())
}
