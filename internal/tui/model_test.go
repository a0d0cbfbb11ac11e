package tui

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeagent/resume-agent/internal/client"
	"resumeagent/resume-agent/internal/uploadform"
)

type recordingUploader struct {
	mu     sync.Mutex
	calls  []client.UploadRequest
	result *client.UploadResult
	err    error
}

func (u *recordingUploader) Upload(ctx context.Context, req client.UploadRequest) (*client.UploadResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, req)
	return u.result, u.err
}

func writeFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 "+name), 0o644))
	return path
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// fillFiles picks a job and a resume and leaves focus on the prompt.
func fillFiles(t *testing.T, m Model) Model {
	t.Helper()
	m.jobInput.SetValue(writeFile(t, "job.pdf"))
	m, _ = update(t, m, key(tea.KeyEnter))
	m.resumeInput.SetValue(writeFile(t, "resume.pdf"))
	m, _ = update(t, m, key(tea.KeyEnter))
	require.Empty(t, m.alert)
	require.Equal(t, focusPrompt, m.focus)
	return m
}

func TestModel_PickFiles(t *testing.T) {
	m := NewModel(context.Background(), &recordingUploader{}, "http://localhost:8000/upload")

	m = fillFiles(t, m)

	assert.Equal(t, "job.pdf", m.form.File(uploadform.SlotJob).Name())
	assert.Equal(t, "resume.pdf", m.form.File(uploadform.SlotResume).Name())
	assert.Equal(t, m.picked[uploadform.SlotJob], m.jobInput.Value())
	assert.Contains(t, m.View(), "✓ resume.pdf")
}

func TestModel_SameNameDifferentPathIsReopened(t *testing.T) {
	m := NewModel(context.Background(), &recordingUploader{}, "")
	m = fillFiles(t, m)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "job.pdf"), []byte("%PDF-1.4 local job"), 0o644))
	t.Chdir(dir)

	m, _ = update(t, m, key(tea.KeyShiftTab))
	m, _ = update(t, m, key(tea.KeyShiftTab))
	require.Equal(t, focusJob, m.focus)
	m.jobInput.SetValue("job.pdf")
	m, _ = update(t, m, key(tea.KeyEnter))
	require.Empty(t, m.alert)

	sub, err := m.form.Begin()
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 local job"), sub.Request.JobFile.Content)
	assert.Equal(t, "job.pdf", m.picked[uploadform.SlotJob])
}

func TestModel_UnchangedPathIsNotReopened(t *testing.T) {
	m := NewModel(context.Background(), &recordingUploader{}, "")
	path := writeFile(t, "job.pdf")
	m.jobInput.SetValue(path)
	m, _ = update(t, m, key(tea.KeyEnter))
	require.True(t, m.form.File(uploadform.SlotJob).Present())

	m, _ = update(t, m, key(tea.KeyShiftTab))
	require.Equal(t, focusJob, m.focus)
	require.NoError(t, os.Remove(path))
	m, _ = update(t, m, key(tea.KeyEnter))

	assert.Empty(t, m.alert)
	assert.Equal(t, focusResume, m.focus)
	assert.True(t, m.form.File(uploadform.SlotJob).Present())
}

func TestModel_RejectsNonPDF(t *testing.T) {
	m := NewModel(context.Background(), &recordingUploader{}, "")
	m.jobInput.SetValue(writeFile(t, "job.pdf"))
	m, _ = update(t, m, key(tea.KeyEnter))
	require.True(t, m.form.File(uploadform.SlotJob).Present())

	m, _ = update(t, m, key(tea.KeyShiftTab))
	require.Equal(t, focusJob, m.focus)
	m.jobInput.SetValue(writeFile(t, "notes.txt"))
	m, _ = update(t, m, key(tea.KeyEnter))

	assert.Equal(t, "Please select a PDF file", m.alert)
	assert.Equal(t, focusJob, m.focus)
	assert.Empty(t, m.jobInput.Value())
	assert.False(t, m.form.File(uploadform.SlotJob).Present())
	assert.Contains(t, m.View(), "Please select a PDF file")

	m, _ = update(t, m, runes("x"))
	assert.Empty(t, m.alert)
	assert.Empty(t, m.jobInput.Value())
}

func TestModel_UnreadablePath(t *testing.T) {
	m := NewModel(context.Background(), &recordingUploader{}, "")
	m.jobInput.SetValue(filepath.Join(t.TempDir(), "missing.pdf"))

	m, _ = update(t, m, key(tea.KeyEnter))

	assert.Contains(t, m.alert, "Could not open")
	assert.False(t, m.form.File(uploadform.SlotJob).Present())
}

func TestModel_SubmitWithoutFiles(t *testing.T) {
	u := &recordingUploader{}
	m := NewModel(context.Background(), u, "")

	m, cmd := update(t, m, key(tea.KeyCtrlS))

	assert.Nil(t, cmd)
	assert.Equal(t, "Please select both files", m.alert)
	assert.Empty(t, u.calls)
	assert.Equal(t, uploadform.PhaseIdle, m.form.State().Phase)
}

func TestModel_SubmitSuccess(t *testing.T) {
	u := &recordingUploader{result: client.Decode(200, []byte(`{"llm_output":"Great fit"}`))}
	m := NewModel(context.Background(), u, "")
	m = fillFiles(t, m)

	m, _ = update(t, m, runes("Is this a fit?"))
	m, _ = update(t, m, key(tea.KeyTab))
	require.Equal(t, focusSend, m.focus)

	m, cmd := update(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.True(t, m.form.View().Busy)
	assert.Contains(t, m.View(), uploadform.ButtonPending)
	assert.Contains(t, m.View(), uploadform.PlaceholderPending)

	// Busy button ignores further presses.
	m, again := update(t, m, key(tea.KeyEnter))
	assert.Nil(t, again)

	msg := cmd()
	settled, ok := msg.(settledMsg)
	require.True(t, ok)
	m, _ = update(t, m, settled)

	require.Len(t, u.calls, 1)
	assert.Equal(t, "Is this a fit?", u.calls[0].Prompt)
	assert.Equal(t, "job.pdf", u.calls[0].JobFile.Name)
	assert.Equal(t, "application/pdf", u.calls[0].JobFile.MediaType)

	view := m.View()
	assert.Contains(t, view, "Great fit")
	assert.Contains(t, view, uploadform.ButtonIdle)
	assert.NotContains(t, view, "Error:")
}

func TestModel_SubmitFailure(t *testing.T) {
	u := &recordingUploader{result: client.Decode(400, []byte(`{"error":"missing field"}`))}
	m := NewModel(context.Background(), u, "")
	m = fillFiles(t, m)

	m, cmd := update(t, m, key(tea.KeyCtrlS))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	view := m.View()
	assert.Contains(t, view, "Error: missing field")
	assert.Contains(t, view, uploadform.PlaceholderIdle)
}

func TestModel_StaleSettleIgnored(t *testing.T) {
	m := NewModel(context.Background(), &recordingUploader{}, "")
	m = fillFiles(t, m)

	m, cmd := update(t, m, key(tea.KeyCtrlS))
	require.NotNil(t, cmd)

	m, _ = update(t, m, settledMsg{seq: 99, result: client.Decode(200, []byte(`{"llm_output":"late"}`))})

	assert.True(t, m.form.View().Busy)
	assert.NotContains(t, m.View(), "late")
}

func TestModel_Quit(t *testing.T) {
	m := NewModel(context.Background(), &recordingUploader{}, "")

	_, cmd := update(t, m, key(tea.KeyCtrlC))

	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestModel_FocusCycles(t *testing.T) {
	m := NewModel(context.Background(), &recordingUploader{}, "")

	for _, want := range []focusField{focusResume, focusPrompt, focusSend, focusJob} {
		m, _ = update(t, m, key(tea.KeyTab))
		assert.Equal(t, want, m.focus)
	}

	m, _ = update(t, m, key(tea.KeyShiftTab))
	assert.Equal(t, focusSend, m.focus)
}

func TestModel_WindowResize(t *testing.T) {
	m := NewModel(context.Background(), &recordingUploader{}, "")

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 114, m.output.Width)
	assert.Equal(t, 20, m.output.Height)
}
