// Package uploadform holds the state of the two-file upload form: the job and
// resume slots, the prompt, and the outcome of the latest submission.
package uploadform

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"resumeagent/resume-agent/internal/client"
	"resumeagent/resume-agent/internal/models"
)

const (
	PlaceholderIdle    = "LLM output will appear here"
	PlaceholderPending = "Waiting for response..."
	ButtonIdle         = "Send Prompt"
	ButtonPending      = "Sending..."
	NoFileChosen       = "No file chosen"

	FallbackNetworkError = "Network error"
	FallbackUploadFailed = "Upload failed"
)

var (
	ErrNotPDF       = errors.New("Please select a PDF file")
	ErrMissingFiles = errors.New("Please select both files")
)

type Slot int

const (
	SlotJob Slot = iota
	SlotResume
)

func (s Slot) String() string {
	switch s {
	case SlotJob:
		return "job"
	case SlotResume:
		return "resume"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

func (s Slot) valid() bool {
	return s == SlotJob || s == SlotResume
}

// ValidationError rejects a candidate that is not a PDF.
type ValidationError struct {
	Slot Slot
	Name string
}

func (e *ValidationError) Error() string {
	return ErrNotPDF.Error()
}

func (e *ValidationError) Unwrap() error {
	return ErrNotPDF
}

// File is a picked file with its declared media type.
type File struct {
	Name      string
	MediaType string
	Content   []byte
}

// OpenFile reads path and declares a media type from its extension.
func OpenFile(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	mediaType := mime.TypeByExtension(filepath.Ext(path))
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	return &File{
		Name:      filepath.Base(path),
		MediaType: mediaType,
		Content:   content,
	}, nil
}

// SelectedFile is the content of one slot. The zero value is an empty slot.
type SelectedFile struct {
	file *File
}

func (s SelectedFile) Present() bool {
	return s.file != nil
}

func (s SelectedFile) Name() string {
	if s.file == nil {
		return ""
	}
	return s.file.Name
}

func (s SelectedFile) part() client.FilePart {
	return client.FilePart{
		Name:      s.file.Name,
		MediaType: s.file.MediaType,
		Content:   s.file.Content,
	}
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is the submission state together with the output area. Message is
// set only when Phase is PhaseFailed.
type State struct {
	Phase   Phase
	Output  string
	Message string
}

// Submission is the snapshot handed to the uploader.
type Submission struct {
	Seq     uint64
	Request client.UploadRequest
}

type Form struct {
	mu       sync.Mutex
	uploader client.Uploader
	slots    [2]SelectedFile
	prompt   string
	state    State
	seq      uint64
}

func New(uploader client.Uploader) *Form {
	return &Form{uploader: uploader}
}

// SelectFile replaces the slot with candidate. A nil candidate empties the
// slot. A non-PDF candidate is discarded, the slot is emptied and a
// *ValidationError is returned.
func (f *Form) SelectFile(slot Slot, candidate *File) (SelectedFile, error) {
	if !slot.valid() {
		return SelectedFile{}, fmt.Errorf("unknown slot %d", int(slot))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if candidate != nil && !models.IsPDF(candidate.Name, candidate.MediaType) {
		f.slots[slot] = SelectedFile{}
		log.Debug().Str("slot", slot.String()).Str("name", candidate.Name).Msg("⚠️ Rejected non-PDF file")
		return SelectedFile{}, &ValidationError{Slot: slot, Name: candidate.Name}
	}

	f.slots[slot] = SelectedFile{file: candidate}
	return f.slots[slot], nil
}

func (f *Form) File(slot Slot) SelectedFile {
	if !slot.valid() {
		return SelectedFile{}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slots[slot]
}

func (f *Form) SetPrompt(prompt string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompt = prompt
}

func (f *Form) Prompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prompt
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Begin starts a submission. With either slot empty it returns
// ErrMissingFiles and leaves the state untouched. Otherwise the form goes
// Pending with output and error cleared, and the returned Submission carries
// the next sequence number and a snapshot of the inputs.
func (f *Form) Begin() (Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	job, resume := f.slots[SlotJob], f.slots[SlotResume]
	if !job.Present() || !resume.Present() {
		return Submission{}, ErrMissingFiles
	}

	f.seq++
	f.state = State{Phase: PhasePending}

	return Submission{
		Seq: f.seq,
		Request: client.UploadRequest{
			JobFile:    job.part(),
			ResumeFile: resume.part(),
			Prompt:     f.prompt,
		},
	}, nil
}

// Settle applies the outcome of submission seq. Outcomes of any submission
// other than the latest one are dropped and false is returned.
func (f *Form) Settle(seq uint64, result *client.UploadResult, err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if seq != f.seq || f.state.Phase != PhasePending {
		log.Debug().Uint64("seq", seq).Uint64("latest", f.seq).Msg("Dropping stale upload response")
		return false
	}

	next := Resolve(result, err)
	// Failure leaves the output area as it was.
	if next.Phase == PhaseFailed {
		next.Output = f.state.Output
		log.Error().Err(err).Str("message", next.Message).Uint64("seq", seq).Msg("❌ Upload failed")
	} else {
		log.Debug().Uint64("seq", seq).Msg("✅ Upload succeeded")
	}

	f.state = next
	return true
}

// Submit runs one submission to completion on the calling goroutine.
func (f *Form) Submit(ctx context.Context) (State, error) {
	sub, err := f.Begin()
	if err != nil {
		return f.State(), err
	}

	result, err := f.uploader.Upload(ctx, sub.Request)
	f.Settle(sub.Seq, result, err)

	return f.State(), nil
}

// Resolve maps the outcome of one upload to a settled state.
func Resolve(result *client.UploadResult, err error) State {
	if err != nil || result == nil {
		msg := FallbackNetworkError
		if err != nil && err.Error() != "" {
			msg = err.Error()
		}
		return State{Phase: PhaseFailed, Message: msg}
	}

	if !result.OK() {
		msg := result.FailureMessage()
		if msg == "" {
			msg = FallbackUploadFailed
		}
		return State{Phase: PhaseFailed, Message: msg}
	}

	return State{Phase: PhaseSucceeded, Output: result.Output()}
}

type SlotView struct {
	Label  string
	Chosen bool
}

// View is what the form renders.
type View struct {
	Job         SlotView
	Resume      SlotView
	Prompt      string
	Busy        bool
	ButtonLabel string
	Output      string
	Placeholder string
	Error       string
}

func (f *Form) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return project(f.state, f.slots, f.prompt)
}

func project(state State, slots [2]SelectedFile, prompt string) View {
	v := View{
		Job:         slotView(slots[SlotJob]),
		Resume:      slotView(slots[SlotResume]),
		Prompt:      prompt,
		Output:      state.Output,
		ButtonLabel: ButtonIdle,
		Placeholder: PlaceholderIdle,
	}

	switch state.Phase {
	case PhasePending:
		v.Busy = true
		v.ButtonLabel = ButtonPending
		v.Placeholder = PlaceholderPending
	case PhaseFailed:
		v.Error = state.Message
	}

	return v
}

func slotView(s SelectedFile) SlotView {
	if !s.Present() {
		return SlotView{Label: NoFileChosen}
	}
	return SlotView{Label: s.Name(), Chosen: true}
}
