package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"resumeagent/resume-agent/internal/client"
	"resumeagent/resume-agent/internal/uploadform"
)

type focusField int

const (
	focusJob focusField = iota
	focusResume
	focusPrompt
	focusSend
	focusCount
)

// Rows taken by everything except the output viewport.
const chromeHeight = 20

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(1, 0, 0, 2)

	endpointStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 0, 1, 2)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Width(8).
			Padding(0, 0, 0, 2)

	activeLabelStyle = labelStyle.
				Foreground(lipgloss.Color("39"))

	chosenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	noFileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			MarginLeft(2).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	activeButtonStyle = buttonStyle.
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	busyButtonStyle = buttonStyle.
			Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 0, 0, 2)

	outputBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				MarginLeft(2)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true)

	alertStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 3).
			Margin(1, 2)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

// settledMsg carries the outcome of one upload back into Update.
type settledMsg struct {
	seq    uint64
	result *client.UploadResult
	err    error
}

type Model struct {
	ctx      context.Context
	form     *uploadform.Form
	uploader client.Uploader
	endpoint string

	jobInput    textinput.Model
	resumeInput textinput.Model
	prompt      textarea.Model
	output      viewport.Model

	// picked holds the path last opened into each slot.
	picked [2]string

	focus  focusField
	alert  string
	width  int
	height int
}

func NewModel(ctx context.Context, uploader client.Uploader, endpoint string) Model {
	job := textinput.New()
	job.Placeholder = "path/to/job.pdf"
	job.Prompt = ""
	job.Focus()

	resume := textinput.New()
	resume.Placeholder = "path/to/resume.pdf"
	resume.Prompt = ""

	prompt := textarea.New()
	prompt.Placeholder = "Prompt"
	prompt.ShowLineNumbers = false
	prompt.SetHeight(5)
	prompt.SetWidth(60)

	m := Model{
		ctx:         ctx,
		form:        uploadform.New(uploader),
		uploader:    uploader,
		endpoint:    endpoint,
		jobInput:    job,
		resumeInput: resume,
		prompt:      prompt,
		output:      viewport.New(80, 10),
	}
	m.refreshOutput()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case settledMsg:
		m.form.Settle(msg.seq, msg.result, msg.err)
		m.refreshOutput()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.alert != "" {
			m.alert = ""
			return m, nil
		}
		return m.updateKey(msg)
	}

	return m.forward(msg)
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.commitFocused()
		return m.moveFocus(1)
	case "shift+tab":
		m.commitFocused()
		return m.moveFocus(-1)
	case "ctrl+s":
		m.commitFocused()
		return m.submit()
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return m, cmd
	case "enter":
		switch m.focus {
		case focusJob, focusResume:
			if m.commitFocused() {
				return m.moveFocus(1)
			}
			return m, nil
		case focusSend:
			return m.submit()
		}
	}

	return m.forward(msg)
}

// forward hands msg to whichever widget has focus.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusJob:
		m.jobInput, cmd = m.jobInput.Update(msg)
	case focusResume:
		m.resumeInput, cmd = m.resumeInput.Update(msg)
	case focusPrompt:
		m.prompt, cmd = m.prompt.Update(msg)
		m.form.SetPrompt(m.prompt.Value())
	case focusSend:
		m.output, cmd = m.output.Update(msg)
	}
	return m, cmd
}

func (m Model) moveFocus(delta int) (tea.Model, tea.Cmd) {
	m.jobInput.Blur()
	m.resumeInput.Blur()
	m.prompt.Blur()

	m.focus = (m.focus + focusField(delta) + focusCount) % focusCount

	var cmd tea.Cmd
	switch m.focus {
	case focusJob:
		cmd = m.jobInput.Focus()
	case focusResume:
		cmd = m.resumeInput.Focus()
	case focusPrompt:
		cmd = m.prompt.Focus()
	}
	return m, cmd
}

// commitFocused selects the file typed into the focused path field. It
// reports false when the selection raised an alert.
func (m *Model) commitFocused() bool {
	switch m.focus {
	case focusJob:
		return m.pick(uploadform.SlotJob, &m.jobInput)
	case focusResume:
		return m.pick(uploadform.SlotResume, &m.resumeInput)
	}
	return true
}

func (m *Model) pick(slot uploadform.Slot, input *textinput.Model) bool {
	path := strings.TrimSpace(input.Value())
	if path == "" {
		_, _ = m.form.SelectFile(slot, nil)
		m.picked[slot] = ""
		return true
	}
	if path == m.picked[slot] && m.form.File(slot).Present() {
		return true
	}

	file, err := uploadform.OpenFile(path)
	if err != nil {
		log.Warn().Err(err).Str("slot", slot.String()).Str("path", path).Msg("⚠️ Could not open file")
		m.alert = fmt.Sprintf("Could not open %s: %v", path, errors.Unwrap(err))
		return false
	}

	if _, err := m.form.SelectFile(slot, file); err != nil {
		input.SetValue("")
		m.picked[slot] = ""
		m.alert = err.Error()
		return false
	}

	m.picked[slot] = path
	log.Info().Str("slot", slot.String()).Str("file", file.Name).Msg("📄 File selected")
	return true
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.alert != "" || m.form.View().Busy {
		return m, nil
	}

	m.form.SetPrompt(m.prompt.Value())
	sub, err := m.form.Begin()
	if err != nil {
		m.alert = err.Error()
		return m, nil
	}
	m.refreshOutput()

	log.Info().Uint64("seq", sub.Seq).Msg("📤 Submitting upload")
	return m, uploadCmd(m.ctx, m.uploader, sub)
}

func uploadCmd(ctx context.Context, uploader client.Uploader, sub uploadform.Submission) tea.Cmd {
	return func() tea.Msg {
		result, err := uploader.Upload(ctx, sub.Request)
		return settledMsg{seq: sub.Seq, result: result, err: err}
	}
}

func (m *Model) resize() {
	width := max(m.width-6, 20)
	m.jobInput.Width = width - 10
	m.resumeInput.Width = width - 10
	m.prompt.SetWidth(width)
	m.output.Width = width
	m.output.Height = max(m.height-chromeHeight, 3)
	m.refreshOutput()
}

func (m *Model) refreshOutput() {
	v := m.form.View()
	content := v.Output
	if content == "" {
		content = placeholderStyle.Render(v.Placeholder)
	} else {
		content = lipgloss.NewStyle().Width(m.output.Width).Render(content)
	}
	m.output.SetContent(content)
	m.output.GotoTop()
}

func (m Model) View() string {
	v := m.form.View()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Resume Agent"))
	b.WriteByte('\n')
	b.WriteString(endpointStyle.Render("POST " + m.endpoint))
	b.WriteByte('\n')

	b.WriteString(m.renderSlot("Job", m.focus == focusJob, m.jobInput, v.Job))
	b.WriteString(m.renderSlot("Resume", m.focus == focusResume, m.resumeInput, v.Resume))
	b.WriteByte('\n')

	b.WriteString(m.label("Prompt", m.focus == focusPrompt))
	b.WriteByte('\n')
	b.WriteString(lipgloss.NewStyle().MarginLeft(2).Render(m.prompt.View()))
	b.WriteString("\n\n")

	button := buttonStyle
	switch {
	case v.Busy:
		button = busyButtonStyle
	case m.focus == focusSend:
		button = activeButtonStyle
	}
	b.WriteString(button.Render(v.ButtonLabel))
	b.WriteString("\n\n")

	if v.Error != "" {
		b.WriteString(errorStyle.Render("Error: " + v.Error))
		b.WriteByte('\n')
	}

	b.WriteString(m.label("LLM Response", false))
	b.WriteByte('\n')
	b.WriteString(outputBorderStyle.Render(m.output.View()))
	b.WriteByte('\n')

	if m.alert != "" {
		b.WriteString(alertStyle.Render(m.alert + "\n\n" + placeholderStyle.Render("press any key")))
		b.WriteByte('\n')
	}

	b.WriteString(hintStyle.Render("tab/shift+tab move  enter choose/send  ctrl+s send  pgup/pgdn scroll  ctrl+c quit"))
	return b.String()
}

func (m Model) label(text string, active bool) string {
	if active {
		return activeLabelStyle.UnsetWidth().Render(text)
	}
	return labelStyle.UnsetWidth().Render(text)
}

func (m Model) renderSlot(name string, active bool, input textinput.Model, slot uploadform.SlotView) string {
	lbl := labelStyle
	if active {
		lbl = activeLabelStyle
	}

	status := noFileStyle.Render(slot.Label)
	if slot.Chosen {
		status = chosenStyle.Render("✓ " + slot.Label)
	}

	return lbl.Render(name) + " " + input.View() + "  " + status + "\n"
}

// Run shows the upload form until the user quits or ctx is cancelled.
func Run(ctx context.Context, uploader client.Uploader, endpoint string) error {
	p := tea.NewProgram(NewModel(ctx, uploader, endpoint), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run form: %w", err)
	}
	return nil
}
