package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/dateline/internal/pipeline"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateSchedulePicker state = iota
	stateOrderPicker
	stateProcessing
	stateComplete
	stateError
)

var (
	scheduleTypes = []string{".csv", ".xlsx"}
	orderTypes    = []string{".xlsx"}
)

// RunFunc executes the pipeline for the picked files, reporting progress on
// the given channel.
type RunFunc func(schedulePath, orderPath string, progress chan<- float64) (*pipeline.Result, error)

type Model struct {
	state        state
	filepicker   filepicker.Model
	pickerHeight int
	schedulePath string
	orderPath    string
	cancelled    bool
	run          RunFunc
	result       *pipeline.Result
	err          error
	width        int
	height       int
	progress     progress.Model
	progressChan chan float64
	resultChan   chan runResultMsg
}

type runResultMsg struct {
	result *pipeline.Result
	err    error
}

type runCompleteMsg struct {
	result *pipeline.Result
	err    error
}

type progressMsg float64

type waitForProgressMsg struct{}

func newPicker(allowed []string, dir string, height int) filepicker.Model {
	fp := filepicker.New()
	fp.AllowedTypes = allowed
	fp.CurrentDirectory = dir
	if height > 0 {
		fp.SetHeight(height)
	}

	// Set filepicker colors to match theme
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(colorAccent)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(colorAmber)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(colorAmber)
	fp.Styles.File = lipgloss.NewStyle().Foreground(colorText)
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(colorMuted)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(colorMuted)

	return fp
}

func InitialModel(run RunFunc) Model {
	dir, _ := os.Getwd()

	return Model{
		state:      stateSchedulePicker,
		filepicker: newPicker(scheduleTypes, dir, 0),
		run:        run,
		progress:   progress.New(progress.WithGradient(gradientStart, gradientEnd)),
	}
}

// Cancelled reports whether the user quit before both files were picked.
func (m Model) Cancelled() bool { return m.cancelled }

func (m Model) Result() *pipeline.Result { return m.result }

func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Subtract space for title, subtitle, help text, and padding
		height := msg.Height - 14
		if height < 5 {
			height = 5
		}

		m.pickerHeight = height
		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateSchedulePicker, stateOrderPicker:
			switch msg.String() {
			case "ctrl+c", "q":
				m.cancelled = true
				return m, tea.Quit
			}

		case stateComplete, stateError:
			return m, tea.Quit
		}

	case runCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		m.state = stateComplete
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	if m.state == stateSchedulePicker || m.state == stateOrderPicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			return m.selectFile(path)
		}

		return m, cmd
	}

	return m, nil
}

func (m Model) selectFile(path string) (Model, tea.Cmd) {
	if m.state == stateSchedulePicker {
		m.schedulePath = path
		m.state = stateOrderPicker
		m.filepicker = newPicker(orderTypes, filepath.Dir(path), m.pickerHeight)
		return m, m.filepicker.Init()
	}

	m.orderPath = path
	m.state = stateProcessing
	return m.startRun()
}

func (m Model) startRun() (Model, tea.Cmd) {
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan runResultMsg, 1)

	progressChan := m.progressChan
	resultChan := m.resultChan
	schedulePath := m.schedulePath
	orderPath := m.orderPath
	run := m.run

	cmd := tea.Batch(
		func() tea.Msg {
			go func() {
				result, err := run(schedulePath, orderPath, progressChan)

				resultChan <- runResultMsg{result: result, err: err}

				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		m.progress.Init(),
	)

	return m, cmd
}

func waitForProgress(progressChan chan float64, resultChan chan runResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			// Progress channel closed, check result
			res, ok := <-resultChan
			if ok {
				return runCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateSchedulePicker:
		return m.viewFilePicker("Step 1 of 2: select the PINGRM schedule export (.csv or .xlsx)")
	case stateOrderPicker:
		return m.viewFilePicker("Step 2 of 2: select the CODATE order export (.xlsx)")
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker(prompt string) string {
	var s strings.Builder

	title := TitleStyle.Render("📅 Dateline - Schedule Reconciliation")

	authorSpan := SubtitleStyle.Render("by Nick Conklin • ")
	githubSpan := LinkStyle.Render("https://github.com/nconklindev/dateline")
	byLine := lipgloss.JoinHorizontal(lipgloss.Top, authorSpan, githubSpan)

	s.WriteString(lipgloss.JoinVertical(lipgloss.Left, title, byLine))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(prompt))
	s.WriteString("\n")
	if m.schedulePath != "" {
		s.WriteString(CheckedStyle.Render(fmt.Sprintf("✓ Schedule: %s", filepath.Base(m.schedulePath))))
		s.WriteString("\n")
	}
	s.WriteString("\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press q to quit"))

	return s.String()
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📅 Processing..."))
	s.WriteString("\n\n")
	s.WriteString("Reconciling schedule against orders...")
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Reconciliation Complete!"))
	s.WriteString("\n\n")

	// Truncate paths if they're too long
	maxPathLen := m.width - 20 // Leave room for padding and borders
	if maxPathLen < 30 {
		maxPathLen = 30
	}

	s.WriteString(fmt.Sprintf("Schedule: %s\n", truncatePath(m.schedulePath, maxPathLen)))
	s.WriteString(fmt.Sprintf("Orders:   %s\n", truncatePath(m.orderPath, maxPathLen)))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output:   %s\n", truncatePath(m.result.Artifact, maxPathLen))))
	s.WriteString("\n")

	sum := m.result.Report.Summary
	s.WriteString(fmt.Sprintf("Schedule rows: %d\n", sum.ScheduleRows))
	s.WriteString(fmt.Sprintf("Order rows:    %d\n", sum.OrderRows))
	s.WriteString(fmt.Sprintf("Unchanged:     %d\n", sum.Unchanged))
	changed := fmt.Sprintf("Date changed:  %d", sum.Changed)
	if sum.Changed > 0 {
		changed = ErrorStyle.Render(changed)
	}
	s.WriteString(changed + "\n")
	s.WriteString(fmt.Sprintf("No match:      %d\n", sum.ReferenceNotFound))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func truncatePath(path string, max int) string {
	if len(path) > max {
		return "..." + path[len(path)-max+3:]
	}
	return path
}
