// Package progress provides the interactive conversion view: a progress
// bar over the batch with cooperative cancellation.
package progress

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/eml2pdf/internal/convert"
	"github.com/nhle/eml2pdf/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	fileStyle  = lipgloss.NewStyle().Faint(true)
	hintStyle  = lipgloss.NewStyle().Faint(true).Italic(true)
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
)

// progressMsg reports the batch moving to the next file.
type progressMsg struct {
	current  int
	total    int
	filename string
}

// doneMsg carries the finished batch result.
type doneMsg struct {
	batch model.BatchResult
}

// event is the union carried on the channel between the worker goroutine
// and the Bubble Tea program.
type event struct {
	progress *progressMsg
	done     *doneMsg
}

// Model is the Bubble Tea model for a running conversion.
type Model struct {
	bar     progress.Model
	spin    spinner.Model
	events  <-chan event
	stop    *atomic.Bool
	current int
	total   int
	file    string
	done    bool
	batch   model.BatchResult
	width   int
}

func newModel(events <-chan event, stop *atomic.Bool) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		bar:    progress.New(progress.WithDefaultGradient()),
		spin:   sp,
		events: events,
		stop:   stop,
		width:  60,
	}
}

// Init starts the spinner and the event pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForEvent(m.events))
}

// Update handles batch events and cancellation keys.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(msg.Width-8, 60)
		return m, nil

	case progressMsg:
		m.current = msg.current
		m.total = msg.total
		m.file = msg.filename
		return m, waitForEvent(m.events)

	case doneMsg:
		m.done = true
		m.batch = msg.batch
		return m, tea.Quit

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.stop.Store(true)
			return m, nil
		}
	}
	return m, nil
}

// View renders the running or finished state.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Converting emails to PDF"))
	b.WriteString("\n\n")

	if m.done {
		b.WriteString(renderSummary(m.batch))
		return b.String()
	}

	ratio := 0.0
	if m.total > 0 {
		ratio = float64(m.current) / float64(m.total)
	}
	b.WriteString(m.bar.ViewAs(ratio))
	b.WriteString(fmt.Sprintf("  %d/%d\n\n", m.current, m.total))

	b.WriteString(m.spin.View())
	b.WriteString(" ")
	b.WriteString(fileStyle.Render(m.file))
	b.WriteString("\n\n")

	if m.stop.Load() {
		b.WriteString(hintStyle.Render("Cancelling after current file..."))
	} else {
		b.WriteString(hintStyle.Render("q/esc cancel"))
	}
	b.WriteString("\n")

	return b.String()
}

// renderSummary formats the final batch outcome.
func renderSummary(batch model.BatchResult) string {
	var b strings.Builder

	if batch.Cancelled {
		b.WriteString(errStyle.Render("Cancelled"))
	} else if batch.Failed == 0 {
		b.WriteString(okStyle.Render("Complete"))
	} else {
		b.WriteString(errStyle.Render("Complete with errors"))
	}
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  Converted: %d/%d\n", batch.Successful, batch.TotalFiles))
	if batch.Failed > 0 {
		b.WriteString(fmt.Sprintf("  Failed:    %d\n", batch.Failed))
	}
	b.WriteString(fmt.Sprintf("  Output:    %s\n", batch.OutputFolder))
	if batch.AddressBookPath != "" {
		b.WriteString(fmt.Sprintf("  Contacts:  %s\n", batch.AddressBookPath))
	}
	if batch.ReportPath != "" {
		b.WriteString(fmt.Sprintf("  Report:    %s\n", batch.ReportPath))
	}

	return b.String()
}

// waitForEvent returns a command that blocks on the next worker event.
func waitForEvent(events <-chan event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return doneMsg{}
		}
		if ev.done != nil {
			return *ev.done
		}
		return *ev.progress
	}
}

// Run executes the batch under the interactive progress view and returns
// the final result once the view exits.
func Run(
	ctx context.Context,
	batch *convert.Batch,
	inputFolder string,
	outputFolder string,
	cfg model.ConversionConfig,
) (model.BatchResult, error) {
	events := make(chan event, 1)
	var stop atomic.Bool

	go func() {
		result := batch.Run(ctx, inputFolder, outputFolder, cfg,
			func(current, total int, filename string) bool {
				events <- event{progress: &progressMsg{current, total, filename}}
				return !stop.Load()
			})
		events <- event{done: &doneMsg{batch: result}}
		close(events)
	}()

	p := tea.NewProgram(newModel(events, &stop))
	final, err := p.Run()
	if err != nil {
		return model.BatchResult{}, fmt.Errorf("running progress view: %w", err)
	}

	m, ok := final.(Model)
	if !ok || !m.done {
		return model.BatchResult{}, fmt.Errorf("progress view exited before batch completed")
	}
	return m.batch, nil
}
