// Package ui renders build progress for the CLI with a Bubble Tea model:
// a spinner, a per-file status list and an overall progress bar. It is a
// CLI convenience layered over the host driver and never touches
// transformation semantics.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tstl/internal/host"
)

type progressModel struct {
	title   string
	events  <-chan host.Event
	spinner spinner.Model
	prog    progress.Model
	items   []fileItem
	index   map[string]int
	width   int
	done    int
	failed  int
	quit    bool
}

type fileItem struct {
	path   string
	status string
}

type eventMsg host.Event
type doneMsg struct{}

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headStyle = lipgloss.NewStyle().Bold(true)
)

// NewProgressModel returns a Bubble Tea model that renders compile
// progress for the given files off the driver's event channel.
func NewProgressModel(title string, files []string, events <-chan host.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items = append(items, fileItem{path: file, status: "queued"})
		index[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.applyEvent(host.Event(msg))
		return m, m.listenForEvent()
	case doneMsg:
		m.quit = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.quit {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progModel, cmd := m.prog.Update(msg)
		m.prog = progModel.(progress.Model)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quit = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *progressModel) applyEvent(ev host.Event) {
	idx, ok := m.index[ev.Path]
	if !ok {
		return
	}
	switch {
	case ev.Err:
		m.items[idx].status = "error"
		m.failed++
		m.done++
	case ev.Done:
		m.items[idx].status = "done"
		m.done++
	default:
		m.items[idx].status = "compiling"
	}
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(headStyle.Render(m.title))
	sb.WriteString("\n\n")
	for _, item := range m.items {
		var mark string
		switch item.status {
		case "done":
			mark = okStyle.Render("✓")
		case "error":
			mark = errStyle.Render("✗")
		case "compiling":
			mark = m.spinner.View()
		default:
			mark = dimStyle.Render("·")
		}
		path := runewidth.Truncate(item.path, max(10, m.width-16), "…")
		fmt.Fprintf(&sb, " %s %s %s\n", mark, path, dimStyle.Render(item.status))
	}
	sb.WriteString("\n")
	ratio := float64(m.done) / float64(len(m.items))
	sb.WriteString(m.prog.ViewAs(ratio))
	sb.WriteString("\n")
	return sb.String()
}
