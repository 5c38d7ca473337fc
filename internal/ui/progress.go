// Package ui renders build progress in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"soltree/internal/tree"
)

// visibleRows is how many recently touched files the view lists.
const visibleRows = 8

type progressModel struct {
	title   string
	events  <-chan tree.Event
	spinner spinner.Model
	prog    progress.Model
	items   []fileItem
	index   map[string]int
	recent  []int
	settled int
	failed  int
	edges   int
	width   int
	done    bool
}

type fileItem struct {
	path   string
	status tree.Status
	edges  int
}

type eventMsg tree.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that follows tree builder
// events for files until events is closed.
func NewProgressModel(title string, files []string, events <-chan tree.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items = append(items, fileItem{path: file})
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

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(tree.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
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
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil
	case progress.FrameMsg:
		updated, cmd := m.prog.Update(msg)
		m.prog = updated.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%d/%d files, %d edges)", m.title, m.settled, len(m.items), m.edges)
	if m.failed > 0 {
		header += fmt.Sprintf(", %d without metadata", m.failed)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 8
	nameWidth := max(m.width-statusWidth-12, 20)
	for _, idx := range m.recent {
		item := m.items[idx]
		status := string(item.status)
		line := fmt.Sprintf("  %s %s", styleStatus(item.status).Render(fmt.Sprintf("%8s", status)), truncate(item.path, nameWidth))
		if item.status == tree.StatusDone && item.edges > 0 {
			line += fmt.Sprintf(" (%d)", item.edges)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
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

func (m *progressModel) applyEvent(ev tree.Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	wasSettled := item.status == tree.StatusDone || item.status == tree.StatusError
	item.status = ev.Status
	item.edges = ev.Edges
	m.touch(idx)

	if !wasSettled {
		switch ev.Status {
		case tree.StatusDone:
			m.settled++
			m.edges += ev.Edges
		case tree.StatusError:
			m.settled++
			m.failed++
		}
	}
	return m.prog.SetPercent(float64(m.settled) / float64(len(m.items)))
}

// touch moves idx to the end of the recent list, keeping at most visibleRows.
func (m *progressModel) touch(idx int) {
	for i, r := range m.recent {
		if r == idx {
			m.recent = append(m.recent[:i], m.recent[i+1:]...)
			break
		}
	}
	m.recent = append(m.recent, idx)
	if len(m.recent) > visibleRows {
		m.recent = m.recent[len(m.recent)-visibleRows:]
	}
}

func styleStatus(status tree.Status) lipgloss.Style {
	switch status {
	case tree.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case tree.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case tree.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
