package views

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"wintertree/internal/adapters/tui/styles"
	"wintertree/internal/domain"
	"wintertree/internal/ports"
)

// BrowserKeyMap defines key bindings for the chunk browser view
type BrowserKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Yank   key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "first chunk"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "last chunk"),
	),
	Yank: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy artifact path"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// BrowserModel is the model for the chunk browser view
type BrowserModel struct {
	ViewState

	trees     ports.TreeStore
	artifacts ports.ArtifactStore

	tree     *domain.Tree
	cursor   int
	progress progress.Model
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(trees ports.TreeStore, artifacts ports.ArtifactStore) *BrowserModel {
	return &BrowserModel{
		trees:     trees,
		artifacts: artifacts,
		progress:  progress.New(progress.WithDefaultGradient()),
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadTree
}

func (m *BrowserModel) loadTree() tea.Msg {
	if !m.trees.Exists() {
		return errMsg{fmt.Errorf("no winter tree found, run init first")}
	}
	tree, err := m.trees.Load()
	if err != nil {
		return errMsg{err}
	}
	return treeLoadedMsg{tree}
}

type treeLoadedMsg struct {
	tree *domain.Tree
}

type errMsg struct {
	err error
}

type yankedMsg struct {
	path string
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.progress.Width = msg.Width - 8
		return m, nil

	case treeLoadedMsg:
		m.tree = msg.tree
		m.clampCursor()
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case yankedMsg:
		m.SetMessage(fmt.Sprintf("Copied %s", msg.path), false)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()

		switch {
		case key.Matches(msg, BrowserKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, BrowserKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Down):
			if m.tree != nil && m.cursor < len(m.tree.Chunks)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Top):
			m.cursor = 0
			return m, nil

		case key.Matches(msg, BrowserKeys.Bottom):
			if m.tree != nil && len(m.tree.Chunks) > 0 {
				m.cursor = len(m.tree.Chunks) - 1
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Yank):
			if chunk := m.selectedChunk(); chunk != nil {
				return m, m.yankChunkPath(chunk)
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Reload):
			return m, m.Reload()

		case key.Matches(msg, BrowserKeys.Help):
			return m, func() tea.Msg {
				return SwitchToHelpMsg{}
			}
		}
	}

	return m, nil
}

func (m *BrowserModel) yankChunkPath(chunk *domain.Chunk) tea.Cmd {
	return func() tea.Msg {
		path := m.artifacts.ChunkDir(chunk.ID)
		if err := clipboard.WriteAll(path); err != nil {
			return errMsg{fmt.Errorf("clipboard unavailable: %w", err)}
		}
		return yankedMsg{path}
	}
}

func (m *BrowserModel) selectedChunk() *domain.Chunk {
	if m.tree == nil || m.cursor < 0 || m.cursor >= len(m.tree.Chunks) {
		return nil
	}
	return &m.tree.Chunks[m.cursor]
}

func (m *BrowserModel) clampCursor() {
	if m.tree == nil {
		m.cursor = 0
		return
	}
	if m.cursor >= len(m.tree.Chunks) {
		m.cursor = len(m.tree.Chunks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the browser
func (m *BrowserModel) View() string {
	if m.tree == nil {
		if m.Message != "" {
			return styles.App.Render(styles.ErrorMsg.Render(m.Message))
		}
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render("Winter Tree"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("Corpus scan progress"))
	b.WriteString("\n\n")

	t := m.tree
	b.WriteString(m.progress.ViewAs(float64(t.Progress.ChunksCompleted) / float64(max(t.Progress.ChunksTotal, 1))))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %d/%d chunks  %s %d papers  %s %d pairs\n\n",
		styles.Label.Render("Done"), t.Progress.ChunksCompleted, t.Progress.ChunksTotal,
		styles.Label.Render("Scanned"), t.Progress.PapersScanned,
		styles.Label.Render("Counted"), t.Progress.PairsCounted)

	// Chunk rows, windowed around the cursor
	first, last := m.visibleRange()
	for i := first; i < last; i++ {
		b.WriteString(m.renderChunk(&t.Chunks[i], i == m.cursor))
		b.WriteString("\n")
	}

	if periods := m.busiestPeriods(3); len(periods) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Label.Render("Busiest"))
		for _, p := range periods {
			fmt.Fprintf(&b, " %s", styles.MutedText.Render(p))
		}
		b.WriteString("\n")
	}

	if m.Message != "" {
		b.WriteString("\n")
		if m.MessageErr {
			b.WriteString(styles.ErrorMsg.Render(m.Message))
		} else {
			b.WriteString(styles.Success.Render(m.Message))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelpLine())

	return styles.App.Render(b.String())
}

// visibleRange keeps the cursor inside the row window when the chunk list is
// taller than the terminal.
func (m *BrowserModel) visibleRange() (int, int) {
	total := len(m.tree.Chunks)
	rows := m.Height - 12
	if rows < 5 {
		rows = 5
	}
	if total <= rows {
		return 0, total
	}

	first := m.cursor - rows/2
	if first < 0 {
		first = 0
	}
	if first+rows > total {
		first = total - rows
	}
	return first, first + rows
}

// busiestPeriods returns the n periods with the most qualifying papers as
// rendered "period (count)" strings.
func (m *BrowserModel) busiestPeriods(n int) []string {
	type row struct {
		period domain.PeriodKey
		papers int64
	}
	rows := make([]row, 0, len(m.tree.Periods))
	for period, stats := range m.tree.Periods {
		rows = append(rows, row{period, stats.Papers})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].papers != rows[j].papers {
			return rows[i].papers > rows[j].papers
		}
		return rows[i].period.Before(rows[j].period)
	})
	if len(rows) > n {
		rows = rows[:n]
	}

	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = fmt.Sprintf("%s (%d)", r.period, r.papers)
	}
	return out
}

func (m *BrowserModel) renderChunk(chunk *domain.Chunk, selected bool) string {
	text := fmt.Sprintf("chunk_%03d  %-8s  %3d files  %6.2f GB",
		chunk.ID, chunk.Status, len(chunk.Files), float64(chunk.Bytes)/(1<<30))
	if chunk.Status == domain.ChunkDone {
		text += fmt.Sprintf("  %d papers  %.0fs", chunk.Papers, chunk.TimeSec)
	}

	if selected {
		return styles.RowSelected.Render(text)
	}

	var style lipgloss.Style
	switch chunk.Status {
	case domain.ChunkDone:
		style = styles.RowDone
	case domain.ChunkScanning:
		style = styles.RowScanning
	default:
		style = styles.RowPending
	}
	return style.Render(text)
}

func (m *BrowserModel) renderHelpLine() string {
	keys := []struct {
		key  string
		desc string
	}{
		{"j/k", "navigate"},
		{"g/G", "first/last"},
		{"y", "copy path"},
		{"r", "reload"},
		{"?", "help"},
		{"q", "quit"},
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s",
			styles.HelpKey.Render(k.key),
			styles.HelpDesc.Render(k.desc),
		))
	}

	return strings.Join(parts, styles.HelpSeparator.String())
}

// Reload reloads the tree from disk
func (m *BrowserModel) Reload() tea.Cmd {
	return m.loadTree
}

// Messages for view switching
type SwitchToHelpMsg struct{}

type SwitchToBrowserMsg struct{}
