package tui

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/stefanpenner/quest/pkg/goal"
	"github.com/stefanpenner/quest/pkg/logging"
	"github.com/stefanpenner/quest/pkg/quest"
	gsync "github.com/stefanpenner/quest/pkg/sync"
)

// FileChangedMsg is sent when the file watcher detects changes.
type FileChangedMsg struct{}

// SyncDoneMsg is sent when git sync completes.
type SyncDoneMsg struct {
	Err error
}

// Options configures where the model persists its registry.
type Options struct {
	GoalsPath string // goals file used by save, reload and autosave
	DataDir   string // git sync root
	Autosave  bool   // write GoalsPath after every mutation
	Logger    *slog.Logger
}

// addStep is the current prompt of the add-goal flow.
type addStep int

const (
	stepKind addStep = iota
	stepTitle
	stepDescription
	stepPoints
	stepRequired
	stepBonus
)

var stepPrompts = map[addStep]string{
	stepKind:        "Goal type (1 simple, 2 eternal, 3 checklist): ",
	stepTitle:       "Title: ",
	stepDescription: "Description: ",
	stepPoints:      "Points awarded per completion: ",
	stepRequired:    "How many times required to complete: ",
	stepBonus:       "Bonus points awarded when completed: ",
}

type addDraft struct {
	kind        goal.Kind
	title       string
	description string
	points      int
	required    int
}

// Model is the Bubble Tea model for the goal tracker.
type Model struct {
	reg    *quest.Registry
	opts   Options
	keys   KeyMap
	width  int
	height int
	items  []Item
	cursor int

	showHelpModal bool

	// Add-goal prompt
	isAdding  bool
	step      addStep
	draft     addDraft
	textInput textinput.Model

	// Search state
	isSearching bool
	searchQuery string

	syncing bool

	// Status message
	statusMsg     string
	statusTimeout time.Time

	// Cached glamour renderer (expensive to create)
	glamourRenderer *glamour.TermRenderer
	glamourWidth    int
}

// NewModel creates a TUI model over reg.
func NewModel(reg *quest.Registry, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	ti := textinput.New()
	ti.CharLimit = 256

	m := Model{
		reg:       reg,
		opts:      opts,
		keys:      DefaultKeyMap(),
		textInput: ti,
	}
	m.rebuild()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.getGlamourRenderer(detailWidth(msg.Width) - 2)
		m.rebuild()
		return m, tea.ClearScreen

	case FileChangedMsg:
		m.reload(false)
		return m, nil

	case SyncDoneMsg:
		m.syncing = false
		if msg.Err != nil {
			m.setStatus("Sync failed: " + msg.Err.Error())
		} else {
			m.setStatus("Synced successfully")
			m.reload(false)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.isAdding {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.isAdding {
		return m.handleAddInput(msg)
	}

	if m.isSearching {
		return m.handleSearchInput(msg)
	}

	if m.showHelpModal {
		switch msg.String() {
		case "esc", "enter", "?", "q":
			m.showHelpModal = false
		}
		return m, nil
	}

	// An applied filter is cleared with Esc
	if m.searchQuery != "" && msg.Type == tea.KeyEsc {
		m.clearSearch()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0

	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(0, len(m.items)-1)

	case key.Matches(msg, m.keys.Record):
		m.recordSelected()

	case key.Matches(msg, m.keys.Add):
		m.startAdd()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Save):
		m.save()

	case key.Matches(msg, m.keys.Reload):
		m.reload(true)

	case key.Matches(msg, m.keys.Sync):
		if m.syncing {
			break
		}
		m.syncing = true
		m.setStatus("Syncing...")
		return m, m.doSync()

	case key.Matches(msg, m.keys.Search):
		m.isSearching = true
		m.searchQuery = ""
		m.rebuild()

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = !m.showHelpModal
	}

	return m, nil
}

func (m *Model) recordSelected() {
	if m.cursor >= len(m.items) {
		return
	}
	item := m.items[m.cursor]
	wasComplete := goal.IsComplete(item.Goal)
	awarded, err := m.reg.Record(item.Index)
	if err != nil {
		m.setStatus("Error: " + err.Error())
		return
	}
	m.setStatus(fmt.Sprintf("%s Total score is now: %d pts.", quest.RecordMessage(item.Goal, wasComplete, awarded), m.reg.Score()))
	// A complete goal is left as it was; anything else changed state
	if !wasComplete {
		m.persist()
	}
	m.rebuild()
}

func (m *Model) startAdd() {
	m.isAdding = true
	m.step = stepKind
	m.draft = addDraft{}
	m.textInput.Reset()
	m.textInput.Placeholder = "1"
	m.textInput.Focus()
}

func (m Model) handleAddInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.isAdding = false
		m.textInput.Blur()
		m.setStatus("Goal creation cancelled")
		return m, nil
	case tea.KeyEnter:
		if err := m.advanceAdd(strings.TrimSpace(m.textInput.Value())); err != nil {
			m.setStatus("Error: " + err.Error())
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
}

// advanceAdd accepts the answer to the current prompt. On a bad answer the
// prompt stays where it is.
func (m *Model) advanceAdd(value string) error {
	switch m.step {
	case stepKind:
		k, err := goal.ParseKind(value)
		if err != nil {
			return fmt.Errorf("choose 1, 2 or 3")
		}
		m.draft.kind = k
		m.step = stepTitle

	case stepTitle:
		if value == "" {
			return goal.ErrEmptyTitle
		}
		m.draft.title = value
		m.step = stepDescription

	case stepDescription:
		m.draft.description = value
		m.step = stepPoints

	case stepPoints:
		n, err := parseNumber(value)
		if err != nil {
			return err
		}
		m.draft.points = n
		if m.draft.kind != goal.KindChecklist {
			return m.finishAdd(0)
		}
		m.step = stepRequired

	case stepRequired:
		n, err := parseNumber(value)
		if err != nil {
			return err
		}
		m.draft.required = n
		m.step = stepBonus

	case stepBonus:
		n, err := parseNumber(value)
		if err != nil {
			return err
		}
		return m.finishAdd(n)
	}

	m.textInput.Reset()
	m.textInput.Placeholder = ""
	return nil
}

func (m *Model) finishAdd(bonus int) error {
	d := m.draft
	g, err := goal.New(d.kind, d.title, d.description, d.points, d.required, bonus)
	if err != nil {
		return err
	}
	m.reg.Add(g)
	m.isAdding = false
	m.textInput.Blur()
	m.setStatus(fmt.Sprintf("%s goal created.", g.Kind()))
	m.persist()

	m.searchQuery = ""
	m.rebuild()
	m.cursor = len(m.items) - 1
	return nil
}

func parseNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("please enter a valid integer, got %q", s)
	}
	return n, nil
}

func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.isSearching = false
		m.clearSearch()
	case tea.KeyEnter, tea.KeyDown:
		// Keep the filter, return to navigation
		m.isSearching = false
	case tea.KeyBackspace:
		if q := []rune(m.searchQuery); len(q) > 0 {
			m.searchQuery = string(q[:len(q)-1])
			m.cursor = 0
			m.rebuild()
		}
	case tea.KeySpace:
		m.searchQuery += " "
		m.cursor = 0
		m.rebuild()
	case tea.KeyRunes:
		m.searchQuery += string(msg.Runes)
		m.cursor = 0
		m.rebuild()
	}
	return m, nil
}

func (m *Model) clearSearch() {
	var curIndex int
	if m.cursor < len(m.items) {
		curIndex = m.items[m.cursor].Index
	}
	m.searchQuery = ""
	m.rebuild()
	for i, item := range m.items {
		if item.Index == curIndex {
			m.cursor = i
			break
		}
	}
}

// persist writes the registry when autosave is on.
func (m *Model) persist() {
	if !m.opts.Autosave || m.opts.GoalsPath == "" {
		return
	}
	if err := m.reg.Save(m.opts.GoalsPath); err != nil {
		m.setStatus("Failed to save: " + err.Error())
	}
}

func (m *Model) save() {
	if m.opts.GoalsPath == "" {
		m.setStatus("No goals file configured")
		return
	}
	if err := m.reg.Save(m.opts.GoalsPath); err != nil {
		m.setStatus("Failed to save: " + err.Error())
		return
	}
	m.setStatus(fmt.Sprintf("Saved %d goals and score (%d) to %s.", m.reg.Len(), m.reg.Score(), m.opts.GoalsPath))
}

// reload replaces the registry from the goals file. A failed load keeps the
// current goals; it is only reported when the user asked for it.
func (m *Model) reload(explicit bool) {
	if m.opts.GoalsPath == "" {
		return
	}
	if err := m.reg.Load(m.opts.GoalsPath); err != nil {
		if explicit {
			m.setStatus("Failed to load: " + err.Error())
		}
		return
	}
	if explicit {
		m.setStatus(fmt.Sprintf("Loaded %d goals and score (%d) from %s.", m.reg.Len(), m.reg.Score(), m.opts.GoalsPath))
	}
	m.rebuild()
}

func (m *Model) rebuild() {
	m.items = FilterItems(BuildItems(m.reg.Goals()), m.searchQuery)

	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selected returns the goal under the cursor, if any.
func (m Model) selected() (Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return Item{}, false
	}
	return m.items[m.cursor], true
}

// getGlamourRenderer returns a cached glamour renderer, creating one if needed
// or if the width changed.
func (m *Model) getGlamourRenderer(width int) *glamour.TermRenderer {
	if m.glamourRenderer != nil && m.glamourWidth == width {
		return m.glamourRenderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	m.glamourRenderer = r
	m.glamourWidth = width
	return r
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = time.Now().Add(3 * time.Second)
}

func (m Model) doSync() tea.Cmd {
	dir := m.opts.DataDir
	logger := m.opts.Logger
	return func() tea.Msg {
		var out bytes.Buffer
		err := gsync.SyncRepo(dir, &out)
		logger.Debug("git sync finished", "dir", dir, "output", out.String(), "error", err)
		return SyncDoneMsg{Err: err}
	}
}
