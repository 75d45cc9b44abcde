package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/appengine-ltd/castaway/internal/game"
	"github.com/appengine-ltd/castaway/internal/parser"
	"github.com/appengine-ltd/castaway/internal/ui/theme"
)

const (
	tickInterval   = time.Second
	maxLogLines    = 200
	defaultSaveKey = "autosave"
)

type AppConfig struct {
	Version string
	Session *game.Session
	SaveKey string
	Log     *slog.Logger
}

type App struct {
	cfg AppConfig
}

func NewApp(cfg AppConfig) *App {
	return &App{cfg: cfg}
}

func (a *App) Run() error {
	m := newMenuModel(a.cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type screen int

const (
	screenMenu screen = iota
	screenCamp
	screenOver
)

type menuItem int

const (
	itemStart menuItem = iota
	itemContinue
	itemQuit
	menuItemCount
)

type menuModel struct {
	cfg     AppConfig
	session *game.Session
	parser  *parser.Parser
	log     *slog.Logger
	input   textinput.Model

	screen screen
	idx    int

	messages     []string
	lastSeq      uint64
	status       string
	clarify      *parser.ClarifyQuestion
	lastSurvivor string
	overlay      bool

	width  int
	height int
}

func newMenuModel(cfg AppConfig) menuModel {
	if cfg.SaveKey == "" {
		cfg.SaveKey = defaultSaveKey
	}
	log := cfg.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	in := textinput.New()
	in.Placeholder = "talk alice, go beach, topic alliance, next, help"
	in.Prompt = "> "
	in.CharLimit = 120
	in.Width = 60
	return menuModel{
		cfg:     cfg,
		session: cfg.Session,
		parser:  parser.New(),
		log:     log,
		input:   in,
	}
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m menuModel) Init() tea.Cmd {
	return tickCmd()
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tickMsg:
		if m.screen == screenCamp {
			m.session.Tick()
			m.syncEvents()
			m.checkOver()
		}
		return m, tickCmd()
	case tea.KeyMsg:
		switch m.screen {
		case screenMenu:
			return m.updateMenu(msg)
		case screenCamp:
			return m.updateCamp(msg)
		case screenOver:
			return m.updateOver(msg)
		}
	}
	return m, nil
}

func (m menuModel) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		m.idx = (m.idx + int(menuItemCount) - 1) % int(menuItemCount)
	case "down", "j":
		m.idx = (m.idx + 1) % int(menuItemCount)
	case "enter":
		switch menuItem(m.idx) {
		case itemStart:
			m.enterCamp()
			m.push("Day 1. The tribes have been divided. Type help for commands.")
		case itemContinue:
			if err := m.load(m.cfg.SaveKey); err != nil {
				m.status = fmt.Sprintf("Could not continue: %v", err)
				return m, nil
			}
			m.enterCamp()
			m.push(fmt.Sprintf("Loaded %q.", m.cfg.SaveKey))
		case itemQuit:
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *menuModel) enterCamp() {
	m.session.Resume()
	m.screen = screenCamp
	m.status = ""
	m.input.Focus()
	m.syncEvents()
}

func (m menuModel) updateCamp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.overlay = !m.overlay
		return m, nil
	case "esc":
		if m.overlay {
			m.overlay = false
			return m, nil
		}
		m.clarify = nil
		m.input.SetValue("")
		return m, nil
	case "enter":
		line := strings.TrimSpace(m.input.Value())
		m.input.SetValue("")
		if line == "" {
			return m, nil
		}
		m.push(theme.Hint("> " + line))
		quit := m.execute(line)
		m.syncEvents()
		m.checkOver()
		if quit {
			return m, tea.Quit
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m menuModel) updateOver(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "enter":
		return m, tea.Quit
	case "r":
		m.session.Reset()
		m.messages = nil
		m.lastSeq = 0
		m.enterCamp()
		m.push("A new season begins.")
	}
	return m, nil
}

func (m *menuModel) checkOver() {
	if m.session.Over() && m.screen == screenCamp {
		m.screen = screenOver
		m.input.Blur()
	}
}

func (m *menuModel) push(line string) {
	m.messages = append(m.messages, line)
	if len(m.messages) > maxLogLines {
		m.messages = m.messages[len(m.messages)-maxLogLines:]
	}
}

func (m menuModel) View() string {
	switch m.screen {
	case screenCamp:
		return m.campView()
	case screenOver:
		return m.overView()
	default:
		return m.menuView()
	}
}

func (m menuModel) menuView() string {
	var b strings.Builder
	b.WriteString(theme.Header("CASTAWAY"))
	b.WriteString("\n")
	if m.cfg.Version != "" {
		b.WriteString(theme.Hint("v" + m.cfg.Version))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	items := []string{"Start season", "Continue (" + m.cfg.SaveKey + ")", "Quit"}
	for i, it := range items {
		state := theme.ListItemNormal
		if i == m.idx {
			state = theme.ListItemSelected
		}
		b.WriteString(theme.ListItem(state, it, ""))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint("↑/↓ to move, Enter to select, q to quit"))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString("\n" + theme.Warning(m.status) + "\n")
	}
	return b.String()
}

func (m menuModel) overView() string {
	out := m.session.Outcome()
	var b strings.Builder
	if out.Status == game.OutcomeWon {
		b.WriteString(theme.Header("YOU WON THE SEASON"))
	} else {
		b.WriteString(theme.Header("YOUR SEASON IS OVER"))
	}
	b.WriteString("\n\n")
	b.WriteString(out.Message)
	b.WriteString("\n\n")
	for _, line := range lastN(m.messages, 8) {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + theme.Hint("r to play again, Enter to quit"))
	return b.String()
}

func lastN(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}
