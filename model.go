package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"qtermlab/history"
	"qtermlab/qcengine"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusEditor focus = iota
	focusResults
	focusMenu
)

const defaultProgramPath = "program.qc"

const sampleProgram = `// Bell pair
qc.reset(2);
qc.had(0);
qc.cnot(0, 1);
qc.measure();
`

// runFinishedMsg carries the outcome of a background run.
type runFinishedMsg struct {
	out runOutcome
	err error
}

// Model represents the TUI application state.
type Model struct {
	editor textarea.Model
	focus  focus
	width  int
	height int

	path  string // file the editor saves to
	shots int
	seed  int64 // 0 draws a fresh seed for every run

	running   bool
	last      *runOutcome
	statusMsg string
	statusErr bool

	// Menu state
	menuCat  int
	menuItem int

	cfg    Config
	store  *history.Store
	logger *log.Logger
}

func initialModel(cfg Config, store *history.Store, logger *log.Logger, path, source string) Model {
	ta := textarea.New()
	ta.Placeholder = "qc.reset(1); qc.had(0); ..."
	ta.SetWidth(editorMinW)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.KeyMap.InsertNewline.SetEnabled(true)
	if source == "" {
		source = sampleProgram
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ta.SetValue(source)
	ta.Focus()

	return Model{
		editor: ta,
		focus:  focusEditor,
		path:   path,
		shots:  cfg.Shots,
		seed:   cfg.Seed,
		cfg:    cfg,
		store:  store,
		logger: logger,
	}
}

func (m *Model) setStatus(format string, args ...any) {
	m.statusMsg = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.statusMsg = err.Error()
	m.statusErr = true
}

// runCmd parses the editor contents and runs them off the update loop.
func (m *Model) runCmd() tea.Cmd {
	prog, err := qcengine.ParseProgram(m.editor.Value())
	if err != nil {
		m.setError(err)
		return nil
	}
	m.running = true
	m.setStatus("running %s shots…", printer.Sprintf("%d", m.shots))

	req := runRequest{Name: "editor", Program: prog, Shots: m.shots, Seed: m.seed}
	if m.path != "" {
		req.Name = m.path
	}
	cfg, store, logger := m.cfg, m.store, m.logger
	return func() tea.Msg {
		out, err := execute(context.Background(), cfg, store, logger, req)
		return runFinishedMsg{out: out, err: err}
	}
}

func (m *Model) save() {
	path := m.path
	if path == "" {
		path = defaultProgramPath
	}
	if err := os.WriteFile(path, []byte(m.editor.Value()), 0o644); err != nil {
		m.setError(fmt.Errorf("save: %w", err))
		return
	}
	m.path = path
	m.setStatus("Saved %s", path)
}

func (m *Model) exportQASM() {
	prog, err := qcengine.ParseProgram(m.editor.Value())
	if err != nil {
		m.setError(err)
		return
	}
	qasm, warnings := qcengine.ToQASM(prog)
	base := m.path
	if base == "" {
		base = defaultProgramPath
	}
	path := strings.TrimSuffix(base, filepath.Ext(base)) + ".qasm"
	if err := os.WriteFile(path, []byte(qasm), 0o644); err != nil {
		m.setError(fmt.Errorf("export: %w", err))
		return
	}
	for _, w := range warnings {
		m.logger.Warn("qasm export", "detail", w)
	}
	if len(warnings) > 0 {
		m.setStatus("Exported %s (%d instructions kept as comments)", path, len(warnings))
		return
	}
	m.setStatus("Exported %s", path)
}

func (m *Model) reseed() {
	seed, err := qcengine.NewSeed()
	if err != nil {
		m.setError(err)
		return
	}
	m.seed = seed
	m.setStatus("Seed %d", seed)
}

func (m *Model) openMenu() {
	m.focus = focusMenu
	m.menuCat = 0
	m.menuItem = 0
	m.editor.Blur()
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetWidth(max(msg.Width/2-6, editorMinW))
		m.editor.SetHeight(max(msg.Height-controlsH-10, 4))

	case runFinishedMsg:
		m.running = false
		if msg.err != nil {
			m.setError(msg.err)
			break
		}
		out := msg.out
		m.last = &out
		if out.RunID != "" {
			m.setStatus("Run %s recorded", out.RunID)
		} else {
			m.setStatus("Run complete")
		}

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusEditor:
			switch key {
			case "tab":
				m.focus = focusResults
				m.editor.Blur()
			case "ctrl+r":
				if !m.running {
					cmds = append(cmds, m.runCmd())
				}
			case "ctrl+s":
				m.save()
			case "ctrl+e":
				m.exportQASM()
			case "ctrl+n":
				m.openMenu()
			default:
				var cmd tea.Cmd
				m.editor, cmd = m.editor.Update(msg)
				cmds = append(cmds, cmd)
			}

		case focusResults:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusEditor
				cmds = append(cmds, m.editor.Focus())
			case "r", "ctrl+r":
				if !m.running {
					cmds = append(cmds, m.runCmd())
				}
			case "+", "=":
				if next := m.shots * shotsFactor; next <= m.cfg.MaxShots {
					m.shots = next
				} else {
					m.shots = m.cfg.MaxShots
				}
			case "-":
				m.shots = max(m.shots/shotsFactor, 1)
			case "s":
				m.reseed()
			case "0":
				m.seed = 0
				m.setStatus("Seed drawn per run")
			case "a":
				m.openMenu()
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusEditor
				cmds = append(cmds, m.editor.Focus())
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				if m.menuItem < len(instructionMenu[m.menuCat].items)-1 {
					m.menuItem++
				}
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case "right", "l":
				if m.menuCat < len(instructionMenu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case "enter":
				it := instructionMenu[m.menuCat].items[m.menuItem]
				m.editor.InsertString(it.template + "\n")
				m.focus = focusEditor
				cmds = append(cmds, m.editor.Focus())
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	editorWidth := max(m.width/2, editorMinW+4)
	resultsWidth := max(m.width-editorWidth-4, 20)
	panelHeight := max(m.height-controlsH-4, 6)

	editorPanel := m.renderEditorPanel(editorWidth, panelHeight)
	resultsPanel := m.renderResultsPanel(resultsWidth, panelHeight)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsH-1)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, editorPanel, resultsPanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	if m.focus == focusMenu {
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	}
	return frame
}
