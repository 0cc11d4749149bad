package main

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"qtermlab/qcengine"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := testConfig(t)
	cfg.Shots = 1024
	cfg.MaxShots = 4096
	return initialModel(cfg, nil, nil, "", "")
}

func press(m Model, keys ...tea.KeyMsg) Model {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestInitialModel(t *testing.T) {
	m := newTestModel(t)
	if m.editor.Value() != sampleProgram {
		t.Errorf("expected sample program, got %q", m.editor.Value())
	}
	if m.focus != focusEditor || m.logger == nil {
		t.Errorf("unexpected initial state: focus=%d logger=%v", m.focus, m.logger)
	}

	m = initialModel(testConfig(t), nil, nil, "x.qc", "qc.reset(3);")
	if m.editor.Value() != "qc.reset(3);" || m.path != "x.qc" {
		t.Errorf("source not loaded: %q %q", m.editor.Value(), m.path)
	}
}

func TestFocusCycle(t *testing.T) {
	m := newTestModel(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusResults {
		t.Fatalf("expected results focus, got %d", m.focus)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusEditor {
		t.Fatalf("expected editor focus, got %d", m.focus)
	}
}

func TestShotControls(t *testing.T) {
	m := press(newTestModel(t), tea.KeyMsg{Type: tea.KeyTab})

	m = press(m, runeKey('+'))
	if m.shots != 2048 {
		t.Errorf("after +: %d", m.shots)
	}
	m = press(m, runeKey('+'), runeKey('='))
	if m.shots != 4096 {
		t.Errorf("expected cap at 4096, got %d", m.shots)
	}
	for range 20 {
		m = press(m, runeKey('-'))
	}
	if m.shots != 1 {
		t.Errorf("expected floor at 1, got %d", m.shots)
	}
}

func TestSeedControls(t *testing.T) {
	m := press(newTestModel(t), tea.KeyMsg{Type: tea.KeyTab}, runeKey('s'))
	if m.seed == 0 {
		t.Error("reseed left seed at 0")
	}
	m = press(m, runeKey('0'))
	if m.seed != 0 {
		t.Errorf("expected random seed mode, got %d", m.seed)
	}
}

func TestMenuInsert(t *testing.T) {
	m := initialModel(testConfig(t), nil, nil, "", "qc.reset(2);\n")
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.focus != focusMenu {
		t.Fatalf("expected menu focus, got %d", m.focus)
	}

	// Multi category, second item.
	m = press(m,
		tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	if m.focus != focusEditor {
		t.Errorf("expected editor focus after insert, got %d", m.focus)
	}
	if !strings.Contains(m.editor.Value(), "qc.cz(0, 1);") {
		t.Errorf("template not inserted: %q", m.editor.Value())
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlN}, tea.KeyMsg{Type: tea.KeyEsc})
	if m.focus != focusEditor {
		t.Errorf("esc should close the menu, focus %d", m.focus)
	}
}

func TestRunCmd(t *testing.T) {
	m := newTestModel(t)
	m.seed = 11
	m.shots = 100

	cmd := m.runCmd()
	if cmd == nil || !m.running {
		t.Fatalf("expected a pending run, status %q", m.statusMsg)
	}
	msg, ok := cmd().(runFinishedMsg)
	if !ok {
		t.Fatalf("unexpected message %T", msg)
	}
	if msg.err != nil {
		t.Fatalf("run error: %v", msg.err)
	}

	next, _ := m.Update(msg)
	m = next.(Model)
	if m.running || m.last == nil || m.last.Result.Seed != 11 {
		t.Fatalf("run not applied: running=%v last=%v", m.running, m.last)
	}
	if m.statusMsg != "Run complete" {
		t.Errorf("status = %q", m.statusMsg)
	}

	next, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	view := next.(Model).View()
	for _, want := range []string{"00", "11", "Results"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRunCmdParseError(t *testing.T) {
	m := initialModel(testConfig(t), nil, nil, "", "qc.bogus(1);")
	if cmd := m.runCmd(); cmd != nil {
		t.Fatal("expected no command for a bad program")
	}
	if !m.statusErr || m.running {
		t.Errorf("expected error status, got %q", m.statusMsg)
	}
}

func TestRunFinishedError(t *testing.T) {
	m := newTestModel(t)
	m.running = true
	next, _ := m.Update(runFinishedMsg{err: &qcengine.InstructionError{Index: 1, Op: qcengine.OpCNOT, Err: qcengine.ErrIndexOutOfRange}})
	m = next.(Model)
	if m.running || !m.statusErr || !strings.Contains(m.statusMsg, "index out of range") {
		t.Errorf("unexpected state: running=%v status=%q", m.running, m.statusMsg)
	}
	if m.last != nil {
		t.Error("failed run should not replace the last result")
	}
}

func TestViewBeforeResize(t *testing.T) {
	if v := newTestModel(t).View(); v != "Loading..." {
		t.Errorf("View() = %q", v)
	}
}

func TestSetError(t *testing.T) {
	m := newTestModel(t)
	m.setError(errors.New("boom"))
	if !m.statusErr || m.statusMsg != "boom" {
		t.Errorf("setError: %v %q", m.statusErr, m.statusMsg)
	}
	m.setStatus("ok %d", 1)
	if m.statusErr || m.statusMsg != "ok 1" {
		t.Errorf("setStatus: %v %q", m.statusErr, m.statusMsg)
	}
}
