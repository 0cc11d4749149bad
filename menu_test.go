package main

import (
	"strings"
	"testing"

	"qtermlab/qcengine"
)

// qintPrelude declares the groups the qint templates refer to.
const qintPrelude = "qc.reset(2);\nlet a = qint.new(1, 'a');\nlet b = qint.new(1, 'b');\n"

func TestMenuTemplatesParse(t *testing.T) {
	for _, cat := range instructionMenu {
		for _, it := range cat.items {
			src := it.template
			if cat.name == "qint" {
				src = qintPrelude + src
			}
			prog, err := qcengine.ParseProgram(src)
			if err != nil {
				t.Errorf("%s/%s: template %q does not parse: %v", cat.name, it.name, it.template, err)
				continue
			}
			if got := prog[len(prog)-1].String(); got != it.template {
				t.Errorf("%s/%s: reparsed as %q, want %q", cat.name, it.name, got, it.template)
			}
		}
	}
}

func TestRenderMenuShowsSelection(t *testing.T) {
	m := Model{menuCat: 3, menuItem: 0}
	out := m.renderMenu()
	if !strings.Contains(out, "CNOT") || !strings.Contains(out, "qc.cnot(0, 1);") {
		t.Errorf("menu missing Multi items:\n%s", out)
	}
	if !strings.Contains(out, "▸") {
		t.Error("menu missing selection marker")
	}
}
