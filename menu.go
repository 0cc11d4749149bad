package main

import (
	"fmt"
	"math"
	"strings"

	qc "qtermlab/qcengine"
)

// menuItem represents a single instruction choice in the menu.
type menuItem struct {
	name     string
	template string // text inserted into the editor
	symbol   string
}

// menuCategory groups related menu items under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

const piOver2 = math.Pi / 2

func item(name, symbol string, in qc.Instruction) menuItem {
	return menuItem{name: name, symbol: symbol, template: in.String()}
}

// instructionMenu defines the picker categories and items. Templates are the
// canonical text of each instruction with placeholder operands.
var instructionMenu = []menuCategory{
	{
		name: "Setup",
		items: []menuItem{
			item("Reset", "|0⟩", qc.Instruction{Op: qc.OpReset, Value: 2}),
			item("Write value", "W", qc.Instruction{Op: qc.OpWrite, Value: 1}),
			item("Write bit", "Wb", qc.Instruction{Op: qc.OpWriteBit, Qubits: []int{0}, Value: 1}),
		},
	},
	{
		name: "Single",
		items: []menuItem{
			item("Hadamard", "H", qc.Instruction{Op: qc.OpHad, Qubits: []int{0}}),
			item("Pauli-X (NOT)", "X", qc.Instruction{Op: qc.OpX, Qubits: []int{0}}),
			item("Pauli-Y", "Y", qc.Instruction{Op: qc.OpY, Qubits: []int{0}}),
			item("Pauli-Z", "Z", qc.Instruction{Op: qc.OpZ, Qubits: []int{0}}),
		},
	},
	{
		name: "Rotation",
		items: []menuItem{
			item("Rotate X", "RX", qc.Instruction{Op: qc.OpRX, Qubits: []int{0}, Angle: piOver2, HasAngle: true}),
			item("Rotate Y", "RY", qc.Instruction{Op: qc.OpRY, Qubits: []int{0}, Angle: piOver2, HasAngle: true}),
			item("Rotate Z", "RZ", qc.Instruction{Op: qc.OpRZ, Qubits: []int{0}, Angle: piOver2, HasAngle: true}),
			item("Phase (degrees)", "φ", qc.Instruction{Op: qc.OpPhase, Angle: 90, HasAngle: true, Value: 1}),
		},
	},
	{
		name: "Multi",
		items: []menuItem{
			item("CNOT", "●─⊕", qc.Instruction{Op: qc.OpCNOT, Qubits: []int{0, 1}}),
			item("Controlled-Z", "●─●", qc.Instruction{Op: qc.OpCZ, Qubits: []int{0, 1}}),
			item("C-Phase", "●─P", qc.Instruction{Op: qc.OpCPhase, Qubits: []int{0, 1}, Angle: piOver2, HasAngle: true}),
			item("SWAP", "×─×", qc.Instruction{Op: qc.OpSwap, Qubits: []int{0, 1}}),
			item("Toffoli (CCNOT)", "●─●─⊕", qc.Instruction{Op: qc.OpCCNOT, Qubits: []int{0, 1, 2}}),
		},
	},
	{
		name: "Grover",
		items: []menuItem{
			item("Phase flip", "−|x⟩", qc.Instruction{Op: qc.OpPhaseFlip, Bits: "11"}),
			item("Diffusion", "D", qc.Instruction{Op: qc.OpDiffusion}),
		},
	},
	{
		name: "Readout",
		items: []menuItem{
			item("Measure all", "M", qc.Instruction{Op: qc.OpMeasure}),
			item("Read bit", "M₀", qc.Instruction{Op: qc.OpMeasure, Qubits: []int{0}}),
			item("Print", "›", qc.Instruction{Op: qc.OpPrint, Text: "checkpoint"}),
			item("Label", "#", qc.Instruction{Op: qc.OpLabel, Text: "step"}),
		},
	},
	{
		name: "qint",
		items: []menuItem{
			item("New qint", "[a]", qc.Instruction{Op: qc.OpQIntNew, Name: "a", Width: 1, Text: "a"}),
			item("qint H", "H[a]", qc.Instruction{Op: qc.OpQIntHad, Name: "a"}),
			item("qint CNOT", "[b]⊕", qc.Instruction{Op: qc.OpQIntCNOT, Name: "b", Other: "a"}),
			item("qint read", "M[a]", qc.Instruction{Op: qc.OpQIntRead, Name: "a"}),
		},
	},
}

// renderMenu renders the floating instruction-picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Insert Instruction"))
	sb.WriteString("\n")

	// Category tabs
	for i, cat := range instructionMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(instructionMenu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 56)))
	sb.WriteString("\n")

	cat := instructionMenu[m.menuCat]
	for i, it := range cat.items {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-17s", it.name)))
			sb.WriteString(barStyle.Render(fmt.Sprintf("%-7s", it.symbol)))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-17s", it.name)))
			sb.WriteString(dimStyle.Render(fmt.Sprintf("%-7s", it.symbol)))
		}
		sb.WriteString(dimStyle.Render(it.template))
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Cat  ⏎ Insert  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
