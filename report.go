package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"qtermlab/history"
	"qtermlab/qcengine"
)

// printer groups digits in shot counts.
var printer = message.NewPrinter(language.English)

const reportBarWidth = 40

// writeReport prints a run as a text histogram. Outcomes with no shots are
// omitted unless all is set.
func writeReport(w io.Writer, out runOutcome, all bool) error {
	res := out.Result
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s: %s shots on %d qubits (seed %d)\n", out.Name, printer.Sprintf("%d", res.Shots), res.QubitCount, res.Seed)
	if out.RunID != "" {
		fmt.Fprintf(&sb, "run %s\n", out.RunID)
	}

	maxCount := 0
	for _, c := range res.Histogram {
		maxCount = max(maxCount, c)
	}
	for _, o := range res.Outcomes() {
		if o.Count == 0 && !all {
			continue
		}
		frac := float64(o.Count) / float64(res.Shots)
		fmt.Fprintf(&sb, "%s  %8s  %5.1f%%  %s\n",
			o.Label, printer.Sprintf("%d", o.Count), 100*frac, histogramBar(o.Count, maxCount, reportBarWidth))
	}
	for _, line := range res.Log {
		fmt.Fprintf(&sb, "> %s\n", line)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

type jsonOutcome struct {
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	Fraction float64 `json:"fraction"`
}

type jsonReport struct {
	Name     string        `json:"name"`
	RunID    string        `json:"run_id,omitempty"`
	Shots    int           `json:"shots"`
	Seed     int64         `json:"seed"`
	Qubits   int           `json:"qubits"`
	Outcomes []jsonOutcome `json:"outcomes"`
	Log      []string      `json:"log,omitempty"`
}

// writeJSON prints a run as one JSON document.
func writeJSON(w io.Writer, out runOutcome) error {
	res := out.Result
	doc := jsonReport{
		Name:   out.Name,
		RunID:  out.RunID,
		Shots:  res.Shots,
		Seed:   res.Seed,
		Qubits: res.QubitCount,
		Log:    res.Log,
	}
	for _, o := range res.Outcomes() {
		doc.Outcomes = append(doc.Outcomes, jsonOutcome{
			Label:    o.Label,
			Count:    o.Count,
			Fraction: float64(o.Count) / float64(res.Shots),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// writeHistory lists recorded runs, newest first.
func writeHistory(w io.Writer, runs []history.Run) error {
	if len(runs) == 0 {
		_, err := io.WriteString(w, "no recorded runs\n")
		return err
	}
	var sb strings.Builder
	for _, r := range runs {
		best, bestCount := 0, -1
		for i, c := range r.Histogram {
			if c > bestCount {
				best, bestCount = i, c
			}
		}
		fmt.Fprintf(&sb, "%s  %s  %-16s %8s shots  %2d qubits  seed %-20d top %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Name, printer.Sprintf("%d", r.Shots),
			r.QubitCount, r.Seed, qcengine.FormatOutcome(best, r.QubitCount))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
