// Package report prints optimized lineups.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/stitts-dev/nba-lineup/internal/optimizer"
)

const (
	FormatPlain = "plain"
	FormatTable = "table"
	FormatJSON  = "json"
)

// InfeasibleMessage is printed when no lineup satisfies the rules.
const InfeasibleMessage = "The problem does not have an optimal solution!"

func Formats() []string {
	return []string{FormatPlain, FormatTable, FormatJSON}
}

// Write renders result in the named format.
func Write(w io.Writer, format string, result *optimizer.Result) error {
	switch format {
	case "", FormatPlain:
		return WritePlain(w, result)
	case FormatTable:
		return WriteTable(w, result)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WritePlain prints the model size, one "First Last FPPG" line per selected
// player and the objective value.
func WritePlain(w io.Writer, result *optimizer.Result) error {
	if _, err := fmt.Fprintf(w, "Number of variables = %d\n", result.NumVariables); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Number of constraints = %d\n", result.NumConstraints); err != nil {
		return err
	}
	for _, p := range result.Lineup.Players {
		if _, err := fmt.Fprintf(w, "%s %s %.2f\n", p.FirstName, p.LastName, p.FPPG); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Optimal objective value = %f\n", result.Objective)
	return err
}

func WriteTable(w io.Writer, result *optimizer.Result) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Pos", "Player", "Salary", "FPPG", "Projection", "Source"})
	for _, p := range result.Lineup.Players {
		t.AppendRow(table.Row{
			p.Position,
			p.FullName(),
			p.Salary,
			fmt.Sprintf("%.2f", p.FPPG),
			fmt.Sprintf("%.2f", p.ModelFPPG),
			p.ProjectionSource,
		})
	}
	t.AppendFooter(table.Row{"", "Total", result.Lineup.TotalSalary, fmt.Sprintf("%.2f", result.Lineup.BaselinePoints()), fmt.Sprintf("%.2f", result.Objective), ""})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 5, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()
	_, err := fmt.Fprintf(w, "%d variables, %d constraints, %d nodes\n", result.NumVariables, result.NumConstraints, result.Nodes)
	return err
}
