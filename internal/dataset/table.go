// Package dataset holds the small in-memory tables of texts that get scored
// and labeled.
package dataset

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

const ScoreColumn = "scores"

type Row struct {
	Text   string
	Score  float64
	Label  string
	Scored bool
}

type Table struct {
	TextColumn  string
	LabelColumn string
	Rows        []Row
}

func NewTable(textColumn, labelColumn string, texts []string) *Table {
	rows := make([]Row, len(texts))
	for i, text := range texts {
		rows[i] = Row{Text: text}
	}
	return &Table{
		TextColumn:  textColumn,
		LabelColumn: labelColumn,
		Rows:        rows,
	}
}

func (t *Table) Len() int { return len(t.Rows) }

func (t *Table) Texts() []string {
	texts := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		texts[i] = row.Text
	}
	return texts
}

func (t *Table) Scores() []float64 {
	scores := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		scores[i] = row.Score
	}
	return scores
}

func (t *Table) SetScores(scores []float64) error {
	if len(scores) != len(t.Rows) {
		return fmt.Errorf("table has %d rows but got %d scores", len(t.Rows), len(scores))
	}
	for i, score := range scores {
		t.Rows[i].Score = score
		t.Rows[i].Scored = true
	}
	return nil
}

func (t *Table) SetLabels(labels []string) error {
	if len(labels) != len(t.Rows) {
		return fmt.Errorf("table has %d rows but got %d labels", len(t.Rows), len(labels))
	}
	for i, label := range labels {
		t.Rows[i].Label = label
	}
	return nil
}

// Print writes the table with an index column. Score and label columns are
// only printed once every row has been scored.
func (t *Table) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	scored := t.Len() > 0
	for _, row := range t.Rows {
		scored = scored && row.Scored
	}

	header := "\t" + t.TextColumn
	if scored {
		header += "\t" + ScoreColumn + "\t" + t.LabelColumn
	}
	fmt.Fprintln(tw, header)

	for i, row := range t.Rows {
		line := strconv.Itoa(i) + "\t" + row.Text
		if scored {
			line += "\t" + strconv.FormatFloat(row.Score, 'f', 6, 64) + "\t" + row.Label
		}
		fmt.Fprintln(tw, line)
	}

	return tw.Flush()
}
