package report

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nhle/worktimer/internal/model"
	"github.com/nhle/worktimer/internal/theme"
	"github.com/nhle/worktimer/internal/worktime"
)

// timeLayout matches the log timestamp layout.
const timeLayout = "02-Jan-06 15:04:05"

// StatesTable renders a snapshot as a table of issue, state and the
// time the state was entered. States of the rule's transition are
// highlighted.
func StatesTable(snap *model.Snapshot, rule worktime.Rule) string {
	rows := make([][]string, 0, snap.Len())
	states := make([]string, 0, snap.Len())

	for _, id := range snap.IDs() {
		st, _ := snap.Get(id)
		label := st.ReadableID
		if label == "" {
			label = id
		}
		rows = append(rows, []string{label, st.State, since(st)})
		states = append(states, st.State)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorder)).
		Headers("ISSUE", "STATE", "SINCE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.HeaderStyle
			}
			if col == 1 && row >= 0 && row < len(states) {
				return theme.StateStyle(states[row], rule.From, rule.To)
			}
			return theme.CellStyle
		})

	return t.Render()
}

func since(st model.IssueState) string {
	if !st.HasTimestamp() {
		return "-"
	}
	return st.ChangedAt().In(time.Local).Format(timeLayout)
}
