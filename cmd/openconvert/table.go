package main

import (
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"openconvert/internal/render"
)

// renderQueueView renders the queue view as a table. Non-terminal writers get
// the plain ASCII style so piped output stays grep-friendly.
func renderQueueView(view render.View) string {
	tw := table.NewWriter()
	if isTerminal(os.Stdout) {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	tw.AppendHeader(table.Row{"#", "FILE", "SOURCE", "TARGET", "STATUS", "NOTES"})
	for _, row := range view.Rows {
		tw.AppendRow(table.Row{
			row.Position,
			row.FileName,
			row.SourceLabel,
			targetCell(row),
			row.StatusLabel,
			noteCell(row),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	var out strings.Builder
	if view.Banner != "" {
		out.WriteString(view.Banner)
		out.WriteString("\n")
	}
	out.WriteString(tw.Render())
	return out.String()
}

func targetCell(row render.Row) string {
	if row.Target != "" {
		return row.Target
	}
	options := make([]string, 0, len(row.TargetOptions))
	for _, option := range row.TargetOptions {
		options = append(options, option.Value)
	}
	if len(options) == 0 {
		return "-"
	}
	return "? (" + strings.Join(options, "|") + ")"
}

func noteCell(row render.Row) string {
	switch {
	case row.Message != "":
		return row.Message
	case row.ShowDownload:
		return row.OutputFileName
	default:
		return ""
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
