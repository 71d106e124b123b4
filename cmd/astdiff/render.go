package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sumatoshi-tech/astdiff/pkg/actions"
	"github.com/Sumatoshi-tech/astdiff/pkg/diff"
	"github.com/Sumatoshi-tech/astdiff/pkg/matcher"
)

// percentMax is the scale for the mapped-node coverage figure.
const percentMax = 100

func renderMappings(writer io.Writer, store *matcher.Store) {
	for _, m := range store.Mappings() {
		fmt.Fprintln(writer, m.String())
	}
}

func renderScript(writer io.Writer, script *actions.EditScript) {
	for _, a := range script.Actions() {
		renderAction(writer, a)
	}
}

func renderAction(writer io.Writer, a actions.Action) {
	actionColor(a.Kind).Fprintln(writer, a.String())

	if a.Kind == actions.UpdateNode {
		fmt.Fprintf(writer, "  label: %s\n", renderLabelDiff(a.Node.Label(), a.Value))
	}
}

func actionColor(kind actions.Kind) *color.Color {
	switch kind {
	case actions.InsertNode, actions.InsertTree:
		return color.New(color.FgGreen)
	case actions.DeleteNode, actions.DeleteTree:
		return color.New(color.FgRed)
	case actions.MoveTree:
		return color.New(color.FgCyan)
	case actions.UpdateNode:
		return color.New(color.FgYellow)
	default:
		return color.New(color.Reset)
	}
}

// renderLabelDiff shows the character-level change between two labels,
// deleted runs red and inserted runs green.
func renderLabelDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))

	var builder strings.Builder

	for _, segment := range diffs {
		switch segment.Type {
		case diffmatchpatch.DiffDelete:
			builder.WriteString(color.New(color.FgRed).Sprintf("[-%s]", segment.Text))
		case diffmatchpatch.DiffInsert:
			builder.WriteString(color.New(color.FgGreen).Sprintf("[+%s]", segment.Text))
		case diffmatchpatch.DiffEqual:
			builder.WriteString(segment.Text)
		}
	}

	return builder.String()
}

func renderMatchStats(writer io.Writer, res *diff.Result) {
	srcSize := res.Src.Root().Metrics().Size
	dstSize := res.Dst.Root().Metrics().Size
	mapped := res.Mappings.Size()

	coverage := 0
	if srcSize > 0 {
		coverage = mapped * percentMax / srcSize
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(writer)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false

	tbl.AppendHeader(table.Row{"", "src", "dst"})
	tbl.AppendRow(table.Row{"nodes", humanize.Comma(int64(srcSize)), humanize.Comma(int64(dstSize))})
	tbl.AppendRow(table.Row{"height", res.Src.Root().Metrics().Height, res.Dst.Root().Metrics().Height})
	tbl.AppendFooter(table.Row{"mapped", humanize.Comma(int64(mapped)), fmt.Sprintf("%d%%", coverage)})
	tbl.Render()
}
