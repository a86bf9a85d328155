package graph

import (
	"html"
	"strings"
	"time"

	"github.com/groblegark/depgraph/internal/model"
)

// summaryWrapWidth is where node summaries wrap inside the label table.
const summaryWrapWidth = 40

// tierColors maps a priority tier to its node fill color.
var tierColors = map[model.Tier]string{
	model.TierBlocker:       "#ff6b6b",
	model.TierCritical:      "#ff9f43",
	model.TierMajor:         "#ffd93d",
	model.TierMinor:         "#74b9ff",
	model.TierUnprioritized: "#dfe4ea",
	model.TierUnknown:       "#f5f6fa",
}

func tierColor(t model.Tier) string {
	if c, ok := tierColors[t]; ok {
		return c
	}
	return tierColors[model.TierUnknown]
}

// Node renders one retained issue as a DOT node statement. Pure formatting:
// missing fields come out as empty cells, never errors.
func Node(issue *model.Issue) string {
	return quote(issue.Key) +
		" [label=<" + nodeLabel(issue) + ">" +
		", href=" + quote(issue.Link) +
		", tooltip=" + quote(issue.Summary) + "]"
}

// nodeLabel builds the HTML-like label table: key and priority on the first
// row, assignee on the second, the wrapped summary on the third.
func nodeLabel(issue *model.Issue) string {
	var sb strings.Builder
	sb.WriteString(`<table border="1" cellborder="0" cellspacing="0" cellpadding="3" bgcolor="`)
	sb.WriteString(tierColor(model.ClassifyPriority(issue.Priority)))
	sb.WriteString(`">`)
	sb.WriteString(`<tr><td align="left"><b>`)
	sb.WriteString(html.EscapeString(issue.Key))
	sb.WriteString(`</b></td><td align="right">`)
	sb.WriteString(html.EscapeString(issue.Priority))
	sb.WriteString(`</td></tr>`)
	sb.WriteString(`<tr><td align="left" colspan="2">`)
	sb.WriteString(html.EscapeString(issue.Assignee))
	sb.WriteString(`</td></tr>`)
	sb.WriteString(`<tr><td align="left" colspan="2">`)
	for i, line := range wrapWords(issue.Summary, summaryWrapWidth) {
		if i > 0 {
			sb.WriteString("<br/>")
		}
		sb.WriteString(html.EscapeString(line))
	}
	sb.WriteString(`</td></tr></table>`)
	return sb.String()
}

// Render assembles the complete DOT document for a traversal result: header,
// nodes in traversal order, resolved edges, and a trailer labeling the graph
// with the root key and timestamp. The caller writes the bytes out; nothing
// touches the filesystem here.
func Render(res *Result, notes map[string]string, now time.Time) []byte {
	var sb strings.Builder

	sb.WriteString("digraph " + quote(res.Root) + " {\n")
	sb.WriteString("    rankdir=LR\n")
	sb.WriteString("    ranksep=1.0\n")
	sb.WriteString("    nodesep=0.5\n")
	sb.WriteString("    node [shape=plaintext, fontname=\"Helvetica\", fontsize=11]\n")
	sb.WriteString("\n")

	for _, issue := range res.Issues {
		sb.WriteString("    " + Node(issue) + "\n")
	}
	sb.WriteString("\n")

	for _, e := range res.Edges(notes) {
		sb.WriteString("    " + quote(e.Source) + "->" + quote(e.Target))
		if e.Note != "" {
			sb.WriteString(" " + e.Note)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString("    label=" + quote(res.Root+" as of "+now.Format("2006-01-02 15:04")) + "\n")
	sb.WriteString("    tooltip=" + quote("dependency graph for "+res.Root) + "\n")
	sb.WriteString("}\n")

	return []byte(sb.String())
}

// Helper functions

// quote wraps s in double quotes for use as a DOT ID or attribute value.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// wrapWords greedily wraps s at word boundaries. A word longer than width
// gets a line of its own. Empty input wraps to nothing.
func wrapWords(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}
