package planfile

import (
	"fmt"
	"strings"

	"github.com/ha1tch/gasplan/pkg/plan"
)

var kindShape = map[plan.ItemKind]string{
	plan.KindSource:   "doublecircle",
	plan.KindTerminal: "box",
	plan.KindValve:    "diamond",
}

// GenerateDOT writes the pipe network as an undirected Graphviz graph: one
// node per item and one edge per routed pipe, coloured by gas layer and
// labelled with its length.
func GenerateDOT(d *plan.Document, r plan.Router, title string) string {
	var sb strings.Builder

	sb.WriteString("graph plan {\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		fmt.Fprintf(&sb, "    label=\"%s\";\n", escapeDOT(title))
		sb.WriteString("\n")
	}

	for _, it := range d.Items() {
		fmt.Fprintf(&sb, "    \"%s\" [shape=%s, label=\"%s\"];\n",
			escapeDOT(it.ID), kindShape[it.Kind], escapeDOT(it.Label))
	}
	sb.WriteString("\n")

	for _, c := range d.Connections() {
		route, ok := r.Route(d, c)
		if !ok {
			continue
		}
		attrs := []string{
			fmt.Sprintf("color=\"%s\"", layerHex[c.Layer]),
			fmt.Sprintf("label=\"%s\"", formatLength(route.Length)),
		}
		if route.OverLength {
			attrs = append(attrs, "style=bold", "fontcolor=\""+hexOverLength+"\"")
		}
		fmt.Fprintf(&sb, "    \"%s\" -- \"%s\" [%s];\n",
			escapeDOT(c.Start), escapeDOT(c.End), strings.Join(attrs, ", "))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
