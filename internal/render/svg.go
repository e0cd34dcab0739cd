package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
)

// LinkStroke is the line colour for links
const LinkStroke = "grey"

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// finite maps NaN and infinities to 0 so the document stays well formed
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// WriteSVG draws f as a standalone SVG document: lines first, then one
// group per node holding its circle and label
func WriteSVG(w io.Writer, f Frame) error {
	var svg bytes.Buffer

	svg.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&svg, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" style="background-color: %s">`+"\n",
		f.Width, f.Height, escapeXML(f.Background))

	svg.WriteString(`  <g class="links">` + "\n")
	for _, l := range f.Links {
		fmt.Fprintf(&svg, `    <line class="link" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`+"\n",
			finite(l.X1), finite(l.Y1), finite(l.X2), finite(l.Y2), LinkStroke)
	}
	svg.WriteString("  </g>\n")

	svg.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range f.Nodes {
		visibility := "hidden"
		if n.LabelVisible {
			visibility = "visible"
		}
		fmt.Fprintf(&svg, `    <g data-id="%s" transform="translate(%.2f,%.2f)">`+"\n",
			escapeXML(n.ID.String()), finite(n.X), finite(n.Y))
		fmt.Fprintf(&svg, `      <circle class="node" r="%g" fill="%s"/>`+"\n", n.Size, escapeXML(n.Color))
		fmt.Fprintf(&svg, `      <text class="hover-text" dx="%g" dy="%g" visibility="%s">%s</text>`+"\n",
			LabelDX, LabelDY, visibility, escapeXML(n.Text))
		svg.WriteString("    </g>\n")
	}
	svg.WriteString("  </g>\n")
	svg.WriteString("</svg>\n")

	_, err := w.Write(svg.Bytes())
	return err
}

// WriteSVG draws the scene's current frame
func (s *Scene) WriteSVG(w io.Writer) error {
	return WriteSVG(w, s.Frame())
}
