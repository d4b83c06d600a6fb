package render

import (
	"fmt"
	"strings"

	"github.com/pbaille/witness/internal/domain"
)

// Stacked diagram geometry: each layer is drawn wider than the one above it.
const (
	diagramWidth  = 420
	layerHeight   = 40
	layerGap      = 15
	baseBoxWidth  = 200
	boxWidthStep  = 40
	diagramStartY = 15
)

// Diagram renders the stacked architecture diagram for the current layer
// set. Assembled by hand rather than through svgo because the result embeds
// inside a text document and must not carry an XML prolog. The canvas height
// follows the layer count, so the stack never overflows.
func Diagram(layers []domain.Layer) string {
	centerX := diagramWidth / 2
	arrowY := diagramStartY + len(layers)*(layerHeight+layerGap)
	height := arrowY + 45

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		diagramWidth, height, diagramWidth, height)
	b.WriteString("  <style>\n")
	b.WriteString("    .lbl{font:10px sans-serif;fill:#fff;text-anchor:middle}\n")
	b.WriteString("    .box{rx:10;ry:10;stroke:#222;stroke-width:1.2}\n")
	b.WriteString("  </style>\n")

	y := diagramStartY
	for i, layer := range layers {
		boxWidth := baseBoxWidth + i*boxWidthStep
		x := centerX - boxWidth/2
		fill := layer.Color
		if fill == "" {
			fill = domain.DefaultColor
		}
		fmt.Fprintf(&b, `  <rect x="%d" y="%d" width="%d" height="%d" class="box" fill="%s"/>`+"\n",
			x, y, boxWidth, layerHeight, fill)
		fmt.Fprintf(&b, `  <text x="%d" y="%d" class="lbl">%s</text>`+"\n",
			centerX, y+layerHeight/2+5, escapeText(layer.Name))
		y += layerHeight + layerGap
	}

	arrowEndY := arrowY + 25
	fmt.Fprintf(&b, `  <path d="M%d %dv%d" stroke="#777" stroke-width="2" marker-end="url(#arrow)"/>`+"\n",
		centerX, arrowY, arrowEndY-arrowY)
	b.WriteString("  <defs>\n")
	b.WriteString(`    <marker id="arrow" viewBox="0 0 10 10" refX="6" refY="5" markerWidth="4" markerHeight="4" orient="auto-start-reverse">` + "\n")
	b.WriteString(`      <path d="M 0 0 L 10 5 L 0 10 z" fill="#777"/>` + "\n")
	b.WriteString("    </marker>\n")
	b.WriteString("  </defs>\n")
	fmt.Fprintf(&b, `  <text x="%d" y="%d" font-size="9" fill="#aaa" text-anchor="middle">Reversible Flow (&gt; &lt; =)</text>`+"\n",
		centerX, arrowEndY+5)
	b.WriteString("</svg>")

	return b.String()
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
