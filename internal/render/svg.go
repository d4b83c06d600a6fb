package render

import (
	"io"
	"strconv"

	svg "github.com/ajstarks/svgo"
	"github.com/pbaille/witness/internal/domain"
)

// Artifact geometry. The charts are pure functions of the history: the same
// input always yields the same coordinate sequence.
const (
	timelineWidth  = 800
	timelineHeight = 400
	timelinePad    = 40

	ringsWidth     = 400
	ringsHeight    = 400
	ringBaseRadius = 20
)

// ringPalette cycles by snapshot index.
var ringPalette = []string{"#333", "#444", "#555", "#666", "#777", "#888"}

const (
	titleStyle = "font:14px sans-serif;fill:#333;text-anchor:middle"
	labelStyle = "font:10px sans-serif;fill:#aaa;text-anchor:middle"
	axisStyle  = "stroke:#666;stroke-width:1"
	lineStyle  = "fill:none;stroke:#4a9;stroke-width:2"
	pointStyle = "fill:#4a9"
)

type timelinePoint struct {
	X, Y  int
	Date  string
	Count int
}

// timelinePoints maps the history onto chart coordinates. A single snapshot
// sits centered on the x axis instead of degenerating into a zero-width line.
func timelinePoints(history []domain.Snapshot) []timelinePoint {
	chartW := timelineWidth - 2*timelinePad
	chartH := timelineHeight - 2*timelinePad
	max := maxCount(history)

	pts := make([]timelinePoint, len(history))
	for i, snap := range history {
		x := timelinePad + chartW/2
		if len(history) > 1 {
			x = timelinePad + i*chartW/(len(history)-1)
		}
		count := len(snap.Layers)
		y := timelineHeight - timelinePad - count*chartH/max
		pts[i] = timelinePoint{X: x, Y: y, Date: snap.Date, Count: count}
	}
	return pts
}

// Timeline renders the cumulative layer count per snapshot date. An empty
// history produces a placeholder canvas rather than an error.
func Timeline(w io.Writer, history []domain.Snapshot) {
	canvas := svg.New(w)
	canvas.Start(timelineWidth, timelineHeight)

	if len(history) == 0 {
		canvas.Text(timelineWidth/2, timelineHeight/2, "No growth history", titleStyle)
		canvas.End()
		return
	}

	canvas.Text(timelineWidth/2, 20, "Field Growth Timeline", titleStyle)
	canvas.Line(timelinePad, timelinePad, timelinePad, timelineHeight-timelinePad, axisStyle)
	canvas.Line(timelinePad, timelineHeight-timelinePad, timelineWidth-timelinePad, timelineHeight-timelinePad, axisStyle)

	pts := timelinePoints(history)
	if len(pts) > 1 {
		xs := make([]int, len(pts))
		ys := make([]int, len(pts))
		for i, p := range pts {
			xs[i] = p.X
			ys[i] = p.Y
		}
		canvas.Polyline(xs, ys, lineStyle)
	}

	for _, p := range pts {
		canvas.Circle(p.X, p.Y, 4, pointStyle)
		canvas.Text(p.X, timelineHeight-timelinePad+15, p.Date, labelStyle)
		canvas.Text(p.X, p.Y-5, strconv.Itoa(p.Count), labelStyle)
	}

	max := maxCount(history)
	chartH := timelineHeight - 2*timelinePad
	step := max / 5
	if step < 1 {
		step = 1
	}
	for i := 0; i <= max; i += step {
		y := timelineHeight - timelinePad - i*chartH/max
		canvas.Text(timelinePad-10, y+3, strconv.Itoa(i), "font:10px sans-serif;fill:#aaa;text-anchor:end")
	}

	canvas.End()
}

type ring struct {
	Radius int
	Color  string
	Date   string
	Count  int
}

// ringGeometry maps the history onto concentric rings, innermost earliest.
// Radius grows with layer count so growth reads as outward expansion.
func ringGeometry(history []domain.Snapshot) []ring {
	maxRadius := ringsWidth/2 - 20
	max := maxCount(history)

	rings := make([]ring, len(history))
	for i, snap := range history {
		count := len(snap.Layers)
		rings[i] = ring{
			Radius: ringBaseRadius + count*(maxRadius-ringBaseRadius)/max,
			Color:  ringPalette[i%len(ringPalette)],
			Date:   snap.Date,
			Count:  count,
		}
	}
	return rings
}

// Rings renders one concentric ring per snapshot, tree-ring style.
func Rings(w io.Writer, history []domain.Snapshot) {
	canvas := svg.New(w)
	canvas.Start(ringsWidth, ringsHeight)

	if len(history) == 0 {
		canvas.Text(ringsWidth/2, ringsHeight/2, "No growth history", titleStyle)
		canvas.End()
		return
	}

	cx, cy := ringsWidth/2, ringsHeight/2
	canvas.Text(cx, 15, "Field Growth Rings", "font:12px sans-serif;fill:#333;text-anchor:middle")

	for _, r := range ringGeometry(history) {
		canvas.Circle(cx, cy, r.Radius, "fill:none;stroke-width:3;stroke:"+r.Color)
		label := r.Date + " (" + strconv.Itoa(r.Count) + ")"
		canvas.Text(cx+r.Radius+10, cy+3, label, "font:9px sans-serif;fill:#666;text-anchor:start")
	}

	canvas.End()
}

// maxCount never returns less than 1, keeping all-zero histories renderable.
func maxCount(history []domain.Snapshot) int {
	max := 1
	for _, snap := range history {
		if n := len(snap.Layers); n > max {
			max = n
		}
	}
	return max
}
