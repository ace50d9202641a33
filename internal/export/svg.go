package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/erbbfit/internal/storage"
)

var seriesColors = []string{"#ff5555", "#50fa7b", "#8be9fd", "#f1fa8c", "#bd93f9"}

// FitPlotSVG renders a calibration run as SVG: experimental points as
// circles, the initial trajectory as a dashed polyline and the fitted
// trajectory as a solid polyline, one color per observable.
func FitPlotSVG(tr *storage.Trajectories, width, height int) string {
	if tr == nil || len(tr.Times) < 2 {
		return ""
	}

	minT, maxT := tr.Times[0], tr.Times[len(tr.Times)-1]
	rangeT := maxT - minT
	if rangeT == 0 {
		rangeT = 1
	}
	// normalized curves live in [0,1]; pad the vertical axis
	minY, maxY := -0.05, 1.05
	rangeY := maxY - minY

	pad := 10.0
	plotW := float64(width) - 2*pad
	plotH := float64(height) - 2*pad

	toX := func(t float64) float64 { return pad + (t-minT)/rangeT*plotW }
	toY := func(v float64) float64 { return pad + plotH - (v-minY)/rangeY*plotH }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for j, name := range tr.Names {
		color := seriesColors[j%len(seriesColors)]

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1" stroke-dasharray="4 3" d="`, color))
		writePath(&sb, tr.Times, tr.Initial, j, toX, toY)
		sb.WriteString("\"/>\n")

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, color))
		writePath(&sb, tr.Times, tr.Fitted, j, toX, toY)
		sb.WriteString("\"/>\n")

		sb.WriteString(fmt.Sprintf(`<g fill="%s">`, color))
		for i, t := range tr.Times {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="2.5"/>`, toX(t), toY(tr.Data[i][j])))
		}
		sb.WriteString("</g>\n")

		sb.WriteString(fmt.Sprintf(`<text x="%.0f" y="%.0f" fill="%s" font-family="monospace" font-size="11">%s</text>
`, pad+4, pad+14+float64(j)*14, color, name))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writePath(sb *strings.Builder, times []float64, series [][]float64, col int, toX, toY func(float64) float64) {
	for i, t := range times {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("M%.1f,%.1f", toX(t), toY(series[i][col])))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", toX(t), toY(series[i][col])))
		}
	}
}
