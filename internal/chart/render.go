package chart

import (
	"fmt"
	"io"
	"strings"
)

// Renderer geometry. Prices plot into the top band, volume bars into the
// bottom band, with a shared horizontal time axis.
const (
	svgWidth     = 1000
	svgHeight    = 600
	priceTop     = 20
	priceBottom  = 430
	volumeTop    = 460
	volumeBottom = 580
	marginLeft   = 60
	marginRight  = 20
)

// Zone band colors: the last (tightest) zone is drawn stronger.
const (
	zoneFill      = "#fbbf24"
	zoneFillFinal = "#f59e0b"
	priceStroke   = "#2563eb"
	volumeFill    = "#6b7280"
)

// RenderSVG writes a close-price line with volume bars and highlighted
// contraction zones as a standalone SVG document.
func RenderSVG(symbol string, series []PriceBar, zones []Zone, w io.Writer) error {
	if len(series) == 0 {
		return fmt.Errorf("series must contain at least one data point")
	}

	minClose, maxClose := series[0].Close, series[0].Close
	maxVolume := 0.0
	for _, point := range series {
		if point.Close < minClose {
			minClose = point.Close
		}
		if point.Close > maxClose {
			maxClose = point.Close
		}
		if point.Volume > maxVolume {
			maxVolume = point.Volume
		}
	}
	if maxClose == minClose {
		maxClose = minClose + 1
	}
	if maxVolume == 0 {
		maxVolume = 1
	}

	plotWidth := float64(svgWidth - marginLeft - marginRight)
	step := plotWidth / float64(len(series))

	x := func(idx int) float64 {
		return marginLeft + (float64(idx)+0.5)*step
	}
	y := func(close float64) float64 {
		scale := (close - minClose) / (maxClose - minClose)
		return priceBottom - scale*float64(priceBottom-priceTop)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		svgWidth, svgHeight, svgWidth, svgHeight)
	b.WriteString(`<rect width="100%" height="100%" fill="white"/>`)
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-family="sans-serif" font-size="16">%s</text>`,
		marginLeft, priceTop-4, escapeXML(symbol))

	// Zone bands go under the price line.
	for i, zone := range zones {
		fill := zoneFill
		if i == len(zones)-1 {
			fill = zoneFillFinal
		}
		x0 := x(zone.Start)
		x1 := x(zone.End)
		yHigh := y(zone.High)
		yLow := y(zone.Low)
		fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="0.15"/>`,
			x0, yHigh, x1-x0, yLow-yHigh, fill)
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1"/>`,
			x0, yHigh, x1, yHigh, fill)
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1"/>`,
			x0, yLow, x1, yLow, fill)
	}

	points := make([]string, len(series))
	for idx, point := range series {
		points[idx] = fmt.Sprintf("%.1f,%.1f", x(idx), y(point.Close))
	}
	fmt.Fprintf(&b, `<polyline points="%s" fill="none" stroke="%s" stroke-width="2"/>`,
		strings.Join(points, " "), priceStroke)

	barWidth := step * 0.8
	for idx, point := range series {
		if point.Volume <= 0 {
			continue
		}
		height := point.Volume / maxVolume * float64(volumeBottom-volumeTop)
		fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`,
			x(idx)-barWidth/2, float64(volumeBottom)-height, barWidth, height, volumeFill)
	}

	// Axis labels: first and last date.
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-family="sans-serif" font-size="11">%s</text>`,
		marginLeft, svgHeight-5, series[0].Time.Format("2006-01-02"))
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-family="sans-serif" font-size="11" text-anchor="end">%s</text>`,
		svgWidth-marginRight, svgHeight-5, series[len(series)-1].Time.Format("2006-01-02"))

	b.WriteString(`</svg>`)

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeXML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return replacer.Replace(s)
}
