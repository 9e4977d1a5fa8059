package views

import (
	"context"
	"fmt"

	"github.com/a-h/templ"

	"github.com/jonathan/talent-match/internal/ranking"
	"github.com/jonathan/talent-match/internal/types"
)

// SVG geometry for the histogram chart
const (
	chartWidth  = 640
	chartHeight = 280
	marginLeft  = 40
	marginRight = 16
	marginTop   = 28
	marginBot   = 36
)

// Histogram renders the match-rate distribution as an inline SVG bar chart
func Histogram(bins []types.HistogramBin) templ.Component {
	return component(func(_ context.Context, w *writer) {
		if len(bins) == 0 {
			return
		}

		plotW := float64(chartWidth - marginLeft - marginRight)
		plotH := float64(chartHeight - marginTop - marginBot)
		barW := plotW / float64(len(bins))
		peak := ranking.MaxCount(bins)

		w.rawf(`<svg class="histogram" viewBox="0 0 %d %d" width="%d" height="%d" role="img">`,
			chartWidth, chartHeight, chartWidth, chartHeight)
		w.rawf(`<text x="%d" y="18" font-size="14" font-weight="600">Distribution of Talent Match Scores</text>`, marginLeft)

		baseY := float64(marginTop) + plotH
		w.rawf(`<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#888"/>`, marginLeft, baseY, chartWidth-marginRight, baseY)
		w.rawf(`<text x="4" y="%d" font-size="11">%d</text>`, marginTop+10, peak)

		for i, b := range bins {
			h := 0.0
			if peak > 0 {
				h = plotH * float64(b.Count) / float64(peak)
			}
			x := float64(marginLeft) + float64(i)*barW
			w.rawf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#4c78a8">`, x+1, baseY-h, barW-2, h)
			w.raw(`<title>`)
			w.text(fmt.Sprintf("%.2f - %.2f: %d", b.Lower, b.Upper, b.Count))
			w.raw(`</title></rect>`)
		}

		w.rawf(`<text x="%d" y="%d" font-size="11">%.1f</text>`, marginLeft, chartHeight-marginBot+16, bins[0].Lower)
		w.rawf(`<text x="%d" y="%d" font-size="11" text-anchor="end">%.1f</text>`,
			chartWidth-marginRight, chartHeight-marginBot+16, bins[len(bins)-1].Upper)
		w.rawf(`<text x="%d" y="%d" font-size="11" text-anchor="middle">final_match_rate</text>`,
			marginLeft+int(plotW)/2, chartHeight-6)
		w.raw(`</svg>`)
	})
}
