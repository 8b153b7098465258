// ABOUTME: Weekly activity bar chart geometry and SVG rendering
// ABOUTME: Invalid activity data is an error so callers can omit the chart
package render

import (
	"fmt"

	"github.com/harperreed/friendlog/models"
)

const (
	chartWidth   = 560
	chartHeight  = 220
	chartPadding = 24
	labelSpace   = 20
)

// Bar is one column of the weekly chart.
type Bar struct {
	Label  string
	Value  int
	X      int
	Y      int
	Width  int
	Height int
}

// Center is the x coordinate of the bar's midline.
func (b Bar) Center() int {
	return b.X + b.Width/2
}

// Chart is the laid-out weekly chart.
type Chart struct {
	Width  int
	Height int
	Base   int
	LabelY int
	Bars   []Bar
}

// LayoutChart scales the activity into bars.
func LayoutChart(w models.WeeklyActivity) (Chart, error) {
	if err := w.Validate(); err != nil {
		return Chart{}, fmt.Errorf("invalid weekly activity: %w", err)
	}

	c := Chart{Width: chartWidth, Height: chartHeight, Base: chartHeight - labelSpace, LabelY: chartHeight - 4}
	if len(w.Data) == 0 {
		return c, nil
	}

	plot := c.Base - chartPadding
	slot := (chartWidth - 2*chartPadding) / len(w.Data)
	barWidth := slot * 3 / 5
	peak := w.Max()

	for i, v := range w.Data {
		h := 0
		if peak > 0 {
			h = v * plot / peak
		}
		c.Bars = append(c.Bars, Bar{
			Label:  w.Labels[i],
			Value:  v,
			X:      chartPadding + i*slot + (slot-barWidth)/2,
			Y:      c.Base - h,
			Width:  barWidth,
			Height: h,
		})
	}
	return c, nil
}
