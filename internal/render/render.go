// Package render draws the three-panel daily report image: a donut chart of
// activity proportions, an activity-name column, and a duration column.
package render

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"

	"timeglance/internal/report"
)

const (
	canvasWidth  = 1200
	canvasHeight = 500
	panelWidth   = canvasWidth / 3

	// ring width as a fraction of the outer radius
	ringFraction = 0.17

	headerY  = 0.75
	rowPitch = 0.10

	fontDPI        = 100
	totalFontSize  = 32
	headerFontSize = 14
	rowFontSize    = 12
)

var (
	white  = color.White
	silver = color.RGBA{R: 0xc0, G: 0xc0, B: 0xc0, A: 0xff}
	shadow = color.RGBA{A: 0x80}
)

// RowY is the normalized vertical position of row i in the label and
// duration panels. Both panels use the same positions so their rows align
// exactly.
func RowY(i int) float64 {
	return 0.65 - float64(i)*rowPitch
}

// Daily renders the summary for a date and writes it to path, overwriting
// any existing file. An empty summary produces a valid image with only the
// background, headers, and a zero total.
func Daily(s report.Summary, faceColor, path string) error {
	bg, err := parseHexColor(faceColor)
	if err != nil {
		return fmt.Errorf("background color: %w", err)
	}
	wedges := make([]color.Color, len(s.Colors))
	for i, c := range s.Colors {
		if wedges[i], err = parseHexColor(c); err != nil {
			return fmt.Errorf("activity %q: %w", s.Labels[i], err)
		}
	}

	dc := gg.NewContext(canvasWidth, canvasHeight)
	dc.SetColor(bg)
	dc.Clear()

	if err := drawDonut(dc, s, wedges); err != nil {
		return err
	}
	if err := drawLabelColumn(dc, s, wedges); err != nil {
		return err
	}
	if err := drawDurationColumn(dc, s, wedges); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create image directory: %w", err)
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	return nil
}

// drawDonut fills panel 0 with the proportional ring and the total duration
// in the center.
func drawDonut(dc *gg.Context, s report.Summary, wedges []color.Color) error {
	cx := float64(panelWidth) / 2
	cy := float64(canvasHeight) / 2
	outer := 0.40 * float64(canvasHeight)
	inner := outer * (1 - ringFraction)

	if s.TotalMinutes > 0 {
		angle := 0.0
		for i, d := range s.Durations {
			sweep := 2 * math.Pi * (d / s.TotalMinutes)
			// negative direction: counterclockwise on a y-down canvas
			next := angle - sweep
			dc.NewSubPath()
			dc.DrawArc(cx, cy, outer, angle, next)
			dc.DrawArc(cx, cy, inner, next, angle)
			dc.ClosePath()
			dc.SetColor(wedges[i])
			dc.Fill()
			angle = next
		}
	}

	face, err := boldFace(totalFontSize)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.SetColor(white)
	dc.DrawStringAnchored(report.FormatMinutes(s.TotalMinutes), cx, cy, 0.5, 0.5)
	return nil
}

// drawLabelColumn fills panel 1 with a header and one marker+name row per
// activity.
func drawLabelColumn(dc *gg.Context, s report.Summary, wedges []color.Color) error {
	headerFace, err := boldFace(headerFontSize)
	if err != nil {
		return err
	}
	rowFace, err := boldFace(rowFontSize)
	if err != nil {
		return err
	}

	dc.SetFontFace(headerFace)
	dc.SetColor(silver)
	x, y := panelPoint(1, 0, headerY)
	dc.DrawStringAnchored("Activity", x, y, 0, 0)

	for i, label := range s.Labels {
		rowY := RowY(i)
		mx, my := panelPoint(1, 0.030, rowY)
		dc.SetColor(wedges[i])
		dc.DrawCircle(mx, my, 0.025*panelWidth)
		dc.Fill()

		dc.SetFontFace(rowFace)
		dc.SetColor(white)
		tx, ty := panelPoint(1, 0.075, rowY)
		dc.DrawStringAnchored(label, tx, ty, 0, 0.5)
	}
	return nil
}

// drawDurationColumn fills panel 2 with a header and one colored bar +
// duration row per activity, rows aligned with panel 1.
func drawDurationColumn(dc *gg.Context, s report.Summary, wedges []color.Color) error {
	headerFace, err := boldFace(headerFontSize)
	if err != nil {
		return err
	}
	rowFace, err := boldFace(rowFontSize)
	if err != nil {
		return err
	}

	dc.SetFontFace(headerFace)
	dc.SetColor(silver)
	x, y := panelPoint(2, 0.92, headerY)
	dc.DrawStringAnchored("Time", x, y, 1, 0)

	barHeight := 0.08 * float64(canvasHeight)
	for i, d := range s.Durations {
		rowY := RowY(i)
		bx, by := panelPoint(2, 0.78, rowY)
		dc.SetColor(wedges[i])
		dc.DrawRectangle(bx, by-barHeight/2, float64(panelWidth)-0.78*panelWidth, barHeight)
		dc.Fill()

		text := report.FormatMinutes(d)
		tx, ty := panelPoint(2, 0.99, rowY)
		dc.SetFontFace(rowFace)
		dc.SetColor(shadow)
		dc.DrawStringAnchored(text, tx+2, ty+2, 1, 0.5)
		dc.SetColor(white)
		dc.DrawStringAnchored(text, tx, ty, 1, 0.5)
	}
	return nil
}

// panelPoint maps normalized panel coordinates (y up) to canvas pixels.
func panelPoint(panel int, x, y float64) (float64, float64) {
	px := float64(panel*panelWidth) + x*panelWidth
	py := float64(canvasHeight) - y*canvasHeight
	return px, py
}

func boldFace(points float64) (font.Face, error) {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    points,
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build font face: %w", err)
	}
	return face, nil
}

// parseHexColor parses #rgb or #rrggbb. Unlike the canvas library's lenient
// parser, a malformed color is an error rather than black.
func parseHexColor(s string) (color.Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return nil, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid hex color %q", s)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}, nil
}
