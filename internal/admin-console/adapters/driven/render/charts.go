package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"nolsaf-admin/internal/admin-console/core/domain/dto"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	chartWidth   = 420
	chartRow     = 22
	chartPadding = 12
	chartLabelW  = 130
	chartScale   = 2
)

var (
	chartBackground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	chartInk        = color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
	chartMuted      = color.RGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff}
	chartPalette    = []color.RGBA{
		{R: 0x02, G: 0x66, B: 0x5e, A: 0xff},
		{R: 0x25, G: 0x63, B: 0xeb, A: 0xff},
		{R: 0xd9, G: 0x77, B: 0x06, A: 0xff},
		{R: 0xdc, G: 0x26, B: 0x26, A: 0xff},
		{R: 0x7c, G: 0x3a, B: 0xed, A: 0xff},
		{R: 0x05, G: 0x96, B: 0x69, A: 0xff},
	}
)

// StatusChartPNG draws a horizontal bar chart of status buckets and encodes it
// as PNG at twice its drawn size so it stays sharp in print.
func StatusChartPNG(title string, buckets []dto.StatusBucket) ([]byte, error) {
	rows := len(buckets)
	if rows == 0 {
		rows = 1
	}
	height := chartPadding*3 + 13 + rows*chartRow
	img := image.NewRGBA(image.Rect(0, 0, chartWidth, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(chartBackground), image.Point{}, draw.Src)

	drawText(img, chartPadding, chartPadding+11, title, chartInk)

	top := chartPadding*2 + 13
	if len(buckets) == 0 {
		drawText(img, chartPadding, top+15, "No records in range", chartMuted)
	}

	maxCount := 0
	for _, b := range buckets {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	barMax := chartWidth - chartLabelW - chartPadding*2 - 60
	for i, b := range buckets {
		y := top + i*chartRow
		drawText(img, chartPadding, y+15, truncate(b.Status, 18), chartInk)

		w := 0
		if maxCount > 0 {
			w = b.Count * barMax / maxCount
		}
		if b.Count > 0 && w < 2 {
			w = 2
		}
		bar := image.Rect(chartLabelW, y+4, chartLabelW+w, y+chartRow-4)
		draw.Draw(img, bar, image.NewUniform(chartPalette[i%len(chartPalette)]), image.Point{}, draw.Src)
		drawText(img, chartLabelW+w+6, y+15, fmt.Sprintf("%d (%d%%)", b.Count, b.Percent), chartMuted)
	}

	scaled := image.NewRGBA(image.Rect(0, 0, chartWidth*chartScale, height*chartScale))
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}

// PNGDataURL inlines a PNG for embedding in a document.
func PNGDataURL(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

func drawText(dst draw.Image, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
