package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"spineperf/internal/analysis"
	"spineperf/internal/report"
)

// CardOptions sizes the score card.
type CardOptions struct {
	Width       int // default 480
	Supersample int // default 2
}

const (
	cardPad     = 16
	cardRowH    = 28
	cardLabelW  = 150
	cardValueW  = 64
	cardTitleH  = 40
	cardBarH    = 12
	cardOverall = 20
)

var (
	cardBackground = color.NRGBA{0x1e, 0x1f, 0x24, 0xff}
	cardTrack      = color.NRGBA{0x3a, 0x3c, 0x44, 0xff}
	cardText       = color.NRGBA{0xee, 0xee, 0xee, 0xff}
)

// Card draws the overall meter and one meter per component. Bars are drawn
// supersampled and filtered down; text is drawn at final size.
func Card(r *analysis.AggregateReport, opts CardOptions) *image.NRGBA {
	if opts.Width <= 0 {
		opts.Width = 480
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 2
	}

	meters := []report.Meter{}
	if m := r.Summary.Report.Meter; m != nil {
		meters = append(meters, *m)
	}
	for _, sec := range r.Sections()[1:] {
		if sec.Meter != nil {
			meters = append(meters, *sec.Meter)
		}
	}

	w := opts.Width
	h := cardTitleH + len(meters)*cardRowH + cardPad
	s := opts.Supersample

	big := image.NewNRGBA(image.Rect(0, 0, w*s, h*s))
	fillRect(big, big.Bounds(), cardBackground)

	trackX0 := cardPad + cardLabelW
	trackX1 := w - cardPad - cardValueW
	for i, m := range meters {
		barH := float64(cardBarH)
		if i == 0 {
			barH = cardOverall
		}
		cy := float64(cardTitleH+i*cardRowH) + cardRowH/2.0
		y0 := cy - barH/2
		track := rect{float64(trackX0), y0, float64(trackX1), y0 + barH}
		fillPill(big, track.scale(s), cardTrack)

		fill := track
		fill.x1 = fill.x0 + (track.x1-track.x0)*m.Percent/100
		if fill.x1-fill.x0 >= 1 {
			fillPill(big, fill.scale(s), parseHex(m.Color))
		}
	}

	img := downsample(big, w, h)

	d := &font.Drawer{Dst: img, Src: image.NewUniform(cardText), Face: basicfont.Face7x13}
	name := r.Skeleton
	if name == "" {
		name = "skeleton"
	}
	drawText(d, cardPad, 26, fmt.Sprintf("%s  %.0f/100  %s", name, r.Overall, r.Rating))
	for i, m := range meters {
		baseline := cardTitleH + i*cardRowH + cardRowH/2 + 4
		drawText(d, cardPad, baseline, m.Label)
		d.Src = image.NewUniform(parseHex(m.Color))
		drawText(d, trackX1+8, baseline, strconv.FormatFloat(m.Score, 'f', 1, 64))
		d.Src = image.NewUniform(cardText)
	}
	return img
}

// WriteCard encodes img as WebP or PNG by file extension.
func WriteCard(path string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".webp" && ext != ".png" {
		return fmt.Errorf("render: card %s: unsupported image format %q", path, ext)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	defer f.Close()

	if ext == ".webp" {
		err = nativewebp.Encode(f, img, nil)
	} else {
		err = png.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("render: encode %s: %w", path, err)
	}
	return f.Close()
}

func drawText(d *font.Drawer, x, y int, s string) {
	d.Dot = fixed.P(x, y)
	d.DrawString(s)
}

type rect struct{ x0, y0, x1, y1 float64 }

func (r rect) scale(s int) rect {
	f := float64(s)
	return rect{r.x0 * f, r.y0 * f, r.x1 * f, r.y1 * f}
}

func fillRect(img *image.NRGBA, b image.Rectangle, c color.NRGBA) {
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

// fillPill fills a rectangle with fully rounded ends. Pixels are in or
// out; smoothing comes from the downsample.
func fillPill(img *image.NRGBA, r rect, c color.NRGBA) {
	rad := (r.y1 - r.y0) / 2
	if w := (r.x1 - r.x0) / 2; w < rad {
		rad = w
	}
	cy := (r.y0 + r.y1) / 2
	b := img.Bounds()
	for y := max(int(r.y0), b.Min.Y); y < min(int(math.Ceil(r.y1)), b.Max.Y); y++ {
		py := float64(y) + 0.5
		for x := max(int(r.x0), b.Min.X); x < min(int(math.Ceil(r.x1)), b.Max.X); x++ {
			px := float64(x) + 0.5
			cx := math.Min(math.Max(px, r.x0+rad), r.x1-rad)
			dx, dy := px-cx, py-cy
			if dx*dx+dy*dy <= rad*rad {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}

// parseHex parses #rrggbb; anything else is mid gray.
func parseHex(s string) color.NRGBA {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil || len(s) != 7 {
		return color.NRGBA{0x80, 0x80, 0x80, 0xff}
	}
	return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}
}
