// Package wordcloud draws word-cloud images with a spiral placement layout.
package wordcloud

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"commentlens/internal/domain/entity"
	usecase "commentlens/internal/usecase/wordcloud"
)

const (
	// MaxWords caps how many distinct words are placed.
	MaxWords = 200

	minFontSize  = 10.0
	fontStep     = 2.0
	spiralStep   = 0.35
	spiralGrowth = 1.6
	padding      = 2.0
)

var palette = []color.RGBA{
	colornames.Steelblue,
	colornames.Darkorange,
	colornames.Seagreen,
	colornames.Crimson,
	colornames.Slateblue,
	colornames.Goldenrod,
	colornames.Teal,
	colornames.Mediumvioletred,
}

type box struct{ x0, y0, x1, y1 float64 }

func (b box) overlaps(o box) bool {
	return b.x0 < o.x1 && o.x0 < b.x1 && b.y0 < o.y1 && o.y0 < b.y1
}

// Renderer places words largest-first along an Archimedean spiral from the
// canvas centre. A word that fits nowhere is retried at smaller sizes and
// dropped once it falls under the minimum font size.
// A Renderer is safe for concurrent use. Font faces hold glyph caches, so
// each call builds its own.
type Renderer struct {
	font *truetype.Font
}

// NewRenderer creates a renderer using the Go regular font.
func NewRenderer() (*Renderer, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Renderer{font: f}, nil
}

// Render implements usecase.Renderer.
func (r *Renderer) Render(ctx context.Context, freqs map[string]int, opts usecase.Options) (image.Image, error) {
	opts = opts.WithDefaults()
	bg, err := ParseColor(opts.Background)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(bg)
	dc.Clear()

	words := usecase.TopWords(freqs, MaxWords)
	if len(words) == 0 {
		return dc.Image(), nil
	}

	w, h := float64(opts.Width), float64(opts.Height)
	maxSize := math.Max(minFontSize, math.Min(h/3, w/6))
	top := float64(words[0].Count)

	faces := make(map[float64]font.Face)
	var placed []box
	for i, word := range words {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		size := math.Round(minFontSize + (maxSize-minFontSize)*math.Sqrt(float64(word.Count)/top))
		for ; size >= minFontSize; size -= fontStep {
			dc.SetFontFace(r.face(faces, size))
			tw, th := dc.MeasureString(word.Text)
			if tw+2*padding > w || th+2*padding > h {
				continue
			}
			cx, cy, ok := findSpot(placed, w, h, tw+2*padding, th+2*padding)
			if !ok {
				continue
			}
			placed = append(placed, box{cx - tw/2 - padding, cy - th/2 - padding, cx + tw/2 + padding, cy + th/2 + padding})
			dc.SetColor(palette[i%len(palette)])
			dc.DrawStringAnchored(word.Text, cx, cy, 0.5, 0.5)
			break
		}
	}
	return dc.Image(), nil
}

func (r *Renderer) face(cache map[float64]font.Face, size float64) font.Face {
	if f, ok := cache[size]; ok {
		return f
	}
	f := truetype.NewFace(r.font, &truetype.Options{Size: size})
	cache[size] = f
	return f
}

// findSpot walks the spiral until a box of bw x bh fits inside the canvas
// without touching any placed box.
func findSpot(placed []box, w, h, bw, bh float64) (float64, float64, bool) {
	limit := math.Hypot(w, h) / 2
	for t := 0.0; ; t += spiralStep {
		radius := spiralGrowth * t
		if radius > limit {
			return 0, 0, false
		}
		cx := w/2 + radius*math.Cos(t)
		cy := h/2 + radius*math.Sin(t)*(h/w)
		b := box{cx - bw/2, cy - bh/2, cx + bw/2, cy + bh/2}
		if b.x0 < 0 || b.y0 < 0 || b.x1 > w || b.y1 > h {
			continue
		}
		free := true
		for _, p := range placed {
			if b.overlaps(p) {
				free = false
				break
			}
		}
		if free {
			return cx, cy, true
		}
	}
}

// ParseColor accepts "#rgb", "#rrggbb", "transparent" or an SVG color name.
func ParseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "transparent" {
		return color.Transparent, nil
	}
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) == 6 {
			if v, err := strconv.ParseUint(hex, 16, 32); err == nil {
				return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
			}
		}
		return nil, &entity.ValidationError{Field: "background_color", Message: fmt.Sprintf("invalid hex color %q", s)}
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	return nil, &entity.ValidationError{Field: "background_color", Message: fmt.Sprintf("unknown color %q", s)}
}
