// Package mosaic composites a sequence of images into a single grid canvas.
// Tiles are placed left-to-right, top-to-bottom in input order, each scaled
// to a common tile size and labeled with its source file name.
package mosaic

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	// Register TIFF and WebP decoders for image.Decode; camera exports are
	// commonly jpg/tif.
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/lxmworks/imgbatch/internal/exifmeta"
	"github.com/lxmworks/imgbatch/internal/naming"
)

// ErrGridCapacity is returned when the inputs do not fit the requested grid.
// The composer never silently truncates.
var ErrGridCapacity = errors.New("mosaic inputs exceed grid capacity")

const labelMargin = 8

// Options control grid shape, tile scaling, and labeling.
type Options struct {
	Columns int // Tiles per row. Default 6.
	Rows    int // 0 derives ceil(n/Columns); otherwise capacity is enforced.
	Gap     int // Pixels between tiles.

	Scale     float64 // Tile scale in percent of source size. Default 100.
	Desqueeze float64 // Anamorphic horizontal stretch factor. Default 1.

	Background color.Color // Canvas fill. Default black.

	Label     bool // Draw the source file stem on each tile.
	LabelDate bool // Append the EXIF capture date when available.
}

// Grid is the resolved mosaic geometry.
type Grid struct {
	Columns, Rows    int
	TileW, TileH     int
	CanvasW, CanvasH int
}

// planGrid resolves grid shape and tile size for n inputs whose first image
// has the given dimensions.
func planGrid(n, firstW, firstH int, opts Options) (Grid, error) {
	cols := opts.Columns
	if cols < 1 {
		cols = 6
	}

	rows := opts.Rows
	if rows == 0 {
		if n <= cols {
			cols, rows = n, 1
		} else {
			rows = (n + cols - 1) / cols
		}
	} else if n > rows*cols {
		return Grid{}, fmt.Errorf("%w: %d images in a %dx%d grid", ErrGridCapacity, n, rows, cols)
	}

	scale := opts.Scale
	if scale <= 0 {
		scale = 100
	}
	desqueeze := opts.Desqueeze
	if desqueeze <= 0 {
		desqueeze = 1
	}

	tileW := int(math.Round(float64(firstW) * scale / 100 * desqueeze))
	tileH := int(math.Round(float64(firstH) * scale / 100))
	if tileW < 1 {
		tileW = 1
	}
	if tileH < 1 {
		tileH = 1
	}

	return Grid{
		Columns: cols,
		Rows:    rows,
		TileW:   tileW,
		TileH:   tileH,
		CanvasW: cols*tileW + (cols-1)*opts.Gap,
		CanvasH: rows*tileH + (rows-1)*opts.Gap,
	}, nil
}

// ComposeFiles decodes every input, lays the tiles out on the grid, and
// returns the composed canvas. Any undecodable input fails the whole
// composition.
func ComposeFiles(paths []string, opts Options) (*image.RGBA, error) {
	if len(paths) == 0 {
		return nil, errors.New("no input images")
	}

	images := make([]image.Image, len(paths))
	for i, p := range paths {
		img, err := loadImage(p)
		if err != nil {
			return nil, err
		}
		images[i] = img
	}

	first := images[0].Bounds()
	grid, err := planGrid(len(paths), first.Dx(), first.Dy(), opts)
	if err != nil {
		return nil, err
	}

	bg := opts.Background
	if bg == nil {
		bg = color.Black
	}

	canvas := image.NewRGBA(image.Rect(0, 0, grid.CanvasW, grid.CanvasH))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	desqueeze := opts.Desqueeze
	if desqueeze <= 0 {
		desqueeze = 1
	}

	for i, img := range images {
		col := i % grid.Columns
		row := i / grid.Columns
		x0 := col * (grid.TileW + opts.Gap)
		y0 := row * (grid.TileH + opts.Gap)

		placeTile(canvas, img, x0, y0, grid.TileW, grid.TileH, desqueeze)

		if opts.Label {
			label := naming.Stem(paths[i])
			if opts.LabelDate {
				if ts, err := exifmeta.CaptureTime(paths[i]); err == nil {
					label += "  " + ts.Format("2006-01-02 15:04")
				}
			}
			drawLabel(canvas, label, x0+labelMargin, y0+grid.TileH-labelMargin)
		}
	}
	return canvas, nil
}

// loadImage decodes one source file.
func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}
	return img, nil
}

// placeTile scales img to fit the tile box (aspect preserved, after
// desqueeze) and draws it centered at the cell origin.
func placeTile(canvas *image.RGBA, img image.Image, x0, y0, tileW, tileH int, desqueeze float64) {
	b := img.Bounds()
	srcW := int(math.Round(float64(b.Dx()) * desqueeze))
	srcH := b.Dy()

	w, h := fitDims(srcW, srcH, tileW, tileH)
	scaled := resize.Resize(uint(w), uint(h), img, resize.Lanczos3)

	offX := x0 + (tileW-w)/2
	offY := y0 + (tileH-h)/2
	rect := image.Rect(offX, offY, offX+w, offY+h)
	draw.Draw(canvas, rect, scaled, scaled.Bounds().Min, draw.Src)
}

// fitDims returns the largest dimensions with the aspect ratio of (w, h)
// that fit inside (boxW, boxH).
func fitDims(w, h, boxW, boxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return boxW, boxH
	}
	s := math.Min(float64(boxW)/float64(w), float64(boxH)/float64(h))
	fw := int(math.Round(float64(w) * s))
	fh := int(math.Round(float64(h) * s))
	if fw < 1 {
		fw = 1
	}
	if fh < 1 {
		fh = 1
	}
	if fw > boxW {
		fw = boxW
	}
	if fh > boxH {
		fh = boxH
	}
	return fw, fh
}

// drawLabel renders text with a one-pixel drop shadow so it stays readable
// on bright tiles. (x, y) is the text baseline origin.
func drawLabel(canvas *image.RGBA, text string, x, y int) {
	shadow := font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x+1, y+1),
	}
	shadow.DrawString(text)

	d := font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// WriteFile encodes img into path; the format follows the extension.
// The parent directory must already exist.
func WriteFile(img image.Image, path string) error {
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		return fmt.Errorf("mosaic destination directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	case ".png":
		return png.Encode(f, img)
	default:
		return fmt.Errorf("unsupported mosaic output format %q (use .jpg or .png)", filepath.Ext(path))
	}
}
