// Package render rasterizes a game.Position to a PNG: a 4x4 grid with
// each occupied space's top piece type drawn as a glyph, frozen spaces
// marked, for human-readable dumps of sampled positions alongside a
// fleet run's logs.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/corintho/engine/game"
)

const (
	cellSize  = 64
	boardDim  = 4
	imageSize = cellSize * boardDim
	fontSize  = 28
	dpi       = 72
)

var (
	gridColor   = color.Gray{Y: 160}
	glyphColor  = color.Black
	frozenColor = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	bgColor     = color.White
)

var parsedFont *truetype.Font

func init() {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		panic(errors.Wrap(err, "render: parsing embedded font"))
	}
	parsedFont = f
}

// WritePNG rasterizes pos and encodes it as a PNG to w.
func WritePNG(w io.Writer, pos game.Position) error {
	img := Draw(pos)
	return errors.Wrap(png.Encode(w, img), "render: encoding PNG")
}

// Draw rasterizes pos onto an imageSize x imageSize RGBA canvas: grid
// lines, each space's top piece glyph (the same piece-type letters
// Position.String uses), and a red glyph for frozen spaces.
func Draw(pos game.Position) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, imageSize, imageSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(bgColor), image.Point{}, draw.Src)
	drawGrid(img)

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(fontSize)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)

	for row := int8(0); row < boardDim; row++ {
		for col := int8(0); col < boardDim; col++ {
			sp := game.Space{Row: row, Col: col}
			if pos.Empty(sp) {
				continue
			}
			top := game.PieceType(pos.Top(sp))
			glyph := top.String()

			src := image.NewUniform(glyphColor)
			if pos.Frozen(sp) {
				src = image.NewUniform(frozenColor)
			}
			ctx.SetSrc(src)

			x := int(col)*cellSize + cellSize/3
			y := int(row)*cellSize + 2*cellSize/3
			pt := fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
			ctx.DrawString(glyph, pt)
		}
	}
	return img
}

func drawGrid(img *image.RGBA) {
	line := image.NewUniform(gridColor)
	for i := 0; i <= boardDim; i++ {
		x := i * cellSize
		draw.Draw(img, image.Rect(x, 0, x+1, imageSize), line, image.Point{}, draw.Src)
		y := i * cellSize
		draw.Draw(img, image.Rect(0, y, imageSize, y+1), line, image.Point{}, draw.Src)
	}
}
