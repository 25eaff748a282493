//go:build !tinygo

package hal

import (
	"image/color"

	"flick/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	cellPx   = 48
	cellGap  = 8
	windowPx = MatrixSize*cellPx + (MatrixSize+1)*cellGap
)

// RunWindow opens a desktop window that renders the LED matrix and maps
// the A and B keys to button edges. It blocks until the window closes.
//
// The scheduler runs on its own goroutine; the window only reads frame
// snapshots and injects edges.
func RunWindow(h HAL, start func()) error {
	hh, ok := h.(*hostHAL)
	if !ok {
		panic("hal: RunWindow requires the host HAL")
	}
	if start != nil {
		start()
	}

	g := &hostGame{h: hh}
	g.cell = ebiten.NewImage(cellPx, cellPx)
	ebiten.SetWindowTitle("flick (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(windowPx, windowPx)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h    *hostHAL
	cell *ebiten.Image
}

func (g *hostGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		g.h.Edge(0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.h.Edge(1)
	}
	return nil
}

var (
	ledOn  = color.RGBA{R: 0xFF, G: 0x30, B: 0x20, A: 0xFF}
	ledOff = color.RGBA{R: 0x28, G: 0x10, B: 0x10, A: 0xFF}
)

func (g *hostGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xFF})

	grid := g.h.Snapshot()
	for row := 0; row < MatrixSize; row++ {
		for col := 0; col < MatrixSize; col++ {
			if grid[row][col] {
				g.cell.Fill(ledOn)
			} else {
				g.cell.Fill(ledOff)
			}
			var op ebiten.DrawImageOptions
			op.GeoM.Translate(
				float64(cellGap+col*(cellPx+cellGap)),
				float64(cellGap+row*(cellPx+cellGap)),
			)
			screen.DrawImage(g.cell, &op)
		}
	}
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowPx, windowPx
}
