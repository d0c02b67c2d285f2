package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/samuelfneumann/mazevi/environment/maze"
	"github.com/samuelfneumann/mazevi/utils/floatutils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r1"
)

var (
	FloorColour = color.RGBA{27, 64, 121, 255}
	WallColour  = color.RGBA{241, 162, 8, 255}
	AgentColour = color.RGBA{255, 51, 102, 255}
	GoalColour  = color.RGBA{0, 255, 0, 255}
)

// Image draws frames as PNG images, one file per frame. Walls are
// orange on a blue floor, the agent is a rounded square and the goal is
// a green disc.
type Image struct {
	dir         string
	tileSize    int
	margin      int
	shadeValues bool
}

// NewImage returns an Image renderer that writes frames into dir. Each
// cell is tileSize pixels wide and the maze is surrounded by margin
// pixels. If shadeValues is true, free cells are shaded by their value
// under the policy, brighter cells having higher value.
func NewImage(dir string, tileSize, margin int, shadeValues bool) (*Image,
	error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("newImage: tile size must be positive, got %d",
			tileSize)
	}
	if margin < 0 {
		return nil, fmt.Errorf("newImage: margin must be non-negative, "+
			"got %d", margin)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("newImage: could not create frame "+
			"directory: %v", err)
	}

	return &Image{
		dir:         dir,
		tileSize:    tileSize,
		margin:      margin,
		shadeValues: shadeValues,
	}, nil
}

// Filename returns the file frame number n is written to
func (r *Image) Filename(n int) string {
	return filepath.Join(r.dir, fmt.Sprintf("frame_%06d.png", n))
}

// Render draws f and saves it as a PNG file
func (r *Image) Render(f Frame) error {
	dc := r.draw(f)
	if err := dc.SavePNG(r.Filename(f.Number)); err != nil {
		return fmt.Errorf("render: could not save frame %d: %v", f.Number, err)
	}
	return nil
}

// Draw draws f and returns the image
func (r *Image) Draw(f Frame) image.Image {
	return r.draw(f).Image()
}

// TileCentre returns the pixel coordinates of the centre of cell c
func (r *Image) TileCentre(c maze.Cell) (x, y int) {
	tile := r.tileSize
	return r.margin + c.Col*tile + tile/2, r.margin + c.Row*tile + tile/2
}

func (r *Image) draw(f Frame) *gg.Context {
	rows, cols := f.Grid.Dims()
	tile := float64(r.tileSize)
	margin := float64(r.margin)
	w := cols*r.tileSize + 2*r.margin
	h := rows*r.tileSize + 2*r.margin

	dc := gg.NewContext(w, h)
	dc.SetColor(color.Black)
	dc.Clear()

	dc.SetColor(FloorColour)
	dc.DrawRectangle(margin, margin, float64(cols)*tile, float64(rows)*tile)
	dc.Fill()

	var bounds r1.Interval
	if r.shadeValues && f.Policy != nil {
		bounds = valueBounds(f)
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			c := maze.Cell{Row: row, Col: col}
			x := margin + float64(col)*tile
			y := margin + float64(row)*tile

			switch {
			case f.Grid.IsWall(c):
				dc.SetColor(WallColour)
			case r.shadeValues && f.Policy != nil:
				dc.SetColor(shade(FloorColour,
					floatutils.Normalize(f.Policy.Value(c), bounds)))
			default:
				continue
			}
			dc.DrawRectangle(x, y, tile, tile)
			dc.Fill()
		}
	}

	// The agent and goal are inset by a third of a tile
	inset := tile / 3
	ax := margin + float64(f.Agent.Col)*tile + inset/2
	ay := margin + float64(f.Agent.Row)*tile + inset/2
	dc.SetColor(AgentColour)
	dc.DrawRoundedRectangle(ax, ay, tile-inset, tile-inset, 3)
	dc.Fill()

	gx := margin + float64(f.Goal.Col)*tile + tile/2
	gy := margin + float64(f.Goal.Row)*tile + tile/2
	dc.SetColor(GoalColour)
	dc.DrawCircle(gx, gy, (tile-inset)/2)
	dc.Fill()

	return dc
}

// valueBounds returns the range of values of the free cells of f
func valueBounds(f Frame) r1.Interval {
	free := f.Grid.Free()
	values := make([]float64, len(free))
	for i, c := range free {
		values[i] = f.Policy.Value(c)
	}
	return r1.Interval{Min: floats.Min(values), Max: floats.Max(values)}
}

// shade scales base from a quarter of its brightness at t = 0 up to its
// full brightness at t = 1
func shade(base color.RGBA, t float64) color.RGBA {
	scale := 0.25 + 0.75*t
	return color.RGBA{
		R: uint8(math.Round(float64(base.R) * scale)),
		G: uint8(math.Round(float64(base.G) * scale)),
		B: uint8(math.Round(float64(base.B) * scale)),
		A: base.A,
	}
}
