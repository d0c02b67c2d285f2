// Package render draws frames of an agent following a policy through a
// maze
package render

import (
	"github.com/samuelfneumann/mazevi/environment/maze"
)

// Policy is the view of a solved policy a Renderer draws from
type Policy interface {
	BestAction(maze.Cell) maze.Direction
	Value(maze.Cell) float64
}

// Frame is a snapshot of the maze to be drawn
type Frame struct {
	Number int
	Grid   *maze.Grid
	Agent  maze.Cell
	Goal   maze.Cell
	Policy Policy
}

// Renderer draws Frames
type Renderer interface {
	Render(Frame) error
}
