package render

import (
	"fmt"

	"github.com/matzehuels/diagramkit/pkg/geom"
	"github.com/matzehuels/diagramkit/pkg/scene"
	"github.com/matzehuels/diagramkit/pkg/style"
)

// Text is a positioned string with typographic emphasis.
type Text struct {
	Pos    geom.Point
	Value  string
	Anchor scene.Anchor
	Bold   bool
	Italic bool
}

// Backend is a drawing surface. Coordinates are layout units with y
// pointing up; backends map them to their own space.
type Backend interface {
	DrawLine(from, to geom.Point, s style.Style, arrow bool)
	DrawBox(b geom.Box, s style.Style)
	DrawPolygon(pts []geom.Point, s style.Style)
	DrawText(t Text, s style.Style)
}

// Replay issues every op of sc to b, in scene order.
func Replay(sc *scene.Scene, b Backend) error {
	for i, op := range sc.Ops {
		switch op.Kind {
		case scene.KindRect:
			if op.Box == nil {
				return fmt.Errorf("op %d (%s): rect without box", i, op.Ref)
			}
			b.DrawBox(*op.Box, op.Style)
		case scene.KindPolygon:
			if len(op.Points) < 3 {
				return fmt.Errorf("op %d (%s): polygon needs 3 points, got %d", i, op.Ref, len(op.Points))
			}
			b.DrawPolygon(op.Points, op.Style)
		case scene.KindLine:
			if len(op.Points) != 2 {
				return fmt.Errorf("op %d (%s): line needs 2 points, got %d", i, op.Ref, len(op.Points))
			}
			b.DrawLine(op.Points[0], op.Points[1], op.Style, op.Arrow)
		case scene.KindText:
			if op.Pos == nil {
				return fmt.Errorf("op %d (%s): text without position", i, op.Ref)
			}
			b.DrawText(Text{Pos: *op.Pos, Value: op.Text, Anchor: op.Anchor, Bold: op.Bold, Italic: op.Italic}, op.Style)
		default:
			return fmt.Errorf("op %d (%s): unknown kind %q", i, op.Ref, op.Kind)
		}
	}
	return nil
}
