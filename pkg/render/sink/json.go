package sink

import "github.com/matzehuels/diagramkit/pkg/scene"

// RenderJSON encodes the scene. The encoding is deterministic, so equal
// scenes give equal bytes.
func RenderJSON(sc *scene.Scene) ([]byte, error) {
	data, err := sc.JSON()
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
