package style_test

import (
	"fmt"

	"github.com/matzehuels/diagramkit/pkg/style"
)

func ExamplePalette_Resolve() {
	p := style.NewPalette(style.Style{Fill: "#999999"}, map[string]style.Style{
		"Student": {Fill: "#1FB8CD"},
	})

	fmt.Println(p.Resolve("Student").Fill)
	fmt.Println(p.Resolve("Visitor").Fill)
	// Output:
	// #1FB8CD
	// #999999
}
