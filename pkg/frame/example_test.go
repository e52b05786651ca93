package frame_test

import (
	"fmt"

	"github.com/matzehuels/photobooth/pkg/frame"
)

func ExampleGet() {
	def, err := frame.Get(9)
	if err != nil {
		panic(err)
	}
	w, h := frame.DefaultCanvas(def.Orientation)
	fmt.Println(def.Name, def.Slots, def.Kind)
	fmt.Println(w, h)
	// Output:
	// 4x6" 4 Photo 4 grid2x2
	// 600 900
}
