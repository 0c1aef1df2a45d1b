package blockstep_test

import (
	"fmt"
	"log"

	"github.com/biancatoto3/blockstep"
	"github.com/biancatoto3/blockstep/pkg/dsl"
)

// ExampleEngine_Compile demonstrates using the engine purely as a compiler,
// without executing anything: workspace in, generated Lua out.
func ExampleEngine_Compile() {
	eng := blockstep.New()

	// A say block followed by a counted loop.
	ws := dsl.New().
		Say("Hi!").
		Repeat(2, dsl.Chain().MoveForward()).
		Build()

	program, err := eng.Compile(ws)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Print(program.Source)
	fmt.Println("requires:", program.Requires)
	// Output:
	// print("Hi!")
	// for _ = 1, 2 do
	//   moveForward()
	// end
	// requires: [moveForward print]
}
