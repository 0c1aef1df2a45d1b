/*
Package dsl provides a Go DSL for programmatically constructing block
workspaces.

It allows developers to define programs using a type-safe, fluent builder
pattern instead of relying on external JSON or YAML files. This is
particularly useful for tests, examples, and generated curricula.

Example usage:

	package main

	import (
		"github.com/biancatoto3/blockstep/pkg/dsl"
	)

	func main() {
		ws := dsl.New().
			Say("off we go").
			Repeat(2, dsl.Chain().
				MoveForward().
				WaitSeconds(0.5)).
			Say("done").
			Build()

		// ... pass ws to blockstep's Engine.Run
		_ = ws
	}
*/
package dsl
