/*
Package blockstep runs visual block programs against a small robot board.

A workspace of blocks compiles to a Lua program, which executes inside a
sandboxed interpreter one slice at a time. The engine manages run admission,
scheduling, and completion, while your application ("Host") consumes
messages and snapshots through notifiers and hooks. This keeps the core
embeddable in any interface: CLI, HTTP server, or a richer UI.

# Concept

Programs never run to completion in one go. Synchronous host calls such as
moveForward mutate the board and return immediately; asynchronous ones such
as waitForSeconds suspend the program until their continuation fires, and
the engine polls on a fixed interval to pick the result up. At most one run
is active per engine, and every run ends in exactly one completion callback.

# Key Features

  - Sandboxed execution: programs only reach the host functions you bind.
  - Cooperative stepping: one evaluator slice at a time, cancel at any point.
  - Pluggable vocabulary: register custom blocks and host functions.
  - Deterministic tests: inject a mock clock and drive runs by hand.

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/biancatoto3/blockstep"
		"github.com/biancatoto3/blockstep/pkg/domain"
		"github.com/biancatoto3/blockstep/pkg/dsl"
	)

	func main() {
		eng := blockstep.New(
			blockstep.WithNotifier(printNotifier{}),
		)

		ws := dsl.New().
			Repeat(2, dsl.Chain().MoveForward()).
			Say("done").
			Build()

		done := make(chan domain.RunResult, 1)
		if _, err := eng.Run(ws, func(r domain.RunResult) { done <- r }); err != nil {
			log.Fatal(err)
		}

		r := <-done
		fmt.Println(r.Outcome, r.GoalReached)
	}

	type printNotifier struct{}

	func (printNotifier) Notify(msg domain.Message) {
		fmt.Printf("[%s] %s\n", msg.Kind, msg.Text)
	}
*/
package blockstep
