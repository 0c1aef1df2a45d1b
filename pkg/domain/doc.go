/*
Package domain contains the core domain models for the blockstep engine.

It defines the fundamental entities of a block-program run: the Workspace of
blocks the learner assembled, the compiled Program, the Board the robot moves
on, the APITable of host functions exposed to the sandbox, and the run
lifecycle (status, outcome, events). This package is kept pure and free of
external dependencies like I/O or the script VM, following Hexagonal
Architecture principles.

# Key Entities

  - Block / Workspace: the block forest as the learner arranged it.
  - Program: the compiled, immutable script artifact for one run.
  - Board: the grid world (robot position, goal, out-of-bounds flag).
  - APITable: the explicit set of host functions a program may call.
  - Snapshot: the read model surfaced to UIs (status + board + verdict).
*/
package domain
