/*
Package ports defines the driven ports (interfaces) for the blockstep engine.

These interfaces decouple the core logic from external implementations,
allowing the engine to work with different script sandboxes, notification
sinks and lesson sources.

# Key Interfaces

  - Evaluator: one sandboxed program instance, resumed slice by slice.
  - EvaluatorFactory: builds an Evaluator for a compiled program.
  - Notifier: fire-and-forget delivery of learner-facing messages.
  - LessonSource: loads lesson content (board layout, instructions).
*/
package ports
