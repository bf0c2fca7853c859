/*
Package ports defines the driven ports (interfaces) for the weft engine.

These interfaces decouple the core from its collaborators: the step
executor that performs the actual side effects (typically network calls),
the lifecycle hooks hosts use for observability, and the stores that
persist session snapshots between host processes.

# Key Interfaces

  - StepExecutor: the single effect boundary the engine calls into.
  - SessionStore: host-side persistence of session snapshots.
  - LifecycleHooks: callbacks emitted around each step execution.
*/
package ports
