/*
Package protocol contains the declarative model for multi-step protocols.

A Protocol is an immutable container of named steps plus an initial step
and an optional set of terminal steps. Steps come in three variants:

  - IndependentStep: static request and response contracts, no dependency.
  - DependentStep: gated on a prior step; its request contract is computed
    from that step's validated response by an opaque function.
  - MappedStep: gated on a prior step; its request contract is a static
    schema in which listed fields are pinned to exact values taken from
    named paths in prior steps' responses.

The dependent and mapped variants deliberately stay separate: the mapped
form is plain, inspectable data that the interchange converter and the
code generator can reason about, while the dependent form carries an
opaque callback that only the runtime can evaluate.

The package also provides the dependency graph over dependsOn and mapping
edges, a deterministic topological sort, and a non-panicking protocol
validator (missing steps, dangling references, cycles).
*/
package protocol
