/*
Package domain contains the core models of the switchboard dialogue engine.

It defines the conversation graph (typed Nodes joined by labeled Edges), the
turn history, the reply returned to hosts after each turn and the report
produced by the workflow analyzer. The package is pure: no I/O, no
persistence and no knowledge of language-model delegates.

# Key Entities

  - Workflow: the mutable graph of Nodes and Edges. It has no internal
    locking; hosts serialize structural edits.
  - Node: one conversation step, typed as start, intent, response or end.
  - Reply: what a host renders after Start or Submit.
  - Snapshot: the persistable state of one dialogue session.
  - Report: the result of the static workflow analysis.
*/
package domain
