// Package runtime implements the dialogue session state machine.
//
// A Session is idle until Start places its cursor on the workflow's start
// node. Each Submit fills the current node's required slots, asks the intent
// classifier for the next node and follows it. Reaching an end node, or an
// explicit Reset, returns the session to idle and clears its state.
package runtime
