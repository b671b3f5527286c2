package domain

import (
	"errors"
	"fmt"
)

// ErrNoStartNode is returned when a session starts on a workflow without
// exactly one start node.
var ErrNoStartNode = errors.New("workflow has no unique start node")

// ErrInactiveSession is returned when Submit is called on an idle session.
var ErrInactiveSession = errors.New("session is not active")

// ErrUnknownTargetNode is returned when a transition names a node absent from the graph.
var ErrUnknownTargetNode = errors.New("unknown target node")

// ErrDelegateUnavailable is returned by delegate adapters that cannot reach their backend.
// It never crosses the extractor or classifier boundary.
var ErrDelegateUnavailable = errors.New("delegate unavailable")

// ErrInvalidNode is returned when a node fails construction-time validation.
var ErrInvalidNode = errors.New("invalid node")

// ErrInvalidEdge is returned when an edge is missing an endpoint.
var ErrInvalidEdge = errors.New("invalid edge")

// ErrDuplicateNode is returned when a node id is added twice.
var ErrDuplicateNode = errors.New("duplicate node id")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// UnknownTargetNodeError carries the id that failed to resolve.
type UnknownTargetNodeError struct {
	NodeID string
	From   string
}

func (e *UnknownTargetNodeError) Error() string {
	return fmt.Sprintf("unknown target node %q (from %q)", e.NodeID, e.From)
}

// Is makes errors.Is(err, ErrUnknownTargetNode) succeed.
func (e *UnknownTargetNodeError) Is(target error) bool {
	return target == ErrUnknownTargetNode
}

// ErrorKind is the wire name of an error signal returned to hosts.
type ErrorKind string

const (
	ErrorKindNone              ErrorKind = ""
	ErrorKindNoStartNode       ErrorKind = "no_start_node"
	ErrorKindInactiveSession   ErrorKind = "inactive_session"
	ErrorKindUnknownTargetNode ErrorKind = "unknown_target_node"
	ErrorKindInternal          ErrorKind = "internal"
)

// KindOf maps an error returned by the engine to its ErrorKind.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, ErrNoStartNode):
		return ErrorKindNoStartNode
	case errors.Is(err, ErrInactiveSession):
		return ErrorKindInactiveSession
	case errors.Is(err, ErrUnknownTargetNode):
		return ErrorKindUnknownTargetNode
	default:
		return ErrorKindInternal
	}
}

// ErrWorkflowNotFound is returned when a named workflow does not exist.
var ErrWorkflowNotFound = errors.New("workflow not found")
