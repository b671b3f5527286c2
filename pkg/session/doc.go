/*
Package session serializes access to persisted dialogue snapshots.

A Manager wraps a ports.SessionStore with a per-session mutex, reference
counted so idle sessions leave nothing behind, and optionally a
ports.DistributedLocker for hosts running several replicas against a shared
store.
*/
package session
