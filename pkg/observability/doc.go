/*
Package observability turns engine lifecycle events into logs and metrics.

Both outputs are plain domain.LifecycleHooks, so hosts combine them with
their own hooks through LifecycleHooks.Merge.
*/
package observability
