// Package reconciler makes states available in a target set of locations.
//
// [MissingLocations] decides what has to change, [Reconciler.Extend] and
// [Reconciler.Retract] apply a single change through the vendor specific
// control plane calls, and [Reconciler.ReconcileAll] applies a whole batch.
//
// Extend stops waiting as soon as a location reaches a final status, which
// is either ok or error. Callers that care about the outcome must inspect
// the returned record; [CheckReady] does that for them.
package reconciler
