// Package tour defines the CodeTour document model and the step editor.
//
// Includes:
//   - Tour, Step, Location: the persisted document, one walkthrough entry, and where it points.
//   - Step editor: InsertStep, UpdateStep, RemoveStep, Step, ListSteps (all in-memory, no I/O).
//   - Error taxonomy shared by the store and the tool surface.
//   - Invariants: step order is the walkthrough order; an index is valid iff 0 <= i < len(steps).
package tour
