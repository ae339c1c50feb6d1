// Package grid places roster occupants into 9-box cells. An Engine holds only
// the cell → occupants mapping and keeps two invariants on every mutation:
// an occupant sits in at most one cell, and no cell is stored empty.
//
// The engine does no locking. Callers serialise Assign/Unassign, which the
// TUI does naturally by mutating state only inside Update.
package grid
