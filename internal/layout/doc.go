// Package layout loads and validates the dashboard layout document.
//
// The layout is a versioned JSON document describing the operator dashboard:
// connection sections, action buttons, data chart tabs and per-state panels.
// The groundstation serves it to frontends verbatim; validation only checks
// the structural invariants frontends rely on.
package layout
