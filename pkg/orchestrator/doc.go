// Package orchestrator drives a propagation run: it plans every (document,
// site, field) triple without mutating anything, then commits the pending
// insertions document by document and returns a complete report.
package orchestrator
