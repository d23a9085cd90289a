// Package report records the per (document, site, field) outcome of a
// propagation run and renders it as a terminal table or JSON.
package report
