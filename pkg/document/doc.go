// Package document is the I/O boundary of a propagation run: it loads and
// saves documents by slash separated identifier and expands glob patterns.
package document
