// Package fieldprop adds a declaratively described data field to every
// textual representation of a record (type interfaces, model classes, ORM
// definitions, validation schemas and form markup) exactly once, in the
// right position, and reports what happened per site.
//
// The root package offers shortcuts; pkg/orchestrator holds the engine.
package fieldprop
