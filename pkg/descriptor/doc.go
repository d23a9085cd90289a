// Package descriptor models a single field that should be propagated across
// every representation of a record (type interface, runtime class, model
// definition, validation schema and form markup). Descriptors are immutable
// inputs to a propagation run; they are authored as JSON or YAML files, built
// interactively, or imported from an OpenAPI component schema.
package descriptor
