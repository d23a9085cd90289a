// Package render expands site templates for a field. Templates see the
// descriptor attributes plus literals derived from them (TypeScript, Sequelize
// and zod types, quoted defaults and comments, sanitised UI text), and the
// resulting fragment is re-indented to the anchor line.
package render
