// Package site describes where a field must appear. A Site names a document,
// the kind of representation it holds, an anchor locating the insertion point
// and the template producing the inserted text. Sites are grouped into an
// ordered Catalog that is versioned alongside the target project's
// conventions; a catalog for the TypeScript + Sequelize + zod +
// react-hook-form layout is embedded.
package site
