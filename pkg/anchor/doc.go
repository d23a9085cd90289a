// Package anchor locates insertion points inside structured source text and
// decides whether a field is already present.
//
// Documents are never parsed into a full syntax tree. Instead a lexer skips
// comments, string, template and regex literals while tracking bracket
// nesting, which is enough to find the true end of a declaration block even
// when sibling declarations carry nested option objects. Markup documents are
// scanned as an element tree so a form control's wrapping group can be found
// with tag-depth matching.
package anchor
