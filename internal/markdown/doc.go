// Package markdown turns GFM checklist documents into the curriculum
// domain model and back. Parsing walks the goldmark AST (headings become
// modules, task-list checkboxes become items); toggling rewrites a single
// checkbox line so the markdown file stays the source of truth.
package markdown
