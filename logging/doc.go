// Package logging provides a tiny abstraction over slog so downstream code can
// depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. It also offers a richer CallMeshLogger with contextual
// helpers (conversation, component) and domain specific logging helpers for
// call lifecycle events. The duration formatting helpers define the field
// format downstream log parsers rely on.
package logging
