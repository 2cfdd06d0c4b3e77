// Package pmap implements persistent hash array mapped tries with
// editor-scoped mutation.
//
// Every node remembers the Editor that created it. An update made through
// the same Editor modifies such nodes in place; an update made through any
// other Editor copies the nodes along the path first, so a map handed out
// earlier stays exactly as it was. A caller that publishes a map must stop
// using the Editor it was built with, and a new edit session must start
// with a fresh Editor from NewEditor.
//
// Maps are nil-able: a nil *Map or *IntMap is the empty map, and updates
// that remove the last entry return nil, which callers treat as "this
// branch no longer exists".
package pmap
