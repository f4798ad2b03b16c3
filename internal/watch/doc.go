// Package watch re-runs a callback when a deployment document changes on
// disk. The watch sits on the document's directory because editors and
// atomic writers replace the file rather than write through it.
package watch
