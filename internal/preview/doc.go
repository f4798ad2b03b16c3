// Package preview serves the static-map mounts of a deployment record over
// local HTTP so the mapping can be verified before the document ships. It
// exposes only what the document exposes: files under each mount, verbatim,
// with no directory listings.
package preview
