// Package render produces equivalent deployment artifacts from a typed
// record: a canonical [uwsgi] INI document, or the matching command line.
package render
