// Package inifile models a uwsgi-style INI document: a bracketed [uwsgi]
// section holding flat key=value pairs, # or ; comments, and keys that may
// repeat (static-map). The document keeps order and comments so a loaded
// file can be written back out as an equivalent document.
package inifile
