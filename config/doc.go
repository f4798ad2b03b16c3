// Package config turns a uwsgi deployment document into a typed, validated
// record. Values come from the INI document merged with UWSGICFG_* environment
// overrides; the record is built once at startup and never mutated.
package config
