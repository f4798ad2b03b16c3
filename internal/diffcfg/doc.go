// Package diffcfg compares two deployment documents at the key level and,
// where both decode, at the typed-record level.
package diffcfg
