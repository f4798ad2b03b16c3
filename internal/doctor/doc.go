// Package doctor checks a deployment record against the host it is meant to
// run on: referenced paths must exist, endpoints must be bindable shapes,
// and risky settings are called out as warnings.
package doctor
