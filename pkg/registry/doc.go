// Package registry provides a generic, type-safe registry for
// named factories. Rule kinds register themselves through init()
// functions and are looked up by name when rule files are compiled.
package registry
