// Package memory provides in-memory implementations of the driven stores.
// They back tests and the --memory CLI mode; nothing survives the process.
package memory
