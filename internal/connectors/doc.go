// Package connectors holds the sources documents arrive from.
// The inbox connector watches a scanner drop folder.
package connectors
