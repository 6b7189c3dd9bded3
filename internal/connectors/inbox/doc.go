// Package inbox reads scanned documents from a drop folder.
//
// Scan returns the documents already present. Watch reports documents as
// they are created or rewritten, throttled so a scanner dumping a whole
// class at once does not flood the assignment pipeline. Hidden files and
// subdirectories are ignored.
package inbox
