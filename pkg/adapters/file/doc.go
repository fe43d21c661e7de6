// Package file provides filesystem-backed adapters: a flow loader for JSON and YAML flow
// documents with change notification, and a YAML preferences file holding the UI locale.
package file
