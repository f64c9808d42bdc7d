// Package memory provides an in-process split link, used by the demo and by tests.
package memory
