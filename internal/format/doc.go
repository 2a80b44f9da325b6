// Package format holds the display helpers shared by the line shell, the
// dashboard and the calculator result slots.
package format
