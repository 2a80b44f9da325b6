// Package ui provides the color themes shared by the line shell, the
// one-shot output and the dashboard.
package ui
