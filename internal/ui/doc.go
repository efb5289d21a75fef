// Package ui implements the terminal user interface for blockdive using Bubbletea.
package ui
