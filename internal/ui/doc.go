// Package ui holds the styling shared by sensorpanel's one-shot command
// output ('ports', 'init', error messages). The live dashboard has its own
// styles in package panel.
package ui
