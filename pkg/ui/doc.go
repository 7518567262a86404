// Package ui holds the terminal side channel: colored status messages and
// the overwritten progress line shown while photos download.
package ui
