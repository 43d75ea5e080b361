// Package domain holds the sentinel errors shared by the page service layers.
package domain
