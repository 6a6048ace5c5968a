// Package utils provides common utility functions for the stock-reconciler application.
// It includes helpers for cleaning and converting CSV cells and loosely typed values
// that don't fit into domain-specific packages.
package utils
