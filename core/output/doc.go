// Package output renders reorder reports and reconcile plans as tables, JSON or YAML.
package output
