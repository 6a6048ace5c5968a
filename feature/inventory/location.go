package inventory

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Scheme identifies the backend of a table location.
type Scheme string

const (
	// SchemeFile is a local CSV file.
	SchemeFile Scheme = "file"
	// SchemeObject is a CSV object in the configured bucket (s3://object/name.csv).
	SchemeObject Scheme = "s3"
	// SchemeDB is a database table (db://table_name).
	SchemeDB Scheme = "db"
)

// Location is a parsed table location.
type Location struct {
	Scheme Scheme
	// Path is the file path, object name or table name.
	Path string
}

// ParseLocation parses s3://object, db://table or a plain file path.
func ParseLocation(raw string) (Location, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Location{}, fmt.Errorf("empty location")
	}

	for _, scheme := range []Scheme{SchemeObject, SchemeDB} {
		prefix := string(scheme) + "://"
		if !strings.HasPrefix(s, prefix) {
			continue
		}
		p := strings.TrimLeft(strings.TrimPrefix(s, prefix), "/")
		if p == "" {
			return Location{}, fmt.Errorf("location %q has no %s name", raw, nameOf(scheme))
		}
		return Location{Scheme: scheme, Path: p}, nil
	}

	return Location{Scheme: SchemeFile, Path: strings.TrimPrefix(s, "file://")}, nil
}

func nameOf(s Scheme) string {
	if s == SchemeDB {
		return "table"
	}
	return "object"
}

// String returns the location in its parseable form.
func (l Location) String() string {
	if l.Scheme == SchemeFile {
		return l.Path
	}
	return string(l.Scheme) + "://" + l.Path
}

// Base returns the last element of the location path, used to name published files.
func (l Location) Base() string {
	switch l.Scheme {
	case SchemeFile:
		return filepath.Base(l.Path)
	case SchemeDB:
		return l.Path + ".csv"
	default:
		return path.Base(l.Path)
	}
}
