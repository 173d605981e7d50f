// Package student holds the roster's record and draft types together with
// the field rules a draft must satisfy before it is sent to the server.
package student

import (
	"strconv"
	"strings"
)

// MinEnrollmentYear is the exclusive lower bound for EnrollmentYear.
const MinEnrollmentYear = 1900

// Record is a student as stored by the server. ID is assigned by the server
// and never changes.
type Record struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Major          string `json:"major"`
	EnrollmentYear int    `json:"enrollment_year"`
}

// Draft holds unsaved field values for a record being created (empty ID) or
// edited (ID of the target record).
type Draft struct {
	ID             string `json:"-"`
	Name           string `json:"name" validate:"required"`
	Major          string `json:"major" validate:"required"`
	EnrollmentYear int    `json:"enrollment_year" validate:"gt=1900"`
}

// Field names a draft input.
type Field int

const (
	FieldName Field = iota
	FieldMajor
	FieldEnrollmentYear
)

func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldMajor:
		return "major"
	case FieldEnrollmentYear:
		return "enrollment_year"
	default:
		return "unknown"
	}
}

// Fields lists draft inputs in form order.
var Fields = []Field{FieldName, FieldMajor, FieldEnrollmentYear}

// DraftFrom copies a record's current values into an edit draft.
func DraftFrom(r Record) Draft {
	return Draft{ID: r.ID, Name: r.Name, Major: r.Major, EnrollmentYear: r.EnrollmentYear}
}

// IsEdit reports whether the draft targets an existing record.
func (d Draft) IsEdit() bool {
	return d.ID != ""
}

// Set applies raw user input to one field. The enrollment year is parsed as
// an integer and becomes 0 when the input is not a number.
func (d Draft) Set(field Field, raw string) Draft {
	switch field {
	case FieldName:
		d.Name = raw
	case FieldMajor:
		d.Major = raw
	case FieldEnrollmentYear:
		year, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			year = 0
		}
		d.EnrollmentYear = year
	}
	return d
}

// Value renders one field as form text.
func (d Draft) Value(field Field) string {
	switch field {
	case FieldName:
		return d.Name
	case FieldMajor:
		return d.Major
	case FieldEnrollmentYear:
		if d.EnrollmentYear == 0 {
			return ""
		}
		return strconv.Itoa(d.EnrollmentYear)
	default:
		return ""
	}
}

// Normalized returns a copy with surrounding whitespace removed from text fields.
func (d Draft) Normalized() Draft {
	d.Name = strings.TrimSpace(d.Name)
	d.Major = strings.TrimSpace(d.Major)
	return d
}

// Matches reports whether the record's name or major contains query, ignoring case.
func (r Record) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Name), query) ||
		strings.Contains(strings.ToLower(r.Major), query)
}

// Filter returns the records matching query, preserving order.
func Filter(records []Record, query string) []Record {
	if strings.TrimSpace(query) == "" {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Matches(query) {
			out = append(out, r)
		}
	}
	return out
}
