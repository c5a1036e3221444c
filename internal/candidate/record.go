// Package candidate aggregates extracted fields into a candidate record,
// validates the record as a whole and prepares it for persistence.
package candidate

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// Recognized record field names.
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldExperience = "experience"
	FieldPosition   = "position"
	FieldLocation   = "location"
	FieldTechStack  = "tech_stack"
	FieldTimestamp  = "timestamp"
)

// FieldOrder is the canonical column order for exported records.
var FieldOrder = []string{
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldExperience,
	FieldPosition,
	FieldLocation,
	FieldTechStack,
	FieldTimestamp,
}

// RequiredFields are the seven fields a conceptually complete record holds.
// Completeness is advisory only; nothing in the core enforces it.
var RequiredFields = []string{
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldExperience,
	FieldPosition,
	FieldLocation,
	FieldTechStack,
}

// Record maps field names to extracted values. Fields are filled
// incrementally as extraction succeeds and, once set, are never
// overwritten (first-write-wins).
type Record map[string]string

// NewRecord returns an empty record for a fresh conversation.
func NewRecord() Record {
	return make(Record)
}

// Has reports whether the field is already present.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// SetIfAbsent stores the value only when the field is not yet present.
// It reports whether the value was written.
func (r Record) SetIfAbsent(field, value string) bool {
	if r.Has(field) {
		return false
	}
	r[field] = value
	return true
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// IsComplete reports whether all required fields are present. Advisory.
func (r Record) IsComplete() bool {
	for _, field := range RequiredFields {
		if !r.Has(field) {
			return false
		}
	}
	return true
}

// Hash returns a sha256 hex digest of the record serialized as key-sorted
// JSON, for privacy-preserving deduplication and audit logs.
func Hash(r Record) string {
	if len(r) == 0 {
		return ""
	}

	// json.Marshal sorts map keys, so the digest is deterministic.
	data, err := json.Marshal(r)
	if err != nil {
		return ""
	}

	return fmt.Sprintf("%x", sha256.Sum256(data))
}
