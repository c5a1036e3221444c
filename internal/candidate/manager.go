package candidate

import (
	"time"

	"github.com/talentscout/hiring-assistant/internal/fields"
)

// ValidationResult aggregates the outcome of validating a whole record.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Manager runs extraction and validation over candidate records.
type Manager struct {
	region string

	now func() time.Time
}

// NewManager returns a manager that validates phone numbers against the
// given default region. An empty region falls back to fields.DefaultRegion.
func NewManager(region string) *Manager {
	if region == "" {
		region = fields.DefaultRegion
	}

	return &Manager{
		region: region,
		now:    time.Now,
	}
}

// ExtractAndMerge scans the raw user utterance for email, phone and
// experience, in that order, and fills each field only when it is not yet
// present. The record grows monotonically; a later, possibly weaker match
// never replaces an earlier one. The fixed order also keeps the permissive
// phone pattern from swallowing values that belong to other fields.
func (m *Manager) ExtractAndMerge(rec Record, userText string) {
	if !rec.Has(FieldEmail) {
		if email, ok := fields.ExtractEmail(userText); ok {
			rec.SetIfAbsent(FieldEmail, email)
		}
	}

	if !rec.Has(FieldPhone) {
		if phone, ok := fields.ExtractPhone(userText); ok {
			rec.SetIfAbsent(FieldPhone, phone)
		}
	}

	if !rec.Has(FieldExperience) {
		if exp, ok := fields.ExtractExperience(userText); ok {
			rec.SetIfAbsent(FieldExperience, exp)
		}
	}
}

// Validate checks every present field with its validator and aggregates
// the fixed failure messages. Fields absent from the record are not
// checked, so an empty record is trivially valid.
func (m *Manager) Validate(rec Record) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []string{}}

	if rec.Has(FieldEmail) && !fields.IsValidEmail(rec[FieldEmail]) {
		result.Valid = false
		result.Errors = append(result.Errors, "Invalid email format")
	}

	if rec.Has(FieldPhone) && !fields.IsValidPhone(rec[FieldPhone], m.region) {
		result.Valid = false
		result.Errors = append(result.Errors, "Invalid phone number")
	}

	if rec.Has(FieldExperience) && !fields.IsValidExperience(rec[FieldExperience]) {
		result.Valid = false
		result.Errors = append(result.Errors, "Invalid experience format")
	}

	if rec.Has(FieldName) && !fields.IsValidName(rec[FieldName]) {
		result.Valid = false
		result.Errors = append(result.Errors, "Invalid name format")
	}

	return result
}

// Sanitize returns a new record with every value stripped of the
// characters < > " ' ; and trimmed. The original record is not modified.
func Sanitize(rec Record) Record {
	out := make(Record, len(rec))
	for key, value := range rec {
		out[key] = fields.SanitizeInput(value)
	}
	return out
}

// Export returns a copy of the record with an RFC3339 timestamp added,
// ready to be handed to a store. Sanitization is the caller's concern.
func (m *Manager) Export(rec Record) Record {
	out := rec.Clone()
	out[FieldTimestamp] = m.now().Format(time.RFC3339)
	return out
}
