package models

// NewNullString returns a pointer to s, or nil when s is empty, so
// optional text fields map to NULL columns.
func NewNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
