package util

// NonEmpty returns a pointer to s, or nil when s is empty. Partial update
// bodies use it so blank answers leave a field unchanged.
func NonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
