package filter

// NoOpFilter never excludes any atom.
type NoOpFilter struct{}

// NewNoOpFilter creates a new no-op filter.
func NewNoOpFilter() *NoOpFilter {
	return &NoOpFilter{}
}

// ShouldExclude always returns false.
func (f *NoOpFilter) ShouldExclude(_ string) bool {
	return false
}
