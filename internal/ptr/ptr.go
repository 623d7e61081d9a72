package ptr

// Ref returns a pointer to the value passed as argument.
//
// Useful for optional JSON fields and test fixtures.
func Ref[T any](v T) *T {
	return &v
}
