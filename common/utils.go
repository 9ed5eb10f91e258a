package common

// Coalesce picks the first value that differs from T's zero value.
// Config defaults use it to fill fields a YAML document left unset.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
