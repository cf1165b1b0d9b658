package domain

// CoalesceStr returns the first non-empty value, or "" when all are empty.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// FirstSet dereferences the first non-nil pointer. Config layers use it to
// let an explicit zero override a default.
func FirstSet[T any](fallback T, ptrs ...*T) T {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}
