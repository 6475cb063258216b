package utils

// Unique returns xs with duplicates removed, keeping first-occurrence order.
// Viewer-state lookups use it to keep IN clauses minimal.
func Unique[T comparable](xs []T) []T {
	seen := make(map[T]struct{}, len(xs))
	out := make([]T, 0, len(xs))
	for _, x := range xs {
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
	}
	return out
}
