package utils

// Span is a half-open [Start, End) range into a slice.
type Span struct {
	Start int
	End   int
}

// Chunk splits n items into consecutive spans of at most size items.
func Chunk(n, size int) []Span {
	if size <= 0 {
		size = n
	}

	var spans []Span
	for i := 0; i < n; i += size {
		end := i + size
		if end > n {
			end = n
		}
		spans = append(spans, Span{Start: i, End: end})
	}
	return spans
}
