// Package extract holds the building blocks shared by the page scrapers:
// ordered fallback strategies and DOM text helpers.
package extract

// Strategy is one named heuristic. Run reports ok=false when the heuristic
// does not apply to the scope, letting the next strategy try.
type Strategy[S, T any] struct {
	Name string
	Run  func(scope S) (T, bool)
}

// First evaluates strategies in order and returns the first success along
// with the name of the strategy that produced it.
func First[S, T any](scope S, strategies ...Strategy[S, T]) (T, string, bool) {
	for _, s := range strategies {
		if v, ok := s.Run(scope); ok {
			return v, s.Name, true
		}
	}
	var zero T
	return zero, "", false
}
