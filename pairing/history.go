package pairing

type pairKey struct {
	low, high int
}

func newPairKey(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{low: a, high: b}
}

// History is the set of unordered player pairs that have already met in
// the current tournament. Byes are not recorded here.
type History map[pairKey]struct{}

func NewHistory() History {
	return make(History)
}

func (h History) Add(a, b int) {
	h[newPairKey(a, b)] = struct{}{}
}

func (h History) Played(a, b int) bool {
	_, ok := h[newPairKey(a, b)]
	return ok
}
