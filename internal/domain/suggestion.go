package domain

// Suggestion is one ranked recommendation. Probability carries the directed
// co-purchase confidence (possibly floored for display), Similarity the raw
// embedding cosine in [-1, 1], Score the blended ranking value.
type Suggestion struct {
	Item        string  `json:"item"`
	Probability float64 `json:"probability"`
	Similarity  float64 `json:"similarity"`
	Score       float64 `json:"score"`
	Support     float64 `json:"support"`
	Room        string  `json:"room,omitempty"`
}

// Basket is an unordered set of distinct item names observed together in one
// purchase or invoice event, kept sorted for deterministic iteration.
type Basket []string
