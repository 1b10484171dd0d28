package models

// PairKey is the canonical identity of an unordered model pair. Low and High
// are always in lexicographic order, so NewPairKey(a, b) == NewPairKey(b, a).
type PairKey struct {
	Low  string `json:"low"`
	High string `json:"high"`
}

// NewPairKey builds the canonical key for the two models.
func NewPairKey(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{Low: a, High: b}
}

// Models returns the two members in canonical order.
func (k PairKey) Models() (string, string) {
	return k.Low, k.High
}

// Contains reports whether model is one of the pair's members.
func (k PairKey) Contains(model string) bool {
	return k.Low == model || k.High == model
}

// Other returns the member that is not model. Callers must ensure model is a
// member of the pair.
func (k PairKey) Other(model string) string {
	if k.Low == model {
		return k.High
	}
	return k.Low
}

func (k PairKey) String() string {
	return k.Low + " vs " + k.High
}

// RatingKey identifies a rated entity: either a model's overall rating or its
// rating inside one category. An empty Category means overall.
type RatingKey struct {
	Model    string
	Category string
}

// OverallKey returns the key for a model's overall rating.
func OverallKey(model string) RatingKey {
	return RatingKey{Model: model}
}

// CategoryKey returns the key for a model's rating within a category.
func CategoryKey(model, category string) RatingKey {
	return RatingKey{Model: model, Category: category}
}

// IsOverall reports whether the key refers to the overall rating.
func (k RatingKey) IsOverall() bool {
	return k.Category == ""
}
