package ratio

// Category classifies a ratio against the active thresholds.
type Category string

// Known categories, ordered from most to least favourable to the creator.
const (
	Undervalued Category = "undervalued"
	Balanced    Category = "balanced"
	Overvalued  Category = "overvalued"
)

// categoryInfo is the static display data attached to each category.
type categoryInfo struct {
	label       string
	glyph       string
	description string
}

var categories = map[Category]categoryInfo{
	Undervalued: {
		label:       "Undervalued",
		glyph:       "📈",
		description: "High potential, low market recognition. Your creator value exceeds market expectations!",
	},
	Balanced: {
		label:       "Balanced",
		glyph:       "⚖️",
		description: "Fair valuation. Your creator score and market cap are well-aligned.",
	},
	Overvalued: {
		label:       "Overvalued",
		glyph:       "📉",
		description: "High market cap relative to creator score. Focus on building your creator value!",
	},
}

// Label returns the display label, e.g. "Balanced".
func (c Category) Label() string { return categories[c].label }

// Glyph returns the emoji shown next to the label.
func (c Category) Glyph() string { return categories[c].glyph }

// Description returns the one-sentence explanation of the category.
func (c Category) Description() string { return categories[c].description }

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{Undervalued, Balanced, Overvalued}
}
