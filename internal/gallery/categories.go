package gallery

// DefaultCategory receives every record whose category is not recognised.
const DefaultCategory = "default"

type category struct {
	label       string
	description string
	priority    int
}

// unknownPriority ranks after every known category.
const unknownPriority = 1 << 30

var categories = map[string]category{
	"entire-villa": {"Complete Villa Experience", "Experience the complete Ko Lake Villa with exclusive access to all amenities", 1},
	"family-suite": {"Family Suite", "Spacious family accommodation with lake views and premium amenities", 2},
	"pool-deck":    {"Pool & Deck Area", "Relaxing pool area with panoramic lake views", 3},
	"lake-garden":  {"Lake Garden Views", "Beautiful gardens overlooking Koggala Lake", 4},
	"dining-area":  {"Dining Experience", "Elegant dining spaces with authentic Sri Lankan cuisine", 5},
	"roof-garden":  {"Rooftop Garden", "Serene rooftop garden with 360-degree views", 6},
	"front-garden": {"Front Garden", "Welcoming entrance gardens with tropical landscaping", 7},
	"group-room":   {"Group Accommodation", "Perfect for groups and families traveling together", 8},
	"triple-room":  {"Triple Room", "Comfortable triple occupancy with modern facilities", 9},
	"koggala-lake": {"Koggala Lake", "Stunning Koggala Lake with pristine natural beauty", 10},
	"excursions":   {"Local Excursions", "Exciting local adventures and cultural experiences", 11},
	"events":       {"Event Spaces", "Memorable venues for special occasions and celebrations", 12},
	"friends":      {"Social Spaces", "Social spaces perfect for gathering and relaxation", 13},

	DefaultCategory: {"Villa Gallery", "Beautiful spaces at Ko Lake Villa", 99},
}

// ordered by display priority
var categoryOrder = []string{
	"entire-villa", "family-suite", "pool-deck", "lake-garden", "dining-area",
	"roof-garden", "front-garden", "group-room", "triple-room", "koggala-lake",
	"excursions", "events", "friends", DefaultCategory,
}

func IsKnownCategory(c string) bool {
	_, ok := categories[c]
	return ok
}

// CategoryLabel is the display title used when a record has no usable title.
func CategoryLabel(c string) string {
	if cat, ok := categories[c]; ok {
		return cat.label
	}
	return categories[DefaultCategory].label
}

func CategoryDescription(c string) string {
	if cat, ok := categories[c]; ok {
		return cat.description
	}
	return categories[DefaultCategory].description
}

// CategoryPriority ranks categories for display; lower sorts first.
func CategoryPriority(c string) int {
	if cat, ok := categories[c]; ok {
		return cat.priority
	}
	return unknownPriority
}

// Categories lists every known category in display order.
func Categories() []string {
	out := make([]string, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}
