package domain

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// RawMediaRecord mirrors a gallery row as stored; optional text fields are nil when absent.
type RawMediaRecord struct {
	ID          int64     `json:"id"`
	URL         string    `json:"url"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    string    `json:"category"`
	MediaType   MediaType `json:"mediaType"`
	Tags        *string   `json:"tags,omitempty"`
	Featured    bool      `json:"featured"`
	SortOrder   int       `json:"sortOrder"`
}

type NormalizedMediaRecord struct {
	ID              int64     `json:"id"`
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	MediaType       MediaType `json:"mediaType"`
	Tags            *string   `json:"tags,omitempty"`
	Featured        bool      `json:"featured"`
	SortOrder       int       `json:"sortOrder"`
	IsValid         bool      `json:"isValid"`
	ValidationNotes []string  `json:"validationNotes"`
}

// Raw converts a normalized record back into the input shape, so a cleaned
// gallery can be fed through the normalizer again or persisted.
func (n NormalizedMediaRecord) Raw() RawMediaRecord {
	title, desc := n.Title, n.Description
	return RawMediaRecord{
		ID:          n.ID,
		URL:         n.URL,
		Title:       &title,
		Description: &desc,
		Category:    n.Category,
		MediaType:   n.MediaType,
		Tags:        n.Tags,
		Featured:    n.Featured,
		SortOrder:   n.SortOrder,
	}
}
