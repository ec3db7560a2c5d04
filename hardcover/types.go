package hardcover

import "encoding/json"

// Payload is the raw fetch result, exactly as cached on disk. Me is
// kept as raw JSON so the cache file round-trips byte-for-byte.
type Payload struct {
	Me json.RawMessage `json:"me"`
}

// Me is the current user's profile with their reading records.
type Me struct {
	Username         string     `json:"username"`
	Name             string     `json:"name"`
	Image            *Image     `json:"image"`
	Goals            []Goal     `json:"goals"`
	CurrentlyReading []UserBook `json:"currently_reading"`
	RecentlyRead     []UserBook `json:"recently_read"`
}

// Image holds a remote image URL (avatar or book cover).
type Image struct {
	URL string `json:"url"`
}

// Goal is an active reading goal with its progress count.
type Goal struct {
	Goal     float64 `json:"goal"`
	Progress float64 `json:"progress"`
}

// UserBook is a tracking record linking the user to a book: status,
// rating and reading activity, independent of the book's own metadata.
type UserBook struct {
	ID           int64    `json:"id"`
	UpdatedAt    string   `json:"updated_at,omitempty"`
	Rating       *float64 `json:"rating"`
	HasReview    bool     `json:"has_review,omitempty"`
	LastReadDate string   `json:"last_read_date"`
	Reads        []Read   `json:"user_book_reads"`
	Book         *Book    `json:"book"`
}

// Read is one interval of reading activity on a book. Progress is a
// page count, not a percentage. Re-reads produce multiple entries.
type Read struct {
	StartedAt  string   `json:"started_at"`
	FinishedAt string   `json:"finished_at"`
	Progress   *float64 `json:"progress"`
}

// Book is the embedded book metadata on a tracking record.
type Book struct {
	Title         string         `json:"title"`
	Slug          string         `json:"slug"`
	Pages         *int           `json:"pages"`
	Image         *Image         `json:"image"`
	Contributions []Contribution `json:"contributions"`
}

// Contribution links a book to one contributing author.
type Contribution struct {
	Author *Author `json:"author"`
}

// Author is a contributing author's name.
type Author struct {
	Name string `json:"name"`
}

// NormalizeMe collapses the API's inconsistent "me" shape into a single
// record: the field comes back either as an object or as a one-element
// list. Absent or unrecognized input yields the zero value.
func NormalizeMe(raw json.RawMessage) Me {
	if len(raw) == 0 {
		return Me{}
	}

	var me Me
	if err := json.Unmarshal(raw, &me); err == nil {
		return me
	}

	var list []Me
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}

	return Me{}
}
