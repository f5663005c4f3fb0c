// Package curation defines the entities exchanged with the curation backend
// and the pure view derivations the review screen renders from them.
//
// Both entities are created and owned by the backend; this process only ever
// holds transient, refreshable copies in memory.
package curation

import "strings"

// Status is the review state of a candidate image, assigned by the backend.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusReview   Status = "review"
)

// Recommendation is the backend's categorical verdict for a scored image.
type Recommendation string

const (
	RecommendApprove Recommendation = "approve"
	RecommendReview  Recommendation = "review"
	RecommendReject  Recommendation = "reject"
)

// Image is one candidate training image in a persona dataset.
// Path is the stable identifier across requests; everything else is display
// metadata or scoring output.
type Image struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Status   Status `json:"status"`

	// Score and Recommendation are nil until the image has been scored.
	// The backend guarantees they are nil together.
	Score          *float64        `json:"score"`
	Recommendation *Recommendation `json:"recommendation"`

	FaceMatch *float64 `json:"face_match"`
	HairMatch *float64 `json:"hair_match"`
	BodyMatch *float64 `json:"body_match"`

	Issues []string `json:"issues"`
	Notes  string   `json:"notes,omitempty"`
}

// Scored reports whether the backend has assigned this image a quality score.
func (img Image) Scored() bool {
	return img.Score != nil
}

// Reviewable reports whether approve/reject actions still apply.
// Approved is terminal: the screen offers no further review controls for it.
func (img Image) Reviewable() bool {
	return img.Status != StatusApproved
}

// DisplayURL returns the renderable resource for the image, falling back to
// the placeholder when the backend supplied no URL.
func (img Image) DisplayURL(placeholder string) string {
	if strings.TrimSpace(img.URL) == "" {
		return placeholder
	}
	return img.URL
}

// Stats is the backend's aggregate counter snapshot. It is read-only here and
// replaced wholesale on every fetch.
type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Review   int `json:"review"`
	Target   int `json:"target"`
}

// Filter selects which slice of the dataset the images fetch asks for.
// Filtering happens server-side; the client never narrows the list itself.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterPending  Filter = "pending"
	FilterApproved Filter = "approved"
	FilterReview   Filter = "review"
)

// Filters lists the selectable tabs in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterPending, FilterApproved, FilterReview}
}

// Valid reports whether f is one of the selectable filters.
func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterPending, FilterApproved, FilterReview:
		return true
	}
	return false
}

// Unscored returns the images with no score yet, preserving list order.
// This is the candidate set a scoring batch walks.
func Unscored(images []Image) []Image {
	var pending []Image
	for _, img := range images {
		if !img.Scored() {
			pending = append(pending, img)
		}
	}
	return pending
}
