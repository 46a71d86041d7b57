package models

// Curated list identifiers used by the admin VOD curation screens.
const (
	CuratedHeroCandidates = "heroCandidates"
	CuratedOriginals      = "originals"
	CuratedTrending       = "trending"
)

// CuratedList is an admin-managed row of hand-picked content.
type CuratedList struct {
	ID    string        `json:"id"`
	Items []ContentItem `json:"movies"`
}
