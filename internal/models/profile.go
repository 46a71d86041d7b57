package models

// ListName identifies one of the profile's item collections.
type ListName string

const (
	ListMyList     ListName = "my_list"
	ListWatchLater ListName = "watch_later"
)

// ProfileLists is the persisted snapshot of the viewer's collections.
// Liked stores identifiers only; the other lists keep the full item so the
// UI can render them without a second lookup.
type ProfileLists struct {
	MyList     []ContentItem `json:"myList"`
	WatchLater []ContentItem `json:"watchLaterList"`
	Liked      []int64       `json:"likedList"`
}
