package models

import "time"

// DateLayout is the wire format for event dates.
const DateLayout = "2006-01-02"

// Event represents one owned ticket / show attendance record.
type Event struct {
	ID           string   `json:"id" bson:"event_id"`
	Title        string   `json:"title" bson:"title"`
	Venue        string   `json:"venue" bson:"venue"`
	Date         string   `json:"date" bson:"date"` // ISO calendar date, see DateLayout
	Time         string   `json:"time,omitempty" bson:"time,omitempty"`
	Seat         string   `json:"seat,omitempty" bson:"seat,omitempty"`
	Price        float64  `json:"price" bson:"price"`
	ImageURL     *string  `json:"image_url,omitempty" bson:"image_url,omitempty"`
	UserImages   []string `json:"user_images,omitempty" bson:"user_images,omitempty"`
	SharedImages []string `json:"shared_images,omitempty" bson:"shared_images,omitempty"`
	Notes        string   `json:"notes,omitempty" bson:"notes,omitempty"`
	ListingID    *string  `json:"listing_id,omitempty" bson:"listing_id,omitempty"`
	Public       bool     `json:"public" bson:"public"`
	LikedBy      []string `json:"liked_by,omitempty" bson:"liked_by,omitempty"`
	OwnerID      string   `json:"owner_id" bson:"owner_id"`
	OwnerName    string   `json:"owner_name,omitempty" bson:"owner_name,omitempty"`
	OwnerAvatar  *string  `json:"owner_avatar,omitempty" bson:"owner_avatar,omitempty"`
}

// StartsAt resolves the event's calendar date. The free-text time field is
// not part of the result; callers that care about it parse separately.
func (e Event) StartsAt() (time.Time, error) {
	return time.Parse(DateLayout, e.Date)
}

// LikedByContains reports membership of uid in the liked-by set.
func (e Event) LikedByContains(uid string) bool {
	for _, id := range e.LikedBy {
		if id == uid {
			return true
		}
	}
	return false
}

// Experience is a free-form note/photo annotation attached to an event.
type Experience struct {
	ID      int64   `json:"id" bson:"experience_id"`
	Title   string  `json:"title" bson:"title"`
	EventID string  `json:"event_id" bson:"event_id"`
	Note    *string `json:"note,omitempty" bson:"note,omitempty"`
	Photo   *string `json:"photo,omitempty" bson:"photo,omitempty"`
}

// UserProfile holds the per-user public profile document.
type UserProfile struct {
	UID           string  `json:"uid" bson:"uid"`
	Name          string  `json:"name" bson:"name"`
	Email         string  `json:"email" bson:"email"`
	Bio           string  `json:"bio,omitempty" bson:"bio,omitempty"`
	Avatar        *string `json:"avatar,omitempty" bson:"avatar,omitempty"`
	FavoriteShows string  `json:"favorite_shows,omitempty" bson:"favorite_shows,omitempty"`
}

// ShowSummary is a transient listing projection used only for display.
// It is derived from external listing data and never persisted.
type ShowSummary struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Venue         string  `json:"venue"`
	Date          string  `json:"date"`
	StartingPrice float64 `json:"starting_price"`
	ImageURL      *string `json:"image_url,omitempty"`
}

// Track is a transient song-search result.
type Track struct {
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	PreviewURL string `json:"preview_url,omitempty"`
	ArtworkURL string `json:"artwork_url,omitempty"`
}
