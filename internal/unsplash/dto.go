package unsplash

// Photo is a photo object as returned by /photos and /photos/{id}
type Photo struct {
	ID             string     `json:"id"`
	CreatedAt      string     `json:"created_at,omitempty"`
	Width          int        `json:"width,omitempty"`
	Height         int        `json:"height,omitempty"`
	Color          string     `json:"color,omitempty"`
	Description    *string    `json:"description"`
	AltDescription *string    `json:"alt_description"`
	Likes          int        `json:"likes"`
	URLs           URLs       `json:"urls"`
	Links          PhotoLinks `json:"links"`
	User           User       `json:"user"`
}

// URLs are the rendition URLs of a photo
type URLs struct {
	Raw     string `json:"raw,omitempty"`
	Full    string `json:"full,omitempty"`
	Regular string `json:"regular,omitempty"`
	Small   string `json:"small,omitempty"`
	Thumb   string `json:"thumb,omitempty"`
}

// PhotoLinks are the API and website links of a photo
type PhotoLinks struct {
	Self     string `json:"self,omitempty"`
	HTML     string `json:"html,omitempty"`
	Download string `json:"download,omitempty"`
}

// User is the photographer embedded in a photo
type User struct {
	ID                string       `json:"id"`
	Username          string       `json:"username"`
	Name              string       `json:"name"`
	InstagramUsername *string      `json:"instagram_username"`
	ProfileImage      ProfileImage `json:"profile_image"`
	Links             UserLinks    `json:"links"`
}

// ProfileImage holds avatar URLs in three sizes
type ProfileImage struct {
	Small  string `json:"small,omitempty"`
	Medium string `json:"medium,omitempty"`
	Large  string `json:"large,omitempty"`
}

// UserLinks are the API and website links of a user
type UserLinks struct {
	Self string `json:"self,omitempty"`
	HTML string `json:"html,omitempty"`
}

// ErrorResponse is the body the API sends with most 4xx responses
type ErrorResponse struct {
	Errors []string `json:"errors"`
}
