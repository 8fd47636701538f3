package domain

import (
	"fmt"
	"time"
)

// Orientation classifies a photo by its aspect ratio
type Orientation int

const (
	OrientationUnknown Orientation = iota
	OrientationLandscape
	OrientationPortrait
	OrientationSquare
)

// String returns a human-readable representation of the orientation
func (o Orientation) String() string {
	switch o {
	case OrientationLandscape:
		return "Landscape"
	case OrientationPortrait:
		return "Portrait"
	case OrientationSquare:
		return "Square"
	default:
		return "Unknown"
	}
}

// PhotoURLs holds the rendition URLs the API serves for one photo
type PhotoURLs struct {
	Raw     string `json:"raw,omitempty" yaml:"raw,omitempty"`
	Full    string `json:"full,omitempty" yaml:"full,omitempty"`
	Regular string `json:"regular,omitempty" yaml:"regular,omitempty"`
	Small   string `json:"small,omitempty" yaml:"small,omitempty"`
	Thumb   string `json:"thumb,omitempty" yaml:"thumb,omitempty"`
}

// User is the photographer who published a photo
type User struct {
	Username          string `json:"username" yaml:"username"`
	Name              string `json:"name" yaml:"name"`
	InstagramUsername string `json:"instagram_username,omitempty" yaml:"instagram_username,omitempty"`
	AvatarURL         string `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty"` // Medium profile image
	ProfileURL        string `json:"profile_url,omitempty" yaml:"profile_url,omitempty"`
}

// Photo is a single photo record.
// Only ID is inspected by the pagination core; everything else is payload for rendering.
type Photo struct {
	ID             string    `json:"id" yaml:"id"`
	Description    string    `json:"description,omitempty" yaml:"description,omitempty"`
	AltDescription string    `json:"alt_description,omitempty" yaml:"alt_description,omitempty"`
	Width          int       `json:"width,omitempty" yaml:"width,omitempty"`
	Height         int       `json:"height,omitempty" yaml:"height,omitempty"`
	Color          string    `json:"color,omitempty" yaml:"color,omitempty"` // Dominant colour, "#RRGGBB"
	Likes          int       `json:"likes" yaml:"likes"`
	CreatedAt      time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	URLs           PhotoURLs `json:"urls" yaml:"urls"`
	PageURL        string    `json:"page_url,omitempty" yaml:"page_url,omitempty"` // Photo page on the website
	User           User      `json:"user" yaml:"user"`
}

// GetID returns the unique identifier of the photo
func (p *Photo) GetID() string { return p.ID }

// Title returns the short display title
func (p *Photo) Title() string {
	if p.AltDescription != "" {
		return p.AltDescription
	}
	return "Untitled"
}

// Caption returns the long-form text shown in the detail view
func (p *Photo) Caption() string {
	switch {
	case p.Description != "":
		return p.Description
	case p.AltDescription != "":
		return p.AltDescription
	default:
		return "No description available."
	}
}

// Author returns the photographer's display name
func (p *Photo) Author() string {
	if p.User.Name != "" {
		return p.User.Name
	}
	if p.User.Username != "" {
		return "@" + p.User.Username
	}
	return "Unknown"
}

// AuthorProfileURL returns the external profile link for the photographer.
// Instagram wins when the author has a handle, otherwise their profile page.
func (p *Photo) AuthorProfileURL() string {
	if p.User.InstagramUsername != "" {
		return "https://www.instagram.com/" + p.User.InstagramUsername
	}
	return p.User.ProfileURL
}

// Orientation returns the aspect classification of the photo
func (p *Photo) Orientation() Orientation {
	switch {
	case p.Width <= 0 || p.Height <= 0:
		return OrientationUnknown
	case p.Width > p.Height:
		return OrientationLandscape
	case p.Width < p.Height:
		return OrientationPortrait
	default:
		return OrientationSquare
	}
}

// Dimensions returns "W × H" or an empty string when unknown
func (p *Photo) Dimensions() string {
	if p.Width <= 0 || p.Height <= 0 {
		return ""
	}
	return fmt.Sprintf("%d × %d", p.Width, p.Height)
}

// PreviewURL returns the smallest rendition suitable for a terminal preview
func (p *Photo) PreviewURL() string {
	switch {
	case p.URLs.Small != "":
		return p.URLs.Small
	case p.URLs.Thumb != "":
		return p.URLs.Thumb
	default:
		return p.URLs.Regular
	}
}
