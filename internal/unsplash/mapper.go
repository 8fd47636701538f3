package unsplash

import (
	"time"

	"github.com/mmcdole/splash/internal/domain"
)

// MapPhotos converts API photos to domain photos, dropping entries without an ID
func MapPhotos(dtos []Photo) []*domain.Photo {
	photos := make([]*domain.Photo, 0, len(dtos))
	for _, d := range dtos {
		if d.ID == "" {
			continue
		}
		photos = append(photos, MapPhoto(d))
	}
	return photos
}

// MapPhoto converts a single API photo to a domain photo
func MapPhoto(d Photo) *domain.Photo {
	p := &domain.Photo{
		ID:             d.ID,
		Description:    deref(d.Description),
		AltDescription: deref(d.AltDescription),
		Width:          d.Width,
		Height:         d.Height,
		Color:          d.Color,
		Likes:          d.Likes,
		URLs: domain.PhotoURLs{
			Raw:     d.URLs.Raw,
			Full:    d.URLs.Full,
			Regular: d.URLs.Regular,
			Small:   d.URLs.Small,
			Thumb:   d.URLs.Thumb,
		},
		PageURL: d.Links.HTML,
		User: domain.User{
			Username:          d.User.Username,
			Name:              d.User.Name,
			InstagramUsername: deref(d.User.InstagramUsername),
			AvatarURL:         d.User.ProfileImage.Medium,
			ProfileURL:        d.User.Links.HTML,
		},
	}

	if d.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, d.CreatedAt); err == nil {
			p.CreatedAt = t
		}
	}

	return p
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
