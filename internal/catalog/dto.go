package catalog

import (
	"time"

	"github.com/jsherman999/LegoEater/pkg/db/models"
)

// Origin reports where a resolution was satisfied.
type Origin string

const (
	OriginCache  Origin = "cache"
	OriginRemote Origin = "remote"
)

// SetDTO is the catalog record shape returned to callers.
type SetDTO struct {
	SetNum         string    `json:"set_num"`
	Name           string    `json:"name"`
	Year           *int      `json:"year"`
	ThemeName      *string   `json:"theme_name"`
	ThemeID        *int      `json:"theme_id"`
	NumParts       *int      `json:"num_parts"`
	SetImgURL      *string   `json:"set_img_url"`
	LastModifiedDt *string   `json:"last_modified_dt"`
	FetchedAt      time.Time `json:"fetched_at"`
}

// ResolvedSet pairs a catalog record with its resolution origin.
type ResolvedSet struct {
	Set    SetDTO `json:"set"`
	Origin Origin `json:"origin"`
}

// SearchResult is a trimmed catalog row for search listings.
type SearchResult struct {
	SetNum    string  `json:"set_num"`
	Name      string  `json:"name"`
	Year      *int    `json:"year"`
	SetImgURL *string `json:"set_img_url"`
}

func toSetDTO(m *models.CatalogSet) SetDTO {
	return SetDTO{
		SetNum:         m.SetNum,
		Name:           m.Name,
		Year:           m.Year,
		ThemeName:      m.ThemeName,
		ThemeID:        m.ThemeID,
		NumParts:       m.NumParts,
		SetImgURL:      m.SetImgURL,
		LastModifiedDt: m.LastModifiedDt,
		FetchedAt:      m.FetchedAt,
	}
}
