package model

import (
	"kino_karlsruhe/utils"

	"github.com/lib/pq"
)

// Movie is one canonical film record. SearchTitles collects every raw title
// string the crawlers have ever seen for it, so later cycles resolve title
// variants without another metadata lookup. TmdbId is null for local-only
// movies that never matched the metadata service.
type Movie struct {
	DTO
	Title        string            `gorm:"not null;index" json:"title"`
	Slug         string            `gorm:"uniqueIndex" json:"slug"`
	SearchTitles pq.StringArray    `gorm:"type:text[];not null" json:"searchTitles"`
	TmdbId       *int              `gorm:"uniqueIndex" json:"tmdbId"`
	PosterUrl    *string           `json:"posterUrl"`
	BackdropUrl  *string           `json:"backdropUrl"`
	Length       *int              `json:"length"` // minutes
	ReleaseDate  *utils.CustomDate `gorm:"type:date" json:"releaseDate"`
	Popularity   *float64          `json:"popularity"`
}

type Movies []Movie

type FilterMovieInput struct {
	Pagination
	Title string `query:"title"`
}
