package model

// Cinema rows are seeded once and never touched by the crawler; extractors
// only look them up by name.
type Cinema struct {
	DTO
	Name       string      `gorm:"not null;uniqueIndex" validate:"required" json:"name"`
	Address    string      `gorm:"not null" json:"address"`
	Website    string      `gorm:"not null" json:"website"`
	Color      string      `gorm:"not null" json:"color"`
	Screenings []Screening `gorm:"foreignKey:CinemaId" json:"screenings,omitempty"`
}

type Cinemas []Cinema

type FilterCinemaInput struct {
	Pagination
	SearchKey string `query:"searchKey"`
}
