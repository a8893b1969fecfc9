package model

import (
	"time"

	"github.com/lib/pq"
)

// Screening is one showing of a movie at a cinema. Properties carries the
// normalized version tags (OmU, OV, 3D, ...) for that showing.
type Screening struct {
	DTO
	MovieId    uint           `gorm:"not null;index" json:"movieId"`
	CinemaId   uint           `gorm:"not null;index" json:"cinemaId"`
	StartTime  time.Time      `gorm:"not null;index" validate:"required" json:"startTime"`
	Properties pq.StringArray `gorm:"type:text[]" json:"properties"`
	Movie      Movie          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignKey:MovieId" json:"movie"`
	Cinema     Cinema         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignKey:CinemaId" json:"cinema"`
}

type FilterScreeningInput struct {
	DateFrom time.Time `query:"dateFrom" validate:"required"`
	DateTo   time.Time `query:"dateTo" validate:"required"`
	MovieId  uint      `query:"movieId"`
}
