package database

import (
	"log"

	"kino_karlsruhe/model"

	"gorm.io/gorm"
)

// SeedData upserts the four Karlsruhe cinemas. The crawler never creates
// cinemas itself; extractors fail for a cinema missing from this list.
func SeedData(db *gorm.DB) {
	cinemas := []model.Cinema{
		{
			Name:    "Schauburg",
			Address: "Marienstraße 16, 76137 Karlsruhe",
			Website: "www.schauburg.de",
			Color:   "#d42013",
		},
		{
			Name:    "Kinemathek",
			Address: "Kaiserpassage 6, 76133 Karlsruhe",
			Website: "www.kinemathek-karlsruhe.de",
			Color:   "#10b02b",
		},
		{
			Name:    "Universum",
			Address: "Kaiserstraße 152-154, 76133 Karlsruhe",
			Website: "www.kinopolis.de/ka",
			Color:   "#e6ca19",
		},
		{
			Name:    "Filmpalast",
			Address: "Brauerstraße 40, 76135 Karlsruhe",
			Website: "www.filmpalast.net",
			Color:   "#0e41cc",
		},
	}

	for _, cinema := range cinemas {
		if err := db.Where(model.Cinema{Name: cinema.Name}).FirstOrCreate(&cinema).Error; err != nil {
			log.Println("failed to seed cinema:", cinema.Name, "error:", err)
		}
	}
}
