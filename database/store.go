package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kino_karlsruhe/model"

	"github.com/gosimple/slug"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Store implements crawler.Store on top of GORM. Lookups translate
// gorm.ErrRecordNotFound into (nil, nil).
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CinemaByName(ctx context.Context, name string) (*model.Cinema, error) {
	var cinema model.Cinema
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&cinema).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cinema, nil
}

// MovieBySearchTitles finds a movie whose search_titles overlap any of the
// given spellings.
func (s *Store) MovieBySearchTitles(ctx context.Context, titles ...string) (*model.Movie, error) {
	var movie model.Movie
	err := s.db.WithContext(ctx).Where("search_titles && ?", pq.Array(titles)).First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (s *Store) MovieByTmdbId(ctx context.Context, tmdbId int) (*model.Movie, error) {
	var movie model.Movie
	err := s.db.WithContext(ctx).Where("tmdb_id = ?", tmdbId).First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (s *Store) CreateMovie(ctx context.Context, m *model.Movie) error {
	m.Slug = s.uniqueSlug(ctx, m.Title)
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *Store) UpdateMovie(ctx context.Context, m *model.Movie) error {
	return s.db.WithContext(ctx).Save(m).Error
}

func (s *Store) DeleteScreenings(ctx context.Context, cinemaId uint, from, to time.Time) error {
	return s.db.WithContext(ctx).
		Where("cinema_id = ? AND start_time >= ? AND start_time <= ?", cinemaId, from, to).
		Delete(&model.Screening{}).Error
}

func (s *Store) CreateScreenings(ctx context.Context, screenings []model.Screening) ([]model.Screening, error) {
	if len(screenings) == 0 {
		return screenings, nil
	}
	if err := s.db.WithContext(ctx).Create(&screenings).Error; err != nil {
		return nil, err
	}
	return screenings, nil
}

func (s *Store) uniqueSlug(ctx context.Context, title string) string {
	base := slug.Make(title)
	candidate := base
	for i := 2; ; i++ {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Movie{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return candidate
		}
		if count == 0 {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
