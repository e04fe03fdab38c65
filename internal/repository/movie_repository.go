package repository

import (
	"context"

	"gorm.io/gorm"

	"movieapi/internal/model"
)

// MovieRepository defines movie persistence operations.
type MovieRepository interface {
	Create(ctx context.Context, movie *model.Movie) error
	FindByID(ctx context.Context, id uint) (*model.Movie, error)
	FindByTitle(ctx context.Context, title string) (*model.Movie, error)
	List(ctx context.Context, limit int) ([]model.Movie, error)
	Update(ctx context.Context, id uint, movie *model.Movie) (*model.Movie, error)
	Delete(ctx context.Context, id uint) (*model.Movie, error)
}

type movieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new movie repository.
func NewMovieRepository(db *gorm.DB) MovieRepository {
	return &movieRepository{db: db}
}

// Create inserts a movie and fills in its ID.
func (r *movieRepository) Create(ctx context.Context, movie *model.Movie) error {
	return r.db.WithContext(ctx).Create(movie).Error
}

// FindByID finds a movie by ID.
func (r *movieRepository) FindByID(ctx context.Context, id uint) (*model.Movie, error) {
	var movie model.Movie
	if err := r.db.WithContext(ctx).First(&movie, id).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

// FindByTitle finds the first movie with the given title.
func (r *movieRepository) FindByTitle(ctx context.Context, title string) (*model.Movie, error) {
	var movie model.Movie
	if err := r.db.WithContext(ctx).Where("title = ?", title).Order("id").Take(&movie).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

// List returns movies ordered by ID, at most limit rows unless limit is NoLimit.
func (r *movieRepository) List(ctx context.Context, limit int) ([]model.Movie, error) {
	movies := []model.Movie{}
	if err := r.db.WithContext(ctx).Order("id").Limit(limit).Find(&movies).Error; err != nil {
		return nil, err
	}
	return movies, nil
}

// Update replaces title, genres and year of an existing movie.
// Returns gorm.ErrRecordNotFound when no movie has the given ID.
func (r *movieRepository) Update(ctx context.Context, id uint, movie *model.Movie) (*model.Movie, error) {
	var updated model.Movie
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&updated, id).Error; err != nil {
			return err
		}
		updated.Title = movie.Title
		updated.Genres = movie.Genres
		updated.Year = movie.Year
		return tx.Save(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a movie and returns the removed row.
// Returns gorm.ErrRecordNotFound when no movie has the given ID.
func (r *movieRepository) Delete(ctx context.Context, id uint) (*model.Movie, error) {
	var deleted model.Movie
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&deleted, id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Movie{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}
