package service

import (
	"context"
	"fmt"
	"time"

	"movieapi/internal/cache"
	"movieapi/internal/model"
	"movieapi/internal/repository"
)

const movieCacheTTL = 5 * time.Minute

// MovieInput carries the writable fields of a movie.
type MovieInput struct {
	Title  string
	Genres []string
	Year   int
}

// MovieService exposes movie catalogue operations.
type MovieService interface {
	ListMovies(ctx context.Context, limit int) ([]model.Movie, error)
	GetMovie(ctx context.Context, id uint) (*model.Movie, error)
	CreateMovie(ctx context.Context, in MovieInput) (*model.Movie, error)
	UpdateMovie(ctx context.Context, id uint, in MovieInput) (*model.Movie, error)
	DeleteMovie(ctx context.Context, id uint) (*model.Movie, error)
}

type movieService struct {
	repo  repository.MovieRepository
	cache *cache.Client
}

// NewMovieService creates a new movie service.
func NewMovieService(repo repository.MovieRepository, cache *cache.Client) MovieService {
	return &movieService{repo: repo, cache: cache}
}

func movieCacheKey(id uint) string {
	return fmt.Sprintf("movie:%d", id)
}

func (s *movieService) ListMovies(ctx context.Context, limit int) ([]model.Movie, error) {
	return s.repo.List(ctx, limit)
}

// GetMovie reads through the cache.
func (s *movieService) GetMovie(ctx context.Context, id uint) (*model.Movie, error) {
	var cached model.Movie
	if s.cache.GetJSON(ctx, movieCacheKey(id), &cached) {
		return &cached, nil
	}

	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, movieCacheKey(id), movie, movieCacheTTL)
	return movie, nil
}

func (s *movieService) CreateMovie(ctx context.Context, in MovieInput) (*model.Movie, error) {
	movie := &model.Movie{Title: in.Title, Genres: in.Genres, Year: in.Year}
	if err := s.repo.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}
	return movie, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, id uint, in MovieInput) (*model.Movie, error) {
	movie, err := s.repo.Update(ctx, id, &model.Movie{Title: in.Title, Genres: in.Genres, Year: in.Year})
	if err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, movieCacheKey(id))
	return movie, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, id uint) (*model.Movie, error) {
	movie, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, movieCacheKey(id))
	return movie, nil
}
