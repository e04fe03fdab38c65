package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"movieapi/internal/auth"
	"movieapi/internal/config"
	"movieapi/internal/db"
	"movieapi/internal/logger"
	"movieapi/internal/model"
	"movieapi/internal/repository"
)

// SeedUser is a user entry of the seed file.
type SeedUser struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Gender   string `json:"gender"`
	Role     string `json:"role"`
}

// SeedMovie is a movie entry of the seed file.
type SeedMovie struct {
	Title  string   `json:"title"`
	Genres []string `json:"genres"`
	Year   int      `json:"year"`
}

// SeedData is the layout of SEED_FILE.
type SeedData struct {
	Users  []SeedUser  `json:"users"`
	Movies []SeedMovie `json:"movies"`
}

type seedResult struct {
	UsersCreated  int
	MoviesCreated int
	Skipped       int
}

func main() {
	zl, err := logger.New("info")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()

	cfg, err := config.LoadSeed()
	if err != nil {
		zl.Fatal("config", zap.Error(err))
	}

	data, err := readSeedFile(cfg.SeedFile)
	if err != nil {
		zl.Fatal("read seed file", zap.String("file", cfg.SeedFile), zap.Error(err))
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		zl.Fatal("database init", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		zl.Fatal("auto-migrate", zap.Error(err))
	}

	hasher, err := auth.NewPasswordHasher(cfg.PasswordScheme)
	if err != nil {
		zl.Fatal("password hasher", zap.Error(err))
	}

	res, err := seed(context.Background(),
		repository.NewUserRepository(gormDB),
		repository.NewMovieRepository(gormDB),
		hasher, data)
	if err != nil {
		zl.Fatal("seed", zap.Error(err))
	}

	zl.Info("seed completed",
		zap.Int("users_created", res.UsersCreated),
		zap.Int("movies_created", res.MoviesCreated),
		zap.Int("skipped", res.Skipped),
	)
}

func readSeedFile(path string) (*SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &data, nil
}

// seed inserts users and movies whose email or title is not already stored.
// Existing rows are left untouched.
func seed(ctx context.Context, users repository.UserRepository, movies repository.MovieRepository, hasher auth.PasswordHasher, data *SeedData) (seedResult, error) {
	var res seedResult

	for _, u := range data.Users {
		_, err := users.FindByEmail(ctx, u.Email)
		if err == nil {
			res.Skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return res, fmt.Errorf("error checking user %s: %w", u.Email, err)
		}

		stored, err := hasher.Hash(u.Password)
		if err != nil {
			return res, fmt.Errorf("error hashing password for %s: %w", u.Email, err)
		}
		user := model.User{Email: u.Email, Password: stored, Gender: u.Gender, Role: u.Role}
		if err := users.Create(ctx, &user); err != nil {
			return res, fmt.Errorf("error creating user %s: %w", u.Email, err)
		}
		res.UsersCreated++
	}

	for _, m := range data.Movies {
		_, err := movies.FindByTitle(ctx, m.Title)
		if err == nil {
			res.Skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return res, fmt.Errorf("error checking movie %q: %w", m.Title, err)
		}

		movie := model.Movie{Title: m.Title, Genres: m.Genres, Year: m.Year}
		if err := movies.Create(ctx, &movie); err != nil {
			return res, fmt.Errorf("error creating movie %q: %w", m.Title, err)
		}
		res.MoviesCreated++
	}

	return res, nil
}
