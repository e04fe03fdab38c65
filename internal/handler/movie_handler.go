package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"movieapi/internal/auth"
	apperrors "movieapi/internal/errors"
	"movieapi/internal/model"
	"movieapi/internal/service"
)

// MovieHandler handles movie endpoints.
type MovieHandler struct {
	svc    service.MovieService
	logger *zap.Logger
}

// NewMovieHandler creates a new movie handler.
func NewMovieHandler(svc service.MovieService, logger *zap.Logger) *MovieHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MovieHandler{svc: svc, logger: logger}
}

// MovieRequest is the body of create and update requests.
type MovieRequest struct {
	Title  string   `json:"title" validate:"required"`
	Genres []string `json:"genres"`
	Year   int      `json:"year" validate:"gte=0"`
}

// CreateMovieResponse wraps a newly inserted movie.
type CreateMovieResponse struct {
	Message      string       `json:"message"`
	InsertedData *model.Movie `json:"inserted_data"`
}

// DeleteMovieResponse wraps a removed movie.
type DeleteMovieResponse struct {
	Message      string       `json:"message"`
	DeletedMovie *model.Movie `json:"deleted_movie"`
}

func (r MovieRequest) input() service.MovieInput {
	return service.MovieInput{Title: r.Title, Genres: r.Genres, Year: r.Year}
}

// ListMovies godoc
// @Summary List movies
// @Description Requires a token issued by /users/login. TOKEN_LOOKUP selects where it is read:
// @Description the last path segment (default, param:token), the Authorization header as
// @Description "Bearer <token>" (header:Authorization:Bearer ) with the path GET /movies/list,
// @Description or the ?token= query parameter (query:token) with the path GET /movies/list.
// @Tags movies
// @Produce json
// @Param token path string true "Access token (path lookup only)"
// @Param limit query int false "Maximum number of movies"
// @Success 200 {array} model.Movie
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} auth.GateResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /movies/list/{token} [get]
func (h *MovieHandler) ListMovies(c echo.Context) error {
	limit, err := parseLimit(c)
	if err != nil {
		return errorResponse(c, h.logger, apperrors.MapErrorToHTTP(err), err)
	}

	if claims, ok := auth.ClaimsFromContext(c.Request().Context()); ok {
		h.logger.Debug("listing movies", zap.String("email", claims.Email), zap.String("role", claims.Role))
	}

	movies, err := h.svc.ListMovies(c.Request().Context(), limit)
	if err != nil {
		return errorResponse(c, h.logger, apperrors.MapErrorToHTTP(err), err)
	}
	return c.JSON(http.StatusOK, movies)
}

// GetMovie godoc
// @Summary Get movie by id
// @Tags movies
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {object} model.Movie
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovie(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	movie, err := h.svc.GetMovie(c.Request().Context(), id)
	if err != nil {
		return errorResponse(c, h.logger, apperrors.MapErrorToHTTP(err), err)
	}
	return c.JSON(http.StatusOK, movie)
}

// CreateMovie godoc
// @Summary Add a movie
// @Tags movies
// @Accept json
// @Produce json
// @Param request body MovieRequest true "Movie"
// @Success 201 {object} CreateMovieResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /movies [post]
func (h *MovieHandler) CreateMovie(c echo.Context) error {
	var req MovieRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body", "INVALID_BODY")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error(), "VALIDATION_FAILED")
	}

	movie, err := h.svc.CreateMovie(c.Request().Context(), req.input())
	if err != nil {
		return errorResponse(c, h.logger, apperrors.MapErrorToHTTP(err), err)
	}
	return c.JSON(http.StatusCreated, CreateMovieResponse{Message: "movie created", InsertedData: movie})
}

// UpdateMovie godoc
// @Summary Update a movie
// @Tags movies
// @Accept json
// @Produce json
// @Param id path int true "Movie ID"
// @Param request body MovieRequest true "Movie"
// @Success 200 {object} model.Movie
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /movies/{id} [put]
func (h *MovieHandler) UpdateMovie(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req MovieRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body", "INVALID_BODY")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error(), "VALIDATION_FAILED")
	}

	movie, err := h.svc.UpdateMovie(c.Request().Context(), id, req.input())
	if err != nil {
		return errorResponse(c, h.logger, apperrors.MapErrorToHTTP(err), err)
	}
	return c.JSON(http.StatusOK, movie)
}

// DeleteMovie godoc
// @Summary Delete a movie
// @Tags movies
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {object} DeleteMovieResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /movies/{id} [delete]
func (h *MovieHandler) DeleteMovie(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	movie, err := h.svc.DeleteMovie(c.Request().Context(), id)
	if err != nil {
		return errorResponse(c, h.logger, apperrors.MapErrorToHTTP(err), err)
	}
	return c.JSON(http.StatusOK, DeleteMovieResponse{Message: "movie deleted", DeletedMovie: movie})
}
