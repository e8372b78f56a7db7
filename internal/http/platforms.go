package httpserver

import (
	"context"
	"net/http"
	"strings"

	"watchlist/internal/auth"
	"watchlist/internal/domain"
	"watchlist/internal/permission"
	"watchlist/internal/repository"
)

type platformRequest struct {
	Name    string `json:"name"`
	About   string `json:"about"`
	Website string `json:"website"`
}

func (req *platformRequest) validate() (repository.PlatformParams, string) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return repository.PlatformParams{}, "name is required"
	}
	website := strings.TrimSpace(req.Website)
	if website != "" && !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
		return repository.PlatformParams{}, "website must be an http(s) URL"
	}
	return repository.PlatformParams{
		Name:    name,
		About:   strings.TrimSpace(req.About),
		Website: website,
	}, ""
}

func (s *Server) handleListPlatforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := s.repo.Platforms.List(r.Context())
	if err != nil {
		s.respondRepoError(w, "list platforms", err)
		return
	}

	items := make([]platformResponse, 0, len(platforms))
	for _, platform := range platforms {
		nested, err := s.nestedMovies(r.Context(), platform.ID)
		if err != nil {
			s.respondRepoError(w, "assemble platform projection", err)
			return
		}
		items = append(items, toPlatformResponse(platform, nested))
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreatePlatform(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFrom(r.Context())
	if err := permission.Check(permission.AdminOrReadOnly, actor, permission.ActionWrite, ""); err != nil {
		s.respondPermissionError(w, err)
		return
	}

	var req platformRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	params, problem := req.validate()
	if problem != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", problem)
		return
	}

	platform, err := s.repo.Platforms.Create(r.Context(), params)
	if err != nil {
		s.respondRepoError(w, "create platform", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, toPlatformResponse(platform, []movieResponse{}))
}

func (s *Server) handleGetPlatform(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "platformID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	platform, err := s.repo.Platforms.GetByID(r.Context(), id)
	if err != nil {
		s.respondRepoError(w, "get platform", err)
		return
	}
	nested, err := s.nestedMovies(r.Context(), platform.ID)
	if err != nil {
		s.respondRepoError(w, "assemble platform projection", err)
		return
	}
	s.respondJSON(w, http.StatusOK, toPlatformResponse(platform, nested))
}

func (s *Server) handleUpdatePlatform(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFrom(r.Context())
	if err := permission.Check(permission.AdminOrReadOnly, actor, permission.ActionWrite, ""); err != nil {
		s.respondPermissionError(w, err)
		return
	}

	id, err := idParam(r, "platformID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	var req platformRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	params, problem := req.validate()
	if problem != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", problem)
		return
	}

	platform, err := s.repo.Platforms.Update(r.Context(), id, params)
	if err != nil {
		s.respondRepoError(w, "update platform", err)
		return
	}
	nested, err := s.nestedMovies(r.Context(), platform.ID)
	if err != nil {
		s.respondRepoError(w, "assemble platform projection", err)
		return
	}
	s.respondJSON(w, http.StatusOK, toPlatformResponse(platform, nested))
}

func (s *Server) handleDeletePlatform(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFrom(r.Context())
	if err := permission.Check(permission.AdminOrReadOnly, actor, permission.ActionWrite, ""); err != nil {
		s.respondPermissionError(w, err)
		return
	}

	id, err := idParam(r, "platformID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	if err := s.repo.Platforms.Delete(r.Context(), id); err != nil {
		s.respondRepoError(w, "delete platform", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// nestedMovies assembles the movie-with-reviews projection for one platform:
// the platform's movies in referential order, each carrying all its reviews.
func (s *Server) nestedMovies(ctx context.Context, platformID int64) ([]movieResponse, error) {
	movies, err := s.repo.Movies.ListByPlatform(ctx, platformID)
	if err != nil {
		return nil, err
	}
	return s.attachReviews(ctx, movies)
}

// attachReviews decorates a set of movies with their reviews.
func (s *Server) attachReviews(ctx context.Context, movies []domain.Movie) ([]movieResponse, error) {
	ids := make([]int64, 0, len(movies))
	for _, movie := range movies {
		ids = append(ids, movie.ID)
	}
	grouped, err := s.repo.Reviews.ListByMovieIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]movieResponse, 0, len(movies))
	for _, movie := range movies {
		out = append(out, toMovieResponse(movie, grouped[movie.ID]))
	}
	return out, nil
}
