package httpserver

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"watchlist/internal/auth"
	"watchlist/internal/permission"
	"watchlist/internal/repository"
)

type movieRequest struct {
	Title     string `json:"title"`
	Storyline string `json:"storyline"`
	Platform  int64  `json:"platform"`
	Active    *bool  `json:"active"`
}

func (req *movieRequest) validate() (repository.MovieParams, string) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return repository.MovieParams{}, "title is required"
	}
	if req.Platform <= 0 {
		return repository.MovieParams{}, "platform is required"
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return repository.MovieParams{
		Title:      title,
		Storyline:  strings.TrimSpace(req.Storyline),
		PlatformID: req.Platform,
		Active:     active,
	}, ""
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	filters, err := buildMovieFilters(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	filters.PageSize = s.cfg.PageSize

	result, err := s.repo.Movies.List(r.Context(), filters)
	if err != nil {
		s.respondRepoError(w, "list movies", err)
		return
	}

	items, err := s.attachReviews(r.Context(), result.Items)
	if err != nil {
		s.respondRepoError(w, "assemble movie projections", err)
		return
	}
	s.respondJSON(w, http.StatusOK, pageResponse{
		Results:  items,
		Next:     result.Next,
		Previous: result.Previous,
	})
}

func buildMovieFilters(query url.Values) (repository.MovieListFilters, error) {
	var filters repository.MovieListFilters

	if val := strings.TrimSpace(query.Get("platform")); val != "" {
		id, err := strconv.ParseInt(val, 10, 64)
		if err != nil || id <= 0 {
			return filters, fmt.Errorf("invalid platform value")
		}
		filters.PlatformID = &id
	}
	if val := strings.TrimSpace(query.Get("active")); val != "" {
		active, err := strconv.ParseBool(val)
		if err != nil {
			return filters, fmt.Errorf("invalid active value")
		}
		filters.Active = &active
	}
	if val := strings.TrimSpace(query.Get("search")); val != "" {
		filters.Search = &val
	}
	if val := strings.TrimSpace(query.Get("cursor")); val != "" {
		cursor, err := repository.DecodeCursor(val)
		if err != nil {
			return filters, fmt.Errorf("invalid cursor")
		}
		filters.Cursor = cursor
	}
	return filters, nil
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFrom(r.Context())
	if err := permission.Check(permission.AdminOrReadOnly, actor, permission.ActionWrite, ""); err != nil {
		s.respondPermissionError(w, err)
		return
	}

	var req movieRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	params, problem := req.validate()
	if problem != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", problem)
		return
	}

	movie, err := s.repo.Movies.Create(r.Context(), params)
	if err != nil {
		s.respondRepoError(w, "create movie", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, toMovieResponse(movie, nil))
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "movieID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	movie, err := s.repo.Movies.GetByID(r.Context(), id)
	if err != nil {
		s.respondRepoError(w, "get movie", err)
		return
	}
	reviews, err := s.repo.Reviews.ListByMovie(r.Context(), movie.ID)
	if err != nil {
		s.respondRepoError(w, "list movie reviews", err)
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieResponse(movie, reviews))
}

func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFrom(r.Context())
	if err := permission.Check(permission.AdminOrReadOnly, actor, permission.ActionWrite, ""); err != nil {
		s.respondPermissionError(w, err)
		return
	}

	id, err := idParam(r, "movieID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	var req movieRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	params, problem := req.validate()
	if problem != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", problem)
		return
	}

	movie, err := s.repo.Movies.Update(r.Context(), id, params)
	if err != nil {
		s.respondRepoError(w, "update movie", err)
		return
	}
	reviews, err := s.repo.Reviews.ListByMovie(r.Context(), movie.ID)
	if err != nil {
		s.respondRepoError(w, "list movie reviews", err)
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieResponse(movie, reviews))
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFrom(r.Context())
	if err := permission.Check(permission.AdminOrReadOnly, actor, permission.ActionWrite, ""); err != nil {
		s.respondPermissionError(w, err)
		return
	}

	id, err := idParam(r, "movieID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	if err := s.repo.Movies.Delete(r.Context(), id); err != nil {
		s.respondRepoError(w, "delete movie", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
