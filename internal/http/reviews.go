package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"watchlist/internal/auth"
	"watchlist/internal/domain"
	"watchlist/internal/permission"
	"watchlist/internal/repository"
)

type reviewRequest struct {
	Rating      int    `json:"rating"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

func (req *reviewRequest) validate() string {
	if !domain.ValidRating(req.Rating) {
		return fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating)
	}
	return ""
}

func (s *Server) handleListMovieReviews(w http.ResponseWriter, r *http.Request) {
	movieID, err := idParam(r, "movieID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	if _, err := s.repo.Movies.GetByID(r.Context(), movieID); err != nil {
		s.respondRepoError(w, "get movie", err)
		return
	}
	reviews, err := s.repo.Reviews.ListByMovie(r.Context(), movieID)
	if err != nil {
		s.respondRepoError(w, "list movie reviews", err)
		return
	}
	s.respondJSON(w, http.StatusOK, toReviewResponses(reviews))
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFrom(r.Context())
	if err := permission.Check(permission.AuthenticationRequired, actor, permission.ActionWrite, ""); err != nil {
		s.respondPermissionError(w, err)
		return
	}

	movieID, err := idParam(r, "movieID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	var req reviewRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if problem := req.validate(); problem != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", problem)
		return
	}

	review, err := s.repo.Reviews.Create(r.Context(), repository.ReviewCreateParams{
		MovieID:     movieID,
		UserID:      actor.ID,
		Username:    actor.Username,
		Rating:      req.Rating,
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		s.respondRepoError(w, "create review", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, toReviewResponse(review))
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	movieID, reviewID, err := reviewPath(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	review, err := s.repo.Reviews.GetByID(r.Context(), reviewID)
	if err != nil {
		s.respondRepoError(w, "get review", err)
		return
	}
	if review.MovieID != movieID {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return
	}
	s.respondJSON(w, http.StatusOK, toReviewResponse(review))
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	movieID, reviewID, err := reviewPath(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	review, err := s.repo.Reviews.GetByID(r.Context(), reviewID)
	if err != nil {
		s.respondRepoError(w, "get review", err)
		return
	}
	if review.MovieID != movieID {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return
	}

	actor := auth.ActorFrom(r.Context())
	if err := permission.Check(permission.OwnerOrAdminOrReadOnly, actor, permission.ActionWrite, review.UserID); err != nil {
		s.respondPermissionError(w, err)
		return
	}

	var req reviewRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if problem := req.validate(); problem != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", problem)
		return
	}
	active := review.Active
	if req.Active != nil {
		active = *req.Active
	}

	updated, err := s.repo.Reviews.Update(r.Context(), reviewID, repository.ReviewUpdateParams{
		Rating:      req.Rating,
		Description: strings.TrimSpace(req.Description),
		Active:      active,
	})
	if err != nil {
		s.respondRepoError(w, "update review", err)
		return
	}
	s.respondJSON(w, http.StatusOK, toReviewResponse(updated))
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	movieID, reviewID, err := reviewPath(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	review, err := s.repo.Reviews.GetByID(r.Context(), reviewID)
	if err != nil {
		s.respondRepoError(w, "get review", err)
		return
	}
	if review.MovieID != movieID {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return
	}

	actor := auth.ActorFrom(r.Context())
	if err := permission.Check(permission.OwnerOrAdminOrReadOnly, actor, permission.ActionWrite, review.UserID); err != nil {
		s.respondPermissionError(w, err)
		return
	}

	if err := s.repo.Reviews.Delete(r.Context(), reviewID); err != nil {
		s.respondRepoError(w, "delete review", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListReviewsByUser serves the cross-movie listing of one user's
// reviews, addressed by username.
func (s *Server) handleListReviewsByUser(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "username query parameter is required")
		return
	}

	reviews, err := s.repo.Reviews.ListByUsername(r.Context(), username)
	if err != nil {
		s.respondRepoError(w, "list reviews by user", err)
		return
	}
	s.respondJSON(w, http.StatusOK, toReviewResponses(reviews))
}

func reviewPath(r *http.Request) (movieID, reviewID int64, err error) {
	movieID, err = idParam(r, "movieID")
	if err != nil {
		return 0, 0, err
	}
	reviewID, err = idParam(r, "reviewID")
	if err != nil {
		return 0, 0, err
	}
	return movieID, reviewID, nil
}
