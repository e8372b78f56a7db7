package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"watchlist/internal/domain"
	"watchlist/internal/permission"
	"watchlist/internal/repository"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// pageResponse is the envelope for paginated lists.
type pageResponse struct {
	Results  interface{} `json:"results"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
}

type platformResponse struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	About   string          `json:"about"`
	Website string          `json:"website"`
	Movies  []movieResponse `json:"movies,omitempty"`
}

type movieResponse struct {
	ID           int64            `json:"id"`
	Title        string           `json:"title"`
	Storyline    string           `json:"storyline"`
	Platform     int64            `json:"platform"`
	Active       bool             `json:"active"`
	AvgRating    float64          `json:"avg_rating"`
	NumberRating int              `json:"number_rating"`
	Reviews      []reviewResponse `json:"reviews"`
}

type reviewResponse struct {
	ID          int64     `json:"id"`
	ReviewUser  string    `json:"review_user"`
	Rating      int       `json:"rating"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toPlatformResponse(platform domain.Platform, movies []movieResponse) platformResponse {
	return platformResponse{
		ID:      platform.ID,
		Name:    platform.Name,
		About:   platform.About,
		Website: platform.Website,
		Movies:  movies,
	}
}

func toMovieResponse(movie domain.Movie, reviews []domain.Review) movieResponse {
	resp := movieResponse{
		ID:           movie.ID,
		Title:        movie.Title,
		Storyline:    movie.Storyline,
		Platform:     movie.PlatformID,
		Active:       movie.Active,
		AvgRating:    movie.AvgRating,
		NumberRating: movie.NumberRating,
		Reviews:      make([]reviewResponse, 0, len(reviews)),
	}
	for _, review := range reviews {
		resp.Reviews = append(resp.Reviews, toReviewResponse(review))
	}
	return resp
}

func toReviewResponse(review domain.Review) reviewResponse {
	return reviewResponse{
		ID:          review.ID,
		ReviewUser:  review.Username,
		Rating:      review.Rating,
		Description: review.Description,
		Active:      review.Active,
		UpdatedAt:   review.UpdatedAt,
	}
}

func toReviewResponses(reviews []domain.Review) []reviewResponse {
	out := make([]reviewResponse, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, toReviewResponse(review))
	}
	return out
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Printf("failed to encode response: %v", err)
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to parse request body")
	}
}

// respondPermissionError maps evaluator denials onto the wire.
func (s *Server) respondPermissionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, permission.ErrUnauthenticated):
		s.respondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Missing or invalid authentication information")
	case errors.Is(err, permission.ErrForbidden):
		s.respondError(w, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action")
	default:
		s.respondError(w, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action")
	}
}

// respondRepoError maps repository failures onto the wire; anything not a
// sentinel is a transient store failure the caller may retry.
func (s *Server) respondRepoError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, repository.ErrDuplicateReview):
		s.respondError(w, http.StatusConflict, "CONFLICT", "You have already reviewed this movie")
	default:
		s.logger.Printf("%s error: %v", action, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Request could not be processed")
	}
}
