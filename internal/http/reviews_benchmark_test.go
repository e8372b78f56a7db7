package httpserver

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"watchlist/internal/domain"
)

func BenchmarkHandleCreateReview(b *testing.B) {
	srv := buildTestServer(b)

	platformID := seedPlatform(b, srv, "Benchmark Platform")
	movieID := seedMovie(b, srv, platformID, "Benchmark Movie")
	target := fmt.Sprintf("/api/movies/%d/reviews", movieID)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		token := bearerToken(b, srv, fmt.Sprintf("bench-%d", i), fmt.Sprintf("bench-%d", i), domain.RoleRegular)
		payload := []byte(`{"rating":4}`)
		req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
		req.Header.Set("Authorization", token)
		rec := httptest.NewRecorder()

		srv.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}
