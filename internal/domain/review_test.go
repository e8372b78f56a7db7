package domain

import "testing"

func TestNextRating(t *testing.T) {
	tests := []struct {
		name      string
		avg       float64
		count     int
		rating    int
		wantAvg   float64
		wantCount int
	}{
		{"first review", 0, 0, 5, 5.0, 1},
		{"second review averages against previous", 5.0, 1, 3, 4.0, 2},
		{"third review decays early weight", 4.0, 2, 4, 4.0, 3},
		{"low first review", 0, 0, 1, 1.0, 1},
		{"half step result", 4.0, 3, 5, 4.5, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotAvg, gotCount := NextRating(tt.avg, tt.count, tt.rating)
			if gotAvg != tt.wantAvg || gotCount != tt.wantCount {
				t.Fatalf("NextRating(%v, %d, %d) = (%v, %d), want (%v, %d)",
					tt.avg, tt.count, tt.rating, gotAvg, gotCount, tt.wantAvg, tt.wantCount)
			}
		})
	}
}

func TestNextRating_Sequence(t *testing.T) {
	// A fresh movie reviewed 5, then 3, then 4. The stored average is not
	// the cumulative mean after the second review.
	avg, count := 0.0, 0
	avg, count = NextRating(avg, count, 5)
	if avg != 5.0 || count != 1 {
		t.Fatalf("after first review: (%v, %d), want (5, 1)", avg, count)
	}
	avg, count = NextRating(avg, count, 3)
	if avg != 4.0 || count != 2 {
		t.Fatalf("after second review: (%v, %d), want (4, 2)", avg, count)
	}
	avg, count = NextRating(avg, count, 4)
	if avg != 4.0 || count != 3 {
		t.Fatalf("after third review: (%v, %d), want (4, 3)", avg, count)
	}
}

func TestValidRating(t *testing.T) {
	for _, rating := range []int{1, 2, 3, 4, 5} {
		if !ValidRating(rating) {
			t.Fatalf("rating %d should be valid", rating)
		}
	}
	for _, rating := range []int{-1, 0, 6, 100} {
		if ValidRating(rating) {
			t.Fatalf("rating %d should be invalid", rating)
		}
	}
}
