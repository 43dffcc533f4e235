package forms

import (
	"testing"

	"github.com/feedbackhub/portal/internal/core/domain"
)

func TestTextLength(t *testing.T) {
	cases := map[string]int{
		"":      0,
		"abcde": 5,
		"héllo": 5,
		"😀😀😀":   6,
		"日本":    2,
	}
	for in, want := range cases {
		if got := TextLength(in); got != want {
			t.Fatalf("TextLength(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestFeedback_MinLength(t *testing.T) {
	cases := []struct {
		name      string
		strengths string
		wantErr   bool
	}{
		{"five ascii", "great", false},
		{"four ascii", "good", true},
		{"three emoji", "😀😀😀", false},
		{"two emoji", "😀😀", true},
		{"padded short", "  ab  ", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := Feedback{Strengths: tc.strengths, AreasToImprove: "focus more", Sentiment: domain.SentimentNeutral}
			f.Normalize()
			fe := Errors(Check(f))
			if got := fe.Has("strengths"); got != tc.wantErr {
				t.Fatalf("strengths error = %v, want %v (%v)", got, tc.wantErr, fe)
			}
			if tc.wantErr && fe["strengths"] != "Strengths must be at least 5 characters" {
				t.Fatalf("unexpected message %q", fe["strengths"])
			}
		})
	}
}
