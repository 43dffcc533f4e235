package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Sentiment is the three-way classification attached to a feedback item.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
	SentimentNegative Sentiment = "NEGATIVE"
)

// Sentiments lists every variant in display order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}

// ParseSentiment converts a wire value into a Sentiment.
func ParseSentiment(s string) (Sentiment, error) {
	switch Sentiment(s) {
	case SentimentPositive:
		return SentimentPositive, nil
	case SentimentNeutral:
		return SentimentNeutral, nil
	case SentimentNegative:
		return SentimentNegative, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSentiment, s)
}

// Label is the human readable form used by the forms.
func (s Sentiment) Label() string {
	switch s {
	case SentimentPositive:
		return "Positive"
	case SentimentNeutral:
		return "Neutral"
	case SentimentNegative:
		return "Negative"
	}
	return string(s)
}

func (s *Sentiment) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseSentiment(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Feedback is a single feedback item. Acknowledged only ever moves from
// false to true.
type Feedback struct {
	ID             int64     `json:"id"`
	Strengths      string    `json:"strengths"`
	AreasToImprove string    `json:"areasToImprove"`
	Sentiment      Sentiment `json:"sentiment"`
	CreatedAt      Timestamp `json:"createdAt"`
	Acknowledged   bool      `json:"acknowledged"`
	ManagerName    string    `json:"managerName,omitempty"`
}

// Acknowledge marks the item as acknowledged.
func (f *Feedback) Acknowledge() {
	f.Acknowledged = true
}

// Timestamp accepts RFC 3339 values as well as the zone-less ISO 8601
// form some backends emit.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

// SentimentTally counts feedback items per sentiment.
type SentimentTally struct {
	Positive int `json:"POSITIVE"`
	Neutral  int `json:"NEUTRAL"`
	Negative int `json:"NEGATIVE"`
}

// Add increments the counter for s.
func (t *SentimentTally) Add(s Sentiment) {
	switch s {
	case SentimentPositive:
		t.Positive++
	case SentimentNeutral:
		t.Neutral++
	case SentimentNegative:
		t.Negative++
	}
}

// Count returns the counter for s.
func (t SentimentTally) Count(s Sentiment) int {
	switch s {
	case SentimentPositive:
		return t.Positive
	case SentimentNeutral:
		return t.Neutral
	case SentimentNegative:
		return t.Negative
	}
	return 0
}

// RosterEntry is a manager's view of one direct report.
type RosterEntry struct {
	Employee      Employee       `json:"employee"`
	FeedbackCount int            `json:"feedback_count"`
	Sentiments    SentimentTally `json:"sentiments"`
}

// FeedbackDraft is what a manager submits through the feedback form.
type FeedbackDraft struct {
	Strengths      string    `json:"strengths"`
	AreasToImprove string    `json:"areasToImprove"`
	Sentiment      Sentiment `json:"sentiment"`
	EmployeeID     int64     `json:"employee_id"`
}
