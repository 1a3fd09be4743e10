package types

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Nutrition holds the four macro figures of a recipe. It is always fully
// populated; anything missing or non-numeric reads as 0.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// UnmarshalJSON decodes leniently and never fails.
func (n *Nutrition) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		*n = Nutrition{}
		return nil
	}
	*n = Nutrition{
		Calories: CoerceNumber(raw["calories"]),
		Protein:  CoerceNumber(raw["protein"]),
		Fat:      CoerceNumber(raw["fat"]),
		Carbs:    CoerceNumber(raw["carbs"]),
	}
	return nil
}

// Comment is a user rating attached to a recipe
type Comment struct {
	ID        string `json:"id"`
	RecipeID  string `json:"recipeId"`
	Text      string `json:"text"`
	Rating    int    `json:"rating"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Recipe represents a recipe in the system
type Recipe struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Ingredients []string  `json:"ingredients"`
	Steps       []string  `json:"steps"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	VideoURL    *string   `json:"videoUrl,omitempty"`
	Nutrition   Nutrition `json:"nutrition"`
	Categories  []string  `json:"categories,omitempty"`
	CreatedAt   int64     `json:"createdAt"`
	UpdatedAt   int64     `json:"updatedAt"`
	Comments    []Comment `json:"comments,omitempty"`
	AvgRating   float64   `json:"avgRating"`
}

// Normalize restores the shape guarantees after decoding from an untrusted
// source: list fields are never nil and avgRating matches the comments.
func (r *Recipe) Normalize() {
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	if r.Steps == nil {
		r.Steps = []string{}
	}
	r.ImageURL = OptionalString(r.ImageURL)
	r.VideoURL = OptionalString(r.VideoURL)
	r.AvgRating = AverageRating(r.Comments)
}

// Clone returns a deep copy
func (r Recipe) Clone() Recipe {
	out := r
	out.Ingredients = append([]string{}, r.Ingredients...)
	out.Steps = append([]string{}, r.Steps...)
	if r.Categories != nil {
		out.Categories = append([]string{}, r.Categories...)
	}
	if r.Comments != nil {
		out.Comments = append([]Comment{}, r.Comments...)
	}
	if r.ImageURL != nil {
		v := *r.ImageURL
		out.ImageURL = &v
	}
	if r.VideoURL != nil {
		v := *r.VideoURL
		out.VideoURL = &v
	}
	return out
}

// AverageRating is the arithmetic mean of the comment ratings, 0 when there
// are none. Every place that changes a comment set recomputes through here.
func AverageRating(comments []Comment) float64 {
	if len(comments) == 0 {
		return 0
	}
	total := 0
	for _, c := range comments {
		total += c.Rating
	}
	return float64(total) / float64(len(comments))
}

// CleanList trims entries and drops blank ones. The result is never nil.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// OptionalString maps empty or whitespace-only values to nil
func OptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// CoerceNumber converts loosely typed input into a finite float64, using 0
// for anything that is not a number.
func CoerceNumber(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case []byte:
		return CoerceNumber(string(n))
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ToMillis converts a timestamp into epoch milliseconds
func ToMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// FromMillis converts epoch milliseconds into a UTC timestamp
func FromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
