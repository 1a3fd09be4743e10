package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pageza/nutrifit/backend/internal/types"
)

// JSONList is a custom type for string arrays stored as JSON text. Scan never
// fails: anything that is not a JSON array of scalars reads as an empty list.
type JSONList []string

// Value implements the driver.Valuer interface
func (l JSONList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (l *JSONList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = JSONList{}
	case []string:
		*l = append(JSONList{}, v...)
	case []interface{}:
		*l = fromAnySlice(v)
	case []byte:
		*l = parseJSONList(string(v))
	case string:
		*l = parseJSONList(v)
	default:
		*l = JSONList{}
	}
	return nil
}

func parseJSONList(s string) JSONList {
	if l, ok := decodeArray(s); ok {
		return l
	}
	// Rows written by older clients carry stray escape characters.
	if l, ok := decodeArray(strings.ReplaceAll(s, `\`, "")); ok {
		return l
	}
	return JSONList{}
}

// decodeArray peels string-encoding layers off a JSON array
func decodeArray(s string) (JSONList, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
			return decodeArray(s[1 : len(s)-1])
		}
		return nil, false
	}
	switch x := v.(type) {
	case []interface{}:
		return fromAnySlice(x), true
	case string:
		return decodeArray(x)
	}
	return nil, false
}

func fromAnySlice(items []interface{}) JSONList {
	out := make(JSONList, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case float64:
			out = append(out, strconv.FormatFloat(v, 'f', -1, 64))
		case bool:
			out = append(out, strconv.FormatBool(v))
		case json.Number:
			out = append(out, v.String())
		case int, int64:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}

// Number is a nutrition column. Non-numeric storage values read as 0.
type Number float64

// Value implements the driver.Valuer interface
func (n Number) Value() (driver.Value, error) {
	return types.CoerceNumber(float64(n)), nil
}

// Scan implements the sql.Scanner interface
func (n *Number) Scan(value interface{}) error {
	*n = Number(types.CoerceNumber(value))
	return nil
}

// RecipeRow is the flat storage shape of a recipe
type RecipeRow struct {
	ID          string    `gorm:"type:varchar(36);primaryKey"`
	Name        string    `gorm:"size:255;not null"`
	Ingredients JSONList  `gorm:"type:text;not null"`
	Steps       JSONList  `gorm:"type:text;not null"`
	ImageURL    *string   `gorm:"type:text"`
	VideoURL    *string   `gorm:"type:text"`
	Calories    Number    `gorm:"type:double precision;not null;default:0"`
	Protein     Number    `gorm:"type:double precision;not null;default:0"`
	Fat         Number    `gorm:"type:double precision;not null;default:0"`
	Carbs       Number    `gorm:"type:double precision;not null;default:0"`
	Categories  JSONList  `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (RecipeRow) TableName() string {
	return "recipes"
}

// CommentRow is the storage shape of a comment
type CommentRow struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	RecipeID  string    `gorm:"type:varchar(36);not null;index"`
	Text      string    `gorm:"type:text;not null"`
	Rating    int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (CommentRow) TableName() string {
	return "comments"
}
