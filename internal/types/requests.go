package types

import "strings"

// RecipeDraft is the create payload. Identity and timestamps are assigned by
// the server and cannot be supplied here.
type RecipeDraft struct {
	Name        string    `json:"name" validate:"required"`
	Ingredients []string  `json:"ingredients"`
	Steps       []string  `json:"steps"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	VideoURL    *string   `json:"videoUrl,omitempty"`
	Nutrition   Nutrition `json:"nutrition"`
	Categories  []string  `json:"categories,omitempty" validate:"dive,category"`
}

// Sanitize trims the name, drops blank list entries and maps empty URLs to nil
func (d *RecipeDraft) Sanitize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Ingredients = CleanList(d.Ingredients)
	d.Steps = CleanList(d.Steps)
	d.ImageURL = OptionalString(d.ImageURL)
	d.VideoURL = OptionalString(d.VideoURL)
	d.Categories = NormalizeCategories(d.Categories)
}

// ToRecipe builds a recipe without identity or timestamps
func (d RecipeDraft) ToRecipe() Recipe {
	r := Recipe{
		Name:        d.Name,
		Ingredients: append([]string{}, d.Ingredients...),
		Steps:       append([]string{}, d.Steps...),
		ImageURL:    OptionalString(d.ImageURL),
		VideoURL:    OptionalString(d.VideoURL),
		Nutrition:   d.Nutrition,
	}
	if len(d.Categories) > 0 {
		r.Categories = append([]string{}, d.Categories...)
	}
	return r
}

// RecipePatch is the update payload. A nil field was not supplied and keeps
// its stored value; lists and nutrition replace the stored value wholesale.
type RecipePatch struct {
	Name        *string    `json:"name,omitempty" validate:"omitnil,min=1"`
	Ingredients *[]string  `json:"ingredients,omitempty"`
	Steps       *[]string  `json:"steps,omitempty"`
	ImageURL    *string    `json:"imageUrl,omitempty"`
	VideoURL    *string    `json:"videoUrl,omitempty"`
	Nutrition   *Nutrition `json:"nutrition,omitempty"`
	Categories  *[]string  `json:"categories,omitempty" validate:"omitnil,dive,category"`
}

// Sanitize normalizes supplied fields in place
func (p *RecipePatch) Sanitize() {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		p.Name = &name
	}
	if p.Ingredients != nil {
		cleaned := CleanList(*p.Ingredients)
		p.Ingredients = &cleaned
	}
	if p.Steps != nil {
		cleaned := CleanList(*p.Steps)
		p.Steps = &cleaned
	}
	if p.Categories != nil {
		normalized := NormalizeCategories(*p.Categories)
		p.Categories = &normalized
	}
}

// IsEmpty reports whether no field was supplied
func (p RecipePatch) IsEmpty() bool {
	return p.Name == nil && p.Ingredients == nil && p.Steps == nil &&
		p.ImageURL == nil && p.VideoURL == nil && p.Nutrition == nil && p.Categories == nil
}

// Apply merges the supplied fields into r. An empty URL clears the field.
// UpdatedAt is left to the caller.
func (p RecipePatch) Apply(r *Recipe) {
	if p.Name != nil {
		r.Name = strings.TrimSpace(*p.Name)
	}
	if p.Ingredients != nil {
		r.Ingredients = CleanList(*p.Ingredients)
	}
	if p.Steps != nil {
		r.Steps = CleanList(*p.Steps)
	}
	if p.ImageURL != nil {
		r.ImageURL = OptionalString(p.ImageURL)
	}
	if p.VideoURL != nil {
		r.VideoURL = OptionalString(p.VideoURL)
	}
	if p.Nutrition != nil {
		r.Nutrition = *p.Nutrition
	}
	if p.Categories != nil {
		r.Categories = NormalizeCategories(*p.Categories)
	}
}

// CreateCommentRequest represents the request body for adding a comment
type CreateCommentRequest struct {
	Text   string `json:"text" validate:"required"`
	Rating int    `json:"rating" validate:"min=1,max=5"`
}

// Sanitize trims the comment text
func (r *CreateCommentRequest) Sanitize() {
	r.Text = strings.TrimSpace(r.Text)
}

// UploadResponse is returned by the upload endpoint
type UploadResponse struct {
	URL string `json:"url"`
}

// MessageResponse is a plain confirmation body
type MessageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}
