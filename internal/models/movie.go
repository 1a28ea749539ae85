package models

// Plan represents the subscription tier a movie is gated behind
type Plan string

const (
	PlanBasic    Plan = "basic"
	PlanGold     Plan = "gold"
	PlanPlatinum Plan = "platinum"
)

// String returns the string representation of Plan
func (p Plan) String() string {
	return string(p)
}

// IsValid checks if the plan is one of the known tiers
func (p Plan) IsValid() bool {
	return p == PlanBasic || p == PlanGold || p == PlanPlatinum
}

// Movie represents a movie record as received from the catalog API.
// Director, duration and description are optional server-side; consumers
// must tolerate their zero values.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	ReleaseYear int     `json:"release_year"`
	Rating      float64 `json:"rating"`
	Duration    int     `json:"duration"`
	Description string  `json:"description"`
	BannerURL   string  `json:"banner_url"`
	PosterURL   string  `json:"poster_url"`
	Director    string  `json:"director"`
	Plan        Plan    `json:"plan"`
}

// MoviesResponse represents one page of movies with pagination metadata.
// CurrentPage is 1-indexed and TotalPages is never below 1, even for an
// empty result, so callers can always compare the two to detect the end
// of a list.
type MoviesResponse struct {
	Movies      []Movie `json:"movies"`
	TotalPages  int     `json:"total_pages"`
	CurrentPage int     `json:"current_page"`
}

// EmptyPage returns the fail-soft placeholder page for a failed fetch:
// no movies, a single page, and the requested page number echoed back.
func EmptyPage(page int) *MoviesResponse {
	return &MoviesResponse{
		Movies:      []Movie{},
		TotalPages:  1,
		CurrentPage: page,
	}
}

// CreateMovieInput represents the form fields for creating a movie.
// Poster and banner files travel alongside it in the multipart body.
type CreateMovieInput struct {
	Title       string  `json:"title" validate:"required"`
	Genre       string  `json:"genre" validate:"required"`
	ReleaseYear int     `json:"release_year" validate:"required,min=1888"`
	Rating      float64 `json:"rating" validate:"min=0,max=10"`
	Director    string  `json:"director"`
	Duration    int     `json:"duration" validate:"min=0"`
	Description string  `json:"description"`
	Plan        Plan    `json:"plan" validate:"required,oneof=basic gold platinum"`
}
