package content

import (
	"path"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/somolms/somo/core"
)

// SCORM versions
const (
	Version12   = "1.2"
	Version2004 = "2004"
)

// Package statuses
const (
	StatusReady    = "ready"
	StatusDisabled = "disabled"
)

var Statuses = []string{StatusReady, StatusDisabled}

// Package is a launchable SCORM content package registered in the catalog.
// Content files live outside this system (served under the configured
// content base URL); only launch metadata is tracked here.
type Package struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Version     string `json:"version"`
	EntryPoint  string `json:"entry_point"` // launch path relative to the package content root
	Status      string `json:"status"`

	AllowMultipleAttempts bool    `json:"allow_multiple_attempts"`
	PassingScore          int     `json:"passing_score"` // percentage
	Weight                float64 `json:"weight"`        // weight in overall grade (0-100%)

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// LaunchURL returns the URL the player should load for this package.
func (p *Package) LaunchURL(contentBaseURL string) string {
	return contentBaseURL + "/" + path.Join(p.Slug, p.EntryPoint)
}

func (p *Package) IsReady() bool { return p.Status == StatusReady }

// NewPackage contains information needed to register a new Package.
type NewPackage struct {
	Title                 string  `json:"title" validate:"required"`
	Slug                  string  `json:"slug" validate:"omitempty,slug_"`
	Description           string  `json:"description"`
	Version               string  `json:"version" validate:"omitempty,oneof=1.2 2004"`
	EntryPoint            string  `json:"entry_point" validate:"required"`
	AllowMultipleAttempts *bool   `json:"allow_multiple_attempts"`
	PassingScore          int     `json:"passing_score" validate:"omitempty,min=0,max=100"`
	Weight                float64 `json:"weight" validate:"omitempty,min=0,max=100"`
}

func (np *NewPackage) Validate(validate *validator.Validate, svc *Service) error {
	np.Title = core.CleanString(np.Title)
	np.Slug = core.CleanString(np.Slug, true /* lower */)
	np.EntryPoint = core.CleanString(np.EntryPoint)

	if err := validate.Struct(np); err != nil {
		return err
	}
	if np.Slug != "" {
		return svc.checkSlugUniqueness(np.Slug)
	}
	return nil
}

// UpdatePackage defines what information may be provided to modify an existing Package.
type UpdatePackage struct {
	Title                 string   `json:"title"`
	Description           *string  `json:"description"`
	Status                string   `json:"status" validate:"omitempty,oneof=ready disabled"`
	AllowMultipleAttempts *bool    `json:"allow_multiple_attempts"`
	PassingScore          *int     `json:"passing_score" validate:"omitempty,min=0,max=100"`
	Weight                *float64 `json:"weight" validate:"omitempty,min=0,max=100"`
}

func (up *UpdatePackage) Validate(validate *validator.Validate) error {
	up.Title = core.CleanString(up.Title)
	return validate.Struct(up)
}

// QueryFilter filters catalog listings. Search does a case-insensitive match
// on Title or Description.
type QueryFilter struct {
	Search  string `query:"search"`
	Status  string `query:"status"`
	Version string `query:"version"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Status == "" && qf.Version == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	qf.Version = core.CleanString(qf.Version, true /* lower */)
}
