package content

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/somolms/somo/core"
)

var (
	// errors
	ErrNotFound   = errors.New("package not found")
	ErrSlugExists = errors.New("a package with this slug already exists")
)

type (
	Repository interface {
		CheckSlugUniqueness(ctx context.Context, slug string) error
		CreatePackage(ctx context.Context, pkg Package) (Package, error)
		GetPackageByID(ctx context.Context, id string) (Package, error)
		GetPackageBySlug(ctx context.Context, slug string) (Package, error)
		// QueryPackages applies AND operation on available QueryFilter fields,
		// ordered by newest first.
		QueryPackages(ctx context.Context, filter QueryFilter) ([]Package, error)
		UpdatePackage(ctx context.Context, pkg Package) (Package, error)
		DeletePackagesByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkSlugUniqueness(slug string) error {
	if err := svc.repo.CheckSlugUniqueness(context.Background(), slug); err != nil {
		if err == ErrSlugExists {
			return core.NewValidationError(err, core.FieldError{Field: "slug", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, np NewPackage) (Package, error) {
	now := time.Now().UTC()
	pkg := Package{
		ID:                    uuid.New().String(),
		Title:                 np.Title,
		Slug:                  np.Slug,
		Description:           np.Description,
		Version:               np.Version,
		EntryPoint:            np.EntryPoint,
		Status:                StatusReady,
		AllowMultipleAttempts: true,
		PassingScore:          70,
		Weight:                np.Weight,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if pkg.Version == "" {
		pkg.Version = Version12
	}
	if np.AllowMultipleAttempts != nil {
		pkg.AllowMultipleAttempts = *np.AllowMultipleAttempts
	}
	if np.PassingScore > 0 {
		pkg.PassingScore = np.PassingScore
	}
	if pkg.Slug == "" {
		slug, err := svc.uniqueSlug(ctx, pkg.Title)
		if err != nil {
			return Package{}, err
		}
		pkg.Slug = slug
	}
	return svc.repo.CreatePackage(ctx, pkg)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Package, error) {
	return svc.repo.GetPackageByID(ctx, id)
}

func (svc *Service) GetBySlug(ctx context.Context, slug string) (Package, error) {
	return svc.repo.GetPackageBySlug(ctx, core.CleanString(slug, true /* lower */))
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Package, error) {
	filter.Clean()
	return svc.repo.QueryPackages(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, id string, up UpdatePackage) (Package, error) {
	pkg, err := svc.repo.GetPackageByID(ctx, id)
	if err != nil {
		return Package{}, err
	}
	if up.Title != "" {
		pkg.Title = up.Title
	}
	if up.Description != nil {
		pkg.Description = *up.Description
	}
	if up.Status != "" {
		pkg.Status = up.Status
	}
	if up.AllowMultipleAttempts != nil {
		pkg.AllowMultipleAttempts = *up.AllowMultipleAttempts
	}
	if up.PassingScore != nil {
		pkg.PassingScore = *up.PassingScore
	}
	if up.Weight != nil {
		pkg.Weight = *up.Weight
	}
	pkg.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdatePackage(ctx, pkg)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeletePackagesByID(ctx, ids...)
}

var slugCleanRegex = regexp.MustCompile(`[^a-z0-9]+`)

// slugify turns a title into a URL-safe slug.
func slugify(s string) string {
	s = slugCleanRegex.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

// uniqueSlug derives a slug from title, suffixing it until it is unique.
func (svc *Service) uniqueSlug(ctx context.Context, title string) (string, error) {
	slug := slugify(title)
	if slug == "" {
		slug = "package"
	}
	candidate := slug
	for {
		err := svc.repo.CheckSlugUniqueness(ctx, candidate)
		if err == nil {
			return candidate, nil
		}
		if err != ErrSlugExists {
			return "", err
		}
		candidate = slug + "-" + uuid.New().String()[:8]
	}
}
