package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/somolms/somo/core/content"
)

type contentRepository struct {
	db *DB
}

var _ content.Repository = (*contentRepository)(nil) // interface compliance check

func NewContentRepository(db *DB) *contentRepository {
	return &contentRepository{db: db}
}

func (repo *contentRepository) query() []content.Package {
	pkgs := make([]content.Package, 0, len(repo.db.packages))
	for _, pkg := range repo.db.packages {
		pkgs = append(pkgs, *pkg)
	}
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].CreatedAt.After(pkgs[j].CreatedAt) })
	return pkgs
}

func (repo *contentRepository) CheckSlugUniqueness(ctx context.Context, slug string) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, pkg := range repo.db.packages {
		if pkg.Slug == slug {
			return content.ErrSlugExists
		}
	}
	return nil
}

func (repo *contentRepository) CreatePackage(ctx context.Context, pkg content.Package) (content.Package, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.packages[pkg.ID] = &pkg
	return pkg, nil
}

func (repo *contentRepository) GetPackageByID(ctx context.Context, id string) (content.Package, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if pkg, ok := repo.db.packages[id]; ok {
		return *pkg, nil
	}
	return content.Package{}, content.ErrNotFound
}

func (repo *contentRepository) GetPackageBySlug(ctx context.Context, slug string) (content.Package, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, pkg := range repo.db.packages {
		if pkg.Slug == slug {
			return *pkg, nil
		}
	}
	return content.Package{}, content.ErrNotFound
}

func (repo *contentRepository) QueryPackages(ctx context.Context, filter content.QueryFilter) ([]content.Package, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	pkgs := repo.query()
	if filter.IsEmpty() {
		return pkgs, nil
	}

	matches := make([]content.Package, 0, len(pkgs))
	search := strings.ToLower(filter.Search)
	for _, pkg := range pkgs {
		if search != "" &&
			!strings.Contains(strings.ToLower(pkg.Title), search) &&
			!strings.Contains(strings.ToLower(pkg.Description), search) {
			continue
		}
		if filter.Status != "" && pkg.Status != filter.Status {
			continue
		}
		if filter.Version != "" && pkg.Version != filter.Version {
			continue
		}
		matches = append(matches, pkg)
	}
	return matches, nil
}

func (repo *contentRepository) UpdatePackage(ctx context.Context, pkg content.Package) (content.Package, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.packages[pkg.ID]; !ok {
		return content.Package{}, content.ErrNotFound
	}
	repo.db.packages[pkg.ID] = &pkg
	return pkg, nil
}

func (repo *contentRepository) DeletePackagesByID(ctx context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.packages, id)
	}
	return nil
}
