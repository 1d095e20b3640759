package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/somolms/somo/core/content"
)

type packageRow struct {
	ID                    string    `db:"id"`
	Title                 string    `db:"title"`
	Slug                  string    `db:"slug"`
	Description           string    `db:"description"`
	Version               string    `db:"version"`
	EntryPoint            string    `db:"entry_point"`
	Status                string    `db:"status"`
	AllowMultipleAttempts bool      `db:"allow_multiple_attempts"`
	PassingScore          int       `db:"passing_score"`
	Weight                float64   `db:"weight"`
	CreatedAt             time.Time `db:"created_at"`
	UpdatedAt             time.Time `db:"updated_at"`
}

func packRow(pkg content.Package) packageRow {
	return packageRow{
		ID:                    pkg.ID,
		Title:                 pkg.Title,
		Slug:                  pkg.Slug,
		Description:           pkg.Description,
		Version:               pkg.Version,
		EntryPoint:            pkg.EntryPoint,
		Status:                pkg.Status,
		AllowMultipleAttempts: pkg.AllowMultipleAttempts,
		PassingScore:          pkg.PassingScore,
		Weight:                pkg.Weight,
		CreatedAt:             pkg.CreatedAt.UTC(),
		UpdatedAt:             pkg.UpdatedAt.UTC(),
	}
}

func (r packageRow) unpack() content.Package {
	return content.Package{
		ID:                    r.ID,
		Title:                 r.Title,
		Slug:                  r.Slug,
		Description:           r.Description,
		Version:               r.Version,
		EntryPoint:            r.EntryPoint,
		Status:                r.Status,
		AllowMultipleAttempts: r.AllowMultipleAttempts,
		PassingScore:          r.PassingScore,
		Weight:                r.Weight,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}

type contentRepository struct {
	db *sqlx.DB
}

var _ content.Repository = (*contentRepository)(nil) // interface compliance check

func NewContentRepository(db *sqlx.DB) *contentRepository {
	return &contentRepository{db: db}
}

func (repo contentRepository) CheckSlugUniqueness(ctx context.Context, slug string) error {
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM scorm_package WHERE slug = $1)`
	if err := repo.db.GetContext(ctx, &exists, q, slug); err != nil {
		return errors.Wrap(err, "checking slug")
	}
	if exists {
		return content.ErrSlugExists
	}
	return nil
}

func (repo contentRepository) CreatePackage(ctx context.Context, pkg content.Package) (content.Package, error) {
	q := `
	INSERT INTO scorm_package (
		id, title, slug, description, version, entry_point, status,
		allow_multiple_attempts, passing_score, weight, created_at, updated_at
	) VALUES (
		:id, :title, :slug, :description, :version, :entry_point, :status,
		:allow_multiple_attempts, :passing_score, :weight, :created_at, :updated_at
	)`
	if _, err := repo.db.NamedExecContext(ctx, q, packRow(pkg)); err != nil {
		return content.Package{}, errors.Wrap(err, "creating package")
	}
	return pkg, nil
}

func (repo contentRepository) GetPackageByID(ctx context.Context, id string) (content.Package, error) {
	var row packageRow
	q := `SELECT * FROM scorm_package WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return content.Package{}, trapNoRowsErr(err, content.ErrNotFound, "getting package")
	}
	return row.unpack(), nil
}

func (repo contentRepository) GetPackageBySlug(ctx context.Context, slug string) (content.Package, error) {
	var row packageRow
	q := `SELECT * FROM scorm_package WHERE slug = $1`
	if err := repo.db.GetContext(ctx, &row, q, slug); err != nil {
		return content.Package{}, trapNoRowsErr(err, content.ErrNotFound, "getting package")
	}
	return row.unpack(), nil
}

func (repo contentRepository) QueryPackages(ctx context.Context, filter content.QueryFilter) ([]content.Package, error) {
	q := `SELECT * FROM scorm_package`
	var (
		conds []string
		args  []interface{}
	)
	if filter.Search != "" {
		pat := "%" + filter.Search + "%"
		conds = append(conds, "(title ILIKE ? OR description ILIKE ?)")
		args = append(args, pat, pat)
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, "status = ?")
	}
	if filter.Version != "" {
		args = append(args, filter.Version)
		conds = append(conds, "version = ?")
	}
	for i, cond := range conds {
		if i == 0 {
			q += " WHERE " + cond
		} else {
			q += " AND " + cond
		}
	}
	q += " ORDER BY created_at DESC"
	q = repo.db.Rebind(q)

	var rows []packageRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying packages")
	}
	pkgs := make([]content.Package, 0, len(rows))
	for _, row := range rows {
		pkgs = append(pkgs, row.unpack())
	}
	return pkgs, nil
}

func (repo contentRepository) UpdatePackage(ctx context.Context, pkg content.Package) (content.Package, error) {
	q := `
	UPDATE scorm_package SET
		title = :title, description = :description, status = :status,
		allow_multiple_attempts = :allow_multiple_attempts, passing_score = :passing_score,
		weight = :weight, updated_at = :updated_at
	WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, packRow(pkg))
	if err != nil {
		return content.Package{}, errors.Wrap(err, "updating package")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return content.Package{}, content.ErrNotFound
	}
	return pkg, nil
}

func (repo contentRepository) DeletePackagesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM scorm_package WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting packages")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting packages")
	}
	return nil
}

// trapNoRowsErr maps psql "no rows" err to the domain's not-found error.
func trapNoRowsErr(err, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}
