package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/somolms/somo/core"
	"github.com/somolms/somo/core/content"
)

type contentApi struct {
	svc        *content.Service
	conf       *core.Config
	validate   *validator.Validate
	translator ut.Translator
}

func registerContentAPI(g *echo.Group, deps ServerDeps) {
	api := contentApi{
		svc:        deps.ContentSvc,
		conf:       deps.Conf,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	pg := g.Group("/scorm/packages")
	pg.POST("", api.create)
	pg.GET("", api.query)
	pg.DELETE("", api.destroyMultiple)

	dg := pg.Group("/:idOrSlug")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

// Handlers

func (api *contentApi) create(ctx echo.Context) error {
	var data content.NewPackage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPackage")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	pkg, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating package")
	}
	return ctx.JSON(http.StatusCreated, pkg)
}

func (api *contentApi) query(ctx echo.Context) error {
	filter := new(content.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []content.Package{})
	}

	pkgs, err := api.svc.Query(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying packages")
	}
	if pkgs == nil {
		pkgs = []content.Package{}
	}
	return ctx.JSON(http.StatusOK, pkgs)
}

func (api *contentApi) retrieve(ctx echo.Context) error {
	pkg, err := api.getPackage(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, pkg)
}

func (api *contentApi) update(ctx echo.Context) error {
	pkg, err := api.getPackage(ctx)
	if err != nil {
		return err
	}

	var data content.UpdatePackage
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePackage")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	pkg, err = api.svc.Update(ctx.Request().Context(), pkg.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating package")
	}
	return ctx.JSON(http.StatusOK, pkg)
}

func (api *contentApi) destroy(ctx echo.Context) error {
	pkg, err := api.getPackage(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), pkg.ID); err != nil {
		return errors.Wrap(err, "deleting package")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *contentApi) destroyMultiple(ctx echo.Context) error {
	ids, ok := ctx.QueryParams()["id"]
	if !ok || len(ids) == 0 {
		return core.NewValidationError(errors.New("no id provided"))
	}
	if err := api.svc.Delete(ctx.Request().Context(), ids...); err != nil {
		return errors.Wrap(err, "deleting packages")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// getPackage looks a package up by ID or by slug.
func (api *contentApi) getPackage(ctx echo.Context) (content.Package, error) {
	idOrSlug := ctx.Param("idOrSlug")
	reqCtx := ctx.Request().Context()

	var (
		pkg content.Package
		err error
	)
	if _, uuidErr := uuid.Parse(idOrSlug); uuidErr == nil {
		pkg, err = api.svc.GetByID(reqCtx, idOrSlug)
	} else {
		pkg, err = api.svc.GetBySlug(reqCtx, idOrSlug)
	}
	if err != nil {
		if errors.Cause(err) == content.ErrNotFound {
			return content.Package{}, errHttpNotFound
		}
		return content.Package{}, errors.Wrap(err, "getting package")
	}
	return pkg, nil
}
