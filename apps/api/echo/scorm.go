package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/somolms/somo/core"
	"github.com/somolms/somo/core/attempt"
	"github.com/somolms/somo/core/content"
	"github.com/somolms/somo/core/scorm"
)

var errPackageDisabled = echo.NewHTTPError(http.StatusForbidden, "this package is disabled")

type scormApi struct {
	contentSvc *content.Service
	attemptSvc *attempt.Service
	conf       *core.Config
	validate   *validator.Validate
}

func registerScormAPI(g *echo.Group, deps ServerDeps) {
	api := scormApi{
		contentSvc: deps.ContentSvc,
		attemptSvc: deps.AttemptSvc,
		conf:       deps.Conf,
		validate:   deps.Validate,
	}

	sg := g.Group("/scorm")
	sg.POST("/packages/:idOrSlug/launch", api.launch)
	sg.POST("/api", api.runtime)
	sg.GET("/progress/:learnerID", api.progress)
}

// Handlers

// launch resolves a package and returns the attempt the learner should run
// along with the content launch URL.
func (api *scormApi) launch(ctx echo.Context) error {
	capi := contentApi{svc: api.contentSvc}
	pkg, err := capi.getPackage(ctx)
	if err != nil {
		return err
	}
	if !pkg.IsReady() {
		return errPackageDisabled
	}

	var data LaunchRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LaunchRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	att, err := api.attemptSvc.Start(ctx.Request().Context(), pkg, data.Learner)
	if err != nil {
		if errors.Cause(err) == attempt.ErrAttemptLimit {
			return core.NewValidationError(attempt.ErrAttemptLimit)
		}
		return errors.Wrap(err, "starting attempt")
	}
	setContextPerson(ctx, att)

	return ctx.JSON(http.StatusOK, LaunchResponse{
		Attempt:   att,
		LaunchURL: pkg.LaunchURL(api.conf.Scorm.ContentBaseURL),
	})
}

// runtime is the endpoint SCORM content posts its LMS* calls to, one call per
// request. Domain rejections (unknown attempt, refused value) come back as
// success=false with a 200; only infra failures surface as HTTP errors.
func (api *scormApi) runtime(ctx echo.Context) error {
	var req scorm.RuntimeRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.Wrap(err, "binding to RuntimeRequest")
	}

	reqCtx := ctx.Request().Context()

	att, err := api.attemptSvc.GetByID(reqCtx, req.AttemptID)
	if err != nil {
		if errors.Cause(err) == attempt.ErrNotFound {
			return ctx.JSON(http.StatusOK, scorm.RuntimeResponse{Success: false})
		}
		return errors.Wrap(err, "getting attempt")
	}
	setContextPerson(ctx, att)

	param := func(i int) string {
		if i < len(req.Parameters) {
			return req.Parameters[i]
		}
		return ""
	}

	var resp scorm.RuntimeResponse
	switch req.Method {
	case scorm.MethodInitialize:
		err = api.attemptSvc.Commit(reqCtx, req.AttemptID)
		resp.Success = err == nil
	case scorm.MethodFinish:
		err = api.attemptSvc.Finish(reqCtx, req.AttemptID)
		resp.Success = err == nil
	case scorm.MethodGetValue:
		var value string
		if value, err = api.attemptSvc.GetElement(reqCtx, req.AttemptID, param(0)); err == nil {
			resp.Success = true
			resp.Value = value
		}
	case scorm.MethodSetValue:
		resp.Success, err = api.attemptSvc.SetElement(reqCtx, req.AttemptID, param(0), param(1))
	case scorm.MethodCommit:
		err = api.attemptSvc.Commit(reqCtx, req.AttemptID)
		resp.Success = err == nil
	case scorm.MethodGetLastError:
		resp.Success = true
		resp.Value = scorm.ErrNoError
	case scorm.MethodGetErrorString:
		resp.Success = true
		resp.Value = scorm.ErrorText(param(0))
	case scorm.MethodGetDiagnostic:
		resp.Success = true
	default:
		resp.Success = false
	}

	if err != nil && errors.Cause(err) != attempt.ErrNotFound {
		return errors.Wrap(err, req.Method)
	}
	return ctx.JSON(http.StatusOK, resp)
}

// progress summarizes a learner's attempts per package.
func (api *scormApi) progress(ctx echo.Context) error {
	progress, err := api.attemptSvc.Progress(ctx.Request().Context(), ctx.Param("learnerID"))
	if err != nil {
		return errors.Wrap(err, "querying progress")
	}
	if progress == nil {
		progress = []attempt.PackageProgress{}
	}
	return ctx.JSON(http.StatusOK, progress)
}
