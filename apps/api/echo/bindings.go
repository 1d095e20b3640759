package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/somolms/somo/core"
	"github.com/somolms/somo/core/attempt"
)

type (
	SuccessResponse struct {
		Success string `json:"success"`
	}

	// LaunchRequest identifies the learner a package is being launched for.
	LaunchRequest struct {
		Learner attempt.Learner `json:"learner"`
	}

	// LaunchResponse carries everything the player needs to run a package.
	LaunchResponse struct {
		Attempt   attempt.Attempt `json:"attempt"`
		LaunchURL string          `json:"launch_url"`
	}
)

func (r *LaunchRequest) Validate(validate *validator.Validate) error {
	r.Learner.ID = core.CleanString(r.Learner.ID)
	r.Learner.Name = core.CleanString(r.Learner.Name)
	r.Learner.Email = core.CleanString(r.Learner.Email, true /* lower */)
	return validate.Struct(r)
}

// contextPerson returns the learner attached to the request by a handler, if
// any, for error reporting.
func contextPerson(ctx echo.Context) core.Person {
	if p, ok := ctx.Get("person").(core.Person); ok {
		return p
	}
	return core.Person{}
}

func setContextPerson(ctx echo.Context, att attempt.Attempt) {
	ctx.Set("person", core.Person{ID: att.LearnerID, Name: att.LearnerName, Email: att.LearnerEmail})
}
