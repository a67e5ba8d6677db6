package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/dashboard"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/payment"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/student"
)

type dashboardApi struct {
	students *student.Service
	payments *payment.Service
}

func registerDashboardAPI(g *echo.Group, jwt echo.MiddlewareFunc, students *student.Service, payments *payment.Service) {
	api := dashboardApi{students: students, payments: payments}
	g.GET("/dashboard", api.stats, jwt)
}

// stats aggregates the caller's visible students and payments. A teacher
// only ever sees their own class totals.
func (api *dashboardApi) stats(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	scope := claims.Scope()

	students, err := api.students.Query(ctx.Request().Context(), scope)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	payments, err := api.payments.Query(ctx.Request().Context(), scope)
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}

	return ctx.JSON(http.StatusOK, dashboard.Compute(students, payments))
}
