package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/fees"
)

type feesApi struct {
	svc *fees.Service
}

func registerFeesAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *fees.Service) {
	api := feesApi{svc: svc}

	fg := g.Group("/fees", jwt)
	fg.GET("/configurations", api.queryConfigurations)
	fg.PUT("/configurations/:class", api.updateConfiguration, adminMiddleware())

	bg := fg.Group("/bus-stops")
	bg.GET("", api.queryBusStops)
	bg.POST("", api.createBusStop, adminMiddleware())
	bg.PUT("/:id", api.updateBusStop, adminMiddleware())
	bg.DELETE("/:id", api.destroyBusStop, adminMiddleware())
}

// Fee configuration handlers

func (api *feesApi) queryConfigurations(ctx echo.Context) error {
	configs, err := api.svc.QueryConfigurations(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying fee configurations")
	}
	if configs == nil {
		configs = []fees.FeeConfiguration{}
	}
	return ctx.JSON(http.StatusOK, configs)
}

func (api *feesApi) updateConfiguration(ctx echo.Context) error {
	class, err := strconv.Atoi(ctx.Param("class"))
	if err != nil {
		return core.NewValidationError(nil,
			core.FieldError{Field: "class", Error: "class must be a number"})
	}

	var data fees.UpdateFeeConfiguration
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateFeeConfiguration")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	fc, err := api.svc.UpdateConfiguration(ctx.Request().Context(), class, data.DevelopmentFee)
	if err != nil {
		if errors.Cause(err) == fees.ErrConfigurationNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating fee configuration")
	}
	return ctx.JSON(http.StatusOK, fc)
}

// Bus stop handlers

func (api *feesApi) queryBusStops(ctx echo.Context) error {
	stops, err := api.svc.QueryBusStops(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying bus stops")
	}
	if stops == nil {
		stops = []fees.BusStop{}
	}
	return ctx.JSON(http.StatusOK, stops)
}

func (api *feesApi) createBusStop(ctx echo.Context) error {
	var data fees.NewBusStop
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBusStop")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}

	stop, err := api.svc.CreateBusStop(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating bus stop")
	}
	return ctx.JSON(http.StatusCreated, stop)
}

func (api *feesApi) updateBusStop(ctx echo.Context) error {
	id := ctx.Param("id")
	orig, err := api.svc.GetBusStopByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == fees.ErrBusStopNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting bus stop")
	}

	var data fees.UpdateBusStop
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateBusStop")
	}
	if err := data.Validate(orig, api.svc); err != nil {
		return err
	}

	stop, err := api.svc.UpdateBusStop(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating bus stop")
	}
	return ctx.JSON(http.StatusOK, stop)
}

func (api *feesApi) destroyBusStop(ctx echo.Context) error {
	if err := api.svc.DeleteBusStop(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == fees.ErrBusStopNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting bus stop")
	}
	return ctx.NoContent(http.StatusNoContent)
}
