package echoapi

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/payment"
)

type paymentApi struct {
	svc *payment.Service
}

func registerPaymentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *payment.Service) {
	api := paymentApi{svc: svc}

	pg := g.Group("/payments", jwt)
	pg.GET("", api.query)
	pg.POST("", api.checkout)
	pg.GET("/export", api.export)
	pg.GET("/receipts/:number", api.receipt)
}

// Handlers

func (api *paymentApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	payments, err := api.svc.Query(ctx.Request().Context(), claims.Scope())
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}
	if payments == nil {
		payments = []payment.Payment{}
	}
	return ctx.JSON(http.StatusOK, payments)
}

func (api *paymentApi) checkout(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data payment.Checkout
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Checkout")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	created, err := api.svc.Checkout(ctx.Request().Context(), data, claims.Username)
	if err != nil {
		return errors.Wrap(err, "checking out")
	}
	return ctx.JSON(http.StatusCreated, created)
}

func (api *paymentApi) export(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	payments, err := api.svc.Query(ctx.Request().Context(), claims.Scope())
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="payments_report.csv"`)
	ctx.Response().Header().Set(echo.HeaderContentType, "text/csv")
	ctx.Response().WriteHeader(http.StatusOK)
	return payment.WriteCSV(ctx.Response(), payments)
}

// receipt renders the printable HTML receipt for the checkout batch the
// given receipt number belongs to.
func (api *paymentApi) receipt(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	batch, err := api.svc.GetReceiptBatch(ctx.Request().Context(), ctx.Param("number"), claims.Scope())
	if err != nil {
		if errors.Cause(err) == payment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding receipt batch")
	}

	// render into a buffer first so failures can still produce a clean status
	var buf bytes.Buffer
	if err := payment.RenderReceipt(&buf, core.Conf.SchoolName, batch); err != nil {
		if errors.Cause(err) == payment.ErrReceiptUnavailable {
			return errReceiptGone
		}
		return errors.Wrap(err, "rendering receipt")
	}
	return ctx.HTML(http.StatusOK, buf.String())
}
