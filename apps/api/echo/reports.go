package echoapi

import (
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/payment"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/user"
)

type reportsApi struct {
	payments *payment.Service
	mail     core.EmailService
}

func registerReportsAPI(g *echo.Group, jwt echo.MiddlewareFunc, payments *payment.Service, mailSvc core.EmailService) {
	api := reportsApi{payments: payments, mail: mailSvc}

	rg := g.Group("/reports", jwt, adminMiddleware())
	rg.POST("/daily-summary", api.dailySummary)
}

// dailySummary emails the office a collection summary for the current day.
func (api *reportsApi) dailySummary(ctx echo.Context) error {
	if core.Conf.OfficeEmail == "" {
		return core.NewValidationError(errors.New("no office email address is configured"))
	}

	payments, err := api.payments.Query(ctx.Request().Context(), user.Scope{Role: user.RoleAdmin})
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}

	now := time.Now().UTC()
	today := payments[:0:0]
	for _, pmt := range payments {
		y, m, d := pmt.CreatedAt.UTC().Date()
		ny, nm, nd := now.Date()
		if y == ny && m == nm && d == nd {
			today = append(today, pmt)
		}
	}

	msg := buildDailySummaryEmail(now, today)
	api.mail.SendMessages(msg)

	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: fmt.Sprintf("Daily summary for %s sent to %s.", now.Format("02/01/2006"), core.Conf.OfficeEmail),
	})
}

func buildDailySummaryEmail(day time.Time, payments []payment.Payment) *core.EmailMessage {
	var total, dev, bus, special int
	for _, pmt := range payments {
		total += pmt.Amount
		switch pmt.Type {
		case payment.TypeDevelopment:
			dev += pmt.Amount
		case payment.TypeBus:
			bus += pmt.Amount
		case payment.TypeSpecial:
			special += pmt.Amount
		}
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Collection summary for %s\n\n", day.Format("02/01/2006"))
	fmt.Fprintf(&body, "Receipts issued: %d\n", len(payments))
	fmt.Fprintf(&body, "Total collections: %d\n", total)
	fmt.Fprintf(&body, "Development fees: %d\n", dev)
	fmt.Fprintf(&body, "Bus fees: %d\n", bus)
	fmt.Fprintf(&body, "Special payments: %d\n", special)

	return &core.EmailMessage{
		To:          []mail.Address{{Address: core.Conf.OfficeEmail}},
		Subject:     fmt.Sprintf("%s - Daily Collection Summary (%s)", core.Conf.SchoolName, day.Format("02/01/2006")),
		TextContent: body.String(),
	}
}
