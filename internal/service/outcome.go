package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"shop-admin/internal/models"
	"shop-admin/internal/util"

	"github.com/shopspring/decimal"
)

// Level classifies a notice
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a one-time message shown on the page rendered after a redirect
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Outcome is the result of a mutating operation: where to send the browser
// and what to tell the user when it gets there.
type Outcome struct {
	Redirect string `json:"redirect"`
	Notice   Notice `json:"notice"`
}

// Rejected reports whether the operation was refused without mutating anything.
func (o Outcome) Rejected() bool {
	return o.Notice.Level == LevelError
}

func succeeded(redirect, format string, args ...interface{}) Outcome {
	return Outcome{Redirect: redirect, Notice: Notice{Level: LevelSuccess, Message: fmt.Sprintf(format, args...)}}
}

func rejected(redirect, format string, args ...interface{}) Outcome {
	return Outcome{Redirect: redirect, Notice: Notice{Level: LevelError, Message: fmt.Sprintf(format, args...)}}
}

// Paths of the pages operations redirect to
const (
	ProductsPath  = "/products"
	CustomersPath = "/customers"
	EmployeesPath = "/employees"
	SuppliersPath = "/suppliers"
	OrdersPath    = "/orders"
)

// OrderPath is the detail page of one order
func OrderPath(id int64) string {
	return fmt.Sprintf("%s/%d", OrdersPath, id)
}

// fieldError carries a user-facing validation message
type fieldError string

func (e fieldError) Error() string { return string(e) }

// asRejection turns a validation failure into an outcome; ok is false for
// any other error.
func asRejection(redirect string, err error) (Outcome, bool) {
	var fe fieldError
	if errors.As(err, &fe) {
		return rejected(redirect, "%s", string(fe)), true
	}
	return Outcome{}, false
}

func parseOptionalInt(raw, msg string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fieldError(msg)
	}
	return &v, nil
}

func parseRequiredInt(raw, msg string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fieldError(msg)
	}
	return v, nil
}

func parseDecimal(raw, msg string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fieldError(msg)
	}
	return d, nil
}

func parseDate(raw, msg string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return time.Time{}, fieldError(msg)
	}
	return t, nil
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// record counts a mutation by entity, action and outcome
func record(entity, action string, out Outcome, err error) {
	outcome := util.OutcomeSuccess
	switch {
	case err != nil:
		outcome = util.OutcomeError
	case out.Rejected():
		outcome = util.OutcomeRejected
	}
	util.MutationsTotal.WithLabelValues(entity, action, outcome).Inc()
}
