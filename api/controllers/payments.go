package controllers

import (
	"net/http"

	"github.com/AlaHassouna/Waw-Tee/api/responses"
	"github.com/AlaHassouna/Waw-Tee/api/validators"
	"github.com/AlaHassouna/Waw-Tee/internal/payments"
	pkgerrors "github.com/AlaHassouna/Waw-Tee/pkg/errors"
	"github.com/AlaHassouna/Waw-Tee/pkg/logger"
)

func validationError(message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message)
}

// CreatePaymentIntent opens a card payment for an order and returns the
// client secret the storefront needs.
func CreatePaymentIntent(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input payments.CreateIntentInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreateIntent(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ConfirmPayment reconciles an order against the provider's view of the
// payment and reports the outcome.
func ConfirmPayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input payments.ConfirmInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Confirm(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeConfirmResult(w, r, logg, result)
	}
}

// CreatePayPalOrder opens a redirect payment and returns the approval link.
func CreatePayPalOrder(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input payments.RedirectInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreateRedirect(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CapturePayPalOrder settles an approved redirect payment.
func CapturePayPalOrder(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input payments.CaptureInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CaptureRedirect(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeConfirmResult(w, r, logg, result)
	}
}

func writeConfirmResult(w http.ResponseWriter, r *http.Request, logg *logger.Logger, result *payments.ConfirmResult) {
	switch result.Outcome {
	case payments.OutcomeSucceeded, payments.OutcomeAlreadyPaid:
		responses.WriteSuccess(w, result)

	case payments.OutcomeRequiresAction:
		err := pkgerrors.New(pkgerrors.CodeGatewayInvalid, result.Message).
			WithDetails(map[string]any{
				"requires_action": true,
				"client_secret":   result.ClientSecret,
			})
		responses.WriteError(r.Context(), logg, w, err)

	default:
		responses.WriteError(r.Context(), logg, w,
			pkgerrors.New(pkgerrors.CodeGatewayInvalid, result.Message))
	}
}
