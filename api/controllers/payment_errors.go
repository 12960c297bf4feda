package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AlaHassouna/Waw-Tee/api/responses"
	"github.com/AlaHassouna/Waw-Tee/api/validators"
	"github.com/AlaHassouna/Waw-Tee/internal/payments"
	"github.com/AlaHassouna/Waw-Tee/pkg/logger"
)

// AdminListPaymentErrors returns the payment error log, newest first.
// Pass unresolved=true to see only entries nobody has looked at yet.
func AdminListPaymentErrors(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		unresolvedOnly, err := validators.ParseQueryBool(r, "unresolved", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListErrors(r.Context(), params, unresolvedOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminResolvePaymentError marks a payment error as handled.
func AdminResolvePaymentError(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input payments.ResolveErrorInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ResolveError(r.Context(), id, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, "payment error resolved", nil)
	}
}
