package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AlaHassouna/Waw-Tee/api/middleware"
	"github.com/AlaHassouna/Waw-Tee/api/responses"
	"github.com/AlaHassouna/Waw-Tee/api/validators"
	internalorders "github.com/AlaHassouna/Waw-Tee/internal/orders"
	pkgerrors "github.com/AlaHassouna/Waw-Tee/pkg/errors"
	"github.com/AlaHassouna/Waw-Tee/pkg/logger"
	"github.com/AlaHassouna/Waw-Tee/pkg/pagination"
)

// CreateOrder accepts a checkout submission. Works for guests and
// authenticated buyers alike; a logged-in buyer gets the order attached to
// their account.
func CreateOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input internalorders.CreateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if userID := middleware.UserIDFromContext(r.Context()); userID != 0 {
			input.UserID = &userID
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// GetOrder returns a single order. Buyers only see their own; admins see any.
func GetOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if middleware.RoleFromContext(r.Context()) != "admin" {
			userID := middleware.UserIDFromContext(r.Context())
			if order.UserID == nil || *order.UserID != userID {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
				return
			}
		}

		responses.WriteSuccess(w, order)
	}
}

// ListOrders returns the authenticated buyer's orders.
func ListOrders(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByUser(r.Context(), middleware.UserIDFromContext(r.Context()), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// TrackOrder looks an order up by its public order number.
func TrackOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number := chi.URLParam(r, "orderNumber")
		order, err := svc.Track(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalorders.AsTrackingView(order))
	}
}

// TrackGuestOrder looks an order up by number plus the buyer's email, for
// guests without an account.
func TrackGuestOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			OrderNumber string `json:"order_number" validate:"required,max=20"`
			Email       string `json:"email" validate:"required,email"`
		}
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// The email check proves ownership, so the guest gets the full order
		// rather than the reduced tracking view.
		order, err := svc.TrackGuest(r.Context(), input.OrderNumber, input.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}
