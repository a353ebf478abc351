package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"palanquee-backend/internal/security"
)

// Handlers groups everything NewRouter needs to wire the REST surface.
type Handlers struct {
	Auth         *AuthHandler
	Member       *MemberHandler
	Outing       *OutingHandler
	Reservation  *ReservationHandler
	Carpool      *CarpoolHandler
	Gear         *GearHandler
	Notification *NotificationHandler
}

func NewRouter(h Handlers, tokenManager security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware, LoggingMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes.
	api.HandleFunc("/auth/signup", h.Auth.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", h.Auth.Refresh).Methods(http.MethodPost)

	// Everything below requires a valid access token.
	auth := NewAuthMiddleware(tokenManager)
	protected := api.NewRoute().Subrouter()
	protected.Use(auth.Handler)

	protected.HandleFunc("/members/me", h.Member.GetProfile).Methods(http.MethodGet)
	protected.HandleFunc("/members/me", h.Member.UpdateProfile).Methods(http.MethodPut)
	protected.HandleFunc("/members", h.Member.List).Methods(http.MethodGet)
	protected.HandleFunc("/members/{id}/role", h.Member.SetRole).Methods(http.MethodPut)

	protected.HandleFunc("/outings", h.Outing.Create).Methods(http.MethodPost)
	protected.HandleFunc("/outings", h.Outing.List).Methods(http.MethodGet)
	protected.HandleFunc("/outings/{id}", h.Outing.Get).Methods(http.MethodGet)
	protected.HandleFunc("/outings/{id}", h.Outing.Update).Methods(http.MethodPut)
	protected.HandleFunc("/outings/{id}/archive", h.Outing.Archive).Methods(http.MethodPost)
	protected.HandleFunc("/outings/{id}/cancel", h.Outing.Cancel).Methods(http.MethodPost)

	protected.HandleFunc("/outings/{id}/reservations", h.Reservation.Register).Methods(http.MethodPost)
	protected.HandleFunc("/outings/{id}/reservations", h.Reservation.Cancel).Methods(http.MethodDelete)
	protected.HandleFunc("/outings/{id}/roster", h.Reservation.Roster).Methods(http.MethodGet)
	protected.HandleFunc("/outings/{id}/presence", h.Reservation.MarkPresence).Methods(http.MethodPut)
	protected.HandleFunc("/reservations/mine", h.Reservation.Mine).Methods(http.MethodGet)

	protected.HandleFunc("/outings/{id}/carpools", h.Carpool.Create).Methods(http.MethodPost)
	protected.HandleFunc("/outings/{id}/carpools", h.Carpool.ListByOuting).Methods(http.MethodGet)
	protected.HandleFunc("/carpools/{carpoolID}", h.Carpool.Update).Methods(http.MethodPut)
	protected.HandleFunc("/carpools/{carpoolID}", h.Carpool.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/carpools/{carpoolID}/seats", h.Carpool.BookSeat).Methods(http.MethodPost)
	protected.HandleFunc("/carpools/{carpoolID}/seats", h.Carpool.CancelSeat).Methods(http.MethodDelete)
	protected.HandleFunc("/carpools/{carpoolID}/passengers", h.Carpool.ListPassengers).Methods(http.MethodGet)

	protected.HandleFunc("/gear", h.Gear.AddItem).Methods(http.MethodPost)
	protected.HandleFunc("/gear", h.Gear.ListItems).Methods(http.MethodGet)
	protected.HandleFunc("/gear/{id}", h.Gear.UpdateItem).Methods(http.MethodPut)
	protected.HandleFunc("/gear/{id}/loans", h.Gear.LoanItem).Methods(http.MethodPost)
	protected.HandleFunc("/gear/loans/{loanID}/return", h.Gear.ReturnItem).Methods(http.MethodPost)
	protected.HandleFunc("/gear/loans/mine", h.Gear.MyLoans).Methods(http.MethodGet)

	protected.HandleFunc("/notifications", h.Notification.List).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{id}/read", h.Notification.MarkAsRead).Methods(http.MethodPost)

	return r
}
