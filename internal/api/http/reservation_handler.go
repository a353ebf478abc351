package http

import (
	"net/http"

	"palanquee-backend/internal/domain"
	"palanquee-backend/internal/service"
)

type ReservationHandler struct {
	reservationSvc service.ReservationService
}

func NewReservationHandler(reservationSvc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationSvc: reservationSvc}
}

type registerRequest struct {
	CarpoolIntent string `json:"carpool_intent" validate:"omitempty,oneof=NONE DRIVER PASSENGER"`
	SeatsOffered  int32  `json:"seats_offered" validate:"min=0,max=8"`
}

type presenceRequest struct {
	MemberID int64 `json:"member_id" validate:"required,min=1"`
	Present  bool  `json:"present"`
}

type rosterResponse struct {
	Reservations []domain.Reservation `json:"reservations"`
}

func (h *ReservationHandler) Register(w http.ResponseWriter, r *http.Request) {
	memberID, role, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	outingID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req registerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	intent := domain.CarpoolIntent(req.CarpoolIntent)
	if intent == "" {
		intent = domain.CarpoolIntentNone
	}

	reservation, err := h.reservationSvc.Register(r.Context(), memberID, role, outingID, intent, req.SeatsOffered)
	if err != nil {
		respondError(w, r, err)
		return
	}
	// The status on the returned reservation is authoritative: the client
	// learns here whether it was seated or queued.
	respondJSON(w, http.StatusCreated, reservation)
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	memberID, _, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	outingID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.reservationSvc.Cancel(r.Context(), memberID, outingID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *ReservationHandler) Roster(w http.ResponseWriter, r *http.Request) {
	_, role, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	outingID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	reservations, err := h.reservationSvc.ListRoster(r.Context(), role, outingID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rosterResponse{Reservations: reservations})
}

func (h *ReservationHandler) Mine(w http.ResponseWriter, r *http.Request) {
	memberID, _, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	includeCancelled := r.URL.Query().Get("include_cancelled") == "true"
	reservations, err := h.reservationSvc.ListMine(r.Context(), memberID, includeCancelled)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rosterResponse{Reservations: reservations})
}

func (h *ReservationHandler) MarkPresence(w http.ResponseWriter, r *http.Request) {
	actorID, role, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	outingID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req presenceRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.reservationSvc.MarkPresence(r.Context(), actorID, role, outingID, req.MemberID, req.Present); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
