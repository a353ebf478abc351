package http

import (
	"net/http"
	"time"

	"palanquee-backend/internal/domain"
	"palanquee-backend/internal/service"
)

type CarpoolHandler struct {
	carpoolSvc service.CarpoolService
}

func NewCarpoolHandler(carpoolSvc service.CarpoolService) *CarpoolHandler {
	return &CarpoolHandler{carpoolSvc: carpoolSvc}
}

type carpoolRequest struct {
	DepartureTime  string `json:"departure_time" validate:"required"`
	AvailableSeats int32  `json:"available_seats" validate:"required,min=1,max=8"`
	MeetingPoint   string `json:"meeting_point" validate:"required,max=255"`
	Notes          string `json:"notes" validate:"max=1024"`
	MapLink        string `json:"map_link" validate:"omitempty,url"`
}

type carpoolListResponse struct {
	Carpools []domain.Carpool `json:"carpools"`
}

type passengerListResponse struct {
	Passengers []domain.CarpoolPassenger `json:"passengers"`
}

func (req *carpoolRequest) toDomain(outingID int64) (*domain.Carpool, error) {
	departure, err := time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return &domain.Carpool{
		OutingID:       outingID,
		DepartureTime:  departure,
		AvailableSeats: req.AvailableSeats,
		MeetingPoint:   req.MeetingPoint,
		Notes:          req.Notes,
		MapLink:        req.MapLink,
	}, nil
}

func (h *CarpoolHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req carpoolRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	carpool, err := req.toDomain(outingID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	carpool.DriverID = memberID

	if err := h.carpoolSvc.CreateCarpool(r.Context(), memberID, role, carpool); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, carpool)
}

func (h *CarpoolHandler) Update(w http.ResponseWriter, r *http.Request) {
	memberID, role, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	carpoolID, err := pathID(r, "carpoolID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req carpoolRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	carpool, err := req.toDomain(0)
	if err != nil {
		respondError(w, r, err)
		return
	}
	carpool.ID = carpoolID

	if err := h.carpoolSvc.UpdateCarpool(r.Context(), memberID, role, carpool); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, carpool)
}

func (h *CarpoolHandler) Delete(w http.ResponseWriter, r *http.Request) {
	memberID, role, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	carpoolID, err := pathID(r, "carpoolID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.carpoolSvc.DeleteCarpool(r.Context(), memberID, role, carpoolID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *CarpoolHandler) ListByOuting(w http.ResponseWriter, r *http.Request) {
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

	carpools, err := h.carpoolSvc.ListByOuting(r.Context(), role, outingID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, carpoolListResponse{Carpools: carpools})
}

func (h *CarpoolHandler) BookSeat(w http.ResponseWriter, r *http.Request) {
	memberID, role, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	carpoolID, err := pathID(r, "carpoolID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	passenger, err := h.carpoolSvc.BookSeat(r.Context(), memberID, role, carpoolID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, passenger)
}

func (h *CarpoolHandler) CancelSeat(w http.ResponseWriter, r *http.Request) {
	memberID, _, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	carpoolID, err := pathID(r, "carpoolID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.carpoolSvc.CancelSeat(r.Context(), memberID, carpoolID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *CarpoolHandler) ListPassengers(w http.ResponseWriter, r *http.Request) {
	_, _, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	carpoolID, err := pathID(r, "carpoolID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	passengers, err := h.carpoolSvc.ListPassengers(r.Context(), carpoolID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, passengerListResponse{Passengers: passengers})
}
