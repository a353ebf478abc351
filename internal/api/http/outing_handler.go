package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"palanquee-backend/internal/domain"
	"palanquee-backend/internal/repository"
	"palanquee-backend/internal/service"
)

type OutingHandler struct {
	outingSvc service.OutingService
}

func NewOutingHandler(outingSvc service.OutingService) *OutingHandler {
	return &OutingHandler{outingSvc: outingSvc}
}

type outingRequest struct {
	Title           string     `json:"title" validate:"required,min=3"`
	Description     string     `json:"description"`
	Type            string     `json:"type" validate:"required,oneof=SEA POOL QUARRY PIT CLEANUP"`
	DateTime        time.Time  `json:"date_time" validate:"required"`
	EndTime         *time.Time `json:"end_time"`
	Location        string     `json:"location" validate:"required"`
	MaxParticipants int32      `json:"max_participants" validate:"required,min=1"`
	StaffOnly       bool       `json:"staff_only"`
	CarpoolEnabled  bool       `json:"carpool_enabled"`
}

type cancelOutingRequest struct {
	Reason string `json:"reason"`
}

type outingListResponse struct {
	Outings []domain.Outing `json:"outings"`
	Total   int32           `json:"total"`
}

func (h *OutingHandler) Create(w http.ResponseWriter, r *http.Request) {
	memberID, role, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req outingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	outing := &domain.Outing{
		Title:           req.Title,
		Description:     req.Description,
		Type:            domain.OutingType(req.Type),
		DateTime:        req.DateTime,
		EndTime:         req.EndTime,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
		StaffOnly:       req.StaffOnly,
		CarpoolEnabled:  req.CarpoolEnabled,
	}
	if err := h.outingSvc.CreateOuting(r.Context(), memberID, role, outing); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, outing)
}

func (h *OutingHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, role, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	outing, err := h.outingSvc.GetOuting(r.Context(), role, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, outing)
}

func (h *OutingHandler) Update(w http.ResponseWriter, r *http.Request) {
	memberID, role, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req outingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	outing := &domain.Outing{
		ID:              id,
		Title:           req.Title,
		Description:     req.Description,
		Type:            domain.OutingType(req.Type),
		DateTime:        req.DateTime,
		EndTime:         req.EndTime,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
		StaffOnly:       req.StaffOnly,
		CarpoolEnabled:  req.CarpoolEnabled,
	}
	if err := h.outingSvc.UpdateOuting(r.Context(), memberID, role, outing); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, outing)
}

func (h *OutingHandler) Archive(w http.ResponseWriter, r *http.Request) {
	memberID, role, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.outingSvc.ArchiveOuting(r.Context(), memberID, role, id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *OutingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	memberID, role, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req cancelOutingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.outingSvc.CancelOuting(r.Context(), memberID, role, id, req.Reason); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *OutingHandler) List(w http.ResponseWriter, r *http.Request) {
	_, role, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	query := r.URL.Query()
	filter := repository.OutingFilter{
		Now:            time.Now(),
		Upcoming:       query.Get("when") != "past",
		Past:           query.Get("when") == "past",
		Type:           domain.OutingType(query.Get("type")),
		IncludeArchive: query.Get("when") == "past",
	}
	page, pageSize := pagination(r)

	outings, total, err := h.outingSvc.ListOutings(r.Context(), role, filter, page, pageSize)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, outingListResponse{Outings: outings, Total: total})
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return id, nil
}

func pagination(r *http.Request) (int32, int32) {
	page := int32(1)
	pageSize := int32(20)
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}
