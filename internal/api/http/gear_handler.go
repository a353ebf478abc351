package http

import (
	"net/http"
	"time"

	"palanquee-backend/internal/domain"
	"palanquee-backend/internal/service"
)

type GearHandler struct {
	gearSvc service.GearService
}

func NewGearHandler(gearSvc service.GearService) *GearHandler {
	return &GearHandler{gearSvc: gearSvc}
}

type gearItemRequest struct {
	Kind      string `json:"kind" validate:"required,max=64"`
	Size      string `json:"size" validate:"max=32"`
	Condition string `json:"condition" validate:"max=255"`
}

type loanRequest struct {
	MemberID int64  `json:"member_id" validate:"required,min=1"`
	DueOn    string `json:"due_on" validate:"required"`
}

type gearListResponse struct {
	Items    []domain.GearItem `json:"items"`
	Total    int32             `json:"total"`
	Page     int32             `json:"page"`
	PageSize int32             `json:"page_size"`
}

type loanListResponse struct {
	Loans []domain.GearLoan `json:"loans"`
}

func (h *GearHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	_, role, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req gearItemRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	item := &domain.GearItem{
		Kind:      req.Kind,
		Size:      req.Size,
		Condition: domain.GearCondition(req.Condition),
	}
	if err := h.gearSvc.AddItem(r.Context(), role, item); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (h *GearHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	_, role, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	itemID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req gearItemRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	item := &domain.GearItem{
		ID:        itemID,
		Kind:      req.Kind,
		Size:      req.Size,
		Condition: domain.GearCondition(req.Condition),
	}
	if err := h.gearSvc.UpdateItem(r.Context(), role, item); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *GearHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	if _, _, err := MemberFromContext(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}

	status := domain.GearStatus(r.URL.Query().Get("status"))
	page, pageSize := pagination(r)
	items, total, err := h.gearSvc.ListItems(r.Context(), status, page, pageSize)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, gearListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *GearHandler) LoanItem(w http.ResponseWriter, r *http.Request) {
	_, role, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	itemID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req loanRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	dueOn, err := time.Parse(time.RFC3339, req.DueOn)
	if err != nil {
		respondError(w, r, domain.ErrInvalidInput)
		return
	}

	loan, err := h.gearSvc.LoanItem(r.Context(), role, itemID, req.MemberID, dueOn)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, loan)
}

func (h *GearHandler) ReturnItem(w http.ResponseWriter, r *http.Request) {
	_, role, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	loanID, err := pathID(r, "loanID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	loan, err := h.gearSvc.ReturnItem(r.Context(), role, loanID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, loan)
}

func (h *GearHandler) MyLoans(w http.ResponseWriter, r *http.Request) {
	memberID, _, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	openOnly := r.URL.Query().Get("open_only") == "true"
	loans, err := h.gearSvc.ListMemberLoans(r.Context(), memberID, openOnly)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, loanListResponse{Loans: loans})
}
