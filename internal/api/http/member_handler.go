package http

import (
	"net/http"

	"palanquee-backend/internal/domain"
	"palanquee-backend/internal/service"
)

type MemberHandler struct {
	memberSvc service.MemberService
}

func NewMemberHandler(memberSvc service.MemberService) *MemberHandler {
	return &MemberHandler{memberSvc: memberSvc}
}

type updateProfileRequest struct {
	Name             string  `json:"name" validate:"required,min=2,max=120"`
	Phone            string  `json:"phone" validate:"max=32"`
	DivingLevel      string  `json:"diving_level" validate:"max=64"`
	MedicalCertUntil *string `json:"medical_cert_until"`
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=MEMBER ORGANIZER ADMIN"`
}

type memberListResponse struct {
	Members  []domain.Member `json:"members"`
	Total    int32           `json:"total"`
	Page     int32           `json:"page"`
	PageSize int32           `json:"page_size"`
}

func (h *MemberHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	memberID, _, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	member, err := h.memberSvc.GetProfile(r.Context(), memberID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, member)
}

func (h *MemberHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	memberID, _, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req updateProfileRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.memberSvc.UpdateProfile(r.Context(), memberID, req.Name, req.Phone, req.DivingLevel, req.MedicalCertUntil); err != nil {
		respondError(w, r, err)
		return
	}

	member, err := h.memberSvc.GetProfile(r.Context(), memberID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, member)
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	_, role, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !role.IsStaff() {
		respondError(w, r, domain.ErrForbidden)
		return
	}

	page, pageSize := pagination(r)
	members, total, err := h.memberSvc.ListMembers(r.Context(), page, pageSize)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, memberListResponse{
		Members:  members,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *MemberHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	_, role, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	memberID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req setRoleRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.memberSvc.SetRole(r.Context(), role, memberID, domain.MemberRole(req.Role)); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
