package handler

import (
	"context"
	"net/http"

	"internhub/internal/identity"
	"internhub/internal/lifecycle"
	"internhub/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProfileService interface {
	UpdateProfile(ctx context.Context, actor identity.Actor, profileID uuid.UUID, changes lifecycle.ProfileChanges) (*model.Profile, error)
}

type ProfileHandler struct {
	service ProfileService
}

func NewProfileHandler(service ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// ProfileUpdateRequest представляет частичное изменение профиля.
// Отсутствующие поля не меняются, роль изменить нельзя
type ProfileUpdateRequest struct {
	FullName    *string  `json:"full_name" binding:"omitempty,min=2"`
	CompanyName *string  `json:"company_name"`
	CollegeName *string  `json:"college_name"`
	Skills      []string `json:"skills"`
	Bio         *string  `json:"bio"`
	Location    *string  `json:"location"`
	Role        *string  `json:"role"`
}

// UpdateMe изменяет профиль текущего пользователя
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	h.update(c, actor, actor.ID)
}

// UpdateProfile изменяет профиль по ID (владелец или администратор)
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "profile")
	if !ok {
		return
	}
	h.update(c, actor, id)
}

func (h *ProfileHandler) update(c *gin.Context, actor identity.Actor, profileID uuid.UUID) {
	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	changes := lifecycle.ProfileChanges{
		FullName:    req.FullName,
		CompanyName: req.CompanyName,
		CollegeName: req.CollegeName,
		Skills:      req.Skills,
		Bio:         req.Bio,
		Location:    req.Location,
	}
	if req.Role != nil {
		role := model.Role(*req.Role)
		changes.Role = &role
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), actor, profileID, changes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(profile))
}
