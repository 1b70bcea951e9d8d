package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/noxven/gestion-ie/internal/application"
	"github.com/noxven/gestion-ie/internal/domain/entity"
	"github.com/noxven/gestion-ie/pkg/response"
)

type ProfileHandler struct {
	Profiles *application.ProfileService
	Sync     *application.Synchronizer
	Logger   logrus.FieldLogger
}

func NewProfileHandler(profiles *application.ProfileService, sync *application.Synchronizer, logger logrus.FieldLogger) *ProfileHandler {
	return &ProfileHandler{Profiles: profiles, Sync: sync, Logger: logger}
}

type createProfileRequest struct {
	FullName string `json:"nombrecompleto" binding:"required"`
	RoleID   int64  `json:"rolid" binding:"required,gt=0"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"telefono" binding:"required"`
}

type updateProfileRequest struct {
	FullName string `json:"nombrecompleto"`
	RoleID   int64  `json:"rolid"`
}

// List returns every profile newest first, or search matches when q is set.
func (h *ProfileHandler) List(c *gin.Context) {
	var (
		out []entity.Profile
		err error
	)
	if q, ok := c.GetQuery("q"); ok {
		out, err = h.Profiles.Search(c.Request.Context(), q)
	} else {
		out, err = h.Profiles.List(c.Request.Context())
	}
	if err != nil {
		writeError(c, h.Logger, "list_profiles", err)
		return
	}
	response.JSON(c, http.StatusOK, out)
}

func (h *ProfileHandler) Create(c *gin.Context) {
	var req createProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.Profiles.Create(c.Request.Context(), application.CreateProfileInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		RoleID:   req.RoleID,
	})
	if err != nil {
		writeError(c, h.Logger, "create_profile", err)
		return
	}
	response.Created(c, p)
}

// Update changes a profile's name and role and mirrors both onto the
// matching identity.
func (h *ProfileHandler) Update(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.Sync.UpdateProfile(c.Request.Context(), id, application.UpdateProfileInput{
		FullName: req.FullName,
		RoleID:   req.RoleID,
	})
	if err != nil {
		writeError(c, h.Logger, "update_profile", err)
		return
	}
	response.WithMessage(c, http.StatusOK, "Usuario actualizado", p)
}

func int64Param(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
