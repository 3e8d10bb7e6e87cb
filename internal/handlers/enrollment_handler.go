package handlers

import (
	"net/http"

	"edulearn_backend/internal/services"
	"edulearn_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type EnrollmentHandler struct {
	*BaseHandler
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(base *BaseHandler, enrollmentService services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       base,
		enrollmentService: enrollmentService,
	}
}

func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	claims, ok := h.GetClaims(c)
	if !ok {
		return
	}
	courseID, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.Enroll(h.GetDB(c), claims, courseID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	claims, ok := h.GetClaims(c)
	if !ok {
		return
	}
	courseID, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	if err := h.enrollmentService.Unenroll(h.GetDB(c), claims, courseID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Désinscription réussie"})
}

func (h *EnrollmentHandler) MyCourses(c *gin.Context) {
	claims, ok := h.GetClaims(c)
	if !ok {
		return
	}

	courses, err := h.enrollmentService.ListMyCourses(h.GetDB(c), claims)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}
