package handlers

import (
	"net/http"

	"edulearn_backend/internal/services"
	"edulearn_backend/internal/services/dto"
	"edulearn_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	*BaseHandler
	courseService services.CourseService
}

func NewCourseHandler(base *BaseHandler, courseService services.CourseService) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   base,
		courseService: courseService,
	}
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	claims, ok := h.GetClaims(c)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	course, err := h.courseService.CreateCourse(h.GetDB(c), claims, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseService.ListCourses(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) ListTeacherCourses(c *gin.Context) {
	teacherID, ok := h.paramID(c, "teacherId")
	if !ok {
		return
	}

	courses, err := h.courseService.ListTeacherCourses(h.GetDB(c), teacherID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) SearchCourses(c *gin.Context) {
	var query dto.SearchCoursesQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	courses, err := h.courseService.SearchCourses(h.GetDB(c), query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	course, err := h.courseService.GetCourse(h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	claims, ok := h.GetClaims(c)
	if !ok {
		return
	}
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	course, err := h.courseService.UpdateCourse(c.Request.Context(), h.GetDB(c), claims, id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	claims, ok := h.GetClaims(c)
	if !ok {
		return
	}
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	if err := h.courseService.DeleteCourse(c.Request.Context(), h.GetDB(c), claims, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Cours supprimé avec succès"})
}

// UploadSupport - multipart поле "file", один файл за запрос
func (h *CourseHandler) UploadSupport(c *gin.Context) {
	claims, ok := h.GetClaims(c)
	if !ok {
		return
	}
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.ErrFileRequired)
		return
	}

	course, err := h.courseService.AddSupportFile(c.Request.Context(), h.GetDB(c), claims, id, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}
