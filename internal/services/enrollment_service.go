package services

import (
	"errors"

	"edulearn_backend/internal/auth"
	"edulearn_backend/internal/models"
	"edulearn_backend/internal/repositories"
	"edulearn_backend/internal/services/dto"
	"edulearn_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type EnrollmentService interface {
	Enroll(db *gorm.DB, caller *auth.Claims, courseID uint) (*dto.EnrollmentResponse, error)
	Unenroll(db *gorm.DB, caller *auth.Claims, courseID uint) error
	ListMyCourses(db *gorm.DB, caller *auth.Claims) ([]dto.CourseResponse, error)
}

type EnrollmentServiceImpl struct {
	enrollmentRepo repositories.EnrollmentRepository
	courseRepo     repositories.CourseRepository
}

func NewEnrollmentService(
	enrollmentRepo repositories.EnrollmentRepository,
	courseRepo repositories.CourseRepository,
) EnrollmentService {
	return &EnrollmentServiceImpl{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
	}
}

func (s *EnrollmentServiceImpl) Enroll(db *gorm.DB, caller *auth.Claims, courseID uint) (*dto.EnrollmentResponse, error) {
	if _, err := s.courseRepo.FindByID(db, courseID); err != nil {
		return nil, asAppError(mapCourseError(err))
	}

	enrollment := &models.Enrollment{CourseID: courseID, StudentID: caller.ID}
	if err := s.enrollmentRepo.Create(db, enrollment); err != nil {
		if errors.Is(err, repositories.ErrAlreadyEnrolled) {
			return nil, apperrors.ErrAlreadyEnrolled
		}
		return nil, apperrors.InternalError(err)
	}

	return &dto.EnrollmentResponse{
		Message:    "Inscription au cours réussie",
		CourseID:   enrollment.CourseID,
		StudentID:  enrollment.StudentID,
		EnrolledAt: enrollment.CreatedAt,
	}, nil
}

func (s *EnrollmentServiceImpl) Unenroll(db *gorm.DB, caller *auth.Claims, courseID uint) error {
	if err := s.enrollmentRepo.Delete(db, courseID, caller.ID); err != nil {
		if errors.Is(err, repositories.ErrEnrollmentNotFound) {
			return apperrors.ErrNotEnrolled
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// ListMyCourses - курсы, на которые записан студент, в виде агрегированных карточек
func (s *EnrollmentServiceImpl) ListMyCourses(db *gorm.DB, caller *auth.Claims) ([]dto.CourseResponse, error) {
	ids, err := s.enrollmentRepo.CourseIDsByStudent(db, caller.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	courses, err := s.courseRepo.FindAll(db, repositories.CourseFilter{IDs: ids})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toCourseResponses(courses), nil
}
