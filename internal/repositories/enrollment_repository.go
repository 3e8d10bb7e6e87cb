package repositories

import (
	"errors"

	"edulearn_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrAlreadyEnrolled    = errors.New("student already enrolled")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

type EnrollmentRepository interface {
	Create(db *gorm.DB, enrollment *models.Enrollment) error
	Delete(db *gorm.DB, courseID, studentID uint) error
	Exists(db *gorm.DB, courseID, studentID uint) (bool, error)
	// CourseIDsByStudent - курсы студента, последние записи первыми
	CourseIDsByStudent(db *gorm.DB, studentID uint) ([]uint, error)
}

type EnrollmentRepositoryImpl struct{}

func NewEnrollmentRepository() EnrollmentRepository {
	return &EnrollmentRepositoryImpl{}
}

func (r *EnrollmentRepositoryImpl) Create(db *gorm.DB, enrollment *models.Enrollment) error {
	exists, err := r.Exists(db, enrollment.CourseID, enrollment.StudentID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyEnrolled
	}

	if err := db.Create(enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyEnrolled
		}
		return err
	}
	return nil
}

func (r *EnrollmentRepositoryImpl) Delete(db *gorm.DB, courseID, studentID uint) error {
	result := db.Where("course_id = ? AND student_id = ?", courseID, studentID).Delete(&models.Enrollment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}

func (r *EnrollmentRepositoryImpl) Exists(db *gorm.DB, courseID, studentID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Enrollment{}).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *EnrollmentRepositoryImpl) CourseIDsByStudent(db *gorm.DB, studentID uint) ([]uint, error) {
	ids := []uint{}
	err := db.Model(&models.Enrollment{}).
		Where("student_id = ?", studentID).
		Order("created_at DESC").Order("id DESC").
		Pluck("course_id", &ids).Error
	return ids, err
}
