package repositories

import (
	"errors"
	"strings"

	"edulearn_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrSupportNotFound = errors.New("support not found")
)

// CourseFilter - условия выборки курсов. Пустой фильтр возвращает все курсы.
type CourseFilter struct {
	TeacherID *uint
	Search    string
	IDs       []uint
}

type CourseRepository interface {
	// Create сохраняет курс вместе с course.Supports
	Create(db *gorm.DB, course *models.Course) error
	FindByID(db *gorm.DB, id uint) (*models.Course, error)
	// FindAll возвращает курсы от новых к старым с поддержками
	FindAll(db *gorm.DB, filter CourseFilter) ([]models.Course, error)
	UpdateFields(db *gorm.DB, id uint, fields map[string]interface{}) error
	// ReplaceSupports удаляет все поддержки курса и вставляет новые
	ReplaceSupports(db *gorm.DB, courseID uint, supports []models.Support) error
	AddSupport(db *gorm.DB, support *models.Support) error
	// FindSupportByStoragePath - метаданные загруженного файла
	FindSupportByStoragePath(db *gorm.DB, path string) (*models.Support, error)
	// Delete удаляет курс, его поддержки и записи на курс
	Delete(db *gorm.DB, id uint) error
}

type CourseRepositoryImpl struct{}

func NewCourseRepository() CourseRepository {
	return &CourseRepositoryImpl{}
}

func preloadSupports(db *gorm.DB) *gorm.DB {
	return db.Order("supports.id ASC")
}

func (r *CourseRepositoryImpl) Create(db *gorm.DB, course *models.Course) error {
	return db.Create(course).Error
}

func (r *CourseRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Course, error) {
	var course models.Course
	err := db.Preload("Supports", preloadSupports).First(&course, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepositoryImpl) FindAll(db *gorm.DB, filter CourseFilter) ([]models.Course, error) {
	query := db.Model(&models.Course{}).Preload("Supports", preloadSupports)

	if filter.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filter.TeacherID)
	}
	if filter.IDs != nil {
		if len(filter.IDs) == 0 {
			return []models.Course{}, nil
		}
		query = query.Where("id IN ?", filter.IDs)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(level) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var courses []models.Course
	if err := query.Order("created_at DESC").Order("id DESC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *CourseRepositoryImpl) UpdateFields(db *gorm.DB, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := db.Model(&models.Course{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepositoryImpl) ReplaceSupports(db *gorm.DB, courseID uint, supports []models.Support) error {
	if err := db.Where("course_id = ?", courseID).Delete(&models.Support{}).Error; err != nil {
		return err
	}
	if len(supports) == 0 {
		return nil
	}
	for i := range supports {
		supports[i].CourseID = courseID
	}
	return db.Create(&supports).Error
}

func (r *CourseRepositoryImpl) AddSupport(db *gorm.DB, support *models.Support) error {
	return db.Create(support).Error
}

func (r *CourseRepositoryImpl) FindSupportByStoragePath(db *gorm.DB, path string) (*models.Support, error) {
	if path == "" {
		return nil, ErrSupportNotFound
	}
	var support models.Support
	if err := db.Where("storage_path = ?", path).First(&support).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupportNotFound
		}
		return nil, err
	}
	return &support, nil
}

func (r *CourseRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	if err := db.Where("course_id = ?", id).Delete(&models.Support{}).Error; err != nil {
		return err
	}
	if err := db.Where("course_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
		return err
	}

	result := db.Delete(&models.Course{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}
