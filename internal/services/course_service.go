package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"edulearn_backend/internal/auth"
	"edulearn_backend/internal/logger"
	"edulearn_backend/internal/models"
	"edulearn_backend/internal/repositories"
	"edulearn_backend/internal/services/dto"
	"edulearn_backend/internal/storage"
	"edulearn_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseService interface {
	CreateCourse(db *gorm.DB, caller *auth.Claims, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	GetCourse(db *gorm.DB, id uint) (*dto.CourseResponse, error)
	ListCourses(db *gorm.DB) ([]dto.CourseResponse, error)
	ListTeacherCourses(db *gorm.DB, teacherID uint) ([]dto.CourseResponse, error)
	SearchCourses(db *gorm.DB, query dto.SearchCoursesQuery) ([]dto.CourseResponse, error)
	UpdateCourse(ctx context.Context, db *gorm.DB, caller *auth.Claims, id uint, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	DeleteCourse(ctx context.Context, db *gorm.DB, caller *auth.Claims, id uint) error
	AddSupportFile(ctx context.Context, db *gorm.DB, caller *auth.Claims, courseID uint, file *multipart.FileHeader) (*dto.CourseResponse, error)
}

type courseService struct {
	courseRepo    repositories.CourseRepository
	userRepo      repositories.UserRepository
	storage       storage.Storage
	maxUploadSize int64
}

func NewCourseService(
	courseRepo repositories.CourseRepository,
	userRepo repositories.UserRepository,
	store storage.Storage,
	maxUploadSize int64,
) CourseService {
	return &courseService{
		courseRepo:    courseRepo,
		userRepo:      userRepo,
		storage:       store,
		maxUploadSize: maxUploadSize,
	}
}

func (s *courseService) CreateCourse(db *gorm.DB, caller *auth.Claims, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, apperrors.ErrCourseFields
	}

	teacher, err := s.userRepo.FindByID(db, caller.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrTeacherNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	// 0 считается "не задано"
	duration := models.DefaultCourseDuration
	if req.Duration != nil && *req.Duration > 0 {
		duration = *req.Duration
	}

	course := &models.Course{
		Title:            title,
		Description:      description,
		TeacherID:        teacher.ID,
		TeacherLastName:  teacher.LastName,
		TeacherFirstName: teacher.FirstName,
		Duration:         duration,
		Level:            levelOrDefault(req.Level),
	}
	if req.Support != nil {
		course.Supports = buildSupports(req.Support.Raw)
	}

	// курс и его поддержки пишутся одной транзакцией
	err = db.Transaction(func(tx *gorm.DB) error {
		return s.courseRepo.Create(tx, course)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.readBack(db, course), nil
}

func (s *courseService) GetCourse(db *gorm.DB, id uint) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.FindByID(db, id)
	if err != nil {
		return nil, mapCourseError(err)
	}
	resp := toCourseResponse(course)
	return &resp, nil
}

func (s *courseService) ListCourses(db *gorm.DB) ([]dto.CourseResponse, error) {
	return s.find(db, repositories.CourseFilter{})
}

func (s *courseService) ListTeacherCourses(db *gorm.DB, teacherID uint) ([]dto.CourseResponse, error) {
	return s.find(db, repositories.CourseFilter{TeacherID: &teacherID})
}

// SearchCourses ищет подстроку без учета регистра в названии, описании и уровне
func (s *courseService) SearchCourses(db *gorm.DB, query dto.SearchCoursesQuery) ([]dto.CourseResponse, error) {
	if strings.TrimSpace(query.Search) == "" {
		return nil, apperrors.ErrSearchTerm
	}
	return s.find(db, repositories.CourseFilter{
		Search:    query.Search,
		TeacherID: query.TeacherID,
	})
}

func (s *courseService) find(db *gorm.DB, filter repositories.CourseFilter) ([]dto.CourseResponse, error) {
	courses, err := s.courseRepo.FindAll(db, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toCourseResponses(courses), nil
}

func (s *courseService) UpdateCourse(ctx context.Context, db *gorm.DB, caller *auth.Claims, id uint, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	var (
		expected models.Course
		replaced []models.Support
	)

	err := db.Transaction(func(tx *gorm.DB) error {
		course, err := s.courseRepo.FindByID(tx, id)
		if err != nil {
			return mapCourseError(err)
		}
		if !auth.CanMutateCourse(caller, course.TeacherID) {
			return apperrors.ErrNotCourseOwner
		}

		fields, err := applyCourseUpdate(course, req)
		if err != nil {
			return err
		}
		if err := s.courseRepo.UpdateFields(tx, id, fields); err != nil {
			return mapCourseError(err)
		}

		if req.Support != nil {
			replaced = course.Supports
			course.Supports = buildSupports(req.Support.Raw)
			if err := s.courseRepo.ReplaceSupports(tx, id, course.Supports); err != nil {
				return err
			}
		}

		expected = *course
		return nil
	})
	if err != nil {
		return nil, asAppError(err)
	}

	if req.Support != nil {
		s.removeStoredFiles(ctx, replaced, supportURLs(expected.Supports))
	}
	return s.readBack(db, &expected), nil
}

// applyCourseUpdate применяет к course только переданные поля
// и возвращает колонки для UPDATE.
func applyCourseUpdate(course *models.Course, req *dto.UpdateCourseRequest) (map[string]interface{}, error) {
	fields := map[string]interface{}{}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.ErrCourseFields
		}
		course.Title = title
		fields["title"] = title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, apperrors.ErrCourseFields
		}
		course.Description = description
		fields["description"] = description
	}
	if req.Duration != nil {
		course.Duration = *req.Duration
		fields["duration"] = *req.Duration
	}
	if req.Level != nil {
		course.Level = levelOrDefault(*req.Level)
		fields["level"] = course.Level
	}
	return fields, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, db *gorm.DB, caller *auth.Claims, id uint) error {
	var supports []models.Support

	err := db.Transaction(func(tx *gorm.DB) error {
		course, err := s.courseRepo.FindByID(tx, id)
		if err != nil {
			return mapCourseError(err)
		}
		if !auth.CanMutateCourse(caller, course.TeacherID) {
			return apperrors.ErrCannotDelete
		}
		supports = course.Supports
		return mapCourseError(s.courseRepo.Delete(tx, id))
	})
	if err != nil {
		return asAppError(err)
	}

	s.removeStoredFiles(ctx, supports, nil)
	return nil
}

// AddSupportFile сохраняет загруженный файл и добавляет его в поддержки курса
func (s *courseService) AddSupportFile(ctx context.Context, db *gorm.DB, caller *auth.Claims, courseID uint, file *multipart.FileHeader) (*dto.CourseResponse, error) {
	if file == nil {
		return nil, apperrors.ErrFileRequired
	}
	if s.maxUploadSize > 0 && file.Size > s.maxUploadSize {
		return nil, apperrors.ErrFileTooLarge
	}

	course, err := s.courseRepo.FindByID(db, courseID)
	if err != nil {
		return nil, mapCourseError(err)
	}
	if !auth.CanMutateCourse(caller, course.TeacherID) {
		return nil, apperrors.ErrNotCourseOwner
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("detect mime type: %w", err))
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, apperrors.InternalError(err)
	}

	name := filepath.Base(filepath.Clean("/" + file.Filename))
	if name == "/" || name == "." {
		name = models.SupportFileNameFallback
	}
	path := fmt.Sprintf("courses/%d/%s%s", course.ID, uuid.NewString(), strings.ToLower(filepath.Ext(name)))

	size, err := s.storage.Save(ctx, path, src)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	support := models.Support{
		CourseID:    course.ID,
		URL:         s.storage.GetURL(path),
		FileName:    name,
		FileType:    mtype.String(),
		FileSize:    size,
		StoragePath: path,
	}
	if err := s.courseRepo.AddSupport(db, &support); err != nil {
		if delErr := s.storage.Delete(ctx, path); delErr != nil {
			logger.CtxWarn(ctx, "failed to remove orphaned upload", "path", path, "error", delErr)
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "support file uploaded", "course_id", course.ID, "file", name, "size", size)

	course.Supports = append(course.Supports, support)
	return s.readBack(db, course), nil
}

// readBack перечитывает курс после записи. Запись уже прошла, поэтому
// ошибка чтения не ломает запрос: возвращаем то, что записали.
func (s *courseService) readBack(db *gorm.DB, written *models.Course) *dto.CourseResponse {
	course, err := s.courseRepo.FindByID(db, written.ID)
	if err != nil {
		logger.Warn("course read-back failed, echoing input", "course_id", written.ID, "error", err)
		resp := toCourseResponse(written)
		return &resp
	}
	resp := toCourseResponse(course)
	return &resp
}

// removeStoredFiles удаляет из хранилища файлы поддержек, которых больше нет в keep
func (s *courseService) removeStoredFiles(ctx context.Context, supports []models.Support, keep []string) {
	kept := make(map[string]bool, len(keep))
	for _, url := range keep {
		kept[url] = true
	}

	for _, support := range supports {
		if support.StoragePath == "" || kept[support.URL] {
			continue
		}
		if err := s.storage.Delete(ctx, support.StoragePath); err != nil {
			logger.CtxWarn(ctx, "failed to remove support file", "path", support.StoragePath, "error", err)
		}
	}
}

func levelOrDefault(level string) string {
	if level = strings.TrimSpace(level); level == "" {
		return models.DefaultCourseLevel
	}
	return level
}

func mapCourseError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrCourseNotFound):
		return apperrors.ErrCourseNotFound
	default:
		return err
	}
}

// asAppError оставляет доменные ошибки как есть, остальное становится 500
func asAppError(err error) error {
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		return appErr
	}
	return apperrors.InternalError(err)
}
