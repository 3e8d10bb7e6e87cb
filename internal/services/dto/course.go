package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"edulearn_backend/internal/models"
)

// SupportField - поле support запроса. Принимает строку с разделителем ","
// или массив строк. Отсутствие поля отличается от пустой строки.
type SupportField struct {
	Raw string
}

func (f *SupportField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("support: %w", err)
		}
		f.Raw = strings.Join(list, models.SupportSeparator)
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("support must be a string or an array of strings")
	}
	f.Raw = raw
	return nil
}

// CreateCourseRequest - создание курса. duree 0 или отсутствует - 60 минут.
type CreateCourseRequest struct {
	Title       string        `json:"titre"`
	Description string        `json:"description"`
	Support     *SupportField `json:"support"`
	Duration    *int          `json:"duree" validate:"omitempty,min=0,max=100000"`
	Level       string        `json:"niveau" validate:"max=50"`
}

// UpdateCourseRequest - частичное обновление: nil значит "не менять"
type UpdateCourseRequest struct {
	Title       *string       `json:"titre"`
	Description *string       `json:"description"`
	Support     *SupportField `json:"support"`
	Duration    *int          `json:"duree" validate:"omitempty,min=1,max=100000"`
	Level       *string       `json:"niveau" validate:"omitempty,max=50"`
}

type SearchCoursesQuery struct {
	Search    string `form:"search"`
	TeacherID *uint  `form:"teacherId"`
}

// CourseResponse - курс с нормализованным списком поддержек
type CourseResponse struct {
	ID               uint      `json:"id"`
	Title            string    `json:"titre"`
	Description      string    `json:"description"`
	Support          []string  `json:"support"`
	CreatedAt        time.Time `json:"dateCreation"`
	TeacherID        uint      `json:"enseignantId"`
	TeacherLastName  string    `json:"enseignantNom"`
	TeacherFirstName string    `json:"enseignantPrenom"`
	Duration         int       `json:"duree"`
	Level            string    `json:"niveau"`
}
