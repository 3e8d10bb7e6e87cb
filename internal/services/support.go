package services

import (
	"strings"

	"edulearn_backend/internal/models"
	"edulearn_backend/internal/services/dto"
)

// SplitSupports разбивает строку по ",", обрезает пробелы и отбрасывает
// пустые фрагменты. Порядок и дубликаты сохраняются.
func SplitSupports(raw string) []string {
	urls := []string{}
	for _, part := range strings.Split(raw, models.SupportSeparator) {
		if url := strings.TrimSpace(part); url != "" {
			urls = append(urls, url)
		}
	}
	return urls
}

// SupportFileName - последний сегмент пути URL или "fichier"
func SupportFileName(url string) string {
	name := url[strings.LastIndex(url, "/")+1:]
	if name == "" {
		return models.SupportFileNameFallback
	}
	return name
}

// buildSupports создает строки поддержек для ссылок без загруженного файла
func buildSupports(raw string) []models.Support {
	urls := SplitSupports(raw)
	supports := make([]models.Support, 0, len(urls))
	for _, url := range urls {
		supports = append(supports, models.Support{
			URL:      url,
			FileName: SupportFileName(url),
			FileType: models.SupportFileTypeUnknown,
			FileSize: 0,
		})
	}
	return supports
}

func supportURLs(supports []models.Support) []string {
	urls := make([]string, 0, len(supports))
	for _, s := range supports {
		urls = append(urls, s.URL)
	}
	return urls
}

func toCourseResponse(c *models.Course) dto.CourseResponse {
	return dto.CourseResponse{
		ID:               c.ID,
		Title:            c.Title,
		Description:      c.Description,
		Support:          supportURLs(c.Supports),
		CreatedAt:        c.CreatedAt,
		TeacherID:        c.TeacherID,
		TeacherLastName:  c.TeacherLastName,
		TeacherFirstName: c.TeacherFirstName,
		Duration:         c.Duration,
		Level:            c.Level,
	}
}

func toCourseResponses(courses []models.Course) []dto.CourseResponse {
	out := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, toCourseResponse(&courses[i]))
	}
	return out
}
