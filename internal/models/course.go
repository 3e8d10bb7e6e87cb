package models

import "time"

const (
	DefaultCourseDuration = 60
	DefaultCourseLevel    = "Tous niveaux"
)

// Course хранит имя преподавателя на момент создания.
// При переименовании преподавателя старые курсы не обновляются.
type Course struct {
	BaseModel
	Title            string `gorm:"size:255;not null"`
	Description      string `gorm:"type:text;not null"`
	TeacherID        uint   `gorm:"not null;index"`
	TeacherLastName  string `gorm:"size:100"`
	TeacherFirstName string `gorm:"size:100"`
	Duration         int    `gorm:"not null;default:60"`
	Level            string `gorm:"size:50;not null;default:'Tous niveaux'"`

	// Relations
	Teacher  *User     `gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE"`
	Supports []Support `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

type Support struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	CourseID uint   `gorm:"not null;index"`
	URL      string `gorm:"size:500;not null"`
	FileName string `gorm:"size:255"`
	FileType string `gorm:"size:100"`
	FileSize int64  `gorm:"default:0"`
	// Путь в хранилище для загруженных файлов, пусто для внешних ссылок
	StoragePath string    `gorm:"size:500;index"`
	UploadedAt  time.Time `gorm:"autoCreateTime"`
}

const (
	SupportSeparator        = ","
	SupportFileNameFallback = "fichier"
	SupportFileTypeUnknown  = "application/octet-stream"
)
