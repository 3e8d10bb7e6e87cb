package models

type Enrollment struct {
	BaseModel
	CourseID  uint `gorm:"not null;uniqueIndex:idx_enrollment_course_student"`
	StudentID uint `gorm:"not null;uniqueIndex:idx_enrollment_course_student;index"`

	Course  *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	Student *User   `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}
