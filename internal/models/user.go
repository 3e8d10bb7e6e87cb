package models

type User struct {
	BaseModel
	FirstName    string   `gorm:"size:100;not null"`
	LastName     string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:191;uniqueIndex;not null"`
	Phone        string   `gorm:"size:30;not null"`
	Role         UserRole `gorm:"type:varchar(20);not null"`
	SchoolLevel  string   `gorm:"size:20"`
	Section      string   `gorm:"size:50"`
	PasswordHash string   `gorm:"not null"`
}
