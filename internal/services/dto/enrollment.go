package dto

import "time"

type EnrollmentResponse struct {
	Message    string    `json:"message"`
	CourseID   uint      `json:"coursId"`
	StudentID  uint      `json:"etudiantId"`
	EnrolledAt time.Time `json:"dateInscription"`
}
