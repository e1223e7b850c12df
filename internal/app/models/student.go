package models

import "time"

// Student is a registering student, keyed by the user-supplied studentId
type Student struct {
	ID         string    `json:"id" db:"id"`
	StudentID  string    `json:"studentId" db:"student_id"`
	FullName   string    `json:"fullName" db:"full_name"`
	Department string    `json:"department" db:"department"`
	ClassID    *string   `json:"classId,omitempty" db:"class_id"`
	Semester   string    `json:"semester" db:"semester"`
	Shift      Shift     `json:"shift" db:"shift"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
	Class      *Class    `json:"class,omitempty"` // Relation, no db tag
}
