package models

import "time"

// Department represents an academic department
type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Class represents a class cohort belonging to a department
type Class struct {
	ID           string      `json:"id"`
	ClassTitle   string      `json:"classTitle"`
	DepartmentID string      `json:"departmentId"`
	CreatedAt    time.Time   `json:"createdAt"`
	Department   *Department `json:"department,omitempty"` // Relation, no db column
}
