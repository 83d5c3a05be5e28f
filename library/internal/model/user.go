package model

import "time"

type Role string

const (
	RoleLibrarian Role = "librarian"
	RoleStudent   Role = "student"
)

type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	Department   string    `json:"department" db:"department"`
	Batch        *string   `json:"batch,omitempty" db:"batch"`
	RollNumber   *string   `json:"rollNumber,omitempty" db:"roll_number"`
	CreatedBy    *string   `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}

type CreateStudentRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Password   string `json:"password" validate:"required,min=6"`
	Department string `json:"department" validate:"required"`
	Batch      string `json:"batch" validate:"required"`
	RollNumber string `json:"rollNumber" validate:"required"`
	CreatedBy  string `json:"-"`
}

type CreateLibrarianRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Password   string `json:"password" validate:"required,min=6"`
	Department string `json:"department" validate:"required"`
	CreatedBy  string `json:"-"`
}

type UpdateStudentRequest struct {
	ID         string `json:"-"`
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Department string `json:"department" validate:"required"`
	Batch      string `json:"batch" validate:"required"`
	Role       string `json:"role,omitempty"`
}

// UpdateProfileRequest edits the caller's own record. Empty fields are left
// unchanged. Students may only change their phone.
type UpdateProfileRequest struct {
	ID         string `json:"-"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
}

type ChangePasswordRequest struct {
	ID              string `json:"-"`
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type ListStudents struct {
	Paging `json:",inline"`
	Items  []User `json:"items"`
}

type StudentSummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Department string  `json:"department"`
	Batch      *string `json:"batch,omitempty"`
	RollNumber *string `json:"rollNumber,omitempty"`
}

func Summary(u User) StudentSummary {
	return StudentSummary{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Department: u.Department,
		Batch:      u.Batch,
		RollNumber: u.RollNumber,
	}
}
