package model

import "time"

type Book struct {
	AccessionNumber string    `json:"accessionNumber" db:"accession_number"`
	Title           string    `json:"title" db:"title"`
	Author          string    `json:"author" db:"author"`
	Category        string    `json:"category" db:"category"`
	Publisher       string    `json:"publisher" db:"publisher"`
	Year            int       `json:"year" db:"year"`
	Pages           int       `json:"pages" db:"pages"`
	Supplier        string    `json:"supplier" db:"supplier"`
	Price           float64   `json:"price" db:"price"`
	AddedBy         *string   `json:"addedBy,omitempty" db:"added_by"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

type CreateBookRequest struct {
	AccessionNumber string  `json:"accessionNumber" validate:"required"`
	Title           string  `json:"title" validate:"required"`
	Author          string  `json:"author" validate:"required"`
	Category        string  `json:"category" validate:"required"`
	Publisher       string  `json:"publisher" validate:"required"`
	Year            int     `json:"year" validate:"required,gt=0"`
	Pages           int     `json:"pages" validate:"required,gt=0"`
	Supplier        string  `json:"supplier" validate:"required"`
	Price           float64 `json:"price" validate:"gte=0"`
	AddedBy         string  `json:"-"`
}

type UpdateBookRequest struct {
	AccessionNumber string  `json:"-"`
	Title           string  `json:"title" validate:"required"`
	Author          string  `json:"author" validate:"required"`
	Category        string  `json:"category" validate:"required"`
	Publisher       string  `json:"publisher" validate:"required"`
	Year            int     `json:"year" validate:"required,gt=0"`
	Pages           int     `json:"pages" validate:"required,gt=0"`
	Supplier        string  `json:"supplier" validate:"required"`
	Price           float64 `json:"price" validate:"gte=0"`
}

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []Book `json:"items"`
}

type BookAvailability struct {
	Book      Book       `json:"book"`
	Available bool       `json:"available"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
}
