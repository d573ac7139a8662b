package models

import "time"

const (
	CategoryFiction    = "Fiction"
	CategoryNonFiction = "Non-Fiction"
	CategoryScience    = "Science"
	CategoryHistory    = "History"
	CategoryBiography  = "Biography"
	CategoryTechnology = "Technology"
	CategoryOther      = "Other"
)

var validCategories = map[string]bool{
	CategoryFiction:    true,
	CategoryNonFiction: true,
	CategoryScience:    true,
	CategoryHistory:    true,
	CategoryBiography:  true,
	CategoryTechnology: true,
	CategoryOther:      true,
}

func ValidCategory(category string) bool {
	return validCategories[category]
}

type Book struct {
	ID              string       `json:"id" db:"id"`
	Title           string       `json:"title" db:"title"`
	Author          string       `json:"author" db:"author"`
	ISBN            string       `json:"isbn" db:"isbn"`
	Publisher       string       `json:"publisher,omitempty" db:"publisher"`
	PublicationDate *time.Time   `json:"publicationDate,omitempty" db:"publication_date"`
	Category        string       `json:"category" db:"category"`
	Description     string       `json:"description" db:"description"`
	TotalCopies     int          `json:"totalCopies" db:"total_copies"`
	AvailableCopies int          `json:"availableCopies" db:"available_copies"`
	Language        string       `json:"language" db:"language"`
	Pages           int          `json:"pages,omitempty" db:"pages"`
	CoverImage      string       `json:"coverImage,omitempty" db:"cover_image"`
	AddedBy         string       `json:"addedBy,omitempty" db:"added_by"`
	AddedByUser     *UserSummary `json:"addedByUser,omitempty"`
	CreatedAt       time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time    `json:"updatedAt" db:"updated_at"`
}

// BookSummary is the slimmed-down shape joined into borrow records.
type BookSummary struct {
	ID     string `json:"id" db:"id"`
	Title  string `json:"title" db:"title"`
	Author string `json:"author" db:"author"`
	ISBN   string `json:"isbn" db:"isbn"`
}

type BookRequest struct {
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	ISBN            string     `json:"isbn"`
	Publisher       string     `json:"publisher"`
	PublicationDate *time.Time `json:"publicationDate"`
	Category        string     `json:"category"`
	Description     string     `json:"description"`
	TotalCopies     int        `json:"totalCopies"`
	Language        string     `json:"language"`
	Pages           int        `json:"pages"`
	CoverImage      string     `json:"coverImage"`
}

// BookUpdateRequest uses pointers throughout: nil keeps the stored value,
// a present-but-empty value overwrites it (e.g. clearing the description).
type BookUpdateRequest struct {
	Title           *string    `json:"title"`
	Author          *string    `json:"author"`
	Publisher       *string    `json:"publisher"`
	PublicationDate *time.Time `json:"publicationDate"`
	Category        *string    `json:"category"`
	Description     *string    `json:"description"`
	TotalCopies     *int       `json:"totalCopies"`
	Language        *string    `json:"language"`
	Pages           *int       `json:"pages"`
	CoverImage      *string    `json:"coverImage"`
}
