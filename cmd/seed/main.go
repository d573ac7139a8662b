// Command seed loads a small sample data set for local development:
// three roles worth of users, a handful of books and one active loan.
package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"library-api/models"
	"library-api/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func mustHash(password string) string {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash: %v", err)
	}
	return string(hashed)
}

func date(year, month, day int) *time.Time {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &t
}

func main() {
	godotenv.Load()

	dsn := envOr("DB_USER", "root") + ":" + envOr("DB_PASS", "") +
		"@tcp(" + envOr("DB_HOST", "localhost") + ":" + envOr("DB_PORT", "3306") + ")/" +
		envOr("DB_NAME", "library") + "?parseTime=true"

	st, err := store.NewMySQLStore(dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer st.Close()

	if err := st.InitSchema(); err != nil {
		log.Fatalf("schema: %v", err)
	}

	users := []*models.User{
		{FirstName: "John", LastName: "Doe", Email: "user@example.com", Password: mustHash("password123"), Phone: "555-0101", Role: models.RoleUser},
		{FirstName: "Jane", LastName: "Smith", Email: "librarian@example.com", Password: mustHash("password123"), Phone: "555-0102", Role: models.RoleLibrarian},
		{FirstName: "Admin", LastName: "User", Email: "admin@example.com", Password: mustHash("password123"), Phone: "555-0103", Role: models.RoleAdmin},
		{FirstName: "Sarah", LastName: "Johnson", Email: "sarah@example.com", Password: mustHash("password123"), Phone: "555-0104", Role: models.RoleUser},
	}
	for _, u := range users {
		if err := st.CreateUser(u); err != nil {
			log.Fatalf("seed user %s: %v", u.Email, err)
		}
	}
	log.Printf("Created %d users", len(users))

	librarian := users[1]
	books := []*models.Book{
		{
			Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", ISBN: "978-0743273565",
			Publisher: "Scribner", PublicationDate: date(1925, 4, 10), Category: models.CategoryFiction,
			Description: "A classic American novel set in the Jazz Age",
			TotalCopies: 5, Language: "English", Pages: 180, AddedBy: librarian.ID,
		},
		{
			Title: "To Kill a Mockingbird", Author: "Harper Lee", ISBN: "978-0061120084",
			Publisher: "J. B. Lippincott", PublicationDate: date(1960, 7, 11), Category: models.CategoryFiction,
			Description: "A gripping tale of racial injustice and childhood innocence",
			TotalCopies: 4, Language: "English", Pages: 281, AddedBy: librarian.ID,
		},
		{
			Title: "A Brief History of Time", Author: "Stephen Hawking", ISBN: "978-0553380163",
			Publisher: "Bantam", PublicationDate: date(1988, 4, 1), Category: models.CategoryScience,
			Description: "From the Big Bang to black holes",
			TotalCopies: 3, Language: "English", Pages: 212, AddedBy: librarian.ID,
		},
		{
			Title: "The Pragmatic Programmer", Author: "Andrew Hunt", ISBN: "978-0201616224",
			Publisher: "Addison-Wesley", PublicationDate: date(1999, 10, 20), Category: models.CategoryTechnology,
			Description: "From journeyman to master",
			TotalCopies: 2, Language: "English", Pages: 352, AddedBy: librarian.ID,
		},
	}
	for _, b := range books {
		if err := st.CreateBook(b); err != nil {
			log.Fatalf("seed book %s: %v", b.Title, err)
		}
	}
	log.Printf("Created %d books", len(books))

	due := time.Now().AddDate(0, 0, 14)
	if _, err := st.BorrowBook(users[0].ID, books[0].ID, due); err != nil {
		log.Fatalf("seed loan: %v", err)
	}
	log.Println("Created 1 active loan")
	log.Println("Seeding complete")
}
