package models

// Book is immutable after creation. AuthorID references a shared Author;
// the author's lifetime is independent of any book.
type Book struct {
	ID        string
	Title     string
	Published *int
	Genres    []string
	AuthorID  string
}
