// Package models defines the client-side view of the catalog entities
// as they arrive over the wire.
package models

// Author is a catalog author. Born is nil until a birth year is set.
// BookCount is computed by the server at read time.
type Author struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Born      *int   `json:"born"`
	BookCount int    `json:"bookCount"`
}

// Book is a catalog book with its author resolved inline.
type Book struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Published *int     `json:"published"`
	Genres    []string `json:"genres"`
	Author    Author   `json:"author"`
}

// User is the authenticated account as returned by the me query.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	FavoriteGenre string `json:"favoriteGenre"`
}
