package models

type User struct {
	ID            string
	Username      string
	FavoriteGenre string
	PasswordHash  string
}
