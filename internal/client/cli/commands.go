package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/librarium/internal/client/api"
	"github.com/dmitrijs2005/librarium/internal/client/models"
)

func printBooks(books []models.Book) {
	if len(books) == 0 {
		fmt.Println("No books.")
		return
	}
	for _, b := range books {
		published := ""
		if b.Published != nil {
			published = fmt.Sprintf(" (%d)", *b.Published)
		}
		genres := ""
		if len(b.Genres) > 0 {
			genres = " [" + strings.Join(b.Genres, ", ") + "]"
		}
		fmt.Printf("  %s%s — %s%s\n", b.Title, published, b.Author.Name, genres)
	}
}

func (a *App) Books(ctx context.Context, genre string) error {
	books, err := a.service.LoadBooks(ctx, genre)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	if genre != "" {
		fmt.Printf("Books in genre %q:\n", genre)
	} else {
		fmt.Println("All books:")
	}
	printBooks(books)
	return nil
}

func (a *App) Authors(ctx context.Context) error {
	authors, err := a.service.LoadAuthors(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	if len(authors) == 0 {
		fmt.Println("No authors.")
		return nil
	}
	for _, author := range authors {
		born := "-"
		if author.Born != nil {
			born = fmt.Sprintf("%d", *author.Born)
		}
		fmt.Printf("  %s, born: %s, books: %d\n", author.Name, born, author.BookCount)
	}
	return nil
}

func (a *App) Genres(ctx context.Context) error {
	genres, err := a.service.LoadGenres(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	if len(genres) == 0 {
		fmt.Println("No genres.")
		return nil
	}
	fmt.Println("Genres:", strings.Join(genres, ", "))
	return nil
}

func (a *App) Recommend(ctx context.Context) error {
	genre, books, err := a.service.Recommended(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Printf("Recommended for you (favorite genre %q):\n", genre)
	printBooks(books)
	return nil
}

func (a *App) Add(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}
	author, err := GetSimpleText(a.reader, "Author", os.Stdout)
	if err != nil {
		return err
	}
	published, err := GetYear(a.reader, "Published (year, empty to skip)", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	genres, err := GetGenres(a.reader, os.Stdout)
	if err != nil {
		return err
	}

	book, err := a.service.AddBook(ctx, api.AddBookInput{
		Title:     title,
		Author:    author,
		Published: published,
		Genres:    genres,
	})
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	fmt.Printf("Added %q by %s\n", book.Title, book.Author.Name)
	return nil
}

func (a *App) EditBorn(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Author name", os.Stdout)
	if err != nil {
		return err
	}
	born, err := GetYear(a.reader, "Birth year", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	if born == nil {
		fmt.Println("A birth year is required.")
		return nil
	}

	author, err := a.service.EditAuthorBirth(ctx, name, *born)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	if author == nil {
		fmt.Printf("Author %q is not in the catalog.\n", name)
		return nil
	}

	fmt.Printf("%s, born %d\n", author.Name, *author.Born)
	return nil
}

func (a *App) Me(ctx context.Context) error {
	user, err := a.service.Me(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	if user == nil {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("Signed in as %s, favorite genre: %s\n", user.Username, user.FavoriteGenre)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.service.Login(ctx, username, string(password)); err != nil {
		fmt.Println("Login failed:", err)
		return err
	}

	fmt.Println("Welcome,", username)
	return nil
}

func (a *App) Register(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username", os.Stdout)
	if err != nil {
		return err
	}
	favoriteGenre, err := GetSimpleText(a.reader, "Favorite genre", os.Stdout)
	if err != nil {
		return err
	}

	user, err := a.service.Register(ctx, username, favoriteGenre)
	if err != nil {
		fmt.Println("Registration failed:", err)
		return err
	}

	fmt.Printf("Account %s created. You can log in now.\n", user.Username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.service.Logout(ctx); err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

// Watch starts a background subscription that folds live bookAdded
// events into the cached views and announces each one.
func (a *App) Watch(ctx context.Context) error {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()

	if a.watchCancel != nil {
		fmt.Println("Already watching.")
		return nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	a.watchCancel = cancel

	watcher := a.service.Cache().Watch()
	go a.service.Watch(watchCtx)
	go func() {
		for {
			select {
			case <-watchCtx.Done():
				return
			case <-watcher:
				fmt.Println("(catalog updated)")
			}
		}
	}()

	fmt.Println("Watching for new books. Type 'unwatch' to stop.")
	return nil
}

func (a *App) Unwatch(ctx context.Context) error {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()

	if a.watchCancel == nil {
		return nil
	}
	a.watchCancel()
	a.watchCancel = nil
	fmt.Println("Stopped watching.")
	return nil
}
