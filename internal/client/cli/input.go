package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetYear prompts for a four-digit year. An empty line means "not
// provided" and returns (nil, nil).
func GetYear(reader *bufio.Reader, prompt string, w io.Writer) (*int, error) {
	text, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(text)
	if err != nil {
		return nil, fmt.Errorf("not a year: %q", text)
	}
	return &year, nil
}

// GetGenres prompts for a comma-separated genre list. Blank entries
// are dropped.
func GetGenres(reader *bufio.Reader, w io.Writer) ([]string, error) {
	text, err := GetSimpleText(reader, "Genres (comma-separated, empty for none)", w)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	var genres []string
	for _, genre := range strings.Split(text, ",") {
		genre = strings.TrimSpace(genre)
		if genre != "" {
			genres = append(genres, genre)
		}
	}
	return genres, nil
}

// GetPassword prints a password prompt to w and reads a password
// from the user's terminal without echo. A newline is printed after
// the read to keep the UI tidy.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}
