package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/librarium/internal/client/models"
	"github.com/dmitrijs2005/librarium/internal/common"
)

// GraphQLClient is the HTTP implementation of Client.
type GraphQLClient struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

func NewGraphQLClient(baseURL string) *GraphQLClient {
	return &GraphQLClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *GraphQLClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *GraphQLClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *GraphQLClient) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type gqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type gqlError struct {
	Message    string                 `json:"message"`
	Extensions map[string]interface{} `json:"extensions"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// mapError translates a GraphQL error into the client error taxonomy
// so callers can branch on sentinel errors instead of error codes.
func mapError(e gqlError) error {
	code, _ := e.Extensions["code"].(string)
	switch code {
	case "AUTHENTICATION_ERROR":
		return fmt.Errorf("%s: %w", e.Message, common.ErrorUnauthorized)
	case "BAD_USER_INPUT":
		return fmt.Errorf("%s: %w", e.Message, common.ErrorValidation)
	default:
		return fmt.Errorf("server error: %s", e.Message)
	}
}

func (c *GraphQLClient) execute(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.currentToken(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerSchema+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var decoded gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}

	if len(decoded.Errors) > 0 {
		return mapError(decoded.Errors[0])
	}

	if out != nil {
		if err := json.Unmarshal(decoded.Data, out); err != nil {
			return fmt.Errorf("malformed response data: %w", err)
		}
	}
	return nil
}

func (c *GraphQLClient) Login(ctx context.Context, username, password string) (string, error) {
	var result struct {
		Login struct {
			Value string `json:"value"`
		} `json:"login"`
	}
	err := c.execute(ctx, `mutation Login($username: String!, $password: String!) {
		login(username: $username, password: $password) { value }
	}`, map[string]interface{}{"username": username, "password": password}, &result)
	if err != nil {
		return "", err
	}
	return result.Login.Value, nil
}

func (c *GraphQLClient) Register(ctx context.Context, username, favoriteGenre string) (*models.User, error) {
	var result struct {
		CreateUser *models.User `json:"createUser"`
	}
	err := c.execute(ctx, `mutation Register($username: String!, $favoriteGenre: String!) {
		createUser(username: $username, favoriteGenre: $favoriteGenre) { id username favoriteGenre }
	}`, map[string]interface{}{"username": username, "favoriteGenre": favoriteGenre}, &result)
	if err != nil {
		return nil, err
	}
	return result.CreateUser, nil
}

func (c *GraphQLClient) Me(ctx context.Context) (*models.User, error) {
	var result struct {
		Me *models.User `json:"me"`
	}
	err := c.execute(ctx, `{ me { id username favoriteGenre } }`, nil, &result)
	if err != nil {
		return nil, err
	}
	return result.Me, nil
}

func (c *GraphQLClient) BookCount(ctx context.Context) (int, error) {
	var result struct {
		BookCount int `json:"bookCount"`
	}
	if err := c.execute(ctx, `{ bookCount }`, nil, &result); err != nil {
		return 0, err
	}
	return result.BookCount, nil
}

func (c *GraphQLClient) AuthorCount(ctx context.Context) (int, error) {
	var result struct {
		AuthorCount int `json:"authorCount"`
	}
	if err := c.execute(ctx, `{ authorCount }`, nil, &result); err != nil {
		return 0, err
	}
	return result.AuthorCount, nil
}

const bookFields = `id title published genres author { id name born bookCount }`

func (c *GraphQLClient) AllBooks(ctx context.Context, genre string) ([]models.Book, error) {
	variables := map[string]interface{}{}
	if genre != "" {
		variables["genre"] = genre
	}
	var result struct {
		AllBooks []models.Book `json:"allBooks"`
	}
	err := c.execute(ctx, `query AllBooks($genre: String) {
		allBooks(genre: $genre) { `+bookFields+` }
	}`, variables, &result)
	if err != nil {
		return nil, err
	}
	return result.AllBooks, nil
}

func (c *GraphQLClient) AllAuthors(ctx context.Context) ([]models.Author, error) {
	var result struct {
		AllAuthors []models.Author `json:"allAuthors"`
	}
	err := c.execute(ctx, `{ allAuthors { id name born bookCount } }`, nil, &result)
	if err != nil {
		return nil, err
	}
	return result.AllAuthors, nil
}

func (c *GraphQLClient) DistinctGenres(ctx context.Context) ([]string, error) {
	var result struct {
		DistinctGenres []string `json:"distinctGenres"`
	}
	if err := c.execute(ctx, `{ distinctGenres }`, nil, &result); err != nil {
		return nil, err
	}
	return result.DistinctGenres, nil
}

func (c *GraphQLClient) AddBook(ctx context.Context, input AddBookInput) (*models.Book, error) {
	variables := map[string]interface{}{
		"title":  input.Title,
		"author": input.Author,
		"genres": input.Genres,
	}
	if input.Published != nil {
		variables["published"] = *input.Published
	}
	var result struct {
		AddBook *models.Book `json:"addBook"`
	}
	err := c.execute(ctx, `mutation AddBook($title: String!, $published: Int, $author: String!, $genres: [String!]) {
		addBook(title: $title, published: $published, author: $author, genres: $genres) { `+bookFields+` }
	}`, variables, &result)
	if err != nil {
		return nil, err
	}
	return result.AddBook, nil
}

func (c *GraphQLClient) EditAuthorBirth(ctx context.Context, name string, setBornTo int) (*models.Author, error) {
	var result struct {
		EditAuthorBirth *models.Author `json:"editAuthorBirth"`
	}
	err := c.execute(ctx, `mutation EditAuthorBirth($name: String!, $setBornTo: Int!) {
		editAuthorBirth(name: $name, setBornTo: $setBornTo) { id name born bookCount }
	}`, map[string]interface{}{"name": name, "setBornTo": setBornTo}, &result)
	if err != nil {
		return nil, err
	}
	return result.EditAuthorBirth, nil
}
