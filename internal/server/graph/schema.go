package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/dmitrijs2005/librarium/internal/server/models"
)

// NewSchema builds the executable schema, binding every field to the
// resolver. The shape mirrors the published contract:
//
//	type Author { name: String!, id: ID!, bookCount: Int!, born: Int }
//	type Book   { title: String!, published: Int, genres: [String!], author: Author!, id: ID! }
//	type User   { username: String!, favoriteGenre: String!, id: ID! }
//	type Token  { value: String! }
func NewSchema(r *Resolver) (graphql.Schema, error) {

	authorType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Author",
		Fields: graphql.Fields{
			"name": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*models.Author).Name, nil
				},
			},
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*models.Author).ID, nil
				},
			},
			"born": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					born := p.Source.(*models.Author).Born
					if born == nil {
						return nil, nil
					}
					return *born, nil
				},
			},
			// derived, recomputed per read
			"bookCount": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.AuthorBookCount(p.Context, p.Source.(*models.Author).ID)
				},
			},
		},
	})

	bookType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Book",
		Fields: graphql.Fields{
			"title": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*ResolvedBook).Title, nil
				},
			},
			"published": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					published := p.Source.(*ResolvedBook).Published
					if published == nil {
						return nil, nil
					}
					return *published, nil
				},
			},
			"genres": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(graphql.String)),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*ResolvedBook).Genres, nil
				},
			},
			"author": &graphql.Field{
				Type: graphql.NewNonNull(authorType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*ResolvedBook).Author, nil
				},
			},
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*ResolvedBook).ID, nil
				},
			},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"username": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*models.User).Username, nil
				},
			},
			"favoriteGenre": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*models.User).FavoriteGenre, nil
				},
			},
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*models.User).ID, nil
				},
			},
		},
	})

	tokenType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Token",
		Fields: graphql.Fields{
			"value": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*Token).Value, nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"bookCount": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.BookCount(p.Context)
				},
			},
			"authorCount": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.AuthorCount(p.Context)
				},
			},
			"allBooks": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(bookType))),
				Args: graphql.FieldConfigArgument{
					// author is accepted for schema compatibility but not
					// used as a filter
					"author": &graphql.ArgumentConfig{Type: graphql.String},
					"genre":  &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					genre, _ := p.Args["genre"].(string)
					return r.AllBooks(p.Context, genre)
				},
			},
			"allAuthors": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(authorType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.AllAuthors(p.Context)
				},
			},
			"distinctGenres": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.DistinctGenres(p.Context)
				},
			},
			"me": &graphql.Field{
				Type: userType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user := r.Me(p.Context)
					if user == nil {
						return nil, nil
					}
					return user, nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"addBook": &graphql.Field{
				Type: bookType,
				Args: graphql.FieldConfigArgument{
					"title":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"published": &graphql.ArgumentConfig{Type: graphql.Int},
					"author":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"genres":    &graphql.ArgumentConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					input := AddBookInput{
						Title:  p.Args["title"].(string),
						Author: p.Args["author"].(string),
					}
					if published, ok := p.Args["published"].(int); ok {
						input.Published = &published
					}
					if raw, ok := p.Args["genres"].([]interface{}); ok {
						genres := make([]string, 0, len(raw))
						for _, g := range raw {
							genres = append(genres, g.(string))
						}
						input.Genres = genres
					}
					return r.AddBook(p.Context, input)
				},
			},
			"editAuthorBirth": &graphql.Field{
				Type: authorType,
				Args: graphql.FieldConfigArgument{
					"name":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"setBornTo": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					author, err := r.EditAuthorBirth(p.Context,
						p.Args["name"].(string), p.Args["setBornTo"].(int))
					if err != nil {
						return nil, err
					}
					if author == nil {
						// soft no-op on unknown name
						return nil, nil
					}
					return author, nil
				},
			},
			"createUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"username":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"favoriteGenre": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.CreateUser(p.Context,
						p.Args["username"].(string), p.Args["favoriteGenre"].(string))
				},
			},
			"login": &graphql.Field{
				Type: tokenType,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Login(p.Context,
						p.Args["username"].(string), p.Args["password"].(string))
				},
			},
		},
	})

	subscriptionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Subscription",
		Fields: graphql.Fields{
			"bookAdded": &graphql.Field{
				Type: graphql.NewNonNull(bookType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source, nil
				},
				Subscribe: func(p graphql.ResolveParams) (interface{}, error) {
					// the executor expects a bidirectional chan interface{},
					// so adapt the broadcaster's receive-only stream
					events := r.SubscribeBookAdded(p.Context)
					out := make(chan interface{})
					go func() {
						defer close(out)
						for event := range events {
							select {
							case out <- event:
							case <-p.Context.Done():
								return
							}
						}
					}()
					return out, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:        queryType,
		Mutation:     mutationType,
		Subscription: subscriptionType,
	})
}
