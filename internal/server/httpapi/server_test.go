package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/librarium/internal/common"
	"github.com/dmitrijs2005/librarium/internal/logging"
	"github.com/dmitrijs2005/librarium/internal/server/config"
	"github.com/dmitrijs2005/librarium/internal/server/graph"
	"github.com/dmitrijs2005/librarium/internal/server/metrics"
	"github.com/dmitrijs2005/librarium/internal/server/pubsub"
	"github.com/dmitrijs2005/librarium/internal/server/repositories/repomanager"
)

type gqlResponse struct {
	Data   map[string]interface{} `json:"data"`
	Errors []struct {
		Message    string                 `json:"message"`
		Extensions map[string]interface{} `json:"extensions"`
	} `json:"errors"`
}

func newTestServer(t *testing.T) (*httptest.Server, *graph.Resolver) {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.AccessTokenValidityDuration = time.Hour

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	repos := repomanager.NewInMemoryRepositoryManager()
	resolver := graph.NewResolver(repos, pubsub.NewBroadcaster(), logger, metrics.Nop{}, cfg)

	schema, err := graph.NewSchema(resolver)
	require.NoError(t, err)

	server := NewServer(cfg, logger, repos, schema, metrics.Nop{}, nil)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	// fixture account, password defaults to "1234"
	_, err = resolver.CreateUser(context.Background(), "victor", "refactoring")
	require.NoError(t, err)

	return ts, resolver
}

func postQuery(t *testing.T, ts *httptest.Server, token, query string) gqlResponse {
	t.Helper()

	body, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/graphql", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerSchema+token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded gqlResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded
}

func login(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp := postQuery(t, ts, "",
		`mutation { login(username: "victor", password: "1234") { value } }`)
	require.Empty(t, resp.Errors)
	return resp.Data["login"].(map[string]interface{})["value"].(string)
}

func TestServer_AnonymousQuery(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postQuery(t, ts, "", `{ bookCount authorCount }`)
	require.Empty(t, resp.Errors)
	assert.Equal(t, float64(0), resp.Data["bookCount"])
	assert.Equal(t, float64(0), resp.Data["authorCount"])
}

func TestServer_LoginAndAddBook(t *testing.T) {
	ts, _ := newTestServer(t)
	token := login(t, ts)

	resp := postQuery(t, ts, token, `mutation {
		addBook(title: "Foo", author: "New Author", genres: ["x"]) {
			title
			author { name born bookCount }
		}
	}`)
	require.Empty(t, resp.Errors)

	book := resp.Data["addBook"].(map[string]interface{})
	author := book["author"].(map[string]interface{})
	assert.Equal(t, "New Author", author["name"])
	assert.Nil(t, author["born"])
	assert.Equal(t, float64(1), author["bookCount"])

	counts := postQuery(t, ts, "", `{ bookCount }`)
	require.Empty(t, counts.Errors)
	assert.Equal(t, float64(1), counts.Data["bookCount"])
}

func TestServer_MutationWithoutToken(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postQuery(t, ts, "", `mutation { addBook(title: "Foo", author: "A") { title } }`)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, graph.CodeAuthenticationError, resp.Errors[0].Extensions["code"])
}

func TestServer_InvalidTokenFailsFast(t *testing.T) {
	ts, _ := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"query": `{ bookCount }`})
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/graphql", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.AuthorizationHeaderName, common.BearerSchema+"garbage")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var decoded gqlResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	require.Len(t, decoded.Errors, 1)
	assert.Equal(t, graph.CodeAuthenticationError, decoded.Errors[0].Extensions["code"])
}

func TestServer_Me(t *testing.T) {
	ts, _ := newTestServer(t)
	token := login(t, ts)

	anon := postQuery(t, ts, "", `{ me { username } }`)
	require.Empty(t, anon.Errors)
	assert.Nil(t, anon.Data["me"])

	resp := postQuery(t, ts, token, `{ me { username } }`)
	require.Empty(t, resp.Errors)
	assert.Equal(t, "victor", resp.Data["me"].(map[string]interface{})["username"])
}

func TestServer_Healthz(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_WebSocketSubscription(t *testing.T) {
	ts, _ := newTestServer(t)
	token := login(t, ts)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/graphql"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":    "connection_init",
		"payload": map[string]string{"Authorization": common.BearerSchema + token},
	}))

	var ack wsMessage
	require.NoError(t, conn.ReadJSON(&ack))
	require.Equal(t, gqlConnectionAck, ack.Type)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"id":   "1",
		"type": "start",
		"payload": map[string]string{
			"query": `subscription { bookAdded { title author { name } } }`,
		},
	}))

	// let the subscriber register before the mutation fires
	time.Sleep(100 * time.Millisecond)

	resp := postQuery(t, ts, token, `mutation { addBook(title: "Live", author: "A") { title } }`)
	require.Empty(t, resp.Errors)

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var data wsMessage
	require.NoError(t, conn.ReadJSON(&data))
	require.Equal(t, gqlData, data.Type)
	assert.Equal(t, "1", data.ID)

	var payload gqlResponse
	require.NoError(t, json.Unmarshal(data.Payload, &payload))
	event := payload.Data["bookAdded"].(map[string]interface{})
	assert.Equal(t, "Live", event["title"])
	assert.Equal(t, "A", event["author"].(map[string]interface{})["name"])

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"id": "1", "type": "stop"}))
}
