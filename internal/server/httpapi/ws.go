package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/graphql-go/graphql"

	"github.com/dmitrijs2005/librarium/internal/server/auth"
)

// graphql-ws protocol message types (the subset the clients use)
const (
	gqlConnectionInit      = "connection_init"
	gqlConnectionAck       = "connection_ack"
	gqlConnectionError     = "connection_error"
	gqlConnectionTerminate = "connection_terminate"
	gqlStart               = "start"
	gqlData                = "data"
	gqlStop                = "stop"
	gqlComplete            = "complete"
)

type wsMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type wsStartPayload struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

var upgrader = websocket.Upgrader{
	Subprotocols: []string{"graphql-ws"},
	CheckOrigin:  func(*http.Request) bool { return true },
}

func isWebSocketUpgrade(r *http.Request) bool {
	return websocket.IsWebSocketUpgrade(r)
}

// wsSession serializes writes to a single websocket connection and
// tracks the cancel funcs of running operations keyed by client id.
type wsSession struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu  sync.Mutex
	ops map[string]context.CancelFunc
}

func (c *wsSession) send(msg wsMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(msg)
}

func (c *wsSession) addOp(id string, cancel context.CancelFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.ops[id]; ok {
		prev()
	}
	c.ops[id] = cancel
}

func (c *wsSession) stopOp(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cancel, ok := c.ops[id]; ok {
		cancel()
		delete(c.ops, id)
	}
}

func (c *wsSession) stopAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, cancel := range c.ops {
		cancel()
		delete(c.ops, id)
	}
}

// serveWS speaks the graphql-ws protocol: connection_init/ack handshake,
// then start/data/stop/complete per operation. The connection identity
// comes from the Authorization header when present, or from the
// connection_init payload.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	session := &wsSession{conn: conn, ops: make(map[string]context.CancelFunc)}
	defer session.stopAll()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case gqlConnectionInit:
			ctx = s.wsAuthContext(ctx, msg.Payload)
			if err := session.send(wsMessage{Type: gqlConnectionAck}); err != nil {
				return
			}

		case gqlStart:
			var payload wsStartPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				raw, _ := json.Marshal(map[string]string{"message": "malformed start payload"})
				session.send(wsMessage{ID: msg.ID, Type: gqlConnectionError, Payload: raw})
				continue
			}
			s.startOperation(ctx, session, msg.ID, payload)

		case gqlStop:
			session.stopOp(msg.ID)

		case gqlConnectionTerminate:
			return
		}
	}
}

// wsAuthContext applies an Authorization value carried in the
// connection_init payload, the way browser clients pass tokens since
// websockets cannot set request headers.
func (s *Server) wsAuthContext(ctx context.Context, payload json.RawMessage) context.Context {
	if len(payload) == 0 {
		return ctx
	}

	var init struct {
		Authorization string `json:"Authorization"`
	}
	if err := json.Unmarshal(payload, &init); err != nil || init.Authorization == "" {
		return ctx
	}

	user, err := s.userFromAuthHeader(ctx, init.Authorization)
	if err != nil {
		s.metrics.RecordAuthFailure()
		s.logger.Warn(ctx, "rejected websocket token", "error", err)
		return ctx
	}
	return auth.WithCurrentUser(ctx, user)
}

func (s *Server) startOperation(ctx context.Context, session *wsSession, id string, payload wsStartPayload) {
	opCtx, cancel := context.WithCancel(ctx)
	session.addOp(id, cancel)

	results := graphql.Subscribe(graphql.Params{
		Schema:         s.schema,
		RequestString:  payload.Query,
		VariableValues: payload.Variables,
		OperationName:  payload.OperationName,
		Context:        opCtx,
	})

	go func() {
		defer session.stopOp(id)
		for result := range results {
			raw, err := json.Marshal(result)
			if err != nil {
				continue
			}
			if err := session.send(wsMessage{ID: id, Type: gqlData, Payload: raw}); err != nil {
				return
			}
		}
		session.send(wsMessage{ID: id, Type: gqlComplete})
	}()
}
