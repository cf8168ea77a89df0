package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/dmitrijs2005/librarium/internal/client/models"
	"github.com/dmitrijs2005/librarium/internal/common"
)

type wsMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// wsURL rewrites the configured http(s) base URL into its ws(s)
// counterpart for the /graphql endpoint.
func wsURL(baseURL string) string {
	url := baseURL
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}
	return url + "/graphql"
}

// SubscribeBookAdded dials the websocket endpoint, performs the
// graphql-ws handshake and starts a bookAdded subscription. Events are
// delivered until ctx is cancelled or the connection drops, after
// which the returned channel is closed.
func (c *GraphQLClient) SubscribeBookAdded(ctx context.Context) (<-chan models.Book, error) {
	dialer := websocket.Dialer{Subprotocols: []string{"graphql-ws"}}
	conn, _, err := dialer.DialContext(ctx, wsURL(c.baseURL), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	initPayload := map[string]string{}
	if token := c.currentToken(); token != "" {
		initPayload["Authorization"] = common.BearerSchema + token
	}
	raw, err := json.Marshal(initPayload)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := conn.WriteJSON(wsMessage{Type: "connection_init", Payload: raw}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var ack wsMessage
	if err := conn.ReadJSON(&ack); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if ack.Type != "connection_ack" {
		conn.Close()
		return nil, fmt.Errorf("unexpected handshake reply %q", ack.Type)
	}

	start, err := json.Marshal(map[string]string{
		"query": `subscription { bookAdded { ` + bookFields + ` } }`,
	})
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := conn.WriteJSON(wsMessage{ID: "1", Type: "start", Payload: start}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	events := make(chan models.Book)

	// the reader owns the connection; cancelling ctx unblocks ReadJSON
	// by closing it
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go func() {
		defer close(events)
		for {
			var msg wsMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type != "data" {
				continue
			}

			var payload struct {
				Data struct {
					BookAdded models.Book `json:"bookAdded"`
				} `json:"data"`
			}
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				continue
			}

			select {
			case events <- payload.Data.BookAdded:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}
