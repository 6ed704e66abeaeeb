package adapterwebsocket

import (
	"context"
	"errors"

	"flinch/server/domain"
	"github.com/coder/websocket"
)

// ErrUnexpectedMessageType はバイナリ以外のフレームを受信した場合に返されるエラーです。
var ErrUnexpectedMessageType = errors.New("unexpected websocket message type")

type wsTransport struct {
	conn *websocket.Conn
}

// NewTransportFrom はwebsocket接続をdomain.Transportとして包む。
// サーバーのAcceptとボットのDialの両方で使う。
func NewTransportFrom(conn *websocket.Conn) domain.Transport {
	return &wsTransport{conn: conn}
}

func (t *wsTransport) Read(ctx context.Context) ([]byte, error) {
	typ, data, err := t.conn.Read(ctx)
	if err != nil {
		return nil, err
	}
	if typ != websocket.MessageBinary {
		return nil, ErrUnexpectedMessageType
	}
	return data, nil
}

func (t *wsTransport) Write(ctx context.Context, data []byte) error {
	return t.conn.Write(ctx, websocket.MessageBinary, data)
}

func (t *wsTransport) Close(code int32, reason string) error {
	return t.conn.Close(websocket.StatusCode(code), reason)
}
