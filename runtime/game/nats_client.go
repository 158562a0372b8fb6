package game

import (
	"errors"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/k-jun/mahjong-tui-sub000/common/log"
)

var ErrNotConnected = errors.New("nats not connected")

// NatsClient wraps one connection with reconnect logging.
type NatsClient struct {
	conn *nats.Conn
	subs []*nats.Subscription
}

func NewNatsClient(url, name string) (*NatsClient, error) {
	opts := []nats.Option{
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.Timeout(10 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("nats disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("nats connection closed")
		}),
	}
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	log.Info("nats connected, url: %s", url)
	return &NatsClient{conn: conn}, nil
}

func (nc *NatsClient) IsConnected() bool {
	return nc.conn != nil && nc.conn.IsConnected()
}

// Reply answers request messages on subject with handle's result. Members
// of queue share the subject.
func (nc *NatsClient) Reply(subject, queue string, handle func(subject string, data []byte) []byte) error {
	sub, err := nc.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		resp := handle(msg.Subject, msg.Data)
		if msg.Reply == "" || resp == nil {
			return
		}
		if err := msg.Respond(resp); err != nil {
			log.Warn("nats respond on %s: %v", msg.Subject, err)
		}
	})
	if err != nil {
		return err
	}
	nc.subs = append(nc.subs, sub)
	return nil
}

func (nc *NatsClient) SendMessage(subject string, data []byte) error {
	if !nc.IsConnected() {
		return ErrNotConnected
	}
	return nc.conn.Publish(subject, data)
}

// Close drains subscriptions before closing.
func (nc *NatsClient) Close() {
	if nc.conn == nil {
		return
	}
	for _, sub := range nc.subs {
		_ = sub.Unsubscribe()
	}
	if err := nc.conn.Drain(); err != nil {
		nc.conn.Close()
	}
}
