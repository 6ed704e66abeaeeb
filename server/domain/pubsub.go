package domain

import (
	"context"
	"log/slog"
	"sync"
)

//go:generate go tool mockgen -destination=./mocks/pubsub_mock.go -package=mocks . PubSub

// Topic は購読単位。"session:<id>" と "room:<id>" を使う。
type Topic string

// SessionTopic はセッション宛のトピック
func SessionTopic(id SessionID) Topic {
	return Topic("session:" + id.String())
}

// RoomTopic はルーム宛のトピック
func RoomTopic(id RoomID) Topic {
	return Topic("room:" + id.String())
}

// Message はトピックに流れるメッセージ
type Message struct {
	SessionID SessionID
	Data      []byte
}

// PubSub はセッションとルームの間のメッセージ配送を担当します。
type PubSub interface {
	Subscribe(topic Topic) <-chan Message
	Unsubscribe(topic Topic, ch <-chan Message)
	Publish(ctx context.Context, topic Topic, msg Message)
}

const subscriberBuffer = 1024

// SimplePubSub はプロセス内のチャネルで配送するPubSub実装です。
// 購読者のチャネルが満杯の場合、そのメッセージは破棄されます。
type SimplePubSub struct {
	mu     sync.RWMutex
	topics map[Topic][]chan Message
}

func NewSimplePubSub() *SimplePubSub {
	return &SimplePubSub{
		topics: make(map[Topic][]chan Message),
	}
}

func (p *SimplePubSub) Subscribe(topic Topic) <-chan Message {
	ch := make(chan Message, subscriberBuffer)
	p.mu.Lock()
	p.topics[topic] = append(p.topics[topic], ch)
	p.mu.Unlock()
	return ch
}

func (p *SimplePubSub) Unsubscribe(topic Topic, ch <-chan Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	subs := p.topics[topic]
	for i, sub := range subs {
		if sub == ch {
			close(sub)
			p.topics[topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(p.topics[topic]) == 0 {
		delete(p.topics, topic)
	}
}

func (p *SimplePubSub) Publish(ctx context.Context, topic Topic, msg Message) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, sub := range p.topics[topic] {
		select {
		case sub <- msg:
		default:
			slog.WarnContext(ctx, "pubsub: subscriber full, message dropped", "topic", topic)
		}
	}
}
