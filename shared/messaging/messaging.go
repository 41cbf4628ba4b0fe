package messaging

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/pieceworks/order-system/shared/models"
)

var (
	ErrInvalidTopic   = errors.New("invalid topic")
	ErrInvalidChannel = errors.New("invalid channel")
	ErrInvalidPayload = errors.New("invalid payload")
)

// ContentTypePlainText is the content type every saga participant publishes
// with: a plain text body carrying a JSON payload.
const ContentTypePlainText = "text/plain"

// Channel names one of the three logical channels the saga participants
// communicate over. Each channel is backed by its own topic-routed exchange.
type Channel string

const (
	ChannelEvents    Channel = "events"
	ChannelCommands  Channel = "commands"
	ChannelResponses Channel = "responses"
)

// Channels lists every logical channel, in declaration order.
func Channels() []Channel {
	return []Channel{ChannelEvents, ChannelCommands, ChannelResponses}
}

// Valid reports whether the channel is one of the known three.
func (c Channel) Valid() bool {
	switch c {
	case ChannelEvents, ChannelCommands, ChannelResponses:
		return true
	}
	return false
}

func (c Channel) String() string {
	return string(c)
}

// Topic represents a routing key with AMQP-style pattern matching support:
// "*" matches exactly one dot-separated word, "#" matches zero or more.
type Topic string

func NewTopic(topic string) (Topic, error) {
	if topic == "" {
		return "", ErrInvalidTopic
	}
	return Topic(topic), nil
}

func (t Topic) String() string {
	return string(t)
}

// Matches reports whether the topic matches the given binding pattern.
func (t Topic) Matches(pattern Topic) bool {
	return matchPattern(
		strings.Split(pattern.String(), "."),
		strings.Split(t.String(), "."),
	)
}

func matchPattern(pattern, topic []string) bool {
	if len(pattern) == 0 {
		return len(topic) == 0
	}

	switch pattern[0] {
	case "#":
		if len(pattern) == 1 {
			return true
		}
		for i := 0; i <= len(topic); i++ {
			if matchPattern(pattern[1:], topic[i:]) {
				return true
			}
		}
		return false
	case "*":
		if len(topic) == 0 {
			return false
		}
		return matchPattern(pattern[1:], topic[1:])
	default:
		if len(topic) == 0 || pattern[0] != topic[0] {
			return false
		}
		return matchPattern(pattern[1:], topic[1:])
	}
}

// Metadata carries transport-level attributes alongside a message body.
type Metadata map[string]string

func (m Metadata) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m Metadata) Set(key, value string) {
	m[key] = value
}

func (m Metadata) Clone() Metadata {
	clone := make(Metadata, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

// Message is the wire envelope for one saga message: a topic-routed JSON
// payload. Bodies travel as plain text; coordination state lives entirely in
// the payload fields, never in broker headers.
type Message struct {
	ID          models.ID       `json:"id"`
	Topic       Topic           `json:"topic"`
	Body        json.RawMessage `json:"body"`
	ContentType string          `json:"content_type"`
	Metadata    Metadata        `json:"metadata,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

// NewMessage creates a message for the given topic, marshaling the payload.
func NewMessage(topic Topic, payload interface{}) (*Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPayload, err.Error())
	}
	return &Message{
		ID:          models.GenerateUUID(),
		Topic:       topic,
		Body:        body,
		ContentType: ContentTypePlainText,
		Metadata:    make(Metadata),
		Timestamp:   time.Now(),
	}, nil
}

// UnmarshalBody decodes the JSON payload into v.
func (m *Message) UnmarshalBody(v interface{}) error {
	if err := json.Unmarshal(m.Body, v); err != nil {
		return errors.Wrap(ErrInvalidPayload, err.Error())
	}
	return nil
}

// Publisher publishes messages onto a logical channel. Publishing is
// fire-and-forget: no reply is awaited, all coordination arrives as further
// asynchronous messages.
type Publisher interface {
	Publish(ctx context.Context, channel Channel, msgs ...*Message) error
}

// Handler handles one inbound message. A returned error leaves the message
// unacknowledged so the broker redelivers it.
type Handler interface {
	HandlerID() string
	Handle(ctx context.Context, msg *Message) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc struct {
	id string
	fn func(ctx context.Context, msg *Message) error
}

func NewHandlerFunc(id string, fn func(ctx context.Context, msg *Message) error) *HandlerFunc {
	return &HandlerFunc{id: id, fn: fn}
}

func (h *HandlerFunc) HandlerID() string {
	return h.id
}

func (h *HandlerFunc) Handle(ctx context.Context, msg *Message) error {
	return h.fn(ctx, msg)
}

// Binding declares one inbound queue: which channel exchange it binds to and
// the routing key pattern it receives.
type Binding struct {
	Queue      string
	RoutingKey Topic
	Channel    Channel
	Exclusive  bool
}

// Subscriber consumes messages for a set of queue bindings and dispatches
// each to the handler. Run blocks until the context is canceled.
type Subscriber interface {
	Run(ctx context.Context, bindings []Binding, handler Handler) error
}
