// Package kafkatest provides a recording publisher for service tests.
package kafkatest

import (
	"context"
	"sync"

	"alojasys/infras/kafka"
)

type Recorder struct {
	mu     sync.Mutex
	topics map[string][]kafka.Message
}

func New() *Recorder {
	return &Recorder{topics: map[string][]kafka.Message{}}
}

func (r *Recorder) SendMessages(_ context.Context, topic string, messages ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.topics[topic] = append(r.topics[topic], messages...)

	return nil
}

// Messages returns what was published on a topic so far.
func (r *Recorder) Messages(topic string) []kafka.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]kafka.Message{}, r.topics[topic]...)
}
