package messagequeue

// MessageQueue defines the interface for message queue services.
type MessageQueue interface {
	Publish(queueName string, body []byte) error
	Consume(queueName string, handler func(body []byte)) error
	Close() error
}

// Noop is a MessageQueue that drops everything. Deployments without a
// broker use it so publishers stay unconditional.
type Noop struct{}

func (Noop) Publish(string, []byte) error            { return nil }
func (Noop) Consume(string, func(body []byte)) error { return nil }
func (Noop) Close() error                            { return nil }
