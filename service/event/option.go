package event

import (
	"github.com/schedsim/feedq/service/messaging/memory"
)

// Option customises the event service.
type Option func(s *Service)

// WithNewMemoryQueueConfig supplies the per-queue configuration factory used
// when the service runs on the memory vendor.
func WithNewMemoryQueueConfig(newConfig func(name string) memory.Config) Option {
	return func(s *Service) {
		s.memQueueConfig = newConfig
	}
}
