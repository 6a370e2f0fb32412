package event

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/schedsim/feedq/service/messaging"
	"github.com/schedsim/feedq/service/messaging/memory"
)

// Service fans simulation events out over per-type queues. Publishers and
// listeners are created lazily, one pair per payload type, and every
// publication is mirrored onto an untyped firehose queue so that catch-all
// listeners see the full stream.
type Service struct {
	vendor           messaging.Vendor
	memQueueConfig   func(name string) memory.Config
	firehose         *Publisher[any]
	firehoseListener *Listener[any]
	publishers       map[reflect.Type]any
	listeners        map[reflect.Type]any
	mux              sync.RWMutex
}

// New creates an event service backed by the given queue vendor.
func New(vendor messaging.Vendor, opts ...Option) (*Service, error) {
	srv := &Service{
		vendor:     vendor,
		publishers: make(map[reflect.Type]any),
		listeners:  make(map[reflect.Type]any),
	}
	for _, opt := range opts {
		opt(srv)
	}
	if err := srv.validate(); err != nil {
		return nil, err
	}
	queue, err := QueueOf[Event[any]](srv, "firehose")
	if err != nil {
		return nil, err
	}
	srv.firehose = NewPublisher[any](queue)
	return srv, nil
}

func (s *Service) validate() error {
	switch s.vendor {
	case messaging.VendorMemory:
		if s.memQueueConfig == nil {
			return fmt.Errorf("memory queue vendor requires a queue config factory")
		}
		return nil
	default:
		return fmt.Errorf("unsupported queue vendor: %s", s.vendor)
	}
}

// SetListener installs a catch-all handler fed by the firehose queue. Any
// previously installed catch-all listener is stopped first.
func (s *Service) SetListener(handler func(*Event[any])) {
	if s.firehoseListener != nil {
		s.firehoseListener.Stop()
	}
	s.firehoseListener = NewListener[any](s.firehose, handler)
	s.firehoseListener.Start()
}

// QueueOf builds a vendor queue carrying values of type T.
func QueueOf[T any](s *Service, name string) (messaging.Queue[T], error) {
	switch s.vendor {
	case messaging.VendorMemory:
		return memory.NewQueue[T](s.memQueueConfig(name)), nil
	}
	return nil, fmt.Errorf("unsupported queue vendor: %s", s.vendor)
}

// PublisherOf returns the publisher for payload type T, creating it and its
// backing queue on first use.
func PublisherOf[T any](s *Service) (*Publisher[T], error) {
	key := keyOf[T]()
	s.mux.RLock()
	existing, ok := s.publishers[key]
	s.mux.RUnlock()
	if ok {
		return existing.(*Publisher[T]), nil
	}
	queue, err := QueueOf[Event[T]](s, key.String())
	if err != nil {
		return nil, err
	}
	publisher := NewPublisher[T](queue)
	publisher.firehose = s.firehose.queue
	s.mux.Lock()
	defer s.mux.Unlock()
	if existing, ok = s.publishers[key]; ok {
		return existing.(*Publisher[T]), nil
	}
	s.publishers[key] = publisher
	return publisher, nil
}

// SetListenerOf routes events with payload type T to the handler, replacing
// any listener previously registered for that type.
func SetListenerOf[T any](s *Service, handler func(*Event[T])) error {
	publisher, err := PublisherOf[T](s)
	if err != nil {
		return err
	}
	key := keyOf[T]()
	listener := NewListener[T](publisher, handler)
	s.mux.Lock()
	previous, ok := s.listeners[key]
	s.listeners[key] = listener
	s.mux.Unlock()
	if ok {
		previous.(*Listener[T]).Stop()
	}
	listener.Start()
	return nil
}

func keyOf[T any]() reflect.Type {
	rType := reflect.TypeOf((*T)(nil)).Elem()
	for rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	return rType
}
