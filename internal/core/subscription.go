package core

import "sync"

// Subscription detaches an observer. Unsubscribe is safe to call any number
// of times; the underlying listener is released on the first call only.
type Subscription interface {
	Unsubscribe()
}

type onceSubscription struct {
	once    sync.Once
	release func()
}

func NewSubscription(release func()) Subscription {
	return &onceSubscription{release: release}
}

func (s *onceSubscription) Unsubscribe() {
	s.once.Do(func() {
		if s.release != nil {
			s.release()
		}
	})
}
