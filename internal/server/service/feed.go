package service

import "sync"

// A Feed fans out "collection changed" notifications to its subscribers.
// Notifications are coalesced: a subscriber that has not consumed the previous
// one yet does not get a second one, it will query the latest state anyway.
type Feed struct {
	mu          sync.Mutex
	subscribers map[chan struct{}]struct{}
}

// NewFeed returns a new Feed.
func NewFeed() *Feed {
	return &Feed{
		subscribers: make(map[chan struct{}]struct{}),
	}
}

// Subscribe registers a new subscriber.
// The returned function unregisters it and can be called several times.
func (f *Feed) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subscribers, ch)
			f.mu.Unlock()
		})
	}
}

// Notify wakes up all the subscribers.
func (f *Feed) Notify() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for ch := range f.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Len returns the number of subscribers.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}
