package viewer

import (
	log "github.com/sirupsen/logrus"

	"sv/internal/watch"
)

// WatchSource reports changes of individual files
type WatchSource interface {
	Subscribe(path string) (watch.ID, error)
	Unsubscribe(id watch.ID)
}

// Binding holds at most one live subscription, for the file on screen
type Binding struct {
	src   WatchSource
	id    watch.ID
	bound bool
}

// NewBinding creates a Binding. A nil src disables watching.
func NewBinding(src WatchSource) *Binding {
	return &Binding{src: src}
}

// Supported reports whether files can be watched at all
func (b *Binding) Supported() bool {
	return b.src != nil
}

// Rebind releases the current subscription and, when enabled, subscribes to
// path. ok reports whether a subscription is live afterwards.
func (b *Binding) Rebind(enabled bool, path string) (watch.ID, bool) {
	b.Release()
	if !enabled || b.src == nil {
		return 0, false
	}

	id, err := b.src.Subscribe(path)
	if err != nil {
		log.WithField("file", path).WithError(err).Error("Cannot watch file")
		return 0, false
	}
	b.id, b.bound = id, true
	return id, true
}

// Matches reports whether id belongs to the live subscription
func (b *Binding) Matches(id watch.ID) bool {
	return b.bound && b.id == id
}

// Release drops the live subscription, if any
func (b *Binding) Release() {
	if !b.bound {
		return
	}
	b.src.Unsubscribe(b.id)
	b.id, b.bound = 0, false
}
