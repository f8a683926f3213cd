package watch

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// ErrClosed is returned when subscribing to a closed Source
var ErrClosed = errors.New("watch source closed")

// ID identifies one subscription. IDs start at 1 and are never reused.
type ID uint64

// Event reports that the file of a subscription was written or replaced
type Event struct {
	ID   ID
	Path string
}

// Source delivers change notifications for individual files using fsnotify.
// The parent directory of every subscribed file is watched, so files replaced
// by rename keep being reported.
type Source struct {
	fsWatcher *fsnotify.Watcher
	events    chan Event
	stopChan  chan struct{}
	done      chan struct{}
	debounce  time.Duration

	mutex  sync.Mutex
	closed bool
	nextID ID
	subs   map[ID]string
	dirs   map[string]int
	timers map[ID]*time.Timer
}

// New starts a Source. Bursts of events for one file within debounce are
// reported once.
func New(debounce time.Duration) (*Source, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	s := &Source{
		fsWatcher: fsWatcher,
		events:    make(chan Event, 16),
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
		debounce:  debounce,
		subs:      make(map[ID]string),
		dirs:      make(map[string]int),
		timers:    make(map[ID]*time.Timer),
	}
	go s.loop()
	return s, nil
}

// Events returns the channel that delivers notifications. It is closed by Close.
func (s *Source) Events() <-chan Event {
	return s.events
}

// Subscribe starts watching path and returns the id its events carry
func (s *Source) Subscribe(path string) (ID, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, err
	}
	dir := filepath.Dir(abs)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	if s.dirs[dir] == 0 {
		if err := s.fsWatcher.Add(dir); err != nil {
			return 0, fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}
	s.dirs[dir]++

	s.nextID++
	id := s.nextID
	s.subs[id] = abs

	log.WithFields(log.Fields{"id": id, "file": abs}).Debug("Watching file")
	return id, nil
}

// Unsubscribe stops delivering events for id. Unknown ids are ignored.
func (s *Source) Unsubscribe(id ID) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	path, ok := s.subs[id]
	if !ok {
		return
	}
	delete(s.subs, id)

	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}

	dir := filepath.Dir(path)
	s.dirs[dir]--
	if s.dirs[dir] <= 0 {
		delete(s.dirs, dir)
		if !s.closed {
			if err := s.fsWatcher.Remove(dir); err != nil {
				log.WithField("directory", dir).WithError(err).Debug("Failed to remove watch")
			}
		}
	}
	log.WithField("id", id).Debug("Stopped watching file")
}

// Close stops the source and closes the event channel
func (s *Source) Close() error {
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return nil
	}
	s.closed = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	close(s.stopChan)
	s.mutex.Unlock()

	err := s.fsWatcher.Close()
	<-s.done

	s.mutex.Lock()
	close(s.events)
	s.mutex.Unlock()
	return err
}

func (s *Source) loop() {
	defer close(s.done)

	for {
		select {
		case event, ok := <-s.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
				s.changed(filepath.Clean(event.Name))
			}

		case err, ok := <-s.fsWatcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Error("fsnotify watcher error")

		case <-s.stopChan:
			return
		}
	}
}

func (s *Source) changed(path string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for id, p := range s.subs {
		if p != path {
			continue
		}
		if s.debounce <= 0 {
			s.send(Event{ID: id, Path: p})
			continue
		}
		if t, ok := s.timers[id]; ok {
			t.Reset(s.debounce)
			continue
		}
		s.timers[id] = time.AfterFunc(s.debounce, func() { s.fire(id) })
	}
}

func (s *Source) fire(id ID) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.timers, id)
	path, ok := s.subs[id]
	if !ok || s.closed {
		return
	}
	s.send(Event{ID: id, Path: path})
}

// send must be called with the mutex held
func (s *Source) send(ev Event) {
	select {
	case s.events <- ev:
	default:
		log.WithField("file", ev.Path).Warn("Event channel is full, dropped event")
	}
}
