package redraw

import (
	"sync"

	"github.com/SYK-08/vscode-neovim/internal/logging"
)

// Handler receives decoded events for a subscribed kind.
type Handler func(Event)

type subscriber struct {
	id int
	fn Handler
}

// Decoder decodes redraw batches and fans events out by kind.
//
// Thread-safety: Subscribe and unsubscribe may run concurrently with
// Dispatch. Dispatch itself is called from the backend's notification
// goroutine; handlers run there synchronously.
type Decoder struct {
	mu     sync.RWMutex
	nextID int
	subs   map[Kind][]subscriber
	log    *logging.Logger
}

// NewDecoder creates a decoder. A nil logger disables logging.
func NewDecoder(log *logging.Logger) *Decoder {
	if log == nil {
		log = logging.Null
	}
	return &Decoder{
		subs: make(map[Kind][]subscriber),
		log:  log.WithComponent("redraw"),
	}
}

// Subscribe registers fn for events of the given kind and returns its
// unsubscribe function. Handlers for the same kind are invoked in
// registration order.
func (d *Decoder) Subscribe(kind Kind, fn Handler) func() {
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.subs[kind] = append(d.subs[kind], subscriber{id: id, fn: fn})
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		list := d.subs[kind]
		for i, s := range list {
			if s.id == id {
				d.subs[kind] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Dispatch decodes one redraw batch and delivers its events in order.
// Updates with unknown names are skipped; tuples that fail to decode
// are logged and dropped without aborting the batch.
func (d *Decoder) Dispatch(updates [][]any) {
	for _, update := range updates {
		if len(update) == 0 {
			continue
		}
		name, ok := update[0].(string)
		if !ok {
			d.log.Warn("update with non-string name: %v", update[0])
			continue
		}

		for _, raw := range update[1:] {
			tuple, ok := raw.([]any)
			if !ok {
				d.log.Warn("%s: argument is not a tuple: %v", name, raw)
				continue
			}
			ev, err := decode(name, tuple)
			if err != nil {
				d.log.Warn("drop %s: %v", name, err)
				continue
			}
			if ev == nil {
				d.log.Debug("unknown event %q skipped", name)
				break
			}
			d.deliver(ev)
		}
	}
}

func (d *Decoder) deliver(ev Event) {
	d.mu.RLock()
	list := d.subs[ev.Kind()]
	handlers := make([]Handler, len(list))
	for i, s := range list {
		handlers[i] = s.fn
	}
	d.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}
