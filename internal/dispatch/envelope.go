package dispatch

import (
	"errors"
	"reflect"

	"github.com/hartex/hartex/internal/events"
	"github.com/hartex/hartex/internal/gateway"
)

// ErrEmptyEnvelope is returned for a nil envelope or one without a payload.
var ErrEmptyEnvelope = errors.New("dispatch: empty envelope")

// Category is the source an event came from.
type Category string

// Event categories.
const (
	CategoryNative Category = "native"
	CategoryCustom Category = "custom"
)

// Envelope is an event tagged with its source. It is implemented only by
// Native and Custom.
type Envelope interface {
	Category() Category
	sealed()
}

// Native wraps a platform-native event.
type Native struct {
	Event gateway.Event
}

// Category implements Envelope.
func (Native) Category() Category { return CategoryNative }

func (Native) sealed() {}

// Custom wraps an event raised by the bot.
type Custom struct {
	Event events.Event
}

// Category implements Envelope.
func (Custom) Category() Category { return CategoryCustom }

func (Custom) sealed() {}

// EventName returns the name used in logs, spans and metrics, or "" for an
// empty envelope.
func EventName(env Envelope) string {
	p := payload(env)
	if p == nil {
		return ""
	}
	if env.Category() == CategoryNative {
		return string(p.(gateway.Event).Kind())
	}
	return p.(events.Event).EventName()
}

// payload unwraps env, returning nil when there is nothing to dispatch.
func payload(env Envelope) any {
	var p any
	switch e := env.(type) {
	case Native:
		p = e.Event
	case *Native:
		if e != nil {
			p = e.Event
		}
	case Custom:
		p = e.Event
	case *Custom:
		if e != nil {
			p = e.Event
		}
	}
	if isNil(p) {
		return nil
	}
	return p
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
