package rpcx

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
)

type handler struct {
	fn      reflect.Value
	argType reflect.Type
}

// Dispatcher routes a named, JSON-encoded request to a registered
// handler of the form func(*Req) (*Res, error).
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]handler),
	}
}

// Register binds name to h. h must have the shape func(*Req) (*Res, error);
// Req and Res may be any JSON-marshalable type.
func (d *Dispatcher) Register(name string, h any) *Dispatcher {
	hv := reflect.ValueOf(h)
	ht := hv.Type()
	if ht.Kind() != reflect.Func || ht.NumIn() != 1 || ht.NumOut() != 2 {
		panic(fmt.Sprintf("rpcx: handler %q must be func(*Req) (*Res, error)", name))
	}
	if ht.In(0).Kind() != reflect.Ptr {
		panic(fmt.Sprintf("rpcx: handler %q argument must be a pointer", name))
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = handler{fn: hv, argType: ht.In(0)}
	return d
}

// Handle decodes a Message, dispatches it, and re-encodes the reply.
func (d *Dispatcher) Handle(input []byte) (output []byte, err error) {
	var msg Message
	if err := json.Unmarshal(input, &msg); err != nil {
		return nil, err
	}

	d.mu.RLock()
	h, ok := d.handlers[msg.Name]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("rpcx: no handler registered for %q", msg.Name)
	}

	argPtr := reflect.New(h.argType.Elem())
	if len(msg.Body) > 0 {
		if err := json.Unmarshal(msg.Body, argPtr.Interface()); err != nil {
			return nil, err
		}
	}

	out := h.fn.Call([]reflect.Value{argPtr})
	if errVal := out[1].Interface(); errVal != nil {
		return nil, errVal.(error)
	}

	return json.Marshal(out[0].Interface())
}
