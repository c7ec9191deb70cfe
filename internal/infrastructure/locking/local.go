package locking

import (
	"context"
	"sync"

	"github.com/jhoicas/branch-fulfillment-api/internal/application/ports"
)

var _ ports.KeyLocker = (*LocalLocker)(nil)

// LocalLocker bloqueo por clave dentro de un solo proceso.
// Cada clave es un canal de capacidad 1, así la espera respeta la cancelación del contexto.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewLocalLocker crea el locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: map[string]chan struct{}{}}
}

func (l *LocalLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

// Lock adquiere las claves en orden; si ctx expira libera las ya tomadas.
func (l *LocalLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = ports.NormalizeKeys(keys)
	held := make([]chan struct{}, 0, len(keys))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}
	for _, k := range keys {
		ch := l.slot(k)
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		}
	}
	var once sync.Once
	return func() { once.Do(release) }, nil
}
