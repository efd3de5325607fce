package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/catalogo-api/internal/application/recompute"
)

var (
	_ recompute.IntentQueue = (*IntentQueue)(nil)
	_ recompute.EntryLocker = (*KeyedLocker)(nil)
)

// DefaultPollInterval espera máxima de Dequeue con la cola vacía.
const DefaultPollInterval = 100 * time.Millisecond

// IntentQueue cola FIFO en memoria que agrupa intenciones de la misma entrada mientras
// siguen en espera (conserva el menor attempt).
type IntentQueue struct {
	mu      sync.Mutex
	order   []string
	pending map[string]recompute.Intent
	notify  chan struct{}
	poll    time.Duration
}

// NewIntentQueue crea la cola. poll <= 0 usa DefaultPollInterval.
func NewIntentQueue(poll time.Duration) *IntentQueue {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &IntentQueue{
		pending: map[string]recompute.Intent{},
		notify:  make(chan struct{}, 1),
		poll:    poll,
	}
}

// Enqueue agrega la intención o la fusiona con la que ya espera para la misma entrada.
func (q *IntentQueue) Enqueue(_ context.Context, intent recompute.Intent) error {
	q.mu.Lock()
	if cur, ok := q.pending[intent.EntryID]; ok {
		if intent.Attempt < cur.Attempt {
			cur.Attempt = intent.Attempt
			cur.Reason = intent.Reason
			q.pending[intent.EntryID] = cur
		}
		q.mu.Unlock()
		return nil
	}
	if intent.ID == "" {
		intent.ID = uuid.New().String()
	}
	q.pending[intent.EntryID] = intent
	q.order = append(q.order, intent.EntryID)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return nil
}

// Dequeue devuelve la intención más antigua o nil si no llega ninguna en el intervalo de espera.
func (q *IntentQueue) Dequeue(ctx context.Context) (*recompute.Intent, error) {
	if intent := q.pop(); intent != nil {
		return intent, nil
	}
	t := time.NewTimer(q.poll)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-q.notify:
		return q.pop(), nil
	case <-t.C:
		return q.pop(), nil
	}
}

func (q *IntentQueue) pop() *recompute.Intent {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.order) == 0 {
		return nil
	}
	id := q.order[0]
	q.order = q.order[1:]
	intent := q.pending[id]
	delete(q.pending, id)
	return &intent
}

// Ack no hace nada: la intención sale de la cola al leerla.
func (q *IntentQueue) Ack(context.Context, *recompute.Intent) error { return nil }

// Len intenciones en espera.
func (q *IntentQueue) Len(context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.order)), nil
}

// KeyedLocker un mutex por entrada; las entradas sin uso se liberan.
type KeyedLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

// NewKeyedLocker crea el locker.
func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{locks: map[string]*keyLock{}}
}

// Lock bloquea hasta obtener la entrada o hasta que se cancele ctx.
func (l *KeyedLocker) Lock(ctx context.Context, entryID string) (func(), error) {
	l.mu.Lock()
	kl, ok := l.locks[entryID]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		l.locks[entryID] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(entryID, kl)
		return nil, ctx.Err()
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			<-kl.ch
			l.release(entryID, kl)
		})
	}, nil
}

func (l *KeyedLocker) release(entryID string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, entryID)
	}
}
