// Package memory implementa los puertos de persistencia en memoria (DB_DRIVER=memory).
// Las transacciones se serializan con un mutex y se deshacen restaurando una copia del estado.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
)

type snapshot struct {
	roles     map[int64]entity.Role
	perms     map[int64]entity.Permission
	users     map[int64]entity.User
	salts     map[int]entity.CardSalt
	recharges map[int64]entity.Recharge
	orders    map[int64]entity.Order
	items     map[int64]map[int64]entity.OrderLineItem // order -> product -> línea
	next      map[string]int64
}

func newSnapshot() *snapshot {
	return &snapshot{
		roles:     map[int64]entity.Role{},
		perms:     map[int64]entity.Permission{},
		users:     map[int64]entity.User{},
		salts:     map[int]entity.CardSalt{},
		recharges: map[int64]entity.Recharge{},
		orders:    map[int64]entity.Order{},
		items:     map[int64]map[int64]entity.OrderLineItem{},
		next:      map[string]int64{},
	}
}

func (s *snapshot) clone() *snapshot {
	c := newSnapshot()
	copyMap(c.roles, s.roles)
	copyMap(c.perms, s.perms)
	copyMap(c.users, s.users)
	copyMap(c.salts, s.salts)
	copyMap(c.recharges, s.recharges)
	copyMap(c.orders, s.orders)
	copyMap(c.next, s.next)
	for id, lines := range s.items {
		m := make(map[int64]entity.OrderLineItem, len(lines))
		copyMap(m, lines)
		c.items[id] = m
	}
	return c
}

func copyMap[K comparable, V any](dst, src map[K]V) {
	for k, v := range src {
		dst[k] = v
	}
}

func (s *snapshot) nextID(table string) int64 {
	s.next[table]++
	return s.next[table]
}

// Store base de datos en memoria.
type Store struct {
	txMu sync.Mutex   // una transacción (o escritura suelta) a la vez
	mu   sync.RWMutex // protege snap
	snap *snapshot
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{snap: newSnapshot()}
}

// withWrite aplica fn al estado. Fuera de una transacción la escritura se serializa con las transacciones.
func (s *Store) withWrite(ctx context.Context, inTx bool, fn func(*snapshot) error) error {
	if !inTx {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.snap)
}

func (s *Store) withRead(fn func(*snapshot)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.snap)
}

// runTx ejecuta fn en exclusiva; si devuelve error el estado vuelve al de antes de empezar.
func (s *Store) runTx(ctx context.Context, fn func() error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	var backup *snapshot
	s.withRead(func(snap *snapshot) { backup = snap.clone() })

	if err := fn(); err != nil {
		s.mu.Lock()
		s.snap = backup
		s.mu.Unlock()
		return err
	}
	return nil
}
