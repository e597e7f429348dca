package auth

import (
	"sync"
	"time"

	"github.com/jhoicas/OpenBar-api/internal/application/dto"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
)

// Métodos de login registrados en el historial.
const (
	MethodUsername = "username"
	MethodCard     = "card_id"
	MethodToken    = "token"
)

// LoginEntry login exitoso.
type LoginEntry struct {
	UserID    int64
	Method    string
	LoginType entity.LoginType
	At        time.Time
}

// LoginHistory buffer circular acotado de los últimos logins.
// Tiene un único dueño (el AuthUseCase); es seguro para uso concurrente.
type LoginHistory struct {
	mu      sync.Mutex
	entries []LoginEntry
	next    int
	full    bool
}

// NewLoginHistory crea un historial con capacidad size (mínimo 1).
func NewLoginHistory(size int) *LoginHistory {
	if size < 1 {
		size = 1
	}
	return &LoginHistory{entries: make([]LoginEntry, size)}
}

// Record añade una entrada, pisando la más antigua si el buffer está lleno.
func (h *LoginHistory) Record(e LoginEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.next] = e
	h.next = (h.next + 1) % len(h.entries)
	if h.next == 0 {
		h.full = true
	}
}

// Entries copia de las entradas, de la más reciente a la más antigua.
func (h *LoginHistory) Entries() []dto.LoginHistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := h.next
	if h.full {
		n = len(h.entries)
	}
	out := make([]dto.LoginHistoryEntry, 0, n)
	for i := 0; i < n; i++ {
		idx := (h.next - 1 - i + len(h.entries)) % len(h.entries)
		e := h.entries[idx]
		out = append(out, dto.LoginHistoryEntry{UserID: e.UserID, Method: e.Method, LoginType: int(e.LoginType), At: e.At})
	}
	return out
}
