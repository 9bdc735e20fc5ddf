// Package http is the JSON surface over the ledger services. Identity
// is the X-Owner-ID header supplied by the gateway in front; the API
// trusts it and scopes everything by it.
package http

import (
	"container/list"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	applog "dompet/internal/log"
	"dompet/internal/services"
	"dompet/internal/storage"
)

type Server struct {
	wallets *services.WalletService
	ledger  *services.LedgerService
	debts   *services.DebtService
	store   storage.Store
	logger  *applog.Logger

	reports *reportCache
}

func NewServer(addr string, wallets *services.WalletService, ledger *services.LedgerService, debts *services.DebtService, store storage.Store, logger *applog.Logger) *http.Server {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	s := &Server{
		wallets: wallets,
		ledger:  ledger,
		debts:   debts,
		store:   store,
		logger:  logger.WithComponent(applog.ComponentHTTP),
		reports: newReportCache(256, 30*time.Second),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /api/wallets", s.requireOwner(s.handleListWallets))
	mux.HandleFunc("POST /api/wallets", s.requireOwner(s.handleCreateWallet))
	mux.HandleFunc("DELETE /api/wallets/{id}", s.requireOwner(s.handleDeleteWallet))

	mux.HandleFunc("GET /api/transactions", s.requireOwner(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.requireOwner(s.handleCreateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.requireOwner(s.handleDeleteTransaction))
	mux.HandleFunc("POST /api/transfer", s.requireOwner(s.handleTransfer))
	mux.HandleFunc("POST /api/topup", s.requireOwner(s.handleTopUp))

	mux.HandleFunc("GET /api/debts", s.requireOwner(s.handleListDebts))
	mux.HandleFunc("POST /api/debts", s.requireOwner(s.handleCreateDebt))
	mux.HandleFunc("POST /api/debts/{id}/repay", s.requireOwner(s.handleRepayDebt))
	mux.HandleFunc("DELETE /api/debts/{id}", s.requireOwner(s.handleDeleteDebt))

	mux.HandleFunc("GET /api/budgets", s.requireOwner(s.handleListBudgets))
	mux.HandleFunc("PUT /api/budgets", s.requireOwner(s.handleSaveBudget))

	mux.HandleFunc("GET /api/reports/networth", s.requireOwner(s.handleNetWorth))
	mux.HandleFunc("GET /api/reports/balance-series", s.requireOwner(s.handleBalanceSeries))
	mux.HandleFunc("GET /api/reports/wallets", s.requireOwner(s.handleWalletPerformance))
	mux.HandleFunc("GET /api/reports/budget", s.requireOwner(s.handleBudgetReport))

	return &http.Server{
		Addr:    addr,
		Handler: s.withRequestLog(mux),
	}
}

type ownerHandler func(w http.ResponseWriter, r *http.Request, ownerID string)

func (s *Server) requireOwner(next ownerHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := strings.TrimSpace(r.Header.Get("X-Owner-ID"))
		if owner == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing X-Owner-ID header"})
			return
		}
		next(w, r, owner)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.InfoContext(r.Context(), "Request handled",
			applog.FieldRequestID, newRequestID(),
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rec.status,
			applog.FieldDuration, time.Since(start).Milliseconds())
	})
}

func newRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b)
}

// reportCache is a small LRU with TTL in front of the report handlers.
// Report views replay the full log per request; a short TTL keeps a
// chart-heavy dashboard from replaying it dozens of times a second.
// Any write for an owner drops that owner's entries.
type reportCache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
}

type reportCacheItem struct {
	key       string
	owner     string
	data      any
	expiresAt time.Time
}

func newReportCache(maxSize int, ttl time.Duration) *reportCache {
	return &reportCache{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

func (c *reportCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.items[key]
	if !exists {
		return nil, false
	}
	item := elem.Value.(*reportCacheItem)
	if time.Now().After(item.expiresAt) {
		c.remove(elem)
		return nil, false
	}
	c.lru.MoveToFront(elem)
	return item.data, true
}

func (c *reportCache) set(owner, key string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := &reportCacheItem{key: key, owner: owner, data: data, expiresAt: time.Now().Add(c.ttl)}
	if elem, exists := c.items[key]; exists {
		elem.Value = item
		c.lru.MoveToFront(elem)
		return
	}
	c.items[key] = c.lru.PushFront(item)
	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.remove(oldest)
		}
	}
}

func (c *reportCache) invalidateOwner(owner string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for elem := c.lru.Front(); elem != nil; {
		next := elem.Next()
		if elem.Value.(*reportCacheItem).owner == owner {
			c.remove(elem)
		}
		elem = next
	}
}

func (c *reportCache) remove(elem *list.Element) {
	delete(c.items, elem.Value.(*reportCacheItem).key)
	c.lru.Remove(elem)
}
