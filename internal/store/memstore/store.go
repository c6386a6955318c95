// Package memstore implements store.Store with mutex-guarded in-process maps.
// It backs development deployments where no database is available; nothing
// survives a restart.
package memstore

import (
	"sort"
	"strings"
	"sync"
	"time"

	"daleel-service/internal/model"
	"daleel-service/internal/store"

	"github.com/google/uuid"
)

// Store implements store.Store over in-process maps. A single RWMutex guards
// all tables; the report path holds the write lock across both of its writes,
// which is what makes report-and-increment atomic here.
type Store struct {
	mu sync.RWMutex

	users     map[string]*model.User
	contacts  map[string]*model.PhoneContact
	reports   map[string]*model.ContactReport
	history   []*model.SearchHistory
	reviews   map[string]*model.Review
	services  map[string]*model.Service
	products  map[string]*model.Product
	favorites map[string]map[string]bool // userID -> set of favorited item ids
}

var _ store.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:     make(map[string]*model.User),
		contacts:  make(map[string]*model.PhoneContact),
		reports:   make(map[string]*model.ContactReport),
		reviews:   make(map[string]*model.Review),
		services:  make(map[string]*model.Service),
		products:  make(map[string]*model.Product),
		favorites: make(map[string]map[string]bool),
	}
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// matchesPhone reports whether a stored number matches any variant of the
// query. Mirrors the SQL predicate in gormstore.
func matchesPhone(stored string, match store.PhoneMatch) bool {
	if stored == match.Query {
		return true
	}
	if match.Local != "" && strings.Contains(stored, match.Local) {
		return true
	}
	for _, form := range match.Prefixed {
		if stored == form {
			return true
		}
	}
	return false
}

func newestFirst(contacts []model.PhoneContact) {
	sort.SliceStable(contacts, func(i, j int) bool {
		return contacts[i].CreatedAt.After(contacts[j].CreatedAt)
	})
}

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = time.Now()
	}
}
