package leave

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PendingRequest carries an eligibility decision between the check step and
// the confirm step. It is created by a successful check, consumed exactly
// once by confirm, and superseded by any newer check for the same clinician.
type PendingRequest struct {
	ID            string
	Clinician     string
	Category      string
	Hours         float64
	Pay           decimal.Decimal
	BalanceBefore float64
	CreatedAt     time.Time
}

// PendingStore holds at most one pending request per clinician, expiring
// abandoned checks so a stale balance is never confirmed.
type PendingStore struct {
	ttl time.Duration
	now func() time.Time

	mu          sync.Mutex
	byID        map[string]PendingRequest
	byClinician map[string]string
}

func NewPendingStore(ttl time.Duration) *PendingStore {
	return &PendingStore{
		ttl:         ttl,
		now:         time.Now,
		byID:        make(map[string]PendingRequest),
		byClinician: make(map[string]string),
	}
}

// Put stores a pending request and returns it with its token assigned. Any
// earlier pending request for the same clinician is discarded.
func (p *PendingStore) Put(req PendingRequest) PendingRequest {
	req.ID = uuid.NewString()
	req.CreatedAt = p.now()
	key := strings.ToLower(strings.TrimSpace(req.Clinician))

	p.mu.Lock()
	defer p.mu.Unlock()
	if oldID, ok := p.byClinician[key]; ok {
		delete(p.byID, oldID)
	}
	p.byID[req.ID] = req
	p.byClinician[key] = req.ID
	return req
}

// Consume removes and returns the pending request for a token. Expired or
// already consumed tokens report not found.
func (p *PendingStore) Consume(id string) (PendingRequest, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	req, ok := p.byID[id]
	if !ok {
		return PendingRequest{}, false
	}
	delete(p.byID, id)
	key := strings.ToLower(strings.TrimSpace(req.Clinician))
	if p.byClinician[key] == id {
		delete(p.byClinician, key)
	}

	if p.ttl > 0 && p.now().Sub(req.CreatedAt) > p.ttl {
		return PendingRequest{}, false
	}
	return req, true
}
