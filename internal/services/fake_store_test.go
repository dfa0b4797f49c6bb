package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"repairdesk/internal/common"
	"repairdesk/internal/models"
	"repairdesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type batchKey struct {
	itemID  uuid.UUID
	batchNo string
}

type usageKey struct {
	jobID   uuid.UUID
	itemID  uuid.UUID
	batchNo string
}

type memData struct {
	items      map[uuid.UUID]models.InventoryItem
	batches    map[batchKey]models.InventoryBatch
	usage      map[usageKey]models.UsedInventory
	quotations map[uuid.UUID]models.Quotation
	orders     map[uuid.UUID]models.PurchaseOrder // keyed by quotation id
	jobs       map[uuid.UUID]models.Job
	claims     map[uuid.UUID]models.WarrantyClaim // keyed by job id
}

func newMemData() *memData {
	return &memData{
		items:      map[uuid.UUID]models.InventoryItem{},
		batches:    map[batchKey]models.InventoryBatch{},
		usage:      map[usageKey]models.UsedInventory{},
		quotations: map[uuid.UUID]models.Quotation{},
		orders:     map[uuid.UUID]models.PurchaseOrder{},
		jobs:       map[uuid.UUID]models.Job{},
		claims:     map[uuid.UUID]models.WarrantyClaim{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d *memData) clone() *memData {
	return &memData{
		items:      cloneMap(d.items),
		batches:    cloneMap(d.batches),
		usage:      cloneMap(d.usage),
		quotations: cloneMap(d.quotations),
		orders:     cloneMap(d.orders),
		jobs:       cloneMap(d.jobs),
		claims:     cloneMap(d.claims),
	}
}

// memStore is an in-memory repositories.Store. Transactions are serialized
// by one mutex and roll back by restoring a snapshot.
type memStore struct {
	state *memState
	inTx  bool
}

type memState struct {
	mu     sync.Mutex
	data   *memData
	failOn map[string]error
	calls  map[string]int
}

func newMemStore() *memStore {
	return &memStore{state: &memState{data: newMemData(), failOn: map[string]error{}, calls: map[string]int{}}}
}

// fail makes every later call of op return err.
func (s *memStore) fail(op string, err error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	s.state.failOn[op] = err
}

func (s *memStore) callCount(op string) int {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return s.state.calls[op]
}

// do runs fn with the state locked unless the caller already holds it.
func (s *memStore) do(op string, fn func(d *memData) error) error {
	if !s.inTx {
		s.state.mu.Lock()
		defer s.state.mu.Unlock()
	}
	s.state.calls[op]++
	if err := s.state.failOn[op]; err != nil {
		return err
	}
	return fn(s.state.data)
}

func (s *memStore) WithTx(ctx context.Context, fn func(repositories.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.state.failOn["begin"]; err != nil {
		return err
	}
	snapshot := s.state.data.clone()
	if err := fn(&memStore{state: s.state, inTx: true}); err != nil {
		s.state.data = snapshot
		return err
	}
	return nil
}

func (s *memStore) Ping(ctx context.Context) error {
	return s.do("ping", func(*memData) error { return nil })
}

func (s *memStore) Items() repositories.InventoryItemRepository         { return memItems{s} }
func (s *memStore) Batches() repositories.BatchRepository                { return memBatches{s} }
func (s *memStore) Usage() repositories.UsedInventoryRepository          { return memUsage{s} }
func (s *memStore) Quotations() repositories.QuotationRepository         { return memQuotations{s} }
func (s *memStore) PurchaseOrders() repositories.PurchaseOrderRepository { return memOrders{s} }
func (s *memStore) Jobs() repositories.JobRepository                     { return memJobs{s} }
func (s *memStore) WarrantyClaims() repositories.WarrantyClaimRepository { return memClaims{s} }

// seeding and inspection helpers

func (s *memStore) putItem(item models.InventoryItem) {
	s.do("seed", func(d *memData) error { d.items[item.ID] = item; return nil })
}

func (s *memStore) putBatch(b models.InventoryBatch) {
	s.do("seed", func(d *memData) error { d.batches[batchKey{b.ItemID, b.BatchNo}] = b; return nil })
}

func (s *memStore) dropBatch(itemID uuid.UUID, batchNo string) {
	s.do("seed", func(d *memData) error { delete(d.batches, batchKey{itemID, batchNo}); return nil })
}

func (s *memStore) putJob(j models.Job) {
	s.do("seed", func(d *memData) error { d.jobs[j.ID] = j; return nil })
}

func (s *memStore) putQuotation(q models.Quotation) {
	s.do("seed", func(d *memData) error { d.quotations[q.ID] = q; return nil })
}

func (s *memStore) remaining(itemID uuid.UUID, batchNo string) int {
	var n int
	s.do("inspect", func(d *memData) error { n = d.batches[batchKey{itemID, batchNo}].RemainingQuantity; return nil })
	return n
}

func (s *memStore) orderCount() int {
	var n int
	s.do("inspect", func(d *memData) error { n = len(d.orders); return nil })
	return n
}

func (s *memStore) claimCount() int {
	var n int
	s.do("inspect", func(d *memData) error { n = len(d.claims); return nil })
	return n
}

func (s *memStore) usageCount() int {
	var n int
	s.do("inspect", func(d *memData) error { n = len(d.usage); return nil })
	return n
}

var errUniqueViolation = &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}

type memItems struct{ s *memStore }

func (r memItems) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.s.do("items.Create", func(d *memData) error {
		if _, ok := d.items[item.ID]; ok {
			return errUniqueViolation
		}
		now := time.Now().UTC()
		item.CreatedAt, item.UpdatedAt = now, now
		d.items[item.ID] = *item
		return nil
	})
}

func available(d *memData, itemID uuid.UUID) int {
	total := 0
	for k, b := range d.batches {
		if k.itemID == itemID {
			total += b.RemainingQuantity
		}
	}
	return total
}

func (r memItems) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var out *models.InventoryItem
	err := r.s.do("items.GetByID", func(d *memData) error {
		item, ok := d.items[id]
		if !ok {
			return pgx.ErrNoRows
		}
		item.AvailableQuantity = available(d, id)
		out = &item
		return nil
	})
	return out, err
}

func (r memItems) ListLowStock(ctx context.Context) ([]*models.InventoryItem, error) {
	var out []*models.InventoryItem
	err := r.s.do("items.ListLowStock", func(d *memData) error {
		for id, item := range d.items {
			item.AvailableQuantity = available(d, id)
			if item.IsLowStock() {
				it := item
				out = append(out, &it)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

type memBatches struct{ s *memStore }

func (r memBatches) Create(ctx context.Context, b *models.InventoryBatch) error {
	return r.s.do("batches.Create", func(d *memData) error {
		k := batchKey{b.ItemID, b.BatchNo}
		if _, ok := d.batches[k]; ok {
			return errUniqueViolation
		}
		b.CreatedAt = time.Now().UTC()
		d.batches[k] = *b
		return nil
	})
}

func (r memBatches) Get(ctx context.Context, itemID uuid.UUID, batchNo string) (*models.InventoryBatch, error) {
	var out *models.InventoryBatch
	err := r.s.do("batches.Get", func(d *memData) error {
		b, ok := d.batches[batchKey{itemID, batchNo}]
		if !ok {
			return pgx.ErrNoRows
		}
		out = &b
		return nil
	})
	return out, err
}

func (r memBatches) GetRemaining(ctx context.Context, itemID uuid.UUID, batchNo string) (int, error) {
	var n int
	err := r.s.do("batches.GetRemaining", func(d *memData) error {
		b, ok := d.batches[batchKey{itemID, batchNo}]
		if !ok {
			return common.NotFoundError("inventory_batch", fmt.Sprintf("%s/%s", itemID, batchNo))
		}
		n = b.RemainingQuantity
		return nil
	})
	return n, err
}

func (r memBatches) AdjustRemaining(ctx context.Context, itemID uuid.UUID, batchNo string, delta int) (int, error) {
	var n int
	err := r.s.do("batches.AdjustRemaining", func(d *memData) error {
		k := batchKey{itemID, batchNo}
		ref := fmt.Sprintf("%s/%s", itemID, batchNo)
		b, ok := d.batches[k]
		if !ok {
			return common.NotFoundError("inventory_batch", ref)
		}
		next := b.RemainingQuantity + delta
		if next < 0 {
			return common.InsufficientStockError("inventory_batch", ref, fmt.Sprintf("remaining %d, requested %d", b.RemainingQuantity, -delta), nil)
		}
		if next > b.OriginalQuantity {
			return common.ConflictError("inventory_batch", ref, "would exceed original quantity")
		}
		b.RemainingQuantity = next
		d.batches[k] = b
		n = next
		return nil
	})
	return n, err
}

func (r memBatches) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*models.InventoryBatch, error) {
	out := []*models.InventoryBatch{}
	err := r.s.do("batches.ListByItem", func(d *memData) error {
		for k, b := range d.batches {
			if k.itemID == itemID {
				bb := b
				out = append(out, &bb)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].BatchNo < out[j].BatchNo })
		return nil
	})
	return out, err
}

type memUsage struct{ s *memStore }

func (r memUsage) Create(ctx context.Context, u *models.UsedInventory) (bool, error) {
	created := false
	err := r.s.do("usage.Create", func(d *memData) error {
		k := usageKey{u.JobID, u.ItemID, u.BatchNo}
		if _, ok := d.usage[k]; ok {
			return nil
		}
		b, ok := d.batches[batchKey{u.ItemID, u.BatchNo}]
		if !ok {
			return nil
		}
		now := time.Now().UTC()
		u.UnitPrice = b.UnitPrice
		u.CreatedAt, u.UpdatedAt = now, now
		d.usage[k] = *u
		created = true
		return nil
	})
	return created, err
}

func (r memUsage) get(op string, jobID, itemID uuid.UUID, batchNo string) (*models.UsedInventory, error) {
	var out *models.UsedInventory
	err := r.s.do(op, func(d *memData) error {
		u, ok := d.usage[usageKey{jobID, itemID, batchNo}]
		if !ok {
			return pgx.ErrNoRows
		}
		out = &u
		return nil
	})
	return out, err
}

func (r memUsage) Get(ctx context.Context, jobID, itemID uuid.UUID, batchNo string) (*models.UsedInventory, error) {
	return r.get("usage.Get", jobID, itemID, batchNo)
}

func (r memUsage) GetForUpdate(ctx context.Context, jobID, itemID uuid.UUID, batchNo string) (*models.UsedInventory, error) {
	return r.get("usage.GetForUpdate", jobID, itemID, batchNo)
}

func (r memUsage) UpdateQuantity(ctx context.Context, jobID, itemID uuid.UUID, batchNo string, quantity int) error {
	return r.s.do("usage.UpdateQuantity", func(d *memData) error {
		k := usageKey{jobID, itemID, batchNo}
		u, ok := d.usage[k]
		if !ok {
			return nil
		}
		u.QuantityUsed = quantity
		u.UpdatedAt = time.Now().UTC()
		d.usage[k] = u
		return nil
	})
}

func (r memUsage) Delete(ctx context.Context, jobID, itemID uuid.UUID, batchNo string) error {
	return r.s.do("usage.Delete", func(d *memData) error {
		delete(d.usage, usageKey{jobID, itemID, batchNo})
		return nil
	})
}

func (r memUsage) ListByJob(ctx context.Context, jobID uuid.UUID) ([]*models.UsedInventory, error) {
	var out []*models.UsedInventory
	err := r.s.do("usage.ListByJob", func(d *memData) error {
		for k, u := range d.usage {
			if k.jobID == jobID {
				uu := u
				out = append(out, &uu)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].BatchNo < out[j].BatchNo })
		return nil
	})
	return out, err
}

type memQuotations struct{ s *memStore }

func (r memQuotations) Create(ctx context.Context, q *models.Quotation) error {
	return r.s.do("quotations.Create", func(d *memData) error {
		if _, ok := d.quotations[q.ID]; ok {
			return errUniqueViolation
		}
		d.quotations[q.ID] = *q
		return nil
	})
}

func (r memQuotations) get(op string, id uuid.UUID) (*models.Quotation, error) {
	var out *models.Quotation
	err := r.s.do(op, func(d *memData) error {
		q, ok := d.quotations[id]
		if !ok {
			return pgx.ErrNoRows
		}
		out = &q
		return nil
	})
	return out, err
}

func (r memQuotations) GetByID(ctx context.Context, id uuid.UUID) (*models.Quotation, error) {
	return r.get("quotations.GetByID", id)
}

func (r memQuotations) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Quotation, error) {
	return r.get("quotations.GetForUpdate", id)
}

func (r memQuotations) List(ctx context.Context, status *models.QuotationStatus, limit, offset int) ([]*models.Quotation, error) {
	out := []*models.Quotation{}
	err := r.s.do("quotations.List", func(d *memData) error {
		for _, q := range d.quotations {
			if status == nil || q.Status == *status {
				qq := q
				out = append(out, &qq)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
		if offset > len(out) {
			offset = len(out)
		}
		out = out[offset:]
		if limit < len(out) {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}

func (r memQuotations) MarkApproved(ctx context.Context, id uuid.UUID, approvedBy *string, approvedAt time.Time) (bool, error) {
	changed := false
	err := r.s.do("quotations.MarkApproved", func(d *memData) error {
		q, ok := d.quotations[id]
		if !ok || q.Status != models.QuotationStatusPending {
			return nil
		}
		q.Status = models.QuotationStatusApproved
		q.ApprovedBy = approvedBy
		q.ApprovedAt = &approvedAt
		d.quotations[id] = q
		changed = true
		return nil
	})
	return changed, err
}

type memOrders struct{ s *memStore }

func (r memOrders) Create(ctx context.Context, po *models.PurchaseOrder) (bool, error) {
	created := false
	err := r.s.do("orders.Create", func(d *memData) error {
		if _, ok := d.orders[po.QuotationID]; ok {
			return nil
		}
		d.orders[po.QuotationID] = *po
		created = true
		return nil
	})
	return created, err
}

func (r memOrders) GetByQuotationID(ctx context.Context, quotationID uuid.UUID) (*models.PurchaseOrder, error) {
	var out *models.PurchaseOrder
	err := r.s.do("orders.GetByQuotationID", func(d *memData) error {
		po, ok := d.orders[quotationID]
		if !ok {
			return pgx.ErrNoRows
		}
		out = &po
		return nil
	})
	return out, err
}

type memJobs struct{ s *memStore }

func (r memJobs) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var out *models.Job
	err := r.s.do("jobs.GetByID", func(d *memData) error {
		j, ok := d.jobs[id]
		if !ok {
			return pgx.ErrNoRows
		}
		out = &j
		return nil
	})
	return out, err
}

func (r memJobs) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	err := r.s.do("jobs.Exists", func(d *memData) error {
		_, ok = d.jobs[id]
		return nil
	})
	return ok, err
}

func (r memJobs) ListWithWarranty(ctx context.Context) ([]*models.Job, error) {
	var out []*models.Job
	err := r.s.do("jobs.ListWithWarranty", func(d *memData) error {
		for _, j := range d.jobs {
			if j.WarrantyExpDate != nil {
				jj := j
				out = append(out, &jj)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].CustomerName < out[j].CustomerName })
		return nil
	})
	return out, err
}

func (r memJobs) MarkClaimed(ctx context.Context, id uuid.UUID) (bool, error) {
	changed := false
	err := r.s.do("jobs.MarkClaimed", func(d *memData) error {
		j, ok := d.jobs[id]
		if !ok || j.WarrantyClaimStatus != models.ClaimStatusNone {
			return nil
		}
		j.WarrantyClaimStatus = models.ClaimStatusClaimed
		d.jobs[id] = j
		changed = true
		return nil
	})
	return changed, err
}

type memClaims struct{ s *memStore }

func (r memClaims) Create(ctx context.Context, c *models.WarrantyClaim) error {
	return r.s.do("claims.Create", func(d *memData) error {
		if _, ok := d.claims[c.JobID]; ok {
			return errUniqueViolation
		}
		d.claims[c.JobID] = *c
		return nil
	})
}

func (r memClaims) GetByJobID(ctx context.Context, jobID uuid.UUID) (*models.WarrantyClaim, error) {
	var out *models.WarrantyClaim
	err := r.s.do("claims.GetByJobID", func(d *memData) error {
		c, ok := d.claims[jobID]
		if !ok {
			return pgx.ErrNoRows
		}
		out = &c
		return nil
	})
	return out, err
}
