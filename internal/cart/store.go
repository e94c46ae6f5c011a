// Package cart holds the canonical in-memory cart of the logged-in user.
//
// Mutations are optimistic: the Store applies the intended end state before
// the network call and restores the pre-call snapshot if the call fails.
// There is no request ordering beyond "the last completed operation wins":
// two overlapping mutations may leave a stale quantity behind.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/01moynul/bookstore-cart/internal/models"
	"github.com/01moynul/bookstore-cart/internal/notify"
	"github.com/01moynul/bookstore-cart/internal/reconcile"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Status is the loading state of the cart.
type Status string

const (
	StatusEmpty     Status = "empty"
	StatusLoading   Status = "loading"
	StatusPopulated Status = "populated"
)

// Snapshot is a consistent read of the cart. Totals are derived from Items.
type Snapshot struct {
	UserID     string            `json:"userId"`
	Status     Status            `json:"status"`
	Items      []models.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice float64           `json:"totalPrice"`
}

// Deps are the Store's collaborators. Remote, Backup and Reconciler are
// required; the rest have defaults.
type Deps struct {
	Remote     RemoteService
	Backup     BackupStore
	Reconciler Reconciler
	Notifier   notify.Notifier
	Localizer  *notify.Localizer
	Logger     *zap.Logger
	Clock      func() time.Time
}

// Store is the single source of truth for what the current user intends
// to buy.
type Store struct {
	remote     RemoteService
	backup     BackupStore
	reconciler Reconciler
	notifier   notify.Notifier
	localizer  *notify.Localizer
	logger     *zap.Logger
	clock      func() time.Time
	validate   *validator.Validate

	// mu guards the fields below. It is never held across a network call.
	mu          sync.Mutex
	userID      string
	status      Status
	items       []models.CartItem
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

func NewStore(deps Deps) *Store {
	s := &Store{
		remote:      deps.Remote,
		backup:      deps.Backup,
		reconciler:  deps.Reconciler,
		notifier:    deps.Notifier,
		localizer:   deps.Localizer,
		logger:      deps.Logger,
		clock:       deps.Clock,
		validate:    validator.New(),
		status:      StatusEmpty,
		items:       []models.CartItem{},
		subscribers: make(map[int]func(Snapshot)),
	}
	if s.notifier == nil {
		s.notifier = notify.Discard{}
	}
	if s.localizer == nil {
		s.localizer = notify.NewLocalizer("vi")
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	return s
}

// ========================
// session
// ========================

// Login makes userID the cart owner and loads their cart.
func (s *Store) Login(ctx context.Context, userID string) error {
	s.mu.Lock()
	if s.userID != userID {
		s.items = []models.CartItem{}
		s.status = StatusEmpty
	}
	s.userID = userID
	s.mu.Unlock()
	s.publish()

	return s.Refresh(ctx)
}

// Logout empties the cart and discards the user's backup snapshot.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	userID := s.userID
	s.userID = ""
	s.items = []models.CartItem{}
	s.status = StatusEmpty
	s.mu.Unlock()
	s.publish()

	if userID == "" {
		return nil
	}
	if err := s.backup.Delete(ctx, userID); err != nil {
		s.logger.Warn("failed to delete cart backup", zap.String("user_id", userID), zap.Error(err))
	}
	return nil
}

// ========================
// mutations
// ========================

// AddToCart adds quantity units of product (at least one). A product
// already in the cart has its quantity increased instead.
func (s *Store) AddToCart(ctx context.Context, product models.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	userID, items := s.state()
	if userID == "" {
		s.notify(notify.LevelWarning, notify.KeyLoginRequired)
		return ErrAuthRequired
	}

	if err := s.validate.Struct(product); err != nil {
		s.notify(notify.LevelError, notify.KeyInvalidItem)
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}

	if existing, ok := findByProduct(items, product.ID); ok {
		return s.UpdateQuantity(ctx, existing.ID, existing.Quantity+quantity)
	}

	logger := s.logger.With(zap.String("user_id", userID), zap.String("product_id", product.ID))

	payload := models.CartItem{
		ProductID:     product.ID,
		Name:          product.Name,
		Price:         product.Price,
		OriginalPrice: product.OriginalPrice,
		Image:         product.Image,
		Description:   product.Description,
		Category:      product.Category,
		Brand:         product.Brand,
		Quantity:      quantity,
		UserID:        userID,
		AddedAt:       s.clock(),
	}

	row, err := s.remote.Add(ctx, payload)
	if err != nil {
		logger.Error("failed to add cart item", zap.Error(err))
		s.notify(notify.LevelError, notify.KeyAddFailed)
		return err
	}

	created := payload
	created.ID = row.ID.String()
	if err := s.backup.Append(ctx, userID, created); err != nil {
		logger.Warn("failed to write cart backup", zap.Error(err))
	}
	s.notify(notify.LevelSuccess, notify.KeyAdded, product.Name)

	// The create already succeeded; a failed refresh reports itself.
	_ = s.Refresh(ctx)
	return nil
}

// RemoveFromCart removes the item immediately and restores it if the
// remote removal fails.
func (s *Store) RemoveFromCart(ctx context.Context, id string) error {
	userID, before := s.state()
	idx := indexOf(before, id)
	if idx < 0 {
		return ErrItemNotFound
	}

	after := make([]models.CartItem, 0, len(before)-1)
	after = append(after, before[:idx]...)
	after = append(after, before[idx+1:]...)

	s.apply(ctx, userID, after)

	if err := s.remote.Remove(ctx, id); err != nil {
		s.logger.Error("failed to remove cart item, rolling back",
			zap.String("user_id", userID), zap.String("item_id", id), zap.Error(err))
		s.apply(ctx, userID, before)
		s.notify(notify.LevelError, notify.KeyRemoveFailed)
		return err
	}

	s.notify(notify.LevelInfo, notify.KeyRemoved)
	return nil
}

// UpdateQuantity sets the item's quantity; quantity <= 0 removes it.
// The whole item is sent, since the backend replaces rows wholesale.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, id)
	}

	userID, before := s.state()
	idx := indexOf(before, id)
	if idx < 0 {
		return ErrItemNotFound
	}

	after := make([]models.CartItem, len(before))
	copy(after, before)
	after[idx].Quantity = quantity

	s.apply(ctx, userID, after)

	if _, err := s.remote.Update(ctx, id, after[idx]); err != nil {
		s.logger.Error("failed to update cart item, rolling back",
			zap.String("user_id", userID), zap.String("item_id", id), zap.Int("quantity", quantity), zap.Error(err))
		s.apply(ctx, userID, before)
		s.notify(notify.LevelError, notify.KeyUpdateFailed)
		return err
	}
	return nil
}

// ClearCart removes every item remotely, concurrently, then always empties
// the local cart and deletes the backup, whatever the remote outcome. It
// returns ErrClearIncomplete when some remote removals failed.
func (s *Store) ClearCart(ctx context.Context) error {
	userID, items := s.state()

	var (
		g      errgroup.Group
		failed atomic.Int32
	)
	for _, item := range items {
		g.Go(func() error {
			if err := s.remote.Remove(ctx, item.ID); err != nil {
				failed.Add(1)
				s.logger.Warn("failed to remove cart item while clearing",
					zap.String("user_id", userID), zap.String("item_id", item.ID), zap.Error(err))
				return err
			}
			return nil
		})
	}
	firstErr := g.Wait()

	if userID != "" {
		if err := s.backup.Delete(ctx, userID); err != nil {
			s.logger.Warn("failed to delete cart backup", zap.String("user_id", userID), zap.Error(err))
		}
	}
	s.set(userID, []models.CartItem{}, StatusEmpty)

	if n := failed.Load(); n > 0 {
		s.notify(notify.LevelWarning, notify.KeyClearPartial, int(n))
		return errors.Join(fmt.Errorf("%w: %d of %d", ErrClearIncomplete, n, len(items)), firstErr)
	}
	s.notify(notify.LevelSuccess, notify.KeyCleared)
	return nil
}

// Refresh replaces the cart with the server's rows, completed by the
// reconciler. The newest fetch wins; nothing is merged. Without a user
// the cart is simply emptied.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	userID := s.userID
	if userID == "" {
		s.items = []models.CartItem{}
		s.status = StatusEmpty
	} else {
		s.status = StatusLoading
	}
	s.mu.Unlock()
	s.publish()

	if userID == "" {
		return nil
	}

	rows, err := s.remote.GetAll(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load cart", zap.String("user_id", userID), zap.Error(err))
		s.set(userID, []models.CartItem{}, StatusEmpty)
		s.notify(notify.LevelError, notify.KeyLoadFailed)
		return err
	}

	items := s.reconciler.ReconcileAll(ctx, userID, rows)
	if !s.set(userID, items, StatusPopulated) {
		return nil
	}
	s.saveBackup(ctx, userID, items)
	return nil
}

// ========================
// reads
// ========================

func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Items returns a copy of the current items.
func (s *Store) Items() []models.CartItem {
	_, items := s.state()
	return items
}

// TotalItems is the sum of quantities.
func (s *Store) TotalItems() int {
	n, _ := totals(s.Items())
	return n
}

// TotalPrice is the sum of price x quantity.
func (s *Store) TotalPrice() float64 {
	_, p := totals(s.Items())
	return p
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe calls fn with a fresh Snapshot after every state change.
// fn runs on the goroutine that changed the state and must not block.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// ========================
// helpers
// ========================

func (s *Store) state() (string, []models.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]models.CartItem, len(s.items))
	copy(items, s.items)
	return s.userID, items
}

// set replaces the items if userID still owns the cart. It reports
// whether anything was applied.
func (s *Store) set(userID string, items []models.CartItem, status Status) bool {
	s.mu.Lock()
	if s.userID != userID {
		s.mu.Unlock()
		return false
	}
	s.items = items
	s.status = status
	s.mu.Unlock()
	s.publish()
	return true
}

// apply is an optimistic write: memory first, then the backup snapshot.
// A failed backup write is logged and otherwise ignored.
func (s *Store) apply(ctx context.Context, userID string, items []models.CartItem) {
	if !s.set(userID, items, StatusPopulated) {
		return
	}
	s.saveBackup(ctx, userID, items)
}

// saveBackup snapshots items for userID. Placeholder items are left out so
// a later refresh can still complete them from the catalog.
func (s *Store) saveBackup(ctx context.Context, userID string, items []models.CartItem) {
	known := make([]models.CartItem, 0, len(items))
	for _, it := range items {
		if !reconcile.IsPlaceholder(it) {
			known = append(known, it)
		}
	}
	if err := s.backup.Save(ctx, userID, known); err != nil {
		s.logger.Warn("failed to write cart backup", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *Store) publish() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	items := make([]models.CartItem, len(s.items))
	copy(items, s.items)
	n, p := totals(items)
	return Snapshot{
		UserID:     s.userID,
		Status:     s.status,
		Items:      items,
		TotalItems: n,
		TotalPrice: p,
	}
}

func (s *Store) notify(level notify.Level, key string, args ...any) {
	s.notifier.Notify(s.localizer.Notice(level, key, args...))
}

func totals(items []models.CartItem) (int, float64) {
	count := 0
	sum := decimal.Zero
	for _, it := range items {
		count += it.Quantity
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return count, sum.InexactFloat64()
}

func indexOf(items []models.CartItem, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func findByProduct(items []models.CartItem, productID string) (models.CartItem, bool) {
	for _, it := range items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return models.CartItem{}, false
}
