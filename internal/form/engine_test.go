package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dunyajewellery/catalogbot/core/telegram/state"
	"github.com/dunyajewellery/catalogbot/internal/catalog"
	"github.com/dunyajewellery/catalogbot/internal/validate"
)

const (
	adminID  int64 = 100
	clientID int64 = 200
)

type fakeProducts struct {
	mu        sync.Mutex
	items     map[int64]catalog.Product
	nextID    int64
	creates   int
	updates   int
	updateErr error
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{items: map[int64]catalog.Product{}, nextID: 1}
}

func (f *fakeProducts) Create(_ context.Context, p *catalog.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	p.ID = f.nextID
	f.nextID++
	f.items[p.ID] = p.Clone()
	return nil
}

func (f *fakeProducts) FindByID(_ context.Context, id int64) (*catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	out := p.Clone()
	return &out, nil
}

func (f *fakeProducts) Update(_ context.Context, p *catalog.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.items[p.ID]; !ok {
		return catalog.ErrNotFound
	}
	f.items[p.ID] = p.Clone()
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeProducts) List(context.Context, bool) ([]catalog.Product, error) { return nil, nil }

func (f *fakeProducts) SetActive(context.Context, int64, bool) error { return nil }

func (f *fakeProducts) writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates + f.updates
}

type fakeContacts struct {
	mu      sync.Mutex
	items   map[int64]catalog.Contact
	nextID  int64
	creates int
	updates int
}

func newFakeContacts() *fakeContacts {
	return &fakeContacts{items: map[int64]catalog.Contact{}, nextID: 1}
}

func (f *fakeContacts) Create(_ context.Context, c *catalog.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	c.ID = f.nextID
	f.nextID++
	f.items[c.ID] = c.Clone()
	return nil
}

func (f *fakeContacts) FindByID(_ context.Context, id int64) (*catalog.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	out := c.Clone()
	return &out, nil
}

func (f *fakeContacts) Update(_ context.Context, c *catalog.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if _, ok := f.items[c.ID]; !ok {
		return catalog.ErrNotFound
	}
	f.items[c.ID] = c.Clone()
	return nil
}

func (f *fakeContacts) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

func (f *fakeContacts) List(context.Context) ([]catalog.Contact, error) { return nil, nil }

func (f *fakeContacts) Primary(context.Context) (*catalog.Contact, error) {
	return nil, catalog.ErrNotFound
}

func (f *fakeContacts) Count(context.Context) (int, error) { return len(f.items), nil }

type harness struct {
	engine   *Engine
	store    *state.Memory[*Session]
	products *fakeProducts
	contacts *fakeContacts
}

func newHarness(t *testing.T, mutate ...func(*Options)) *harness {
	t.Helper()
	h := &harness{
		store:    state.NewMemory[*Session](state.MemoryOptions{}),
		products: newFakeProducts(),
		contacts: newFakeContacts(),
	}
	opts := Options{
		Store:    h.store,
		Products: h.products,
		Contacts: h.contacts,
		IsAdmin:  func(id int64) bool { return id == adminID },
		Now:      func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	}
	for _, m := range mutate {
		m(&opts)
	}
	e, err := New(opts)
	require.NoError(t, err)
	h.engine = e
	return h
}

func (h *harness) step(t *testing.T) Field {
	t.Helper()
	sess, ok := h.engine.Current(adminID)
	require.True(t, ok, "expected an active session")
	return sess.Step()
}

func strPtr(s string) *string { return &s }

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestCreateProductScenario(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	r, err := h.engine.StartCreateProduct(ctx, adminID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeStarted, r.Outcome)
	require.NotNil(t, r.Prompt)
	assert.Equal(t, FieldTitle, r.Prompt.Field)
	assert.False(t, r.Prompt.HasCurrent)

	r = h.engine.Handle(ctx, adminID, Text("Gold Ring"))
	assert.Equal(t, OutcomeAdvanced, r.Outcome)
	assert.Equal(t, FieldDescription, r.Prompt.Field)

	r = h.engine.Handle(ctx, adminID, Text(""))
	assert.Equal(t, OutcomeAdvanced, r.Outcome)
	assert.Equal(t, FieldSizes, r.Prompt.Field)

	r = h.engine.Handle(ctx, adminID, Text("17, 16.5"))
	assert.Equal(t, OutcomeAdvanced, r.Outcome)
	assert.Equal(t, FieldImages, r.Prompt.Field)

	r = h.engine.Handle(ctx, adminID, Photo("AgAD-1"))
	assert.Equal(t, OutcomeCollected, r.Outcome)
	assert.Equal(t, 1, r.ImageCount)
	assert.False(t, r.Replaced)

	r = h.engine.Handle(ctx, adminID, Photo("AgAD-2"))
	assert.Equal(t, 2, r.ImageCount)
	assert.Equal(t, 0, h.products.writes(), "nothing is written before the terminal step")

	r = h.engine.Handle(ctx, adminID, Text("Tayyor"))
	require.Equal(t, OutcomeCommitted, r.Outcome)
	assert.True(t, r.Created)
	require.NotNil(t, r.Product)

	got, err := h.products.FindByID(ctx, r.Product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gold Ring", got.Title)
	assert.Nil(t, got.Description)
	assert.Equal(t, []float64{16.5, 17}, got.Sizes)
	assert.Equal(t, []string{"AgAD-1", "AgAD-2"}, got.ImageIDs)
	assert.True(t, got.IsActive)

	assert.False(t, h.engine.Active(adminID))
	assert.Equal(t, 1, h.products.creates)
}

func TestCreateProductWithoutImages(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.engine.StartCreateProduct(ctx, adminID)
	require.NoError(t, err)
	h.engine.Handle(ctx, adminID, Text("Ring"))
	h.engine.Handle(ctx, adminID, Text("Silver"))
	h.engine.Handle(ctx, adminID, Text(""))

	r := h.engine.Handle(ctx, adminID, Text("done"))
	require.Equal(t, OutcomeCommitted, r.Outcome)
	assert.Empty(t, r.Product.ImageIDs)
	assert.Empty(t, r.Product.Sizes)
	require.NotNil(t, r.Product.Description)
	assert.Equal(t, "Silver", *r.Product.Description)
}

func TestNonAdminCannotStart(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.engine.StartCreateProduct(ctx, clientID)
	assert.ErrorIs(t, err, ErrAccessDenied)
	_, err = h.engine.StartCreateContact(ctx, clientID)
	assert.ErrorIs(t, err, ErrAccessDenied)
	_, err = h.engine.StartEditContactField(ctx, clientID, 1, FieldPhones)
	assert.ErrorIs(t, err, ErrAccessDenied)

	assert.False(t, h.engine.Active(clientID))
	assert.Equal(t, 0, h.store.Len())

	r := h.engine.Handle(ctx, clientID, Text("Gold Ring"))
	assert.Equal(t, OutcomeIgnored, r.Outcome)
	assert.Equal(t, 0, h.products.writes())
}

func TestRejectedInputKeepsStep(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.engine.StartCreateProduct(ctx, adminID)
	require.NoError(t, err)

	r := h.engine.Handle(ctx, adminID, Text("x"))
	assert.Equal(t, OutcomeRejected, r.Outcome)
	assert.ErrorIs(t, r.Err, ErrTitleTooShort)
	assert.Equal(t, FieldTitle, h.step(t))

	h.engine.Handle(ctx, adminID, Text("Ring"))
	h.engine.Handle(ctx, adminID, Text("-"))

	sess, ok := h.engine.Current(adminID)
	require.True(t, ok)
	flow := sess.Flow.(*ProductFlow)
	before := flow.Draft
	before.Sizes = append([]float64(nil), flow.Draft.Sizes...)

	r = h.engine.Handle(ctx, adminID, Text("16, abc"))
	assert.Equal(t, OutcomeRejected, r.Outcome)
	var sizeErr *validate.SizeError
	require.True(t, errors.As(r.Err, &sizeErr))
	assert.Equal(t, FieldSizes, h.step(t))

	r = h.engine.Handle(ctx, adminID, Text("5000"))
	assert.Equal(t, OutcomeRejected, r.Outcome)
	assert.Equal(t, FieldSizes, h.step(t))

	r = h.engine.Handle(ctx, adminID, Text("17, NaN"))
	assert.Equal(t, OutcomeRejected, r.Outcome)

	sess, ok = h.engine.Current(adminID)
	require.True(t, ok)
	assert.Equal(t, before, sess.Flow.(*ProductFlow).Draft)
	assert.Equal(t, "Ring", before.Title)

	r = h.engine.Handle(ctx, adminID, Photo("AgAD-1"))
	assert.ErrorIs(t, r.Err, ErrTextExpected)
	assert.Equal(t, FieldSizes, h.step(t))

	h.engine.Handle(ctx, adminID, Text("17"))
	r = h.engine.Handle(ctx, adminID, Text("hello"))
	assert.ErrorIs(t, r.Err, ErrPhotoExpected)
	assert.Equal(t, FieldImages, h.step(t))

	assert.Equal(t, 0, h.products.writes())
}

func TestUserLocksAreReleased(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	r := h.engine.Handle(ctx, 555, Text("hello"))
	assert.Equal(t, OutcomeIgnored, r.Outcome)
	assert.False(t, h.engine.Cancel(ctx, 555))

	_, err := h.engine.StartCreateProduct(ctx, adminID)
	require.NoError(t, err)
	h.engine.Handle(ctx, adminID, Text("Ring"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.engine.Active(adminID)
			h.engine.Handle(ctx, int64(1000+i), Text("x"))
		}()
	}
	wg.Wait()

	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	assert.Empty(t, h.engine.locks)
}

func TestKeepIsRejectedWhileCreating(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.engine.StartCreateProduct(ctx, adminID)
	require.NoError(t, err)

	r := h.engine.Handle(ctx, adminID, Keep())
	assert.Equal(t, OutcomeRejected, r.Outcome)
	assert.ErrorIs(t, r.Err, ErrKeepUnavailable)
	assert.Equal(t, FieldTitle, h.step(t))
}

func seedProduct(t *testing.T, h *harness) *catalog.Product {
	t.Helper()
	p := &catalog.Product{
		Title:       "Gold Ring",
		Description: strPtr("18k"),
		Sizes:       []float64{16.5, 17},
		ImageIDs:    []string{"old-1", "old-2"},
		IsActive:    false,
	}
	require.NoError(t, h.products.Create(context.Background(), p))
	h.products.creates = 0
	return p
}

func TestEditProductKeepsUntouchedFields(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	p := seedProduct(t, h)

	r, err := h.engine.StartEditProduct(ctx, adminID, p.ID)
	require.NoError(t, err)
	assert.True(t, r.Prompt.HasCurrent)
	assert.Equal(t, "Gold Ring", r.Prompt.Current)

	r = h.engine.Handle(ctx, adminID, Keep())
	assert.Equal(t, OutcomeAdvanced, r.Outcome)
	assert.Equal(t, "18k", r.Prompt.Current)

	r = h.engine.Handle(ctx, adminID, Text("White gold"))
	assert.Equal(t, "16.5, 17", r.Prompt.Current)

	r = h.engine.Handle(ctx, adminID, Keep())
	assert.Equal(t, FieldImages, r.Prompt.Field)
	assert.Equal(t, 2, r.Prompt.ImageCount)

	r = h.engine.Handle(ctx, adminID, Text("tayyor"))
	require.Equal(t, OutcomeCommitted, r.Outcome)
	assert.False(t, r.Created)

	got, err := h.products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gold Ring", got.Title)
	assert.Equal(t, "White gold", *got.Description)
	assert.Equal(t, []float64{16.5, 17}, got.Sizes)
	assert.Equal(t, []string{"old-1", "old-2"}, got.ImageIDs)
	assert.False(t, got.IsActive, "edits keep the active flag")
	assert.Equal(t, 0, h.products.creates)
}

func TestEditProductFirstPhotoReplacesImages(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	p := seedProduct(t, h)

	_, err := h.engine.StartEditProduct(ctx, adminID, p.ID)
	require.NoError(t, err)
	for range 3 {
		h.engine.Handle(ctx, adminID, Keep())
	}
	require.Equal(t, FieldImages, h.step(t))

	r := h.engine.Handle(ctx, adminID, Photo("new-1"))
	assert.Equal(t, OutcomeCollected, r.Outcome)
	assert.True(t, r.Replaced)
	assert.Equal(t, 1, r.ImageCount)

	r = h.engine.Handle(ctx, adminID, Photo("new-2"))
	assert.False(t, r.Replaced)
	assert.Equal(t, 2, r.ImageCount)

	r = h.engine.Handle(ctx, adminID, Text("ГОТОВО"))
	require.Equal(t, OutcomeCommitted, r.Outcome)

	got, err := h.products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"new-1", "new-2"}, got.ImageIDs)
}

func TestStartEditMissingProduct(t *testing.T) {
	h := newHarness(t)

	_, err := h.engine.StartEditProduct(context.Background(), adminID, 42)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.False(t, h.engine.Active(adminID))
}

func TestCommitNotFoundClearsSession(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	p := seedProduct(t, h)

	_, err := h.engine.StartEditProduct(ctx, adminID, p.ID)
	require.NoError(t, err)
	require.NoError(t, h.products.Delete(ctx, p.ID))

	for range 3 {
		h.engine.Handle(ctx, adminID, Keep())
	}
	r := h.engine.Handle(ctx, adminID, Keep())
	assert.Equal(t, OutcomeNotFound, r.Outcome)
	assert.ErrorIs(t, r.Err, catalog.ErrNotFound)
	assert.False(t, h.engine.Active(adminID))
}

func TestCommitFailureRetainsSession(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	p := seedProduct(t, h)
	h.products.updateErr = errors.New("disk full")

	_, err := h.engine.StartEditProduct(ctx, adminID, p.ID)
	require.NoError(t, err)
	for range 3 {
		h.engine.Handle(ctx, adminID, Keep())
	}
	r := h.engine.Handle(ctx, adminID, Text("tayyor"))
	assert.Equal(t, OutcomeFailed, r.Outcome)
	assert.EqualError(t, r.Err, "disk full")
	assert.Equal(t, FieldImages, h.step(t))

	h.products.updateErr = nil
	r = h.engine.Handle(ctx, adminID, Text("tayyor"))
	assert.Equal(t, OutcomeCommitted, r.Outcome)
}

func TestCommitFailureClearsSessionWhenConfigured(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, func(o *Options) { o.ClearOnCommitFailure = true })
	p := seedProduct(t, h)
	h.products.updateErr = errors.New("disk full")

	_, err := h.engine.StartEditProduct(ctx, adminID, p.ID)
	require.NoError(t, err)
	for range 4 {
		h.engine.Handle(ctx, adminID, Keep())
	}
	assert.False(t, h.engine.Active(adminID))
}

func TestCreateContactFlow(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	r, err := h.engine.StartCreateContact(ctx, adminID)
	require.NoError(t, err)
	assert.Equal(t, FieldLabel, r.Prompt.Field)

	r = h.engine.Handle(ctx, adminID, Text("  "))
	assert.ErrorIs(t, r.Err, ErrLabelRequired)

	h.engine.Handle(ctx, adminID, Text("Filial"))
	r = h.engine.Handle(ctx, adminID, Text("@dunya_shop"))
	assert.Equal(t, FieldPhones, r.Prompt.Field)

	r = h.engine.Handle(ctx, adminID, Text("+998 90 123-45-67, +99890123"))
	assert.Equal(t, OutcomeRejected, r.Outcome)
	var phoneErr *validate.PhoneError
	require.True(t, errors.As(r.Err, &phoneErr))
	assert.Equal(t, []string{"+99890123"}, phoneErr.Invalid)
	assert.Equal(t, FieldPhones, h.step(t))

	h.engine.Handle(ctx, adminID, Text("+998 90 123-45-67"))
	r = h.engine.Handle(ctx, adminID, Text(""))
	require.Equal(t, OutcomeCommitted, r.Outcome)
	assert.True(t, r.Created)

	c := r.Contact
	assert.Equal(t, "Filial", c.Label)
	require.NotNil(t, c.TelegramUsername)
	assert.Equal(t, "dunya_shop", *c.TelegramUsername)
	assert.Equal(t, []string{"+998901234567"}, c.PhoneNumbers)
	assert.Nil(t, c.InstagramUsername)
	assert.True(t, c.IsActive)
}

func TestEditContactFieldReplacesPhones(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	c := &catalog.Contact{
		Label:            "Asosiy",
		TelegramUsername: strPtr("dunya"),
		PhoneNumbers:     []string{"+998901234567"},
		IsActive:         true,
	}
	require.NoError(t, h.contacts.Create(ctx, c))

	r, err := h.engine.StartEditContactField(ctx, adminID, c.ID, FieldPhones)
	require.NoError(t, err)
	assert.Equal(t, "+998901234567", r.Prompt.Current)

	r = h.engine.Handle(ctx, adminID, Text("+998331112233, +998971112233"))
	require.Equal(t, OutcomeCommitted, r.Outcome)
	assert.False(t, h.engine.Active(adminID))

	got, err := h.contacts.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"+998331112233", "+998971112233"}, got.PhoneNumbers)
	assert.Equal(t, "dunya", *got.TelegramUsername)
}

func TestEditContactFieldClearSentinel(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	c := &catalog.Contact{Label: "Asosiy", InstagramUsername: strPtr("dunya"), IsActive: true}
	require.NoError(t, h.contacts.Create(ctx, c))

	_, err := h.engine.StartEditContactField(ctx, adminID, c.ID, FieldInstagram)
	require.NoError(t, err)
	r := h.engine.Handle(ctx, adminID, Text(" - "))
	require.Equal(t, OutcomeCommitted, r.Outcome)

	got, err := h.contacts.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.InstagramUsername)
}

func TestEditContactFieldRejectsUnknownField(t *testing.T) {
	h := newHarness(t)

	_, err := h.engine.StartEditContactField(context.Background(), adminID, 1, FieldTitle)
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.False(t, h.engine.Active(adminID))
}

func TestStartReplacesExistingSession(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.engine.StartCreateProduct(ctx, adminID)
	require.NoError(t, err)
	h.engine.Handle(ctx, adminID, Text("Ring"))

	_, err = h.engine.StartCreateContact(ctx, adminID)
	require.NoError(t, err)
	sess, ok := h.engine.Current(adminID)
	require.True(t, ok)
	assert.Equal(t, KindCreateContact, sess.Kind)
	assert.Equal(t, FieldLabel, sess.Step())
	assert.Equal(t, 1, h.store.Len())
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	assert.False(t, h.engine.Cancel(ctx, adminID))

	_, err := h.engine.StartCreateProduct(ctx, adminID)
	require.NoError(t, err)
	assert.True(t, h.engine.Cancel(ctx, adminID))
	assert.False(t, h.engine.Active(adminID))

	r := h.engine.Handle(ctx, adminID, Text("Ring"))
	assert.Equal(t, OutcomeIgnored, r.Outcome)
}

func TestConcurrentPhotosAreAllCollected(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.engine.StartCreateProduct(ctx, adminID)
	require.NoError(t, err)
	h.engine.Handle(ctx, adminID, Text("Ring"))
	h.engine.Handle(ctx, adminID, Text(""))
	h.engine.Handle(ctx, adminID, Text(""))

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.engine.Handle(ctx, adminID, Photo(string(rune('a'+i))))
		}()
	}
	wg.Wait()

	r := h.engine.Handle(ctx, adminID, Text("tayyor"))
	require.Equal(t, OutcomeCommitted, r.Outcome)
	assert.Len(t, r.Product.ImageIDs, 10)
}

func TestIsDone(t *testing.T) {
	for _, w := range []string{"tayyor", " TAYYOR ", "done", "тайёр", "Готово"} {
		assert.True(t, IsDone(w), w)
	}
	assert.False(t, IsDone("ready"))
	assert.False(t, IsDone(""))
}
