package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dunyajewellery/catalogbot/core/logger"
	"github.com/dunyajewellery/catalogbot/core/telegram/state"
	"github.com/dunyajewellery/catalogbot/internal/catalog"
	"github.com/dunyajewellery/catalogbot/internal/validate"
)

// Options wires the engine's collaborators.
type Options struct {
	Store    state.Store[*Session]
	Products catalog.ProductRepository
	Contacts catalog.ContactRepository
	IsAdmin  func(userID int64) bool

	// ClearOnCommitFailure drops the session when the repository write fails.
	// When false the session stays at its terminal step so the input can be resent.
	ClearOnCommitFailure bool

	Now func() time.Time
}

// Engine runs form workflows. It is safe for concurrent use; inputs of the
// same user are serialized.
type Engine struct {
	opts Options

	mu    sync.Mutex
	locks map[int64]*userLock
}

// userLock is dropped from Engine.locks once its last holder or waiter leaves.
type userLock struct {
	mu   sync.Mutex
	refs int
}

// New validates opts and builds an Engine.
func New(opts Options) (*Engine, error) {
	switch {
	case opts.Store == nil:
		return nil, errors.New("form: nil session store")
	case opts.Products == nil:
		return nil, errors.New("form: nil product repository")
	case opts.Contacts == nil:
		return nil, errors.New("form: nil contact repository")
	case opts.IsAdmin == nil:
		return nil, errors.New("form: nil admin check")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{opts: opts, locks: make(map[int64]*userLock)}, nil
}

func (e *Engine) lock(userID int64) func() {
	e.mu.Lock()
	l, ok := e.locks[userID]
	if !ok {
		l = &userLock{}
		e.locks[userID] = l
	}
	l.refs++
	e.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		e.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(e.locks, userID)
		}
		e.mu.Unlock()
	}
}

// StartCreateProduct begins a new product workflow.
func (e *Engine) StartCreateProduct(ctx context.Context, userID int64) (Reply, error) {
	if !e.opts.IsAdmin(userID) {
		return Reply{}, ErrAccessDenied
	}
	defer e.lock(userID)()

	flow := &ProductFlow{Draft: catalog.Product{IsActive: true}}
	return e.begin(ctx, userID, KindCreateProduct, flow), nil
}

// StartEditProduct begins editing productID. The current record becomes the
// baseline for hints and for fields left untouched.
func (e *Engine) StartEditProduct(ctx context.Context, userID, productID int64) (Reply, error) {
	if !e.opts.IsAdmin(userID) {
		return Reply{}, ErrAccessDenied
	}
	defer e.lock(userID)()

	p, err := e.opts.Products.FindByID(ctx, productID)
	if err != nil {
		return Reply{}, fmt.Errorf("load product %d: %w", productID, err)
	}
	flow := &ProductFlow{Baseline: p, Draft: p.Clone()}
	return e.begin(ctx, userID, KindEditProduct, flow), nil
}

// StartCreateContact begins a new contact workflow.
func (e *Engine) StartCreateContact(ctx context.Context, userID int64) (Reply, error) {
	if !e.opts.IsAdmin(userID) {
		return Reply{}, ErrAccessDenied
	}
	defer e.lock(userID)()

	flow := &ContactFlow{Draft: catalog.Contact{IsActive: true}}
	return e.begin(ctx, userID, KindCreateContact, flow), nil
}

// StartEditContact begins a full edit of contactID.
func (e *Engine) StartEditContact(ctx context.Context, userID, contactID int64) (Reply, error) {
	if !e.opts.IsAdmin(userID) {
		return Reply{}, ErrAccessDenied
	}
	defer e.lock(userID)()

	c, err := e.opts.Contacts.FindByID(ctx, contactID)
	if err != nil {
		return Reply{}, fmt.Errorf("load contact %d: %w", contactID, err)
	}
	flow := &ContactFlow{Baseline: c, Draft: c.Clone()}
	return e.begin(ctx, userID, KindEditContact, flow), nil
}

// StartEditContactField begins a one-step edit of a contact's telegram,
// phones or instagram field.
func (e *Engine) StartEditContactField(ctx context.Context, userID, contactID int64, field Field) (Reply, error) {
	if !e.opts.IsAdmin(userID) {
		return Reply{}, ErrAccessDenied
	}
	switch field {
	case FieldTelegram, FieldPhones, FieldInstagram:
	default:
		return Reply{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	defer e.lock(userID)()

	c, err := e.opts.Contacts.FindByID(ctx, contactID)
	if err != nil {
		return Reply{}, fmt.Errorf("load contact %d: %w", contactID, err)
	}
	flow := &ContactFieldFlow{Field: field, Baseline: *c}
	return e.begin(ctx, userID, KindEditContactField, flow), nil
}

// begin replaces any session the user had with a fresh one.
func (e *Engine) begin(ctx context.Context, userID int64, kind Kind, flow Flow) Reply {
	sess := &Session{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      kind,
		StartedAt: e.opts.Now(),
		Flow:      flow,
	}
	_, replaced := e.opts.Store.Get(userID)
	e.opts.Store.Set(userID, sess)

	sessionsStarted.WithLabelValues(string(kind)).Inc()
	logger.Info(ctx, logger.ComponentForm, "session.start",
		slog.String("session_id", sess.ID.String()),
		slog.String("kind", string(kind)),
		slog.String("step", string(sess.Step())),
		slog.Bool("replaced", replaced),
	)
	return Reply{Outcome: OutcomeStarted, Kind: kind, Prompt: e.prompt(sess)}
}

// Cancel drops the user's session and reports whether one existed.
func (e *Engine) Cancel(ctx context.Context, userID int64) bool {
	defer e.lock(userID)()
	sess, ok := e.opts.Store.Get(userID)
	if !ok {
		return false
	}
	e.opts.Store.Clear(userID)
	logger.Info(ctx, logger.ComponentForm, "session.cancel",
		slog.String("session_id", sess.ID.String()),
		slog.String("kind", string(sess.Kind)),
		slog.String("step", string(sess.Step())),
	)
	return true
}

// Active reports whether the user is mid-workflow.
func (e *Engine) Active(userID int64) bool {
	_, ok := e.opts.Store.Get(userID)
	return ok
}

// Current returns the user's session, if any.
func (e *Engine) Current(userID int64) (*Session, bool) {
	return e.opts.Store.Get(userID)
}

// Handle feeds one input to the user's session.
func (e *Engine) Handle(ctx context.Context, userID int64, in Input) Reply {
	defer e.lock(userID)()

	sess, ok := e.opts.Store.Get(userID)
	if !ok {
		return Reply{Outcome: OutcomeIgnored}
	}

	var r Reply
	switch f := sess.Flow.(type) {
	case *ProductFlow:
		r = e.handleProduct(ctx, sess, f, in)
	case *ContactFlow:
		r = e.handleContact(ctx, sess, f, in)
	case *ContactFieldFlow:
		r = e.handleContactField(ctx, sess, f, in)
	default:
		e.opts.Store.Clear(userID)
		return Reply{Outcome: OutcomeFailed, Kind: sess.Kind, Err: fmt.Errorf("form: unsupported flow %T", f)}
	}
	r.Kind = sess.Kind

	inputsTotal.WithLabelValues(string(sess.Kind), r.Outcome.String()).Inc()
	attrs := []slog.Attr{
		slog.String("session_id", sess.ID.String()),
		slog.String("kind", string(sess.Kind)),
		slog.String("step", string(sess.Step())),
		slog.String("outcome", r.Outcome.String()),
	}
	if r.Err != nil {
		attrs = append(attrs, slog.String("err", logger.SanitizeLimit(r.Err.Error(), 256)))
	}
	logger.Debug(ctx, logger.ComponentForm, "input.handled", attrs...)
	return r
}

func (e *Engine) handleProduct(ctx context.Context, sess *Session, f *ProductFlow, in Input) Reply {
	field := f.step()

	if in.Kind == InputKeep {
		if f.Baseline == nil {
			return e.reject(sess, ErrKeepUnavailable)
		}
		if field == FieldImages {
			return e.commitProduct(ctx, sess, f)
		}
		// Draft already holds the baseline value for this field.
		return e.advance(sess, &f.Index, len(productSteps))
	}

	if field == FieldImages {
		switch in.Kind {
		case InputPhoto:
			return e.collectPhoto(sess, f, in.PhotoID)
		case InputText:
			if IsDone(in.Text) {
				return e.commitProduct(ctx, sess, f)
			}
		}
		return e.reject(sess, ErrPhotoExpected)
	}

	if in.Kind != InputText {
		return e.reject(sess, ErrTextExpected)
	}
	text := strings.TrimSpace(in.Text)

	switch field {
	case FieldTitle:
		if len([]rune(text)) < 2 {
			return e.reject(sess, ErrTitleTooShort)
		}
		f.Draft.Title = text
	case FieldDescription:
		if text == "" || text == clearSentinel {
			f.Draft.Description = nil
		} else {
			f.Draft.Description = &text
		}
	case FieldSizes:
		sizes, err := validate.ParseSizes(text)
		if err != nil {
			return e.reject(sess, err)
		}
		f.Draft.Sizes = sizes
	}
	return e.advance(sess, &f.Index, len(productSteps))
}

func (e *Engine) collectPhoto(sess *Session, f *ProductFlow, fileID string) Reply {
	if strings.TrimSpace(fileID) == "" {
		return e.reject(sess, ErrPhotoExpected)
	}
	replaced := false
	if f.Baseline != nil && !f.ImagesReplaced {
		f.Draft.ImageIDs = nil
		f.ImagesReplaced = true
		replaced = true
	}
	f.Draft.ImageIDs = append(f.Draft.ImageIDs, fileID)
	e.opts.Store.Set(sess.UserID, sess)
	return Reply{Outcome: OutcomeCollected, ImageCount: len(f.Draft.ImageIDs), Replaced: replaced}
}

func (e *Engine) handleContact(ctx context.Context, sess *Session, f *ContactFlow, in Input) Reply {
	field := f.step()
	last := f.Index == len(contactSteps)-1

	switch in.Kind {
	case InputKeep:
		if f.Baseline == nil {
			return e.reject(sess, ErrKeepUnavailable)
		}
	case InputText:
		if err := applyContactField(&f.Draft, field, in.Text); err != nil {
			return e.reject(sess, err)
		}
	default:
		return e.reject(sess, ErrTextExpected)
	}

	if last {
		return e.commitContact(ctx, sess, f.Draft, f.Baseline == nil)
	}
	return e.advance(sess, &f.Index, len(contactSteps))
}

func (e *Engine) handleContactField(ctx context.Context, sess *Session, f *ContactFieldFlow, in Input) Reply {
	draft := f.Baseline.Clone()
	switch in.Kind {
	case InputKeep:
	case InputText:
		if err := applyContactField(&draft, f.Field, in.Text); err != nil {
			return e.reject(sess, err)
		}
	default:
		return e.reject(sess, ErrTextExpected)
	}
	return e.commitContact(ctx, sess, draft, false)
}

// applyContactField validates text for field and stores it on c. The clear
// sentinel empties the optional fields.
func applyContactField(c *catalog.Contact, field Field, text string) error {
	if field != FieldLabel && strings.TrimSpace(text) == clearSentinel {
		text = ""
	}
	switch field {
	case FieldLabel:
		label := strings.TrimSpace(text)
		if label == "" {
			return ErrLabelRequired
		}
		c.Label = label
	case FieldTelegram:
		c.TelegramUsername = validate.NormalizeHandle(text)
	case FieldInstagram:
		c.InstagramUsername = validate.NormalizeHandle(text)
	case FieldPhones:
		phones, err := validate.ParsePhones(text)
		if err != nil {
			return err
		}
		c.PhoneNumbers = phones
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func (e *Engine) advance(sess *Session, index *int, steps int) Reply {
	if *index < steps-1 {
		*index++
	}
	e.opts.Store.Set(sess.UserID, sess)
	return Reply{Outcome: OutcomeAdvanced, Prompt: e.prompt(sess)}
}

func (e *Engine) reject(sess *Session, err error) Reply {
	// Refresh the idle clock without touching collected values.
	e.opts.Store.Set(sess.UserID, sess)
	return Reply{Outcome: OutcomeRejected, Err: err, Prompt: e.prompt(sess)}
}

func (e *Engine) commitProduct(ctx context.Context, sess *Session, f *ProductFlow) Reply {
	p := f.Draft.Clone()
	var err error
	if f.Baseline == nil {
		p.IsActive = true
		err = e.opts.Products.Create(ctx, &p)
	} else {
		p.ID = f.Baseline.ID
		err = e.opts.Products.Update(ctx, &p)
	}
	if r, failed := e.commitFailed(ctx, sess, err); failed {
		return r
	}
	e.finish(ctx, sess, p.ID)
	return Reply{Outcome: OutcomeCommitted, Product: &p, Created: f.Baseline == nil, ImageCount: len(p.ImageIDs)}
}

func (e *Engine) commitContact(ctx context.Context, sess *Session, draft catalog.Contact, create bool) Reply {
	c := draft.Clone()
	var err error
	if create {
		c.IsActive = true
		err = e.opts.Contacts.Create(ctx, &c)
	} else {
		err = e.opts.Contacts.Update(ctx, &c)
	}
	if r, failed := e.commitFailed(ctx, sess, err); failed {
		return r
	}
	e.finish(ctx, sess, c.ID)
	return Reply{Outcome: OutcomeCommitted, Contact: &c, Created: create}
}

func (e *Engine) commitFailed(ctx context.Context, sess *Session, err error) (Reply, bool) {
	if err == nil {
		return Reply{}, false
	}
	attrs := []slog.Attr{
		slog.String("session_id", sess.ID.String()),
		slog.String("kind", string(sess.Kind)),
		slog.String("err", err.Error()),
	}
	if errors.Is(err, catalog.ErrNotFound) {
		e.opts.Store.Clear(sess.UserID)
		commitsTotal.WithLabelValues(string(sess.Kind), "not_found").Inc()
		logger.Warn(ctx, logger.ComponentForm, "commit.not_found", attrs...)
		return Reply{Outcome: OutcomeNotFound, Err: err}, true
	}

	if e.opts.ClearOnCommitFailure {
		e.opts.Store.Clear(sess.UserID)
	} else {
		e.opts.Store.Set(sess.UserID, sess)
	}
	commitsTotal.WithLabelValues(string(sess.Kind), "error").Inc()
	attrs = append(attrs, slog.Bool("session_kept", !e.opts.ClearOnCommitFailure))
	logger.Error(ctx, logger.ComponentForm, "commit.failed", attrs...)
	return Reply{Outcome: OutcomeFailed, Err: err}, true
}

func (e *Engine) finish(ctx context.Context, sess *Session, recordID int64) {
	e.opts.Store.Clear(sess.UserID)
	commitsTotal.WithLabelValues(string(sess.Kind), "ok").Inc()
	logger.Info(ctx, logger.ComponentForm, "commit.ok",
		slog.String("session_id", sess.ID.String()),
		slog.String("kind", string(sess.Kind)),
		slog.Int64("record_id", recordID),
		slog.Duration("duration", e.opts.Now().Sub(sess.StartedAt)),
	)
}

func (e *Engine) prompt(sess *Session) *Prompt {
	p := &Prompt{UserID: sess.UserID, Kind: sess.Kind, Field: sess.Step()}
	switch f := sess.Flow.(type) {
	case *ProductFlow:
		if f.Baseline != nil {
			fillProductCurrent(p, f.Baseline)
		}
	case *ContactFlow:
		if f.Baseline != nil {
			fillContactCurrent(p, f.Baseline)
		}
	case *ContactFieldFlow:
		fillContactCurrent(p, &f.Baseline)
	}
	return p
}

func fillProductCurrent(p *Prompt, b *catalog.Product) {
	switch p.Field {
	case FieldTitle:
		p.Current = b.Title
	case FieldDescription:
		if b.Description != nil {
			p.Current = *b.Description
		}
	case FieldSizes:
		p.Current = validate.FormatSizes(b.Sizes)
	case FieldImages:
		p.ImageCount = len(b.ImageIDs)
	}
	p.HasCurrent = p.Current != "" || p.Field == FieldImages
}

func fillContactCurrent(p *Prompt, b *catalog.Contact) {
	switch p.Field {
	case FieldLabel:
		p.Current = b.Label
	case FieldTelegram:
		if b.TelegramUsername != nil {
			p.Current = "@" + *b.TelegramUsername
		}
	case FieldPhones:
		p.Current = strings.Join(b.PhoneNumbers, ", ")
	case FieldInstagram:
		if b.InstagramUsername != nil {
			p.Current = *b.InstagramUsername
		}
	}
	p.HasCurrent = p.Current != ""
}

// clearSentinel empties an optional field.
const clearSentinel = "-"

var doneWords = map[string]struct{}{
	"tayyor": {},
	"done":   {},
	"тайёр":  {},
	"готово": {},
}

// IsDone reports whether text is one of the words that finish the images step.
func IsDone(text string) bool {
	_, ok := doneWords[strings.ToLower(strings.TrimSpace(text))]
	return ok
}
