package feed

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pders01/gifr/internal/debuglog"
)

// DefaultDebounce is the silence required before a typed term is committed.
const DefaultDebounce = 300 * time.Millisecond

// FavoriteStore persists favorite terms. The engine keeps the in-memory set
// authoritative and only logs store failures.
type FavoriteStore interface {
	ListFavorites() ([]string, error)
	AddFavorite(term string) error
	RemoveFavorite(term string) error
}

type Option func(*Engine)

func WithInitialTerm(term string) Option {
	return func(e *Engine) { e.initial = term }
}

func WithDebounce(d time.Duration) Option {
	return func(e *Engine) { e.debounce = d }
}

// WithNormalizer sets the function applied to raw search input before
// debouncing and de-duplication.
func WithNormalizer(fn func(string) string) Option {
	return func(e *Engine) { e.normalize = fn }
}

func WithFavoriteStore(s FavoriteStore) Option {
	return func(e *Engine) { e.favorites = s }
}

// Engine owns the feed session. All state lives in the Run goroutine; the
// exported methods only post events to it.
type Engine struct {
	fetcher   PageFetcher
	favorites FavoriteStore
	initial   string
	debounce  time.Duration
	normalize func(string) string

	events  chan event
	done    chan struct{}
	running atomic.Bool

	mu      sync.Mutex
	subs    map[int]chan ViewModel
	nextSub int
	last    ViewModel
	hasLast bool
	closed  bool
}

func NewEngine(fetcher PageFetcher, opts ...Option) *Engine {
	e := &Engine{
		fetcher:  fetcher,
		debounce: DefaultDebounce,
		events:   make(chan event, 64),
		done:     make(chan struct{}),
		subs:     make(map[int]chan ViewModel),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type event interface{}

type (
	termInput     struct{ text string }
	debounceFired struct{ ticket uint64 }
	nextPage      struct {
		epoch  uint64
		token  string
		signal ScrollSignal
	}
	loadStarted     struct{ id string }
	loadCompleted   struct{ id string }
	settingsToggled struct{ open bool }
	favoriteAdded   struct{}
	favoriteRemoved struct{ term string }
	pageFetched     struct {
		epoch uint64
		page  []MediaItem
	}
)

// SearchTermChanged feeds one raw input value (e.g. per keystroke).
func (e *Engine) SearchTermChanged(text string) { e.post(termInput{text: text}) }

// RequestNextPage advances the cursor past lastItemToken and queues a fetch.
// epoch is the Epoch of the snapshot the token was read from; a request for
// any other session is dropped. signal, if non-nil, is called once that
// fetch completes or the request is dropped.
func (e *Engine) RequestNextPage(epoch uint64, lastItemToken string, signal ScrollSignal) {
	e.post(nextPage{epoch: epoch, token: lastItemToken, signal: signal})
}

func (e *Engine) ItemLoadStarted(id string)   { e.post(loadStarted{id: id}) }
func (e *Engine) ItemLoadCompleted(id string) { e.post(loadCompleted{id: id}) }
func (e *Engine) ToggleSettings(open bool)    { e.post(settingsToggled{open: open}) }
func (e *Engine) FavoriteCurrentTerm()        { e.post(favoriteAdded{}) }
func (e *Engine) RemoveFavorite(term string)  { e.post(favoriteRemoved{term: term}) }

func (e *Engine) post(ev event) {
	select {
	case e.events <- ev:
	case <-e.done:
	}
}

// Subscribe returns a channel of snapshots. The channel holds at most one
// pending snapshot; a newer one replaces an unread older one. The channel is
// closed when Run returns. Call cancel to stop receiving.
func (e *Engine) Subscribe() (<-chan ViewModel, func()) {
	ch := make(chan ViewModel, 1)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.hasLast {
		ch <- e.last
	}
	if e.closed {
		close(ch)
		return ch, func() {}
	}

	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subs, id)
			e.mu.Unlock()
		})
	}
	return ch, cancel
}

// Snapshot returns the most recently published view model.
func (e *Engine) Snapshot() ViewModel {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// session is the state scoped to one committed term.
type session struct {
	epoch      uint64
	term       string
	pagination Pagination
	acc        *Accumulator
	tracker    LoadTracker
	queue      []Pagination
	inFlight   *Pagination
}

func (s *session) fetching() bool {
	return s.inFlight != nil || len(s.queue) > 0
}

// release hands back every completion handle the session still holds.
func (s *session) release() {
	if s == nil {
		return
	}
	if s.inFlight != nil {
		s.inFlight.complete()
		s.inFlight = nil
	}
	for _, p := range s.queue {
		p.complete()
	}
	s.queue = nil
}

type loopState struct {
	query        *Query
	sess         *session
	epoch        uint64
	settingsOpen bool
	favorites    map[string]struct{}
	timer        *time.Timer
}

var ErrAlreadyRunning = errors.New("feed engine already running")

// Run processes events until ctx is done. It commits the initial term
// immediately and returns nil on cancellation.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer e.shutdown()

	st := &loopState{
		query:     NewQuery(e.initial, e.normalize),
		favorites: e.loadFavorites(),
	}

	e.commit(ctx, st, st.query.Start())
	e.publish(st)

	for {
		select {
		case <-ctx.Done():
			if st.timer != nil {
				st.timer.Stop()
			}
			st.sess.release()
			return nil
		case ev := <-e.events:
			if e.handle(ctx, st, ev) {
				e.publish(st)
			}
		}
	}
}

func (e *Engine) shutdown() {
	close(e.done)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	for id, ch := range e.subs {
		close(ch)
		delete(e.subs, id)
	}
}

func (e *Engine) loadFavorites() map[string]struct{} {
	favs := make(map[string]struct{})
	if e.favorites == nil {
		return favs
	}
	terms, err := e.favorites.ListFavorites()
	if err != nil {
		debuglog.Warnf("loading favorites: %v", err)
		return favs
	}
	for _, t := range terms {
		favs[t] = struct{}{}
	}
	return favs
}

// handle applies one event and reports whether the view model changed.
func (e *Engine) handle(ctx context.Context, st *loopState, ev event) bool {
	switch ev := ev.(type) {
	case termInput:
		ticket := st.query.Input(ev.text)
		if st.timer != nil {
			st.timer.Stop()
		}
		st.timer = time.AfterFunc(e.debounce, func() {
			e.post(debounceFired{ticket: ticket})
		})
		return false

	case debounceFired:
		term, ok := st.query.Fire(ev.ticket)
		if !ok {
			return false
		}
		e.commit(ctx, st, term)
		return true

	case nextPage:
		if ev.epoch != st.sess.epoch {
			debuglog.WithFields(map[string]interface{}{
				"stale_epoch": ev.epoch,
				"epoch":       st.sess.epoch,
			}).Debugf("dropping page request past %q", ev.token)
			if ev.signal != nil {
				ev.signal()
			}
			return false
		}
		next := st.sess.pagination.Advance(ev.token, ev.signal)
		e.publishPagination(ctx, st.sess, next)
		return true

	case pageFetched:
		s := st.sess
		if ev.epoch != s.epoch {
			debuglog.WithFields(map[string]interface{}{
				"stale_epoch": ev.epoch,
				"epoch":       s.epoch,
			}).Debugf("discarding page of %d items from abandoned session", len(ev.page))
			return false
		}
		s.acc.Append(ev.page)
		done := s.inFlight
		s.inFlight = nil
		if done != nil {
			done.complete()
		}
		debuglog.WithFields(map[string]interface{}{
			"term":  s.term,
			"epoch": s.epoch,
		}).Debugf("appended %d items, %d total", len(ev.page), s.acc.Len())
		e.startNext(ctx, s)
		return true

	case loadStarted:
		st.sess.tracker = st.sess.tracker.MarkLoading(ev.id)
		return true

	case loadCompleted:
		st.sess.tracker = st.sess.tracker.MarkLoaded(ev.id)
		return true

	case settingsToggled:
		if st.settingsOpen == ev.open {
			return false
		}
		st.settingsOpen = ev.open
		return true

	case favoriteAdded:
		term := st.sess.term
		if _, ok := st.favorites[term]; ok {
			return false
		}
		st.favorites[term] = struct{}{}
		if e.favorites != nil {
			if err := e.favorites.AddFavorite(term); err != nil {
				debuglog.Warnf("saving favorite %q: %v", term, err)
			}
		}
		return true

	case favoriteRemoved:
		if _, ok := st.favorites[ev.term]; !ok {
			return false
		}
		delete(st.favorites, ev.term)
		if e.favorites != nil {
			if err := e.favorites.RemoveFavorite(ev.term); err != nil {
				debuglog.Warnf("removing favorite %q: %v", ev.term, err)
			}
		}
		return true
	}
	return false
}

// commit tears down the current session and starts a new one for term.
func (e *Engine) commit(ctx context.Context, st *loopState, term string) {
	st.sess.release()
	st.epoch++
	st.sess = &session{
		epoch:   st.epoch,
		term:    term,
		acc:     NewAccumulator(),
		tracker: NewLoadTracker(),
	}
	debuglog.WithFields(map[string]interface{}{
		"term":  term,
		"epoch": st.epoch,
	}).Infof("committed search term")
	e.publishPagination(ctx, st.sess, ResetPagination())
}

// publishPagination makes p the session's pagination state and queues
// exactly one fetch for it.
func (e *Engine) publishPagination(ctx context.Context, s *session, p Pagination) {
	s.pagination = p
	s.queue = append(s.queue, p)
	e.startNext(ctx, s)
}

// startNext launches the head of the queue unless a fetch is running.
// Fetches for one session never overlap, which keeps pages in order.
func (e *Engine) startNext(ctx context.Context, s *session) {
	if s.inFlight != nil || len(s.queue) == 0 {
		return
	}
	p := s.queue[0]
	s.queue = s.queue[1:]
	s.inFlight = &p

	epoch, term, after := s.epoch, s.term, p.After
	go func() {
		page := e.fetcher.FetchPage(ctx, term, after)
		e.post(pageFetched{epoch: epoch, page: page})
	}()
}

func (e *Engine) publish(st *loopState) {
	s := st.sess
	vm := Compose(s.acc.Items(), s.tracker, Flags{
		Term:         s.term,
		Epoch:        s.epoch,
		FetchingPage: s.fetching(),
		SettingsOpen: st.settingsOpen,
		Favorites:    st.favorites,
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	e.last = vm
	e.hasLast = true
	for _, ch := range e.subs {
		offer(ch, vm)
	}
}

// offer replaces any unread snapshot in ch with vm.
func offer(ch chan ViewModel, vm ViewModel) {
	select {
	case ch <- vm:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- vm:
	default:
	}
}
