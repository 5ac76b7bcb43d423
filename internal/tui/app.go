package tui

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/gifr/internal/config"
	"github.com/pders01/gifr/internal/debuglog"
	"github.com/pders01/gifr/internal/feed"
	"github.com/pders01/gifr/internal/media"
	"github.com/pders01/gifr/internal/search"
)

const (
	defaultFilterDebounce = 150 * time.Millisecond
	// favorites bar, separator and status bar
	chromeLines = 3
	inputLines  = 4
)

// Feed is the part of the feed engine the UI drives. Every method only
// records an intent; results arrive as snapshots on the subscription.
type Feed interface {
	SearchTermChanged(text string)
	RequestNextPage(epoch uint64, lastItemToken string, signal feed.ScrollSignal)
	ItemLoadStarted(id string)
	ItemLoadCompleted(id string)
	ToggleSettings(open bool)
	FavoriteCurrentTerm()
	RemoveFavorite(term string)
	Subscribe() (<-chan feed.ViewModel, func())
}

// Opener starts external playback of a source URL.
type Opener interface {
	Open(url string) error
	Player() string
}

// Prober checks that a source URL is reachable.
type Prober interface {
	Probe(ctx context.Context, url string) error
}

type Option func(*App)

func WithLauncher(o Opener) Option {
	return func(a *App) { a.launcher = o }
}

func WithProber(p Prober) Option {
	return func(a *App) { a.prober = p }
}

// WithSearcher sets the index used by the filter view. A nil searcher
// disables filtering.
func WithSearcher(s search.Searcher) Option {
	return func(a *App) {
		a.index = s
		a.indexSet = true
	}
}

type App struct {
	config     *config.Config
	engine     Feed
	launcher   Opener
	prober     Prober
	index      search.Searcher
	indexSet   bool
	keyHandler *KeyHandler

	list        list.Model
	searchInput textinput.Model
	filterInput textinput.Model
	viewport    viewport.Model
	spinner     spinner.Model
	help        help.Model
	spinning    bool

	view         View
	previousView View

	vm          feed.ViewModel
	snaps       <-chan feed.ViewModel
	unsubscribe func()

	indexedEpoch uint64
	indexedCount int
	filterIDs    map[string]struct{}
	filterSeq    int
	filterWait   time.Duration

	pagePending    bool
	probing        map[string]bool
	settingsCursor int
	detailID       string

	status     string
	statusKind StatusKind
	err        error

	width           int
	height          int
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
	randIntn        func(int) int
}

func NewApp(cfg *config.Config, engine Feed, opts ...Option) *App {
	mediaList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	mediaList.Title = "› r/" + cfg.Feed.Subreddit
	mediaList.SetShowStatusBar(false)
	mediaList.SetFilteringEnabled(false)
	mediaList.SetShowHelp(false)
	mediaList.KeyMap.Quit.SetEnabled(false)

	si := textinput.New()
	si.Placeholder = "subreddit, r/name or reddit URL..."
	si.CharLimit = 128

	fi := textinput.New()
	fi.Placeholder = "Filter loaded items..."

	app := &App{
		config:      cfg,
		engine:      engine,
		list:        mediaList,
		searchInput: si,
		filterInput: fi,
		viewport:    viewport.New(0, 0),
		spinner:     spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		help:        help.New(),
		view:        ViewFeed,
		filterWait:  defaultFilterDebounce,
		probing:     make(map[string]bool),
		randIntn:    rand.Intn,
		vm:          feed.ViewModel{Term: cfg.Feed.Subreddit},
	}

	for _, opt := range opts {
		opt(app)
	}
	if app.launcher == nil {
		app.launcher = media.NewLauncher(cfg)
	}
	if app.prober == nil {
		app.prober = media.NewProber(cfg.Feed.HTTPTimeout, cfg.Feed.UserAgent)
	}
	if !app.indexSet {
		idx, err := search.NewItemIndex()
		if err != nil {
			debuglog.Warnf("filter index unavailable: %v", err)
		} else {
			app.index = idx
		}
	}

	app.snaps, app.unsubscribe = engine.Subscribe()
	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

// Close detaches the app from the engine.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if c, ok := a.index.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > 100 {
		wordWrapWidth = 100
	}
	if wordWrapWidth < 40 {
		wordWrapWidth = 40
	}
	if a.width < 50 {
		wordWrapWidth = max(a.width-4, 20)
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.waitForSnapshot(),
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case snapshotMsg:
		return a, tea.Batch(a.applySnapshot(msg.vm), a.waitForSnapshot())

	case spinner.TickMsg:
		if !a.vm.FetchingPage {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case engineStoppedMsg:
		a.snaps = nil
		a.setStatus(MsgEngineStopped, StatusWarn)

	case pageLoadedMsg:
		if msg.epoch == a.vm.Epoch {
			a.pagePending = false
		}

	case probeResultMsg:
		delete(a.probing, msg.id)
		if msg.err != nil {
			debuglog.WithFields(map[string]interface{}{"item": msg.id}).Warnf("probe failed: %v", msg.err)
			a.setStatus(msg.err.Error(), StatusWarn)
			return a, nil
		}
		a.engine.ItemLoadCompleted(msg.id)

	case detailRenderedMsg:
		if a.view == ViewDetail && msg.id == a.detailID {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
		}

	case filterDebounceMsg:
		if msg.seq == a.filterSeq {
			return a, a.runFilter(a.filterInput.Value())
		}

	case filterResultsMsg:
		if msg.query != a.filterInput.Value() {
			return a, nil
		}
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.filterIDs = msg.ids
		a.refreshList()
		if msg.ids != nil {
			a.setStatus(MsgResultsCount(len(msg.ids)), StatusInfo)
		}

	case openedMsg:
		a.setStatus(MsgOpening(msg.title, msg.player), StatusSuccess)

	case errorMsg:
		a.err = msg.err

	case tea.MouseMsg:
		if a.view == ViewDetail {
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			return a, cmd
		}
	}

	return a, nil
}

func (a *App) resize() {
	listHeight := max(a.height-chromeLines, 3)
	if a.view == ViewSearch || a.view == ViewFilter {
		listHeight = max(listHeight-inputLines, 3)
	}
	a.list.SetSize(a.width, listHeight)
	a.help.Width = a.width
	a.viewport.Width = a.width
	a.viewport.Height = max(a.height-chromeLines, 3)

	inputWidth := a.width - 8
	if inputWidth < 20 {
		inputWidth = a.width
	}
	a.searchInput.Width = inputWidth
	a.filterInput.Width = inputWidth
}

// applySnapshot replaces the displayed state with vm. A new epoch means a
// new term, so the filter index and the cursor start over.
func (a *App) applySnapshot(vm feed.ViewModel) tea.Cmd {
	newSession := vm.Epoch != a.indexedEpoch
	a.vm = vm

	if newSession || len(vm.Items) < a.indexedCount {
		a.resetIndex()
		a.indexedEpoch = vm.Epoch
		a.pagePending = false
		a.filterIDs = nil
		a.filterInput.Reset()
		a.list.ResetSelected()
	}
	if a.index != nil && len(vm.Items) > a.indexedCount {
		if err := a.index.Index(vm.Items[a.indexedCount:]); err != nil {
			debuglog.Warnf("indexing items: %v", err)
		} else if ds, ok := a.index.(search.DebugStatser); ok {
			if n, err := ds.DocCount(); err == nil {
				debuglog.Debugf("filter index holds %d docs for r/%s", n, vm.Term)
			}
		}
	}
	a.indexedCount = len(vm.Items)

	a.list.Title = "› r/" + vm.Term
	a.refreshList()

	switch {
	case vm.SettingsOpen && a.view != ViewSettings:
		a.previousView = a.view
		a.view = ViewSettings
		a.settingsCursor = 0
	case !vm.SettingsOpen && a.view == ViewSettings:
		a.view = a.previousView
	}
	if a.settingsCursor >= len(vm.Favorites) {
		a.settingsCursor = max(len(vm.Favorites)-1, 0)
	}

	if vm.FetchingPage && !a.spinning {
		a.spinning = true
		return a.spinner.Tick
	}
	return nil
}

func (a *App) resetIndex() {
	a.indexedCount = 0
	if a.index == nil {
		return
	}
	if err := a.index.Reset(); err != nil {
		debuglog.Warnf("resetting filter index: %v", err)
	}
}

func (a *App) refreshList() {
	items := make([]list.Item, 0, len(a.vm.Items))
	for _, it := range a.vm.Items {
		if a.filterIDs != nil {
			if _, ok := a.filterIDs[it.ID()]; !ok {
				continue
			}
		}
		items = append(items, mediaListItem{item: it})
	}
	a.list.SetItems(items)
}

func (a *App) selectedItem() (feed.MediaItem, bool) {
	if i, ok := a.list.SelectedItem().(mediaListItem); ok {
		return i.item, true
	}
	return feed.MediaItem{}, false
}

func (a *App) itemByID(id string) (feed.MediaItem, bool) {
	for _, it := range a.vm.Items {
		if it.ID() == id {
			return it, true
		}
	}
	return feed.MediaItem{}, false
}

// atLastItem reports whether the cursor rests on the final unfiltered item.
func (a *App) atLastItem() bool {
	n := len(a.list.Items())
	return a.filterIDs == nil && n > 0 && a.list.Index() == n-1
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) View() string {
	bodyHeight := max(a.height-chromeLines, 0)
	var content string

	switch a.view {
	case ViewFeed:
		content = a.feedView(bodyHeight)
	case ViewSearch:
		content = a.inputView("› search", "Debounced: the feed follows as you type", a.searchInput, bodyHeight)
	case ViewFilter:
		content = a.inputView("› filter", fmt.Sprintf("r/%s • %d loaded", a.vm.Term, len(a.vm.Items)), a.filterInput, bodyHeight)
	case ViewDetail:
		content = a.viewport.View()
	case ViewSettings:
		content = renderCentered(a.width, bodyHeight,
			renderSettingsModal(a.vm.Term, a.vm.Favorites, a.settingsCursor, a.width))
	}

	separator := SeparatorStyle.Render(strings.Repeat("─", max(a.width-1, 0)))
	return lipgloss.JoinVertical(lipgloss.Top,
		content,
		renderFavoritesBar(a.vm.Favorites, a.vm.Term, a.width),
		separator,
		a.getCustomStatusBar(),
	)
}

func (a *App) feedView(height int) string {
	if len(a.vm.Items) == 0 {
		if a.vm.FetchingPage || a.vm.Epoch == 0 {
			return renderCentered(a.width, height, GetWelcomeMessage(a.vm.Term))
		}
		return renderCentered(a.width, height, renderHeader(MsgNoItems, "r/"+a.vm.Term, a.width))
	}
	return lipgloss.NewStyle().Height(height).MaxHeight(height).Render(a.list.View())
}

func (a *App) inputView(title, subtitle string, input textinput.Model, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(title, subtitle, a.width),
		renderInputFrame(input.View(), input.Focused(), input.Width),
		a.list.View(),
	)
	return lipgloss.NewStyle().Width(a.width).Height(height).MaxHeight(height).Render(body)
}

func (a *App) getCustomStatusBar() string {
	style := lipgloss.NewStyle().Width(a.width).Padding(0, 1).Foreground(MutedColor)

	if a.err != nil {
		return style.Render(StatusErrorStyle.Render(fmt.Sprintf("✗ %v", a.err)))
	}

	left := a.status
	kind := a.statusKind
	if left == "" {
		left = MsgFeedSummary(a.vm.Term, len(a.vm.Items), a.vm.FetchingPage)
		kind = StatusInfo
	}
	if a.vm.FetchingPage {
		left = a.spinner.View() + " " + left
	}

	parts := []string{kind.style().Render(left)}
	if bindings := a.keyHandler.helpBindings(); len(bindings) > 0 {
		parts = append(parts, a.help.ShortHelpView(bindings))
	}
	return style.Render(strings.Join(parts, "  │  "))
}

type mediaListItem struct {
	item feed.MediaItem
}

func (i mediaListItem) Title() string {
	switch {
	case i.item.DataLoaded:
		return LoadedItemStyle.Render("▶ ") + i.item.Title
	case i.item.Loading:
		return LoadingItemStyle.Render("◌ ") + i.item.Title
	default:
		return "  " + i.item.Title
	}
}

func (i mediaListItem) Description() string {
	parts := []string{}
	if i.item.Author != "" {
		parts = append(parts, "u/"+i.item.Author)
	}
	parts = append(parts, fmt.Sprintf("%d comments", i.item.Comments))
	if host := hostOf(i.item.SourceURL); host != "" {
		parts = append(parts, host)
	}
	return lipgloss.NewStyle().Foreground(MutedColor).Render(strings.Join(parts, " • "))
}

func (i mediaListItem) FilterValue() string { return i.item.Title }
