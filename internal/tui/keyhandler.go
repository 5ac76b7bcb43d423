package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/gifr/internal/config"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	keys        config.KeyBindings
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := ""
	if cfg.Keys.Modifier != "" {
		modifierKey = cfg.Keys.Modifier + "+"
	}
	return &KeyHandler{app: app, config: cfg, keys: cfg.Keys.Bindings, modifierKey: modifierKey}
}

// mod returns the chord for an action binding.
func (kh *KeyHandler) mod(binding string) string {
	return kh.modifierKey + binding
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	kh.app.err = nil

	if key == "ctrl+c" {
		return kh.app, tea.Quit
	}

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(key); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewSearch:
		return kh.app.searchInput.Focused()
	case ViewFilter:
		return kh.app.filterInput.Focused()
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case kh.keys.Back:
		if kh.app.view == ViewFilter {
			kh.clearFilter()
		}
		return kh.leaveInput()
	case "enter":
		return kh.leaveInput()
	}

	switch kh.app.view {
	case ViewSearch:
		prev := kh.app.searchInput.Value()
		var cmd tea.Cmd
		kh.app.searchInput, cmd = kh.app.searchInput.Update(msg)
		if v := kh.app.searchInput.Value(); v != prev {
			kh.app.engine.SearchTermChanged(v)
		}
		return kh.app, cmd

	case ViewFilter:
		prev := kh.app.filterInput.Value()
		var cmd tea.Cmd
		kh.app.filterInput, cmd = kh.app.filterInput.Update(msg)
		if kh.app.filterInput.Value() != prev {
			return kh.app, tea.Batch(cmd, kh.app.scheduleFilter())
		}
		return kh.app, cmd
	}
	return kh.app, nil
}

func (kh *KeyHandler) leaveInput() (tea.Model, tea.Cmd) {
	kh.app.searchInput.Blur()
	kh.app.filterInput.Blur()
	kh.app.view = ViewFeed
	kh.app.resize()
	return kh.app, nil
}

func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch kh.app.view {
	case ViewFeed:
		return kh.handleFeedCustomKeys(key)
	case ViewDetail:
		return kh.handleDetailCustomKeys(key)
	case ViewSettings:
		return kh.handleSettingsKeys(key)
	default:
		return kh.app, nil, false
	}
}

func (kh *KeyHandler) handleFeedCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	app := kh.app

	switch key {
	case kh.keys.Quit:
		return app, tea.Quit, true
	case kh.keys.Back:
		if app.filterIDs != nil {
			kh.clearFilter()
			app.setStatus(MsgFilterCleared, StatusInfo)
		}
		return app, nil, true
	case "enter":
		if item, ok := app.selectedItem(); ok {
			app.view = ViewDetail
			app.detailID = item.ID()
			app.viewport.SetContent("")
			return app, tea.Batch(app.renderDetail(item), app.startLoad(item)), true
		}
		return app, nil, true
	case kh.mod(kh.keys.Search):
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	case kh.mod(kh.keys.Filter):
		model, cmd := kh.enterFilterMode()
		return model, cmd, true
	case kh.mod(kh.keys.Favorite):
		kh.toggleFavorite()
		return app, nil, true
	case kh.mod(kh.keys.Settings):
		app.engine.ToggleSettings(true)
		return app, nil, true
	case kh.mod(kh.keys.Random):
		kh.randomFavorite()
		return app, nil, true
	case kh.mod(kh.keys.NextPage):
		return app, app.requestNextPage(), true
	case kh.mod(kh.keys.Open):
		if item, ok := app.selectedItem(); ok {
			return app, app.openItem(item), true
		}
		return app, nil, true
	}

	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 9 {
		if n <= len(app.vm.Favorites) {
			kh.loadTerm(app.vm.Favorites[n-1])
		}
		return app, nil, true
	}
	return app, nil, false
}

func (kh *KeyHandler) handleDetailCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case kh.keys.Back, kh.keys.Quit:
		kh.app.view = ViewFeed
		kh.app.detailID = ""
		return kh.app, nil, true
	case kh.mod(kh.keys.Open):
		if item, ok := kh.app.itemByID(kh.app.detailID); ok {
			return kh.app, kh.app.openItem(item), true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

// handleSettingsKeys drives the favorites modal. The modal itself opens and
// closes only when a snapshot says so.
func (kh *KeyHandler) handleSettingsKeys(key string) (tea.Model, tea.Cmd, bool) {
	app := kh.app
	favs := app.vm.Favorites

	switch key {
	case kh.keys.Back, kh.keys.Quit, kh.mod(kh.keys.Settings):
		app.engine.ToggleSettings(false)
	case "up", "k":
		if app.settingsCursor > 0 {
			app.settingsCursor--
		}
	case "down", "j":
		if app.settingsCursor < len(favs)-1 {
			app.settingsCursor++
		}
	case "enter":
		if app.settingsCursor < len(favs) {
			kh.loadTerm(favs[app.settingsCursor])
			app.engine.ToggleSettings(false)
		}
	case "x", "delete", "backspace":
		if app.settingsCursor < len(favs) {
			term := favs[app.settingsCursor]
			app.engine.RemoveFavorite(term)
			app.setStatus(MsgUnfavorited(term), StatusSuccess)
		}
	}
	return app, nil, true
}

func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewFeed:
		prev := kh.app.list.Index()
		kh.app.list, cmd = kh.app.list.Update(msg)
		if kh.app.list.Index() != prev || kh.app.atLastItem() {
			return kh.app, tea.Batch(cmd, kh.app.onCursorMoved())
		}
		return kh.app, cmd
	case ViewDetail:
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
		return kh.app, cmd
	}
	return kh.app, nil
}

func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	kh.app.view = ViewSearch
	kh.app.searchInput.SetValue(kh.app.vm.Term)
	kh.app.searchInput.CursorEnd()
	kh.app.resize()
	return kh.app, kh.app.searchInput.Focus()
}

func (kh *KeyHandler) enterFilterMode() (tea.Model, tea.Cmd) {
	if kh.app.index == nil {
		kh.app.setStatus(MsgFilterDisabled, StatusWarn)
		return kh.app, nil
	}
	kh.app.view = ViewFilter
	kh.app.resize()
	return kh.app, kh.app.filterInput.Focus()
}

func (kh *KeyHandler) clearFilter() {
	kh.app.filterInput.Reset()
	kh.app.filterSeq++
	kh.app.filterIDs = nil
	kh.app.refreshList()
}

func (kh *KeyHandler) toggleFavorite() {
	term := kh.app.vm.Term
	if kh.app.vm.IsFavorite(term) {
		kh.app.engine.RemoveFavorite(term)
		kh.app.setStatus(MsgUnfavorited(term), StatusSuccess)
		return
	}
	kh.app.engine.FavoriteCurrentTerm()
	kh.app.setStatus(MsgFavorited(term), StatusSuccess)
}

func (kh *KeyHandler) randomFavorite() {
	var candidates []string
	for _, fav := range kh.app.vm.Favorites {
		if fav != kh.app.vm.Term {
			candidates = append(candidates, fav)
		}
	}
	if len(candidates) == 0 {
		kh.app.setStatus(MsgNoFavorites, StatusWarn)
		return
	}
	kh.loadTerm(candidates[kh.app.randIntn(len(candidates))])
}

func (kh *KeyHandler) loadTerm(term string) {
	kh.app.searchInput.SetValue(term)
	kh.app.engine.SearchTermChanged(term)
	kh.app.setStatus("", StatusInfo)
}

func binding(keys, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(keys), key.WithHelp(keys, desc))
}

// helpBindings lists the custom keys of the current view for the status bar.
func (kh *KeyHandler) helpBindings() []key.Binding {
	switch kh.app.view {
	case ViewFeed:
		bindings := []key.Binding{
			binding(kh.mod(kh.keys.Search), "search"),
			binding(kh.mod(kh.keys.Filter), "filter"),
			binding(kh.mod(kh.keys.Open), "play"),
			binding(kh.mod(kh.keys.Favorite), "fav"),
		}
		if len(kh.app.vm.Favorites) > 0 {
			bindings = append(bindings, binding(kh.mod(kh.keys.Random), "random"))
		}
		return append(bindings,
			binding(kh.mod(kh.keys.Settings), "settings"),
			binding(kh.keys.Quit, "quit"),
		)
	case ViewSearch:
		return []key.Binding{binding("enter", "done"), binding(kh.keys.Back, "back")}
	case ViewFilter:
		return []key.Binding{binding("enter", "keep"), binding(kh.keys.Back, "clear")}
	case ViewDetail:
		return []key.Binding{binding(kh.mod(kh.keys.Open), "play"), binding(kh.keys.Back, "back")}
	case ViewSettings:
		return []key.Binding{binding("enter", "load"), binding("x", "remove"), binding(kh.keys.Back, "close")}
	default:
		return nil
	}
}

// GetHelpForCurrentView returns the custom key hints as "key: action".
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	bindings := kh.helpBindings()
	out := make([]string, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, b.Help().Key+": "+b.Help().Desc)
	}
	return out
}
