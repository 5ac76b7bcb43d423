package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyHandler_ModifierKey(t *testing.T) {
	h := newTestApp(t)

	assert.NotNil(t, h.app.keyHandler)
	assert.Equal(t, "ctrl+", h.app.keyHandler.modifierKey)
	assert.Equal(t, "ctrl+s", h.app.keyHandler.mod("s"))
}

func TestKeyHandler_ViewTransitions(t *testing.T) {
	tests := []struct {
		name         string
		initialView  View
		msg          tea.KeyMsg
		expectedView View
		setupFunc    func(h *testHarness)
	}{
		{
			name:         "ViewFeed to ViewSearch on ctrl+s",
			initialView:  ViewFeed,
			msg:          tea.KeyMsg{Type: tea.KeyCtrlS},
			expectedView: ViewSearch,
		},
		{
			name:         "ViewFeed to ViewFilter on ctrl+f",
			initialView:  ViewFeed,
			msg:          tea.KeyMsg{Type: tea.KeyCtrlF},
			expectedView: ViewFilter,
		},
		{
			name:         "ViewFeed to ViewDetail on Enter",
			initialView:  ViewFeed,
			msg:          tea.KeyMsg{Type: tea.KeyEnter},
			expectedView: ViewDetail,
			setupFunc: func(h *testHarness) {
				h.app.applySnapshot(snapshot(1, makeItems(2)))
			},
		},
		{
			name:         "Enter on an empty feed stays put",
			initialView:  ViewFeed,
			msg:          tea.KeyMsg{Type: tea.KeyEnter},
			expectedView: ViewFeed,
		},
		{
			name:         "ViewDetail to ViewFeed on Escape",
			initialView:  ViewDetail,
			msg:          tea.KeyMsg{Type: tea.KeyEsc},
			expectedView: ViewFeed,
		},
		{
			name:         "ViewSearch to ViewFeed on Enter",
			initialView:  ViewSearch,
			msg:          tea.KeyMsg{Type: tea.KeyEnter},
			expectedView: ViewFeed,
			setupFunc: func(h *testHarness) {
				h.app.searchInput.Focus()
			},
		},
		{
			name:         "ViewFilter to ViewFeed on Escape",
			initialView:  ViewFilter,
			msg:          tea.KeyMsg{Type: tea.KeyEsc},
			expectedView: ViewFeed,
			setupFunc: func(h *testHarness) {
				h.app.filterInput.Focus()
			},
		},
		{
			name:         "ctrl+o only asks the engine to open settings",
			initialView:  ViewFeed,
			msg:          tea.KeyMsg{Type: tea.KeyCtrlO},
			expectedView: ViewFeed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestApp(t)
			h.app.view = tt.initialView
			if tt.setupFunc != nil {
				tt.setupFunc(h)
			}

			h.key(t, tt.msg)
			assert.Equal(t, tt.expectedView, h.app.view,
				"expected view to be %v but got %v", tt.expectedView, h.app.view)
		})
	}
}

func TestKeyHandler_SearchForwardsEveryKeystroke(t *testing.T) {
	h := newTestApp(t)

	h.key(t, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Equal(t, ViewSearch, h.app.view)
	assert.Equal(t, "gifs", h.app.searchInput.Value(), "search starts from the current term")

	h.key(t, tea.KeyMsg{Type: tea.KeyBackspace})
	h.key(t, runes("!"))
	h.key(t, tea.KeyMsg{Type: tea.KeyLeft})

	assert.Equal(t, []string{"gif", "gif!"}, h.feed.terms, "cursor moves do not post terms")

	h.key(t, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewFeed, h.app.view)
	assert.False(t, h.app.searchInput.Focused())
}

func TestKeyHandler_FilterTypingIsDebounced(t *testing.T) {
	h := newTestApp(t)
	h.app.applySnapshot(snapshot(1, makeItems(3)))

	h.key(t, tea.KeyMsg{Type: tea.KeyCtrlF})
	require.Equal(t, ViewFilter, h.app.view)

	h.key(t, runes("c"))
	h.key(t, runes("l"))
	assert.Equal(t, 2, h.app.filterSeq)
	assert.Empty(t, h.feed.terms, "filtering never changes the term")

	h.app.filterIDs = map[string]struct{}{}
	h.key(t, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, h.app.filterIDs)
	assert.Equal(t, "", h.app.filterInput.Value())
	assert.Len(t, h.app.list.Items(), 3)
}

func TestKeyHandler_FilterUnavailableWithoutIndex(t *testing.T) {
	h := newTestApp(t)
	h.app.index = nil

	h.key(t, tea.KeyMsg{Type: tea.KeyCtrlF})
	assert.Equal(t, ViewFeed, h.app.view)
	assert.Equal(t, MsgFilterDisabled, h.app.status)
}

func TestKeyHandler_EscClearsFilterInFeed(t *testing.T) {
	h := newTestApp(t)
	h.app.applySnapshot(snapshot(1, makeItems(3)))
	h.app.filterIDs = map[string]struct{}{"/r/gifs/comments/0/": {}}
	h.app.refreshList()
	require.Len(t, h.app.list.Items(), 1)

	h.key(t, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, h.app.list.Items(), 3)
	assert.Equal(t, MsgFilterCleared, h.app.status)
}

func TestKeyHandler_ToggleFavorite(t *testing.T) {
	h := newTestApp(t)
	h.app.applySnapshot(snapshot(1, makeItems(1)))

	h.key(t, tea.KeyMsg{Type: tea.KeyCtrlA})
	assert.Equal(t, 1, h.feed.favorited)
	assert.Equal(t, MsgFavorited("gifs"), h.app.status)

	h.app.applySnapshot(snapshot(1, makeItems(1), "gifs"))
	h.key(t, tea.KeyMsg{Type: tea.KeyCtrlA})
	assert.Equal(t, []string{"gifs"}, h.feed.removed)
	assert.Equal(t, 1, h.feed.favorited)
}

func TestKeyHandler_RandomFavorite(t *testing.T) {
	h := newTestApp(t)
	h.app.randIntn = func(n int) int { return n - 1 }

	h.key(t, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Empty(t, h.feed.terms)
	assert.Equal(t, MsgNoFavorites, h.app.status)

	h.app.applySnapshot(snapshot(1, nil, "aww", "gifs", "woahdude"))
	h.key(t, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, []string{"woahdude"}, h.feed.terms, "current term is never picked")
}

func TestKeyHandler_FavoriteDigits(t *testing.T) {
	h := newTestApp(t)
	h.app.applySnapshot(snapshot(1, nil, "aww", "gifs"))

	h.key(t, runes("1"))
	h.key(t, runes("9"))
	assert.Equal(t, []string{"aww"}, h.feed.terms)
}

func TestKeyHandler_SettingsModal(t *testing.T) {
	h := newTestApp(t)

	h.key(t, tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.Equal(t, []bool{true}, h.feed.toggles)

	vm := snapshot(1, nil, "aww", "gifs", "woahdude")
	vm.SettingsOpen = true
	h.app.applySnapshot(vm)
	require.Equal(t, ViewSettings, h.app.view)

	h.key(t, tea.KeyMsg{Type: tea.KeyDown})
	h.key(t, tea.KeyMsg{Type: tea.KeyDown})
	h.key(t, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, h.app.settingsCursor)

	h.key(t, runes("x"))
	assert.Equal(t, []string{"woahdude"}, h.feed.removed)

	h.key(t, tea.KeyMsg{Type: tea.KeyUp})
	h.key(t, tea.KeyMsg{Type: tea.KeyUp})
	h.key(t, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"aww"}, h.feed.terms)
	assert.Equal(t, []bool{true, false}, h.feed.toggles)
	assert.Equal(t, ViewSettings, h.app.view, "the modal closes when the engine says so")

	h.key(t, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, []bool{true, false, false}, h.feed.toggles)

	assert.Contains(t, h.app.View(), "› settings")
}

func TestKeyHandler_NextPageKey(t *testing.T) {
	h := newTestApp(t)
	h.app.applySnapshot(snapshot(1, makeItems(5)))

	h.key(t, tea.KeyMsg{Type: tea.KeyCtrlN})
	require.Len(t, h.feed.pages, 1)
	assert.Equal(t, "t3_4", h.feed.pages[0].token)
}

func TestKeyHandler_OpenSelected(t *testing.T) {
	h := newTestApp(t)
	h.app.applySnapshot(snapshot(1, makeItems(2)))

	cmd := h.key(t, tea.KeyMsg{Type: tea.KeyCtrlP})
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"/r/gifs/comments/0/"}, h.feed.started)
}

func TestKeyHandler_QuitKeys(t *testing.T) {
	h := newTestApp(t)

	cmd := h.key(t, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	h.app.view = ViewSearch
	h.app.searchInput.Focus()
	h.key(t, runes("q"))
	assert.Equal(t, ViewSearch, h.app.view, "q is text while typing")

	cmd = h.key(t, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestKeyHandler_GetHelpForCurrentView(t *testing.T) {
	h := newTestApp(t)

	help := h.app.keyHandler.GetHelpForCurrentView()
	assert.Contains(t, help, "ctrl+s: search")
	assert.NotContains(t, help, "ctrl+r: random")

	h.app.applySnapshot(snapshot(1, nil, "aww"))
	assert.Contains(t, h.app.keyHandler.GetHelpForCurrentView(), "ctrl+r: random")

	h.app.view = ViewDetail
	assert.Contains(t, h.app.keyHandler.GetHelpForCurrentView(), "esc: back")
}
