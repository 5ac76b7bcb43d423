package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/gifr/internal/feed"
)

// wrapErr adds a short operation label to err.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// waitForSnapshot blocks on the subscription and hands the next view
// model to Update.
func (a *App) waitForSnapshot() tea.Cmd {
	ch := a.snaps
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		vm, ok := <-ch
		if !ok {
			return engineStoppedMsg{}
		}
		return snapshotMsg{vm: vm}
	}
}

// requestNextPage asks the engine for the page after the last loaded item.
// At most one request is outstanding; the returned command completes when
// the engine releases the scroll signal.
func (a *App) requestNextPage() tea.Cmd {
	if a.pagePending || a.vm.FetchingPage || len(a.vm.Items) == 0 {
		return nil
	}
	a.pagePending = true

	done := make(chan struct{})
	var once sync.Once
	epoch := a.vm.Epoch
	a.engine.RequestNextPage(epoch, a.vm.LastToken(), func() {
		once.Do(func() { close(done) })
	})

	return func() tea.Msg {
		<-done
		return pageLoadedMsg{epoch: epoch}
	}
}

// startLoad marks item as loading and probes its source.
func (a *App) startLoad(item feed.MediaItem) tea.Cmd {
	id := item.ID()
	if item.SourceURL == "" || item.Loading || item.DataLoaded || a.probing[id] {
		return nil
	}
	a.probing[id] = true
	a.engine.ItemLoadStarted(id)

	prober := a.prober
	timeout := a.config.Feed.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return probeResultMsg{id: id, err: prober.Probe(ctx, item.SourceURL)}
	}
}

// onCursorMoved loads the item under the cursor and pages when the cursor
// reaches the end of the feed.
func (a *App) onCursorMoved() tea.Cmd {
	var cmds []tea.Cmd
	if item, ok := a.selectedItem(); ok {
		cmds = append(cmds, a.startLoad(item))
	}
	if a.atLastItem() {
		cmds = append(cmds, a.requestNextPage())
	}
	return tea.Batch(cmds...)
}

func (a *App) openItem(item feed.MediaItem) tea.Cmd {
	if item.SourceURL == "" {
		a.setStatus(MsgNoSource, StatusWarn)
		return nil
	}
	launcher := a.launcher
	open := func() tea.Msg {
		if err := launcher.Open(item.SourceURL); err != nil {
			return errorMsg{err: wrapErr("open", err)}
		}
		return openedMsg{player: launcher.Player(), title: item.Title}
	}
	return tea.Batch(a.startLoad(item), open)
}

func (a *App) renderDetail(item feed.MediaItem) tea.Cmd {
	host := strings.TrimSuffix(a.config.Feed.Host, "/")
	id := item.ID()
	renderer, rendererErr := a.getRenderer()

	return func() tea.Msg {
		var content strings.Builder
		content.WriteString(fmt.Sprintf("# %s\n\n", item.Title))
		if item.Author != "" {
			content.WriteString(fmt.Sprintf("*u/%s • %d comments*\n\n", item.Author, item.Comments))
		}
		if item.Permalink != "" {
			content.WriteString(fmt.Sprintf("[Discussion](%s%s)\n\n", host, item.Permalink))
		}
		content.WriteString("---\n\n")
		content.WriteString(fmt.Sprintf("**Source:** %s\n\n", item.SourceURL))
		if item.Thumbnail != "" && strings.HasPrefix(item.Thumbnail, "http") {
			content.WriteString(fmt.Sprintf("**Thumbnail:** %s\n\n", item.Thumbnail))
		}
		content.WriteString(fmt.Sprintf("**Cursor:** `%s`\n", item.Name))

		if rendererErr != nil {
			return detailRenderedMsg{id: id, content: content.String()}
		}
		out, err := renderer.Render(content.String())
		if err != nil {
			return detailRenderedMsg{id: id, content: content.String()}
		}
		return detailRenderedMsg{id: id, content: out}
	}
}

// scheduleFilter debounces filter keystrokes.
func (a *App) scheduleFilter() tea.Cmd {
	a.filterSeq++
	seq := a.filterSeq
	return tea.Tick(a.filterWait, func(time.Time) tea.Msg { return filterDebounceMsg{seq: seq} })
}

func (a *App) runFilter(query string) tea.Cmd {
	if strings.TrimSpace(query) == "" {
		return func() tea.Msg { return filterResultsMsg{query: query} }
	}
	if a.index == nil {
		a.setStatus(MsgFilterDisabled, StatusWarn)
		return nil
	}

	index := a.index
	limit := max(len(a.vm.Items), 50)
	return func() tea.Msg {
		results, err := index.Search(query, limit)
		if err != nil {
			return filterResultsMsg{query: query, err: wrapErr("filter", err)}
		}
		ids := make(map[string]struct{}, len(results))
		for _, r := range results {
			ids[r.ID] = struct{}{}
		}
		return filterResultsMsg{query: query, ids: ids}
	}
}
