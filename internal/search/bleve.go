package search

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/gifr/internal/feed"
)

// MinQueryLength is the shortest query that is sent to the index.
const MinQueryLength = 2

// ItemIndex is an in-memory bleve index over the items of one session.
type ItemIndex struct {
	mu  sync.RWMutex
	idx bleve.Index
}

// NewItemIndex creates an empty in-memory index.
func NewItemIndex() (*ItemIndex, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}
	return &ItemIndex{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	author := bleve.NewTextFieldMapping()
	author.Analyzer = standard.Name
	author.Store = false

	src := bleve.NewTextFieldMapping()
	src.Analyzer = standard.Name
	src.Store = false

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("author", author)
	dm.AddFieldMappingsAt("src", src)

	im.DefaultMapping = dm
	return im
}

// Index adds items keyed by permalink. Re-indexing an item replaces it.
func (x *ItemIndex) Index(items []feed.MediaItem) error {
	if len(items) == 0 {
		return nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	batch := x.idx.NewBatch()
	for _, item := range items {
		if err := batch.Index(item.ID(), map[string]any{
			"title":  item.Title,
			"author": item.Author,
			"src":    item.SourceURL,
		}); err != nil {
			return fmt.Errorf("indexing %s: %w", item.ID(), err)
		}
	}
	return x.idx.Batch(batch)
}

// Search returns matching items, best first. Queries shorter than
// MinQueryLength match nothing.
func (x *ItemIndex) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < MinQueryLength {
		return []*Result{}, nil
	}

	var qs []bleveQuery.Query
	for _, tok := range tokenize(query) {
		qs = append(qs,
			fieldQuery(bleve.NewMatchQuery(tok), "title", 4.0),
			fieldQuery(bleve.NewPrefixQuery(tok), "title", 3.5),
			fieldQuery(bleve.NewMatchQuery(tok), "author", 2.0),
			fieldQuery(bleve.NewPrefixQuery(tok), "author", 1.8),
			fieldQuery(bleve.NewMatchQuery(tok), "src", 0.5),
		)
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	req.Fields = []string{"title"}

	x.mu.RLock()
	res, err := x.idx.Search(req)
	x.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		r := &Result{ID: h.ID, Score: h.Score}
		if t, ok := h.Fields["title"].(string); ok {
			r.Title = t
		}
		out = append(out, r)
	}
	return out, nil
}

type fieldBoostQuery interface {
	bleveQuery.FieldableQuery
	bleveQuery.BoostableQuery
}

func fieldQuery(q fieldBoostQuery, field string, boost float64) bleveQuery.Query {
	q.SetField(field)
	q.SetBoost(boost)
	return q
}

// Reset drops every document by swapping in a fresh index.
func (x *ItemIndex) Reset() error {
	fresh, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("creating index: %w", err)
	}

	x.mu.Lock()
	old := x.idx
	x.idx = fresh
	x.mu.Unlock()

	return old.Close()
}

// DocCount reports total documents in the index.
func (x *ItemIndex) DocCount() (int, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	n, err := x.idx.DocCount()
	return int(n), err
}

func (x *ItemIndex) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.idx.Close()
}
