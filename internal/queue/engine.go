package queue

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"openconvert/internal/catalog"
	"openconvert/internal/convertapi"
	"openconvert/internal/logging"
	"openconvert/internal/storage"
	"openconvert/internal/transient"
)

// Messages surfaced to the user. Queue-level messages become the banner;
// per-item messages become the row's error line.
const (
	msgUnsupportedFallback  = "This file format is not supported yet."
	msgUnsupportedPrefix    = "Unsupported file format for: "
	msgEndpointUnconfigured = "Conversion endpoint is not configured."
	msgMissingTargets       = "Select a target format for every file before converting."
	msgMissingTarget        = "Select a target format first."
	msgInvalidResponse      = "Received an invalid response from the converter."
)

// Renderer receives the queue snapshot after every mutation so partial
// progress is externally observable in list order.
type Renderer interface {
	Render(snapshot Snapshot)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(Snapshot)

// Render implements Renderer.
func (f RendererFunc) Render(snapshot Snapshot) { f(snapshot) }

// Navigator receives the page navigation the engine computes on a first
// upload whose source differs from the current page. The engine never
// navigates itself.
type Navigator interface {
	Visit(url string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(string)

// Visit implements Navigator.
func (f NavigatorFunc) Visit(url string) { f(url) }

// Page is the context the queue runs in: the pre-selected source and target
// formats and the template used to compute source-page navigation.
type Page struct {
	Source             string
	Target             string
	SourcePageTemplate string
}

// SourceURL computes the source-specific page URL for a format token.
func (p Page) SourceURL(source string) string {
	return strings.ReplaceAll(p.SourcePageTemplate, "sourceplaceholder", source)
}

// Options wires the engine's collaborators.
type Options struct {
	Catalog   catalog.Catalog
	Files     *transient.FileStore
	Downloads *transient.DownloadStore
	Codec     *storage.Codec
	Client    *convertapi.Client
	Logger    *slog.Logger
	Renderer  Renderer
	Navigator Navigator
	Page      Page
}

// Engine owns the ordered item list and drives every mutation to it and to
// the transient stores. All exported methods are safe for concurrent use;
// mutations happen under one lock with the awaited network call per item as
// the only suspension point.
type Engine struct {
	catalog   catalog.Catalog
	files     *transient.FileStore
	downloads *transient.DownloadStore
	codec     *storage.Codec
	client    *convertapi.Client
	logger    *slog.Logger
	renderer  Renderer
	navigator Navigator
	page      Page

	mu         sync.Mutex
	items      []Item
	banner     string
	converting bool
}

// New constructs an engine with initialized dependencies.
func New(opts Options) (*Engine, error) {
	if opts.Files == nil || opts.Downloads == nil || opts.Codec == nil {
		return nil, errors.New("queue engine requires file store, download store, and codec")
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = RendererFunc(func(Snapshot) {})
	}
	navigator := opts.Navigator
	if navigator == nil {
		navigator = NavigatorFunc(func(string) {})
	}
	return &Engine{
		catalog:   opts.Catalog,
		files:     opts.Files,
		downloads: opts.Downloads,
		codec:     opts.Codec,
		client:    opts.Client,
		logger:    logging.Or(opts.Logger),
		renderer:  renderer,
		navigator: navigator,
		page:      opts.Page,
	}, nil
}

// Activate loads persisted state and reconciles it against the live stores
// and catalog: items without a raw file are pruned, stale targets cleared,
// DONE status rehydrated from live downloads, and the transient stores synced
// to the surviving id set.
func (e *Engine) Activate(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.banner = ""
	persisted := e.codec.Load(ctx)
	items := make([]Item, 0, len(persisted))
	for _, p := range persisted {
		items = append(items, itemFromPersisted(p))
	}
	e.items = items

	pruned := e.pruneLocked(ctx)
	if pruned > 0 {
		e.logger.Info("pruned stale queue items", "count", pruned)
	}
	e.reconcileTargetsLocked(ctx)
	e.hydrateDoneLocked()
	e.syncStoresLocked()
	e.renderLocked()
}

// Items returns a copy of the current item list in display order.
func (e *Engine) Items() []Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.itemsCopyLocked()
}

// Banner returns the current queue-level message, empty when none.
func (e *Engine) Banner() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.banner
}

// Converting reports whether a conversion run is active.
func (e *Engine) Converting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.converting
}

// AddFiles appends queue items for the supported files, stores their raw
// content, and reports unsupported selections through the banner. On the
// very first upload it computes source-page navigation when the detected
// source differs from the current page context.
func (e *Engine) AddFiles(ctx context.Context, files []transient.SourceFile) {
	if len(files) == 0 {
		return
	}

	e.mu.Lock()
	e.banner = ""

	var unsupported []string
	type accepted struct {
		file   transient.SourceFile
		source string
	}
	var supported []accepted
	for _, file := range files {
		source, ok := e.catalog.DetectSource(file.Name)
		if !ok {
			unsupported = append(unsupported, file.Name)
			continue
		}
		supported = append(supported, accepted{file: file, source: source})
	}

	if len(supported) == 0 {
		e.banner = unsupportedMessage(unsupported)
		e.renderLocked()
		e.mu.Unlock()
		return
	}

	isFirstUpload := len(e.items) == 0
	firstSource := supported[0].source

	for _, entry := range supported {
		item := Item{
			ID:       uuid.NewString(),
			FileName: entry.file.Name,
			Source:   entry.source,
			Target:   e.catalog.ResolveTarget(entry.source, e.page.Target),
			Status:   StatusReady,
		}
		e.files.Set(item.ID, entry.file)
		e.items = append(e.items, item)
	}

	if len(unsupported) > 0 {
		e.banner = unsupportedMessage(unsupported)
	}

	e.persistLocked(ctx)
	e.renderLocked()

	navigate := ""
	if isFirstUpload && e.page.Source != firstSource {
		navigate = e.page.SourceURL(firstSource)
	}
	e.mu.Unlock()

	if navigate != "" {
		e.navigator.Visit(navigate)
	}
}

// ChangeTarget updates an item's target format. An invalid candidate stores
// the empty target. The item always re-enters READY and its previous output
// is released, since it no longer matches the new target.
func (e *Engine) ChangeTarget(ctx context.Context, itemID, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	index := e.indexOfLocked(itemID)
	if index < 0 {
		return
	}

	item := &e.items[index]
	item.Target = e.catalog.ResolveTarget(item.Source, value)
	item.resetToReady()
	e.downloads.Revoke(item.ID)

	e.persistLocked(ctx)
	e.renderLocked()
}

// Remove deletes an item together with its transient resources. Unknown ids
// are a no-op.
func (e *Engine) Remove(ctx context.Context, itemID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	index := e.indexOfLocked(itemID)
	if index < 0 {
		return
	}

	e.items = append(e.items[:index], e.items[index+1:]...)
	e.files.Delete(itemID)
	e.downloads.Revoke(itemID)

	e.persistLocked(ctx)
	e.renderLocked()
}

// Download returns the produced download for an item, when one exists. It
// mutates nothing; saving the content is the caller's concern.
func (e *Engine) Download(itemID string) (transient.Download, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.downloads.Get(itemID)
}

// DoneDownloads returns the live downloads for DONE items in display order.
func (e *Engine) DoneDownloads() []transient.DownloadEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, 0, len(e.items))
	for _, item := range e.items {
		if item.Status == StatusDone {
			ids = append(ids, item.ID)
		}
	}
	return e.downloads.List(ids)
}

func (e *Engine) indexOfLocked(itemID string) int {
	for i := range e.items {
		if e.items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (e *Engine) itemsCopyLocked() []Item {
	cp := make([]Item, len(e.items))
	copy(cp, e.items)
	return cp
}

// pruneLocked drops items whose raw file did not survive the session
// boundary and persists when anything changed. Downloads of dropped ids are
// released with the store sync that follows activation, or immediately here
// for mid-session prunes.
func (e *Engine) pruneLocked(ctx context.Context) int {
	kept := e.items[:0]
	dropped := 0
	for _, item := range e.items {
		if e.files.Has(item.ID) {
			kept = append(kept, item)
			continue
		}
		e.downloads.Revoke(item.ID)
		dropped++
	}
	if dropped == 0 {
		return 0
	}
	e.items = kept
	e.persistLocked(ctx)
	return dropped
}

// reconcileTargetsLocked clears targets the current catalog no longer allows
// and persists when anything changed.
func (e *Engine) reconcileTargetsLocked(ctx context.Context) {
	changed := false
	for i := range e.items {
		item := &e.items[i]
		resolved := e.catalog.ResolveTarget(item.Source, item.Target)
		if resolved == item.Target {
			continue
		}
		item.Target = resolved
		item.resetToReady()
		changed = true
	}
	if changed {
		e.persistLocked(ctx)
	}
}

// hydrateDoneLocked restores DONE status for items whose download survived
// in-session navigation.
func (e *Engine) hydrateDoneLocked() {
	for i := range e.items {
		item := &e.items[i]
		download, ok := e.downloads.Get(item.ID)
		if !ok {
			continue
		}
		item.setDone(download.FileName)
	}
}

func (e *Engine) syncStoresLocked() {
	active := make(map[string]struct{}, len(e.items))
	for _, item := range e.items {
		active[item.ID] = struct{}{}
	}
	e.files.SyncWithActiveIDs(active)
	e.downloads.SyncWithActiveIDs(active)
}

func (e *Engine) persistLocked(ctx context.Context) {
	projection := make([]storage.PersistedItem, len(e.items))
	for i, item := range e.items {
		projection[i] = item.persisted()
	}
	e.codec.Save(ctx, projection)
}

func (e *Engine) renderLocked() {
	hasDownload := make(map[string]bool, len(e.items))
	for _, item := range e.items {
		if e.downloads.Has(item.ID) {
			hasDownload[item.ID] = true
		}
	}
	e.renderer.Render(Snapshot{
		Items:       e.itemsCopyLocked(),
		Banner:      e.banner,
		Converting:  e.converting,
		HasDownload: hasDownload,
	})
}

func unsupportedMessage(fileNames []string) string {
	if len(fileNames) == 0 {
		return msgUnsupportedFallback
	}
	return msgUnsupportedPrefix + strings.Join(fileNames, ", ")
}
