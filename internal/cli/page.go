package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fsnotify/fsnotify"

	"github.com/bnema/linkmark/internal/application/highlighter"
	"github.com/bnema/linkmark/internal/infrastructure/htmldom"
	"github.com/bnema/linkmark/internal/logging"
)

const (
	idlePollInterval = 25 * time.Millisecond
	reloadDebounce   = 150 * time.Millisecond
)

// LoadPage parses an HTML file. An empty baseURL resolves links against
// the file's own file:// URL.
func LoadPage(path, baseURL string) (*htmldom.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer func() { _ = f.Close() }()

	if baseURL == "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve page path: %w", err)
		}
		baseURL = "file://" + filepath.ToSlash(abs)
	}
	return htmldom.Parse(f, baseURL)
}

// NewPageSession builds a highlighter session over doc, backed by the
// history database and the configuration manager.
func (a *App) NewPageSession(ctx context.Context, doc *htmldom.Document) (*highlighter.Session, error) {
	return highlighter.NewSession(ctx, highlighter.Deps{
		Document:   doc,
		History:    a.History,
		Config:     a.HighlightConfig,
		Navigation: doc,
		Metrics:    a.Metrics,
	}, highlighter.WithHistoryTimeout(a.Config.Highlight.HistoryTimeoutDuration()))
}

// WaitIdle polls s until no batch, timer or lookup is pending.
func WaitIdle(ctx context.Context, s *highlighter.Session) error {
	ticker := time.NewTicker(idlePollInterval)
	defer ticker.Stop()

	for {
		idle, err := s.Idle(ctx)
		if err != nil {
			return err
		}
		if idle {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.Done():
			return highlighter.ErrNotRunning
		case <-ticker.C:
		}
	}
}

// Annotate highlights every link of doc and writes the resulting HTML to w.
func (a *App) Annotate(ctx context.Context, doc *htmldom.Document, w io.Writer) (err error) {
	log := logging.FromContext(ctx)

	s, err := a.NewPageSession(ctx, doc)
	if err != nil {
		return err
	}
	defer func() {
		if sErr := s.Shutdown(context.WithoutCancel(ctx)); sErr != nil && err == nil {
			err = sErr
		}
	}()

	if err := s.Start(ctx); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	if err := WaitIdle(ctx, s); err != nil {
		return fmt.Errorf("wait for highlighting: %w", err)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	log.Info().
		Int("links", snap.Stats.ProcessedLinks).
		Int64("dom_updates", snap.Performance.DOMUpdates).
		Msg("page annotated")

	return doc.Render(w)
}

// WatchPage replaces the body of doc whenever the file at path is
// rewritten, the way a client-side router swaps views. It returns when ctx
// is done.
func WatchPage(ctx context.Context, path string, doc *htmldom.Document, onReload func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace the file, so watch the directory.
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			debounce = time.After(reloadDebounce)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onReload != nil {
				onReload(werr)
			}
		case <-debounce:
			debounce = nil
			err := ReloadBody(abs, doc)
			if onReload != nil {
				onReload(err)
			}
		}
	}
}

// ReloadBody re-reads the file at path and swaps its body into doc.
func ReloadBody(path string, doc *htmldom.Document) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}
	defer func() { _ = f.Close() }()

	parsed, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return fmt.Errorf("parse page: %w", err)
	}
	body := parsed.Find("body")
	if body.Length() == 0 {
		return errors.New("page has no body")
	}
	inner, err := body.Html()
	if err != nil {
		return fmt.Errorf("render body: %w", err)
	}
	return doc.ReplaceBody(inner)
}
