package inbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/logger"
)

// Defaults for Watch throttling and file size.
const (
	DefaultEventsPerSecond = 10.0
	DefaultBurst           = 20
	DefaultMaxFileSize     = 20 << 20
)

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("inbox closed")

// Inbox reads documents from a single directory.
type Inbox struct {
	root        string
	limiter     *rate.Limiter
	maxFileSize int64

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// Option configures an Inbox.
type Option func(*Inbox)

// WithRate limits Watch to perSecond documents with the given burst.
func WithRate(perSecond float64, burst int) Option {
	return func(in *Inbox) {
		in.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithMaxFileSize skips files larger than n bytes.
func WithMaxFileSize(n int64) Option {
	return func(in *Inbox) { in.maxFileSize = n }
}

// New creates an inbox for root.
func New(root string, opts ...Option) *Inbox {
	in := &Inbox{
		root:        root,
		limiter:     rate.NewLimiter(rate.Limit(DefaultEventsPerSecond), DefaultBurst),
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Root returns the watched directory.
func (in *Inbox) Root() string {
	return in.root
}

// Scan reads every visible regular file in the inbox, ordered by name.
func (in *Inbox) Scan() ([]domain.RawDocument, error) {
	if err := in.checkRoot(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(in.root)
	if err != nil {
		return nil, fmt.Errorf("reading inbox: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	docs := make([]domain.RawDocument, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || isHidden(entry.Name()) {
			continue
		}
		doc, err := in.read(filepath.Join(in.root, entry.Name()))
		if err != nil {
			logger.Warn("inbox: skipping %s: %v", entry.Name(), err)
			continue
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// Watch reports documents created or rewritten in the inbox until ctx is
// cancelled. The channel is closed when watching stops.
func (in *Inbox) Watch(ctx context.Context) (<-chan domain.RawDocument, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.closed {
		return nil, ErrClosed
	}
	if err := in.checkRoot(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(in.root); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", in.root, err)
	}
	in.watcher = watcher

	docs := make(chan domain.RawDocument)
	go in.loop(ctx, watcher, docs)
	return docs, nil
}

func (in *Inbox) loop(ctx context.Context, watcher *fsnotify.Watcher, docs chan<- domain.RawDocument) {
	defer close(docs)
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if err := in.limiter.Wait(ctx); err != nil {
				return
			}
			doc := in.handleFsEvent(event)
			if doc == nil {
				continue
			}
			select {
			case docs <- *doc:
			case <-ctx.Done():
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("inbox watcher: %v", err)
		}
	}
}

// handleFsEvent converts a create or write event into a document.
// Other events, directories and hidden files yield nil.
func (in *Inbox) handleFsEvent(event fsnotify.Event) *domain.RawDocument {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return nil
	}
	if isHidden(filepath.Base(event.Name)) {
		return nil
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	doc, err := in.read(event.Name)
	if err != nil {
		logger.Warn("inbox: skipping %s: %v", event.Name, err)
		return nil
	}
	logger.Debug("inbox: %s (%d bytes)", doc.Name, len(doc.Content))
	return doc
}

// Close stops any active watch.
func (in *Inbox) Close() error {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.closed = true
	if in.watcher != nil {
		err := in.watcher.Close()
		in.watcher = nil
		return err
	}
	return nil
}

func (in *Inbox) read(path string) (*domain.RawDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > in.maxFileSize {
		return nil, fmt.Errorf("%d bytes exceeds limit of %d", info.Size(), in.maxFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	return &domain.RawDocument{
		ID:      name,
		Name:    name,
		Content: content,
		Metadata: map[string]any{
			"path":     path,
			"modified": info.ModTime().UTC(),
		},
	}, nil
}

func (in *Inbox) checkRoot() error {
	info, err := os.Stat(in.root)
	if err != nil {
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path error: %s is not a directory", in.root)
	}
	return nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
