// Package docs coordinates documentation builds, status checks, symbol
// listing and search for Rust crates.
//
// The coordinator owns the artifact cache and is the single entry point for
// every public operation. Operations are serialized by a mutex: within one
// process each request runs to completion before the next begins, so the
// cache never sees interleaved mutations.
package docs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mvp-joe/cratedoc/internal/cache"
	"github.com/mvp-joe/cratedoc/internal/docuri"
	"github.com/mvp-joe/cratedoc/internal/index"
	"github.com/mvp-joe/cratedoc/internal/markdown"
	"github.com/mvp-joe/cratedoc/internal/search"
	"github.com/mvp-joe/cratedoc/internal/toolchain"
)

var (
	// ErrInvalidPath indicates the project directory has no Cargo.toml.
	ErrInvalidPath = errors.New("invalid project path")

	// ErrSearchFailed indicates search or listing was attempted before the
	// documentation was built, or the traversal failed for an I/O reason.
	ErrSearchFailed = errors.New("search failed")
)

// ManifestFile is the project manifest whose presence makes a directory a
// valid project root.
const ManifestFile = "Cargo.toml"

// entryPointFile is the root page of a crate's generated documentation.
const entryPointFile = "index.html"

// Service implements the public documentation operations.
type Service struct {
	mu        sync.Mutex
	store     *cache.Store
	tc        toolchain.Toolchain
	walker    *index.Walker
	engine    *search.Engine
	converter *markdown.Converter

	// DocDirHook, when set, is called after a status check or build resolves
	// a crate's documentation directory. The MCP doc watcher uses it to
	// register directories for change-driven cache invalidation.
	DocDirHook func(projectPath, crateName, docDir string)
}

// NewService creates a Service over the given store and toolchain.
func NewService(store *cache.Store, tc toolchain.Toolchain, walker *index.Walker) (*Service, error) {
	engine, err := search.NewEngine(walker)
	if err != nil {
		return nil, err
	}
	return &Service{
		store:     store,
		tc:        tc,
		walker:    walker,
		engine:    engine,
		converter: markdown.NewConverter(),
	}, nil
}

// Initialize loads the persisted cache store. Must be called once before any
// other operation.
func (s *Service) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load()
}

// Close releases service resources.
func (s *Service) Close() {
	s.engine.Close()
}

// VerifyProject fails with ErrInvalidPath unless the project manifest exists
// directly under projectPath.
func (s *Service) VerifyProject(projectPath string) error {
	if _, err := os.Stat(filepath.Join(projectPath, ManifestFile)); err != nil {
		return fmt.Errorf("%w: no %s in %s", ErrInvalidPath, ManifestFile, projectPath)
	}
	return nil
}

// CheckStatus reports whether documentation for the crate is built.
//
// A cache hit within the TTL is trusted without re-checking the filesystem;
// that staleness window is a deliberate performance trade-off. On a miss the
// target directory is resolved, the expected entry-point path is checked,
// and a fresh entry is written either way so a later build has a candidate
// doc path.
func (s *Service) CheckStatus(ctx context.Context, projectPath, crateName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkStatusLocked(ctx, projectPath, crateName)
}

func (s *Service) checkStatusLocked(ctx context.Context, projectPath, crateName string) (bool, error) {
	if err := s.VerifyProject(projectPath); err != nil {
		return false, err
	}

	if entry, ok, err := s.store.Get(projectPath, crateName); err != nil {
		return false, err
	} else if ok {
		return entry.IsBuilt, nil
	}

	targetDir, err := s.tc.TargetDir(ctx, projectPath)
	if err != nil {
		return false, err
	}

	docPath := filepath.Join(targetDir, "doc", crateName, entryPointFile)
	_, statErr := os.Stat(docPath)
	built := statErr == nil

	entry := &cache.Entry{
		CrateName:   crateName,
		ProjectPath: projectPath,
		DocPath:     docPath,
		IsBuilt:     built,
	}
	if err := s.store.Set(entry); err != nil {
		return false, err
	}

	s.notifyDocDir(projectPath, crateName, filepath.Dir(docPath))
	return built, nil
}

// Build generates documentation for the crate and returns the entry-point
// path. skipDeps is accepted for interface compatibility but does not select
// a second mode: dependency docs are always excluded. Known quirk, kept
// as-is pending a contract change.
func (s *Service) Build(ctx context.Context, projectPath, crateName string, skipDeps bool) (string, error) {
	_ = skipDeps

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.VerifyProject(projectPath); err != nil {
		return "", err
	}

	if err := s.tc.BuildDocs(ctx, projectPath, crateName); err != nil {
		return "", err
	}

	targetDir, err := s.tc.TargetDir(ctx, projectPath)
	if err != nil {
		return "", err
	}

	docPath := filepath.Join(targetDir, "doc", crateName, entryPointFile)
	entry := &cache.Entry{
		CrateName:   crateName,
		ProjectPath: projectPath,
		DocPath:     docPath,
		IsBuilt:     true,
	}
	if err := s.store.Set(entry); err != nil {
		return "", err
	}

	s.notifyDocDir(projectPath, crateName, filepath.Dir(docPath))
	return docPath, nil
}

// DocPath returns the known entry-point path and build status for the crate.
func (s *Service) DocPath(ctx context.Context, projectPath, crateName string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	built, err := s.checkStatusLocked(ctx, projectPath, crateName)
	if err != nil {
		return "", false, err
	}

	entry, err := s.entryAfterCheck(projectPath, crateName)
	if err != nil {
		return "", false, err
	}
	return entry.DocPath, built, nil
}

// ListSymbols enumerates every symbol in the crate's documentation tree,
// sorted by fully-qualified path. Fails with ErrSearchFailed when the
// documentation is not built; no traversal happens in that case.
func (s *Service) ListSymbols(ctx context.Context, projectPath, crateName string) ([]index.Symbol, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	root, err := s.docRootLocked(ctx, projectPath, crateName)
	if err != nil {
		return nil, err
	}

	symbols, err := s.walker.Traverse(root, crateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	index.SortSymbols(symbols)
	return symbols, nil
}

// Search runs a case-insensitive substring query over the crate's
// documentation tree. Same precondition as ListSymbols.
func (s *Service) Search(ctx context.Context, projectPath, crateName, query string, opts *search.Options) ([]search.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	root, err := s.docRootLocked(ctx, projectPath, crateName)
	if err != nil {
		return nil, err
	}

	results, err := s.engine.Search(root, crateName, query, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	return results, nil
}

// ReadPage fetches one documentation page by its rustdoc:// URI and renders
// it as Markdown.
func (s *Service) ReadPage(uri string) (string, error) {
	path, err := docuri.Parse(uri)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading doc page %s: %w", path, err)
	}

	return s.converter.ConvertPage(string(data))
}

// Invalidate drops the cache entry for the crate, forcing the next status
// check to re-resolve and re-stat. Used by the doc-dir watcher when the
// generated tree changes underneath us.
func (s *Service) Invalidate(projectPath, crateName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Remove(projectPath, crateName)
}

// docRootLocked enforces the built-documentation precondition shared by
// listing and search, and resolves the traversal root from the cache.
func (s *Service) docRootLocked(ctx context.Context, projectPath, crateName string) (string, error) {
	built, err := s.checkStatusLocked(ctx, projectPath, crateName)
	if err != nil {
		return "", err
	}
	if !built {
		return "", fmt.Errorf("%w: documentation for %s is not built, run a build first", ErrSearchFailed, crateName)
	}

	entry, err := s.entryAfterCheck(projectPath, crateName)
	if err != nil {
		return "", err
	}
	return filepath.Dir(entry.DocPath), nil
}

// entryAfterCheck fetches the cache entry that a just-completed status check
// must have left behind. Its absence means the entry was evicted between the
// check and the read, which is a consistency violation, not a miss.
func (s *Service) entryAfterCheck(projectPath, crateName string) (*cache.Entry, error) {
	entry, ok, err := s.store.Get(projectPath, crateName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: entry for %s:%s missing after status check", cache.ErrCache, projectPath, crateName)
	}
	return entry, nil
}

func (s *Service) notifyDocDir(projectPath, crateName, docDir string) {
	if s.DocDirHook != nil {
		s.DocDirHook(projectPath, crateName, docDir)
	}
}
