package workflow

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kbukum/dagdeps/logger"
)

// DirSourceConfig configures a DirSource.
type DirSourceConfig struct {
	// Dirs are scanned recursively for *.yaml, *.yml and *.hcl files.
	Dirs []string
	// RescanInterval is how long a scan result is reused before the
	// directories are walked again. Zero rescans on every call.
	RescanInterval time.Duration
	// FileCacheSize bounds the number of parsed files kept between scans.
	FileCacheSize int
}

// DirSource loads workflow definitions from files on disk.
//
// Parsed files are cached by path and reused while their modification time
// and size are unchanged, so a rescan only re-parses files that changed.
type DirSource struct {
	cfg   DirSourceConfig
	log   *logger.Logger
	files *lru.Cache[string, parsedFile]
	now   func() time.Time

	mu        sync.Mutex
	snapshot  []Definition
	scannedAt time.Time
	dirty     bool
}

type parsedFile struct {
	modTime time.Time
	size    int64
	defs    []Definition
}

// NewDirSource creates a DirSource. Directories are not touched until the
// first ListWorkflows call.
func NewDirSource(cfg DirSourceConfig, log *logger.Logger) (*DirSource, error) {
	if len(cfg.Dirs) == 0 {
		return nil, fmt.Errorf("workflow: at least one definition directory is required")
	}
	if cfg.FileCacheSize <= 0 {
		cfg.FileCacheSize = 1024
	}
	files, err := lru.New[string, parsedFile](cfg.FileCacheSize)
	if err != nil {
		return nil, fmt.Errorf("workflow: creating file cache: %w", err)
	}
	if log == nil {
		log = logger.WithComponent("workflow-source")
	}
	return &DirSource{
		cfg:   cfg,
		log:   log,
		files: files,
		now:   time.Now,
		dirty: true,
	}, nil
}

// Name returns the source name.
func (s *DirSource) Name() string { return "dir" }

// ForceRescan makes the next ListWorkflows walk the directories regardless
// of RescanInterval.
func (s *DirSource) ForceRescan(_ context.Context) error {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
	return nil
}

// ListWorkflows returns all definitions found under the configured
// directories, in lexical file order.
func (s *DirSource) ListWorkflows(ctx context.Context) ([]Definition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !s.dirty && !s.scannedAt.IsZero() && now.Before(s.scannedAt.Add(s.cfg.RescanInterval)) {
		return cloneDefinitions(s.snapshot), nil
	}

	defs, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}
	s.snapshot = defs
	s.scannedAt = now
	s.dirty = false
	return cloneDefinitions(defs), nil
}

func (s *DirSource) scan(ctx context.Context) ([]Definition, error) {
	var paths []string
	for _, dir := range s.cfg.Dirs {
		found, err := findDefinitionFiles(dir)
		if err != nil {
			return nil, fmt.Errorf("workflow: scanning %s: %w", dir, err)
		}
		paths = append(paths, found...)
	}

	seen := make(map[string]struct{}, len(paths))
	var defs []Definition
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seen[path] = struct{}{}

		pf, err := s.load(path)
		if err != nil {
			s.log.Warn("skipping definition file", logger.Fields(
				"path", path,
				logger.FieldError, err.Error(),
			))
			s.files.Remove(path)
			continue
		}
		defs = append(defs, pf.defs...)
	}

	for _, key := range s.files.Keys() {
		if _, ok := seen[key]; !ok {
			s.files.Remove(key)
		}
	}

	s.log.Debug("definition directories scanned", logger.Fields(
		"files", len(paths),
		"workflows", len(defs),
	))
	return defs, nil
}

func (s *DirSource) load(path string) (parsedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return parsedFile{}, err
	}
	if cached, ok := s.files.Get(path); ok && cached.modTime.Equal(info.ModTime()) && cached.size == info.Size() {
		return cached, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return parsedFile{}, err
	}

	var rec *fileRecord
	if strings.HasSuffix(path, ".hcl") {
		rec, err = parseHCL(path, data)
	} else {
		rec, err = parseYAML(data)
	}
	if err != nil {
		return parsedFile{}, err
	}

	defs, issues := rec.definitions()
	for _, issue := range issues {
		s.log.Warn("malformed workflow definition dropped", logger.Fields(
			"path", path,
			"workflow_id", issue.Workflow,
			"task_id", issue.Task,
			"reason", issue.Reason,
		))
	}

	pf := parsedFile{modTime: info.ModTime(), size: info.Size(), defs: defs}
	s.files.Add(path, pf)
	return pf, nil
}

// findDefinitionFiles recursively collects definition files under root in
// lexical order.
func findDefinitionFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(d.Name()) {
		case ".yaml", ".yml", ".hcl":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func cloneDefinitions(defs []Definition) []Definition {
	out := make([]Definition, len(defs))
	copy(out, defs)
	return out
}
