package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sandbox confines file access to a documents directory. Raw analysis
// inputs and source PDFs are resolved through it.
type Sandbox struct {
	root string
}

// NewSandbox creates a sandbox rooted at dir. The directory may be created
// later; until it exists every path is rejected.
func NewSandbox(dir string) (*Sandbox, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("sandbox directory cannot be empty")
	}
	return &Sandbox{root: dir}, nil
}

// Root returns the sandbox directory
func (s *Sandbox) Root() string {
	return s.root
}

// Resolve turns path into a cleaned absolute path inside the sandbox.
// Relative paths are taken relative to the sandbox root.
func (s *Sandbox) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.root, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	inside, err := s.Contains(abs)
	if err != nil {
		return "", fmt.Errorf("path validation failed: %w", err)
	}
	if !inside {
		return "", fmt.Errorf("path is outside documents directory: %s", path)
	}
	return abs, nil
}

// Contains reports whether path, after symlink resolution, lies inside the
// sandbox. A sandbox whose root does not exist contains nothing.
func (s *Sandbox) Contains(path string) (bool, error) {
	info, err := os.Stat(s.root)
	if os.IsNotExist(err) {
		return false, fmt.Errorf("documents directory does not exist: %s", s.root)
	}
	if err != nil {
		return false, fmt.Errorf("cannot access documents directory: %w", err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("documents directory is not a directory: %s", s.root)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	absRoot, err := filepath.Abs(s.root)
	if err != nil {
		return false, fmt.Errorf("failed to resolve documents directory: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	cleanRoot := filepath.Clean(absRoot)

	realPath := cleanPath
	if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
		realPath = resolved
	}
	realRoot := cleanRoot
	if resolved, err := filepath.EvalSymlinks(cleanRoot); err == nil {
		realRoot = resolved
	}

	within := func(p string) bool {
		for _, root := range []string{cleanRoot, realRoot} {
			if p == root || strings.HasPrefix(p, strings.TrimSuffix(root, string(filepath.Separator))+string(filepath.Separator)) {
				return true
			}
		}
		return false
	}
	return within(cleanPath) && within(realPath), nil
}

// ReadFile reads a sandboxed file, refusing directories and files larger
// than maxSize bytes
func (s *Sandbox) ReadFile(path string, maxSize int64) ([]byte, error) {
	resolved, err := s.Resolve(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(resolved)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), maxSize)
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}
