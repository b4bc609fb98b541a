package prompts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrPromptNotFound is returned when the named prompt file does not exist.
var ErrPromptNotFound = errors.New("prompt not found")

// Source loads system prompts from plain .txt files in a directory. Contents
// are trimmed and cached after the first read.
type Source struct {
	dir   string
	cache sync.Map // name -> string
}

func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

// Load returns the named prompt's text.
func (s *Source) Load(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("prompt name must not be empty")
	}

	if cached, ok := s.cache.Load(name); ok {
		return cached.(string), nil
	}

	path := filepath.Join(s.dir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s (%s)", ErrPromptNotFound, name, path)
		}
		return "", fmt.Errorf("read prompt %s: %w", name, err)
	}

	text := strings.TrimSpace(string(data))
	s.cache.Store(name, text)
	return text, nil
}

// List returns the available prompt names, without extensions.
func (s *Source) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".txt"))
	}
	return names, nil
}
