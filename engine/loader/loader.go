package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-character/engine/model"
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu *sync.RWMutex

	modelCache map[string]*model.ImportedModel
}

// Loader reads animated mesh files and caches the imported result.
// Safe for concurrent use; asset loads run on worker goroutines.
type Loader interface {
	// Load imports a .glb or .gltf file and caches the result by absolute path.
	// If the model is already cached, the cached version is returned.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - *model.ImportedModel: the imported meshes, skeleton and clips
	//   - error: error if reading or decoding fails
	Load(path string) (*model.ImportedModel, error)

	// LoadReader imports a GLB stream and caches it under the given name.
	//
	// Parameters:
	//   - name: the cache key and model name
	//   - r: the reader providing GLB data
	//
	// Returns:
	//   - *model.ImportedModel: the imported model
	//   - error: error if decoding fails
	LoadReader(name string, r io.Reader) (*model.ImportedModel, error)

	// Get retrieves a cached model by key. Returns nil if not found.
	//
	// Parameters:
	//   - key: the cache key to look up
	//
	// Returns:
	//   - *model.ImportedModel: the cached model or nil
	Get(key string) *model.ImportedModel

	// Evict removes a model from the cache so the next Load reads the file again.
	//
	// Parameters:
	//   - key: the cache key to remove
	Evict(key string)
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the given options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         &sync.RWMutex{},
		modelCache: make(map[string]*model.ImportedModel),
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (*model.ImportedModel, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}
	if cached := l.Get(key); cached != nil {
		return cached, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var doc *document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf":
		doc, err = parseGLTF(data, filepath.Dir(path))
	default:
		doc, err = parseGLB(data, filepath.Dir(path))
	}
	if err != nil {
		return nil, fmt.Errorf("loader: parse %s: %w", path, err)
	}

	m, err := importDocument(doc, name)
	if err != nil {
		return nil, fmt.Errorf("loader: import %s: %w", path, err)
	}
	return l.store(key, m), nil
}

func (l *loader) LoadReader(name string, r io.Reader) (*model.ImportedModel, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", name, err)
	}
	doc, err := parseGLB(buf.Bytes(), "")
	if err != nil {
		return nil, fmt.Errorf("loader: parse %s: %w", name, err)
	}
	m, err := importDocument(doc, name)
	if err != nil {
		return nil, fmt.Errorf("loader: import %s: %w", name, err)
	}
	return l.store(name, m), nil
}

func (l *loader) Get(key string) *model.ImportedModel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[key]
}

func (l *loader) Evict(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.modelCache, key)
}

// store caches m unless another goroutine raced us to it; first writer wins so
// every caller shares one instance.
func (l *loader) store(key string, m *model.ImportedModel) *model.ImportedModel {
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.modelCache[key]; ok {
		return existing
	}
	l.modelCache[key] = m
	return m
}
