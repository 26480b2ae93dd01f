package helper

import "sync"

// CacheHelper keeps per-run intermediate results (e.g. reduced raster values
// per variable and year) so repeated extraction calls do not re-read sources.
type CacheHelper interface {
	Get(key string) (value interface{})
	Set(key string, value interface{})
	Clear()
}

type CacheHelperImpl struct {
	logger LoggerHelper
	data   map[string]interface{}
	mu     sync.Mutex
}

func NewCacheHelper(l LoggerHelper) CacheHelper {
	return &CacheHelperImpl{
		logger: l,
		data:   make(map[string]interface{}),
	}
}

func (h *CacheHelperImpl) Get(key string) (value interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	value, found := h.data[key]
	if !found {
		return nil
	}
	return value
}

func (h *CacheHelperImpl) Set(key string, value interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.data[key] = value
}

func (h *CacheHelperImpl) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.data = make(map[string]interface{})
}
