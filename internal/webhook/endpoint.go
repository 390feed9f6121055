package webhook

import (
	"fmt"
	"sync"

	"github.com/aniladanir/pharmacy-messenger-service/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Endpoint holds a runtime-configurable webhook url.
type Endpoint struct {
	mtx sync.RWMutex
	url string
}

func NewEndpoint() *Endpoint {
	return &Endpoint{}
}

// Configure validates rawURL and stores it, replacing any previous value.
// An invalid url leaves the current configuration unchanged.
func (e *Endpoint) Configure(rawURL string) error {
	if err := validate.Var(rawURL, "required,http_url"); err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidEndpoint, rawURL)
	}

	e.mtx.Lock()
	defer e.mtx.Unlock()
	e.url = rawURL
	return nil
}

// URL returns the configured url and whether one is set.
func (e *Endpoint) URL() (string, bool) {
	e.mtx.RLock()
	defer e.mtx.RUnlock()
	return e.url, e.url != ""
}
