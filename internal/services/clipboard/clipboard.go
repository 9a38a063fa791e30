// Package clipboard copies rendered trees to the system clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"
)

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct {
	writeAll func(text string) error
}

// NewService constructs a clipboard Service backed by the system clipboard.
func NewService() *Service {
	return &Service{writeAll: clipboard.WriteAll}
}

// Copy writes text to the system clipboard. Empty text is not copied.
func (service *Service) Copy(text string) error {
	if text == "" {
		return nil
	}
	return service.writeAll(text)
}

var _ Copier = (*Service)(nil)
