//go:build !windows

package eventlog

import (
	"context"
	"fmt"

	"github.com/alexanderramin/lockwatch/internal/domain"
)

type unsupportedReader struct{}

// NewSystemReader returns a Reader that always fails: the Security event log
// only exists on Windows. Use a FileReader with an exported event file on
// other platforms.
func NewSystemReader() Reader {
	return unsupportedReader{}
}

func (unsupportedReader) Read(context.Context, Query) ([]domain.Event, error) {
	return nil, fmt.Errorf("reading the Security event log requires Windows: %w", ErrSourceUnavailable)
}
