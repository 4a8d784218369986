// Package activity fans document activity events out to several sinks.
package activity

import (
	"context"
	"errors"

	"github.com/heartmarshall/dossier-issuance/internal/domain"
)

// Sink records activity events.
type Sink interface {
	Record(ctx context.Context, ev domain.ActivityEvent) error
}

// Multi records every event in each sink, in order. A failing sink does not
// stop the others; their errors are joined.
type Multi []Sink

// Record implements Sink.
func (m Multi) Record(ctx context.Context, ev domain.ActivityEvent) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
