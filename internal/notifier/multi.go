package notifier

import (
	"context"
	"errors"

	"news_watchdog/internal/domain"
)

type Notifier interface {
	Notify(ctx context.Context, alert domain.StaleAlert) error
}

// Multi delivers an alert to every channel, once each, and joins the errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, alert domain.StaleAlert) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
