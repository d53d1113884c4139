package service

import (
	"context"
	"log/slog"

	"github.com/sofiamancini/bancore/internal/notify"
)

// dispatch sends a notification off the critical path. Delivery failures are
// logged and never affect the triggering operation.
func dispatch(logger *slog.Logger, sink notify.Sink, to, subject, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		defer cancel()

		if err := sink.Send(ctx, to, subject, body); err != nil {
			logger.Error("notification delivery failed",
				"recipient", to,
				"subject", subject,
				"error", err,
			)
		}
	}()
}
