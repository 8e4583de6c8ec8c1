package event

import (
	"context"
	"log/slog"
)

// handleProductEvent records the change. Topic and product id come from ctx.
func (s *Service) handleProductEvent(ctx context.Context, _ string, ev ProductEvent) error {
	s.logger.InfoContext(ctx, "handling product event",
		slog.String("sku", ev.Product.Sku),
		slog.Bool("is_delete", ev.Product.IsDelete),
	)
	return nil
}
