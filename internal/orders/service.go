package orders

import (
	"context"
	"fmt"

	"github.com/aukawellness/studio-api/internal/i18n"
	"github.com/aukawellness/studio-api/pkg/logging"
)

var statusMessages = map[StatusType]map[i18n.Locale]string{
	TypeSuccess: {i18n.LocaleES: "Pago confirmado", i18n.LocaleEN: "Payment confirmed"},
	TypePending: {i18n.LocaleES: "Estamos confirmando tu pago", i18n.LocaleEN: "We are confirming your payment"},
	TypeError:   {i18n.LocaleES: "El pago no pudo completarse", i18n.LocaleEN: "The payment could not be completed"},
}

// Service answers order status queries.
type Service struct {
	repo   Repository
	logger *logging.Logger
}

// NewService creates an order status service.
func NewService(repo Repository, logger *logging.Logger) *Service {
	if repo == nil {
		panic("orders: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Status returns the presentation view of an order's payment state.
func (s *Service) Status(ctx context.Context, orderID string) (*StatusView, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("orders: status of %q: %w", orderID, err)
	}

	statusType := order.Status.Type()
	return &StatusView{
		Status:           order.Status,
		StatusType:       statusType,
		StatusMessage:    statusMessages[statusType][i18n.FromContext(ctx)],
		PackageName:      order.PackageName,
		SessionsQuantity: order.SessionsQuantity,
		FinalPrice:       order.FinalPrice,
	}, nil
}
