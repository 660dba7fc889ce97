package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/daycarehq/daycare_backend/internal/model"
	"github.com/daycarehq/daycare_backend/internal/registry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService связывает валидатор и реестр: заявка сначала проходит
// структурную проверку, и только валидная доходит до атомарного
// резервирования.
type BookingService struct {
	reg    registry.Registry
	logger *zap.Logger
}

func NewBookingService(reg registry.Registry, logger *zap.Logger) *BookingService {
	return &BookingService{
		reg:    reg,
		logger: logger,
	}
}

// Submit проверяет заявку и резервирует слоты. Ошибки валидации и
// конфликт ёмкости возвращаются как есть, без ретраев: решение о
// повторе — за клиентом.
func (s *BookingService) Submit(ctx context.Context, c Candidate) (*model.Booking, error) {
	fields, err := Validate(c)
	if err != nil {
		return nil, err
	}

	booking, err := s.reg.Reserve(ctx, fields)
	if err != nil {
		if conflicting, ok := registry.IsSlotsFull(err); ok {
			s.logger.Info("Booking rejected, slots full",
				zap.String("name", fields.Name),
				zap.Int("conflicts", len(conflicting)),
			)
			return nil, err
		}
		return nil, fmt.Errorf("reserve slots: %w", err)
	}

	s.logger.Info("New booking",
		zap.String("booking_id", booking.ID.String()),
		zap.String("name", booking.Name),
		zap.String("slots", joinSlots(booking.Slots)),
	)

	return booking, nil
}

// List возвращает снимок всех броней в порядке создания.
func (s *BookingService) List(ctx context.Context) ([]*model.Booking, error) {
	bookings, err := s.reg.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// Cancel отменяет бронь по id и освобождает её слоты.
func (s *BookingService) Cancel(ctx context.Context, id uuid.UUID) error {
	if err := s.reg.Cancel(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Booking canceled", zap.String("booking_id", id.String()))
	return nil
}

// Export возвращает плоские строки отчёта для сериализации адаптером.
func (s *BookingService) Export(ctx context.Context) ([]model.ReportRow, error) {
	rows, err := s.reg.Export(ctx)
	if err != nil {
		return nil, fmt.Errorf("export bookings: %w", err)
	}
	return rows, nil
}

func joinSlots(slots []model.Slot) string {
	tokens := make([]string, len(slots))
	for i, s := range slots {
		tokens[i] = s.String()
	}
	return strings.Join(tokens, ", ")
}
