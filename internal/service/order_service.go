package service

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/pickup/internal/domain/model"
	"github.com/RoyceAzure/lab/pickup/internal/infra/repository/db"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/RoyceAzure/lab/pickup/internal/service"

type IOrderService interface {
	Submit(ctx context.Context, in OrderInput) (*model.Order, error)
	ListRecent(ctx context.Context, limit int) ([]model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
}

/*
OrderService 下單流程: 驗證 -> 寫入
驗證失敗時不會寫入任何資料
同一個購物車送兩次會得到兩張不同id的訂單
*/
type OrderService struct {
	validator *OrderValidator
	orderRepo db.IOrderRepository
	logger    zerolog.Logger
	tracer    trace.Tracer
}

func NewOrderService(validator *OrderValidator, orderRepo db.IOrderRepository, logger zerolog.Logger) *OrderService {
	if validator == nil || orderRepo == nil {
		panic("NewOrderService: dependencies cannot be nil")
	}
	return &OrderService{
		validator: validator,
		orderRepo: orderRepo,
		logger:    logger.With().Str("component", "order_service").Logger(),
		tracer:    otel.Tracer(tracerName),
	}
}

func (s *OrderService) Submit(ctx context.Context, in OrderInput) (*model.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Submit")
	defer span.End()

	draft, err := s.validator.Validate(ctx, in)
	if err != nil {
		span.SetAttributes(attribute.String("order.error_kind", KindOf(err).String()))
		if KindOf(err) == KindStorageUnavailable {
			span.RecordError(err)
			span.SetStatus(codes.Error, "catalog unavailable")
			s.logger.Error().Err(err).Msg("order validation failed")
		} else {
			s.logger.Info().Str("kind", KindOf(err).String()).Str("reason", UserMessage(err)).Msg("order rejected")
		}
		return nil, err
	}

	order, err := s.orderRepo.CreateOrder(ctx, draft.CustomerName, draft.Phone, draft.Lines, draft.TotalCents)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order store failed")
		s.logger.Error().Err(err).Int("lines", len(draft.Lines)).Msg("failed to store order")
		return nil, newStorageUnavailable(err)
	}

	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.Int64("order.total_cents", order.TotalCents),
		attribute.Int("order.lines", len(order.Lines)),
	)
	s.logger.Info().
		Str("order_id", order.ID).
		Int64("total_cents", order.TotalCents).
		Int("lines", len(order.Lines)).
		Msg("order placed")
	return order, nil
}

// ListRecent 給後台查詢用
func (s *OrderService) ListRecent(ctx context.Context, limit int) ([]model.Order, error) {
	orders, err := s.orderRepo.ListRecent(ctx, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, newStorageUnavailable(err)
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if errors.Is(err, db.ErrOrderNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, newStorageUnavailable(err)
	}
	return order, nil
}

var _ IOrderService = (*OrderService)(nil)
