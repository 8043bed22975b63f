package service

import (
	"context"
	"errors"

	"github.com/dawit-coffee/storefront/internal/cache"
	"github.com/dawit-coffee/storefront/internal/constants"
	"github.com/dawit-coffee/storefront/internal/logger"
	"github.com/dawit-coffee/storefront/internal/models"
	"github.com/dawit-coffee/storefront/internal/payment/ecpay"

	"gorm.io/gorm"
)

// ReconcileResult 回调对账结果
type ReconcileResult struct {
	OrderID   string
	SessionID string
	Status    string
	Matched   bool // 交易编号匹配到订单
	Changed   bool // 本次回调实际迁移了订单状态
}

// Reconcile 处理绿界回调：成功迁移 pending -> paid，失败迁移 pending -> failed 并回补库存。
// 同一交易编号重复回调不会重复迁移。
func (s *PaymentService) Reconcile(ctx context.Context, source string, fields map[string]string) (*ReconcileResult, error) {
	cb, err := ecpay.ParseCallback(fields)
	if err != nil {
		logger.Warnw("payment_callback_invalid", "source", source, "error", err)
		return nil, ErrPaymentCallbackInvalid
	}
	log := logger.SW("source", source, "trade_no", cb.MerchantTradeNo, "rtn_code", cb.RtnCode)

	if s.options.VerifyCallback && !s.client.VerifyCallback(fields) {
		log.Warnw("payment_callback_signature_invalid")
		return nil, ErrPaymentSignatureInvalid
	}
	result := &ReconcileResult{}
	if cb.SimulatePaid && !s.options.AllowSimulatePaid {
		log.Infow("payment_callback_simulate_ignored")
		return result, nil
	}

	order, err := s.orderRepo.GetByTradeNo(cb.MerchantTradeNo)
	if err != nil {
		log.Warnw("payment_callback_order_fetch_failed", "error", err)
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		log.Infow("payment_callback_order_unmatched")
		return result, nil
	}
	result.Matched = true
	result.OrderID = order.ID
	result.SessionID = order.SessionID
	result.Status = order.Status

	switch cb.Outcome() {
	case ecpay.OutcomeAwaiting:
		log.Infow("payment_callback_awaiting", "order_id", order.ID, "payment_type", cb.PaymentType)
		return result, nil
	case ecpay.OutcomePaid:
		return s.applyPaid(ctx, source, cb, order, result)
	default:
		return s.applyFailed(ctx, source, cb, order, result)
	}
}

func (s *PaymentService) applyPaid(ctx context.Context, source string, cb *ecpay.Callback, order *models.Order, result *ReconcileResult) (*ReconcileResult, error) {
	if cb.TradeAmt != order.Total {
		logger.Warnw("payment_callback_amount_mismatch",
			"order_id", order.ID,
			"trade_no", cb.MerchantTradeNo,
			"expected", order.Total,
			"actual", cb.TradeAmt,
		)
		return result, nil
	}
	now := s.now()
	affected, err := s.orderRepo.TransitionStatus(order.ID, []string{constants.OrderStatusPending}, constants.OrderStatusPaid, map[string]interface{}{
		"paid_at":      now,
		"payment_type": cb.PaymentType,
		"updated_at":   now,
	})
	if err != nil {
		logger.Warnw("payment_callback_paid_update_failed", "order_id", order.ID, "error", err)
		return nil, ErrOrderUpdateFailed
	}
	if affected == 0 {
		if order.Status == constants.OrderStatusFailed {
			logger.Warnw("payment_callback_paid_after_failed", "order_id", order.ID, "trade_no", cb.MerchantTradeNo)
		}
		return result, nil
	}

	order.Status = constants.OrderStatusPaid
	order.PaidAt = &now
	order.PaymentType = cb.PaymentType
	result.Status = order.Status
	result.Changed = true
	logger.Infow("payment_callback_paid",
		"order_id", order.ID,
		"trade_no", cb.MerchantTradeNo,
		"source", source,
		"total", order.Total,
	)
	if order.SessionID != "" && s.cartStore != nil {
		if err := s.cartStore.Clear(ctx, order.SessionID); err != nil {
			logger.Warnw("payment_callback_cart_clear_failed", "order_id", order.ID, "error", err)
		}
	}
	publishOrderEvent(ctx, s.publisher, constants.OrderEventPaid, order, source)
	return result, nil
}

func (s *PaymentService) applyFailed(ctx context.Context, source string, cb *ecpay.Callback, order *models.Order, result *ReconcileResult) (*ReconcileResult, error) {
	now := s.now()
	var changed bool
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		var txErr error
		changed, txErr = failOrderAndReleaseStock(s.orderRepo.WithTx(tx), s.productRepo.WithTx(tx), order, []string{constants.OrderStatusPending}, now)
		return txErr
	})
	if err != nil {
		logger.Warnw("payment_callback_failed_update_failed", "order_id", order.ID, "error", err)
		return nil, ErrOrderUpdateFailed
	}
	if !changed {
		return result, nil
	}
	result.Status = order.Status
	result.Changed = true
	logger.Infow("payment_callback_failed",
		"order_id", order.ID,
		"trade_no", cb.MerchantTradeNo,
		"source", source,
		"rtn_msg", cb.RtnMsg,
	)
	if err := cache.InvalidateCatalog(ctx); err != nil {
		logger.Warnw("payment_catalog_invalidate_failed", "order_id", order.ID, "error", err)
	}
	publishOrderEvent(ctx, s.publisher, constants.OrderEventFailed, order, source)
	return result, nil
}

// IsCallbackRejected 回调因签名或格式被拒绝
func IsCallbackRejected(err error) bool {
	return errors.Is(err, ErrPaymentSignatureInvalid) || errors.Is(err, ErrPaymentCallbackInvalid)
}
