package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopcore/internal/clock"
	"github.com/smallbiznis/shopcore/internal/observability/metrics"
	"github.com/smallbiznis/shopcore/internal/providers/pdf"
	"github.com/smallbiznis/shopcore/internal/ratelimit"
	shopdomain "github.com/smallbiznis/shopcore/internal/shop/domain"
	"github.com/smallbiznis/shopcore/internal/shopcontext"
	workorderdomain "github.com/smallbiznis/shopcore/internal/workorder/domain"
	"github.com/smallbiznis/shopcore/internal/workorderpayment/domain"
	"github.com/smallbiznis/shopcore/pkg/db/pagination"
	"github.com/smallbiznis/shopcore/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	Shops      shopdomain.Service
	WorkOrders workorderdomain.Repository
	Invoices   workorderdomain.Service `optional:"true"`
	PDF        pdf.Provider            `optional:"true"`
	Guard      *ratelimit.Guard        `optional:"true"`
	Metrics    *metrics.Metrics        `optional:"true"`
	Clock      clock.Clock             `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	shops      shopdomain.Service
	workOrders workorderdomain.Repository
	invoices   workorderdomain.Service
	pdf        pdf.Provider
	guard      *ratelimit.Guard
	metrics    *metrics.Metrics
	clock      clock.Clock
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	renderer := p.PDF
	if renderer == nil {
		renderer = pdf.New()
	}
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("workorderpayment.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		shops:      p.Shops,
		workOrders: p.WorkOrders,
		invoices:   p.Invoices,
		pdf:        renderer,
		guard:      p.Guard,
		metrics:    p.Metrics,
		clock:      clk,
	}
}

// Record applies a payment. The balance check and insert run under the work
// order row lock so two concurrent payments cannot both pass the check.
func (s *Service) Record(ctx context.Context, workOrderID string, req domain.RecordRequest) (domain.RecordResponse, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.RecordResponse{}, err
	}
	orderID, err := parseID(workOrderID)
	if err != nil {
		return domain.RecordResponse{}, err
	}
	amount := money.Round2(req.Amount)
	if !amount.IsPositive() {
		s.metrics.RecordPaymentRejected(ctx, scope.ShopID.String(), "invalid_amount")
		return domain.RecordResponse{}, domain.ErrInvalidAmount
	}
	method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if method == "" {
		method = domain.MethodCash
	}
	if !domain.IsValidMethod(method) {
		return domain.RecordResponse{}, domain.ErrInvalidMethod
	}

	var resp domain.RecordResponse
	key := ratelimit.LockKey("work_order_payment", scope.ShopID.String(), orderID.String())
	err = s.guard.WithLock(ctx, key, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			order, err := s.workOrders.LockByID(ctx, tx, scope.TenantID, scope.ShopID, orderID)
			if err != nil {
				return err
			}
			if order == nil || !order.IsActive {
				return domain.ErrWorkOrderNotFound
			}

			paid, err := s.repo.SumByWorkOrder(ctx, tx, scope.TenantID, scope.ShopID, orderID)
			if err != nil {
				return err
			}
			grandTotal := money.Round2(order.GrandTotal)
			if paid.Add(amount).GreaterThan(grandTotal) {
				balance := grandTotal.Sub(paid)
				if balance.IsNegative() {
					balance = decimal.Zero
				}
				return fmt.Errorf("%w: payment would exceed invoice total; current balance: %s", domain.ErrOverpayment, money.Format(balance))
			}

			now := s.clock.Now()
			payment := domain.Payment{
				ID:            s.genID.Generate(),
				TenantID:      scope.TenantID,
				ShopID:        scope.ShopID,
				WorkOrderID:   orderID,
				ReceiptNumber: ulid.Make().String(),
				Amount:        amount,
				PaymentMethod: method,
				Notes:         strings.TrimSpace(req.Notes),
				IsActive:      true,
				CreatedAt:     now,
				CreatedBy:     actorOf(scope),
			}
			if err := s.repo.Insert(ctx, tx, &payment); err != nil {
				return err
			}

			remaining := money.Round2(grandTotal.Sub(paid.Add(amount)))
			fullyPaid := remaining.LessThanOrEqual(money.Tolerance)
			if fullyPaid && order.Status != workorderdomain.StatusPaid {
				if err := s.workOrders.UpdateStatus(ctx, tx, scope.TenantID, scope.ShopID, orderID, workorderdomain.StatusPaid, &now, now, actorOf(scope)); err != nil {
					return err
				}
			}

			resp = domain.RecordResponse{
				PaymentID:        payment.ID.String(),
				ReceiptNumber:    payment.ReceiptNumber,
				AmountPaid:       amount,
				RemainingBalance: remaining,
				IsFullyPaid:      fullyPaid,
			}
			return nil
		})
	})
	if err != nil {
		if reason := rejectReason(err); reason != "" {
			s.metrics.RecordPaymentRejected(ctx, scope.ShopID.String(), reason)
		}
		return domain.RecordResponse{}, err
	}

	s.metrics.RecordPayment(ctx, scope.ShopID.String(), method, resp.IsFullyPaid)
	s.log.Info("payment recorded",
		zap.String("work_order_id", orderID.String()),
		zap.String("payment_id", resp.PaymentID),
		zap.String("amount", amount.StringFixed(2)),
		zap.Bool("fully_paid", resp.IsFullyPaid),
	)
	return resp, nil
}

// SetStatus moves an order between open and paid. Reopening a paid order
// removes every payment recorded against it; open on an open order is a no-op.
func (s *Service) SetStatus(ctx context.Context, workOrderID string, status string) (domain.Balance, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.Balance{}, err
	}
	orderID, err := parseID(workOrderID)
	if err != nil {
		return domain.Balance{}, err
	}
	status = strings.ToLower(strings.TrimSpace(status))
	if status != workorderdomain.StatusOpen && status != workorderdomain.StatusPaid {
		return domain.Balance{}, domain.ErrInvalidStatus
	}

	key := ratelimit.LockKey("work_order_payment", scope.ShopID.String(), orderID.String())
	err = s.guard.WithLock(ctx, key, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			order, err := s.workOrders.LockByID(ctx, tx, scope.TenantID, scope.ShopID, orderID)
			if err != nil {
				return err
			}
			if order == nil || !order.IsActive {
				return domain.ErrWorkOrderNotFound
			}

			now := s.clock.Now()
			if status == workorderdomain.StatusOpen {
				switch order.Status {
				case workorderdomain.StatusOpen:
					return nil
				case workorderdomain.StatusPaid:
					removed, err := s.repo.DeleteByWorkOrder(ctx, tx, scope.TenantID, scope.ShopID, orderID)
					if err != nil {
						return err
					}
					s.log.Info("work order reopened",
						zap.String("work_order_id", orderID.String()),
						zap.Int64("payments_removed", removed),
					)
				}
				return s.workOrders.UpdateStatus(ctx, tx, scope.TenantID, scope.ShopID, orderID, status, nil, now, actorOf(scope))
			}
			if order.Status == workorderdomain.StatusPaid {
				return nil
			}
			return s.workOrders.UpdateStatus(ctx, tx, scope.TenantID, scope.ShopID, orderID, status, &now, now, actorOf(scope))
		})
	})
	if err != nil {
		return domain.Balance{}, err
	}
	return s.balance(ctx, scope, orderID)
}

func (s *Service) GetBalance(ctx context.Context, workOrderID string) (domain.Balance, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.Balance{}, err
	}
	orderID, err := parseID(workOrderID)
	if err != nil {
		return domain.Balance{}, err
	}
	return s.balance(ctx, scope, orderID)
}

func (s *Service) balance(ctx context.Context, scope shopcontext.Scope, orderID snowflake.ID) (domain.Balance, error) {
	order, err := s.workOrders.FindByID(ctx, s.db, scope.TenantID, scope.ShopID, orderID)
	if err != nil {
		return domain.Balance{}, err
	}
	if order == nil || !order.IsActive {
		return domain.Balance{}, domain.ErrWorkOrderNotFound
	}
	payments, err := s.repo.ListByWorkOrder(ctx, s.db, scope.TenantID, scope.ShopID, orderID)
	if err != nil {
		return domain.Balance{}, err
	}
	if payments == nil {
		payments = []domain.Payment{}
	}

	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	grandTotal := money.Round2(order.GrandTotal)
	remaining := money.Round2(grandTotal.Sub(paid))
	return domain.Balance{
		WorkOrderID:      orderID.String(),
		Status:           order.Status,
		GrandTotal:       grandTotal,
		PaidAmount:       money.Round2(paid),
		RemainingBalance: remaining,
		IsFullyPaid:      remaining.LessThanOrEqual(money.Tolerance),
		Payments:         payments,
	}, nil
}

func (s *Service) ListAll(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.ListResponse{}, err
	}
	method := strings.ToLower(strings.TrimSpace(req.Method))
	if method != "" && !domain.IsValidMethod(method) {
		return domain.ListResponse{}, domain.ErrInvalidMethod
	}

	payments, err := s.repo.List(ctx, s.db, scope.TenantID, scope.ShopID, method, req.Limit(), req.Offset())
	if err != nil {
		return domain.ListResponse{}, err
	}
	total, err := s.repo.Count(ctx, s.db, scope.TenantID, scope.ShopID, method)
	if err != nil {
		return domain.ListResponse{}, err
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	return domain.ListResponse{
		Payments: payments,
		PageInfo: pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) ReceiptPDF(ctx context.Context, paymentID string) ([]byte, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID(paymentID)
	if err != nil {
		return nil, err
	}
	payment, err := s.repo.FindByID(ctx, s.db, scope.TenantID, scope.ShopID, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrNotFound
	}

	receipt := pdf.ReceiptData{
		ReceiptNumber: payment.ReceiptNumber,
		DatePaid:      payment.CreatedAt.Format("2006-01-02"),
		PaymentMethod: payment.PaymentMethod,
		AmountPaid:    money.Format(payment.Amount),
		Notes:         payment.Notes,
	}
	if s.invoices != nil {
		invoice, err := s.invoices.InvoiceData(ctx, payment.WorkOrderID.String())
		if err != nil {
			return nil, err
		}
		receipt.InvoiceData = invoice
	} else {
		receipt.InvoiceNumber = payment.WorkOrderID.String()
	}
	return s.pdf.RenderReceipt(ctx, receipt)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrOverpayment):
		return "overpayment"
	case errors.Is(err, domain.ErrWorkOrderNotFound):
		return "not_found"
	case errors.Is(err, ratelimit.ErrLocked):
		return "locked"
	default:
		return ""
	}
}

func actorOf(scope shopcontext.Scope) *snowflake.ID {
	if scope.UserID == 0 {
		return nil
	}
	id := scope.UserID
	return &id
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
