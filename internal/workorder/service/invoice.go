package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopcore/internal/providers/pdf"
	"github.com/smallbiznis/shopcore/internal/workorder/domain"
	"github.com/smallbiznis/shopcore/pkg/money"
)

// InvoicePDF renders the stored totals of an order with one row per labor
// block, part, core and misc charge.
func (s *Service) InvoicePDF(ctx context.Context, id string) ([]byte, error) {
	data, err := s.InvoiceData(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.pdf.RenderInvoice(ctx, data)
}

// InvoiceData assembles the printable view of an order.
func (s *Service) InvoiceData(ctx context.Context, id string) (pdf.InvoiceData, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return pdf.InvoiceData{}, err
	}
	shop, err := s.shops.Current(ctx)
	if err != nil {
		return pdf.InvoiceData{}, err
	}
	paid, err := s.repo.SumPaid(ctx, s.db, order.TenantID, order.ShopID, order.ID)
	if err != nil {
		return pdf.InvoiceData{}, err
	}

	customer := s.customerOrBlank(ctx, order.CustomerID)
	totals := order.Totals.Data()
	due := money.Round2(totals.GrandTotal.Sub(paid))
	if due.IsNegative() {
		due = decimal.Zero
	}

	data := pdf.InvoiceData{
		ShopName:        shop.Name,
		InvoiceNumber:   order.ID.String(),
		IssueDate:       order.CreatedAt.Format("2006-01-02"),
		Status:          order.Status,
		BillToName:      customer.DisplayName(),
		BillToPhone:     customer.Phone,
		BillToEmail:     customer.Email,
		Items:           invoiceLines(order.LaborBlocks, totals),
		LaborTotal:      money.Format(totals.LaborTotal),
		PartsTotal:      money.Format(totals.PartsTotal),
		CoreTotal:       money.Format(totals.CoreTotal),
		MiscTotal:       money.Format(totals.MiscTotal),
		ShopSupplyTotal: money.Format(totals.ShopSupplyTotal),
		GrandTotal:      money.Format(totals.GrandTotal),
		PaidAmount:      money.Format(paid),
		AmountDue:       money.Format(due),
	}
	if unit, err := s.customers.GetUnit(ctx, order.UnitID.String()); err == nil {
		data.UnitLabel = unitLabel(unit.Year, unit.Make, unit.Model, unit.VIN)
	}
	return data, nil
}

func invoiceLines(blocks []domain.LaborBlock, totals domain.Totals) []pdf.LineItem {
	var items []pdf.LineItem
	for i, block := range blocks {
		description := block.Description
		if description == "" {
			description = fmt.Sprintf("Labor %d", i+1)
		}
		labor := decimal.Zero
		if i < len(totals.Blocks) {
			labor = totals.Blocks[i].LaborTotal
		}
		rate := decimal.Zero
		if block.Hours.IsPositive() {
			rate = money.Round2(labor.Div(block.Hours))
		}
		items = append(items, pdf.LineItem{
			Description: description,
			Qty:         block.Hours.StringFixed(2),
			UnitPrice:   money.Format(rate),
			Amount:      money.Format(labor),
		})

		for _, line := range block.Parts {
			qty := decimal.NewFromInt(line.Qty)
			items = append(items, pdf.LineItem{
				Description: strings.TrimSpace(line.PartNumber + " " + line.Description),
				Qty:         strconv.FormatInt(line.Qty, 10),
				UnitPrice:   money.Format(line.Price),
				Amount:      money.Format(money.Round2(qty.Mul(line.Price))),
			})
			if line.CoreCharge != nil && line.CoreCharge.IsPositive() {
				items = append(items, pdf.LineItem{
					Description: "Core charge " + line.PartNumber,
					Qty:         strconv.FormatInt(line.Qty, 10),
					UnitPrice:   money.Format(*line.CoreCharge),
					Amount:      money.Format(money.Round2(qty.Mul(*line.CoreCharge))),
				})
			}
			if line.MiscCharge != nil && line.MiscCharge.IsPositive() {
				label := line.MiscChargeDescription
				if label == "" {
					label = "Misc charge " + line.PartNumber
				}
				items = append(items, pdf.LineItem{
					Description: label,
					Qty:         "1",
					UnitPrice:   money.Format(*line.MiscCharge),
					Amount:      money.Format(*line.MiscCharge),
				})
			}
		}
	}
	return items
}

func unitLabel(year int, maker, model, vin string) string {
	var parts []string
	if year > 0 {
		parts = append(parts, strconv.Itoa(year))
	}
	for _, v := range []string{maker, model} {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	if vin = strings.TrimSpace(vin); vin != "" {
		parts = append(parts, "VIN "+vin)
	}
	return strings.Join(parts, " ")
}
