package pdf_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/smallbiznis/shopcore/internal/providers/pdf"
	"github.com/stretchr/testify/require"
)

func sampleInvoice() pdf.InvoiceData {
	return pdf.InvoiceData{
		ShopName:      "Main Street Diesel",
		InvoiceNumber: "WO-1001",
		IssueDate:     "2026-03-01",
		Status:        "open",
		BillToName:    "Acme Freight",
		UnitLabel:     "1FUJGLDR7CLBP8834",
		Items: []pdf.LineItem{
			{Description: "Replace brake pads", Qty: "2.00", UnitPrice: "$100.00", Amount: "$200.00"},
			{Description: "BRK-1 Brake pad", Qty: "4", UnitPrice: "$25.00", Amount: "$100.00"},
		},
		LaborTotal:      "$200.00",
		PartsTotal:      "$100.00",
		CoreTotal:       "$0.00",
		MiscTotal:       "$0.00",
		ShopSupplyTotal: "$10.00",
		GrandTotal:      "$310.00",
		PaidAmount:      "$0.00",
		AmountDue:       "$310.00",
	}
}

func TestRenderInvoice(t *testing.T) {
	out, err := pdf.New().RenderInvoice(context.Background(), sampleInvoice())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderReceipt(t *testing.T) {
	out, err := pdf.New().RenderReceipt(context.Background(), pdf.ReceiptData{
		InvoiceData:   sampleInvoice(),
		ReceiptNumber: "01HZX3Q9K7",
		DatePaid:      "2026-03-02",
		PaymentMethod: "card",
		AmountPaid:    "$310.00",
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestNoOpProvider(t *testing.T) {
	out, err := pdf.NoOpProvider{}.RenderInvoice(context.Background(), sampleInvoice())
	require.NoError(t, err)
	require.Nil(t, out)
}
