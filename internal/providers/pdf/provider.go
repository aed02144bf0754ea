// Package pdf renders work order invoices and payment receipts.
package pdf

import "context"

// LineItem is one printed invoice row. Amounts arrive preformatted.
type LineItem struct {
	Description string
	Qty         string
	UnitPrice   string
	Amount      string
}

type InvoiceData struct {
	ShopName      string
	InvoiceNumber string
	IssueDate     string
	Status        string

	BillToName  string
	BillToPhone string
	BillToEmail string
	UnitLabel   string

	Items []LineItem

	LaborTotal      string
	PartsTotal      string
	CoreTotal       string
	MiscTotal       string
	ShopSupplyTotal string
	GrandTotal      string
	PaidAmount      string
	AmountDue       string
}

type ReceiptData struct {
	InvoiceData
	ReceiptNumber string
	DatePaid      string
	PaymentMethod string
	AmountPaid    string
	Notes         string
}

type Provider interface {
	RenderInvoice(ctx context.Context, data InvoiceData) ([]byte, error)
	RenderReceipt(ctx context.Context, data ReceiptData) ([]byte, error)
}

// NoOpProvider renders nothing. It backs deployments that disable PDFs.
type NoOpProvider struct{}

func (NoOpProvider) RenderInvoice(context.Context, InvoiceData) ([]byte, error) {
	return nil, nil
}

func (NoOpProvider) RenderReceipt(context.Context, ReceiptData) ([]byte, error) {
	return nil, nil
}
