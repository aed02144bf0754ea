package pdf

import (
	"context"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

func (p *MarotoProvider) RenderReceipt(ctx context.Context, receipt ReceiptData) ([]byte, error) {
	m := newDocument()

	m.AddRow(15,
		text.NewCol(8, receipt.ShopName, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, "Receipt", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Receipt number: "+receipt.ReceiptNumber, props.Text{Top: 0}),
			text.New("Invoice number: "+receipt.InvoiceNumber, props.Text{Top: 4}),
			text.New("Date paid: "+receipt.DatePaid, props.Text{Top: 8}),
			text.New("Method: "+receipt.PaymentMethod, props.Text{Top: 12}),
		),
		col.New(6).Add(
			text.New("Received from", props.Text{Style: fontstyle.Bold}),
			text.New(receipt.BillToName, props.Text{Top: 4}),
			text.New(receipt.BillToPhone, props.Text{Top: 8}),
			text.New(receipt.BillToEmail, props.Text{Top: 12}),
		),
	)

	m.AddRow(15,
		text.NewCol(12, receipt.AmountPaid+" paid on "+receipt.DatePaid, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Top:   5,
		}),
	)
	if receipt.Notes != "" {
		m.AddRow(10, text.NewCol(12, receipt.Notes, props.Text{Size: 9}))
	}

	addItems(m, receipt.Items)
	addTotals(m, receipt.InvoiceData)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
