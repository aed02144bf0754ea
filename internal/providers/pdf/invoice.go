package pdf

import (
	"context"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type MarotoProvider struct{}

func New() Provider {
	return &MarotoProvider{}
}

func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()
	return maroto.New(cfg)
}

func (p *MarotoProvider) RenderInvoice(ctx context.Context, invoice InvoiceData) ([]byte, error) {
	m := newDocument()

	m.AddRow(15,
		text.NewCol(8, invoice.ShopName, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, "Invoice", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Invoice number: "+invoice.InvoiceNumber, props.Text{Top: 0}),
			text.New("Date of issue: "+invoice.IssueDate, props.Text{Top: 4}),
			text.New("Status: "+invoice.Status, props.Text{Top: 8}),
		),
		col.New(6).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold}),
			text.New(invoice.BillToName, props.Text{Top: 4}),
			text.New(invoice.BillToPhone, props.Text{Top: 8}),
			text.New(invoice.BillToEmail, props.Text{Top: 12}),
		),
	)

	if invoice.UnitLabel != "" {
		m.AddRow(8, text.NewCol(12, "Unit: "+invoice.UnitLabel, props.Text{Size: 9}))
	}

	addItems(m, invoice.Items)
	addTotals(m, invoice)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

func addItems(m core.Maroto, items []LineItem) {
	m.AddRow(10,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, item := range items {
		m.AddRow(8,
			text.NewCol(6, item.Description, props.Text{Size: 9}),
			text.NewCol(2, item.Qty, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}
}

func addTotals(m core.Maroto, invoice InvoiceData) {
	rows := []struct {
		label string
		value string
	}{
		{"Labor", invoice.LaborTotal},
		{"Parts", invoice.PartsTotal},
		{"Cores", invoice.CoreTotal},
		{"Misc", invoice.MiscTotal},
		{"Shop supplies", invoice.ShopSupplyTotal},
		{"Total", invoice.GrandTotal},
		{"Paid", invoice.PaidAmount},
	}
	for _, row := range rows {
		m.AddRow(7,
			col.New(8),
			text.NewCol(2, row.label, props.Text{Size: 9}),
			text.NewCol(2, row.value, props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Amount due", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, invoice.AmountDue, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
}
