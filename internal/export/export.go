// Package export renders a loaded ledger as display rows and as an XLSX workbook.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mtlprog/suiledger/internal/coin"
	"github.com/mtlprog/suiledger/internal/domain"
)

// Row is one ledger entry prepared for display.
type Row struct {
	SequenceNumber uint64             `json:"sequenceNumber"`
	Digest         string             `json:"digest"`
	Kind           domain.KindName    `json:"kind"`
	Action         string             `json:"action"`
	Status         string             `json:"status"`
	Error          string             `json:"error,omitempty"`
	Sender         string             `json:"sender"`
	IsSenderSelf   bool               `json:"isSenderSelf"`
	Counterparty   string             `json:"counterparty,omitempty"`
	ObjectID       string             `json:"objectId,omitempty"`
	Name           string             `json:"name,omitempty"`
	URL            string             `json:"url,omitempty"`
	Amount         coin.Display       `json:"amount"`
	Gas            coin.Display       `json:"gas"`
	Timestamp      *time.Time         `json:"timestamp,omitempty"`
	Entry          domain.LedgerEntry `json:"entry"`
}

// BuildRows formats every entry under mode, keeping entry order.
func BuildRows(entries []domain.LedgerEntry, registry *coin.Registry, mode coin.Mode) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		row := Row{
			SequenceNumber: e.SequenceNumber,
			Digest:         e.Digest,
			Status:         string(e.Status),
			Error:          e.Error,
			Sender:         e.Sender,
			IsSenderSelf:   e.IsSenderSelf,
			Counterparty:   e.Counterparty(),
			ObjectID:       e.ObjectID(),
			Name:           e.Enrichment.Name,
			URL:            e.Enrichment.URL,
			Amount:         registry.FormatForDisplay(e.DisplayAmount(), e.DisplayCoinType(), mode),
			Gas:            registry.FormatForDisplay(e.GasUsed, domain.NativeCoin(), mode),
			Entry:          e,
		}
		if e.Kind != nil {
			row.Kind = e.Kind.Name()
			row.Action = action(e.Kind)
		}
		if e.TimestampMs != nil {
			ts := time.UnixMilli(*e.TimestampMs).UTC()
			row.Timestamp = &ts
		}
		rows = append(rows, row)
	}
	return rows
}

func action(k domain.Kind) string {
	switch v := k.(type) {
	case domain.CallKind:
		return v.DisplayFunction()
	case domain.TransferSuiKind:
		return "transfer SUI"
	case domain.TransferObjectKind:
		return "transfer object"
	case domain.PublishKind:
		return "publish"
	default:
		return string(k.Name())
	}
}

// column describes one column of the ledger sheet.
type column struct {
	header string
	width  float64
	value  func(Row) any
}

var ledgerColumns = []column{
	{header: "Sequence", width: 10, value: func(r Row) any { return r.SequenceNumber }},
	{header: "Time (UTC)", width: 20, value: func(r Row) any {
		if r.Timestamp == nil {
			return nil
		}
		return r.Timestamp.Format("2006-01-02 15:04:05")
	}},
	{header: "Digest", width: 48, value: func(r Row) any { return r.Digest }},
	{header: "Kind", width: 16, value: func(r Row) any { return string(r.Kind) }},
	{header: "Action", width: 20, value: func(r Row) any { return r.Action }},
	{header: "Status", width: 10, value: func(r Row) any { return r.Status }},
	{header: "Sender", width: 44, value: func(r Row) any { return r.Sender }},
	{header: "Counterparty", width: 44, value: func(r Row) any { return r.Counterparty }},
	{header: "Amount", width: 24, value: func(r Row) any { return r.Amount.Text }},
	{header: "Symbol", width: 10, value: func(r Row) any { return r.Amount.Symbol }},
	{header: "Gas (SUI)", width: 16, value: func(r Row) any { return r.Gas.Text }},
	{header: "Object", width: 44, value: func(r Row) any { return r.ObjectID }},
	{header: "Name", width: 24, value: func(r Row) any { return r.Name }},
	{header: "Error", width: 30, value: func(r Row) any { return r.Error }},
}

const ledgerSheet = "Ledger"

// WriteXLSX writes rows as a single-sheet workbook. Amounts are written as
// their formatted text so no value passes through a float.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	headers := make([]any, len(ledgerColumns))
	for i, c := range ledgerColumns {
		headers[i] = c.header
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("naming column %d: %w", i+1, err)
		}
		if err := f.SetColWidth(ledgerSheet, colName, colName, c.width); err != nil {
			return fmt.Errorf("setting width of %s: %w", colName, err)
		}
	}
	if err := f.SetSheetRow(ledgerSheet, "A1", &headers); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	if err := f.SetRowStyle(ledgerSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	if err := f.SetPanes(ledgerSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	for i, r := range rows {
		values := make([]any, len(ledgerColumns))
		for j, c := range ledgerColumns {
			values[j] = c.value(r)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("addressing row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(ledgerSheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
