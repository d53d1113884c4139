package service

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/tealeg/xlsx"

	"github.com/sofiamancini/bancore/internal/models"
)

// StatementService renders an account's ledger as a downloadable report.
type StatementService struct{}

// NewStatementService creates a new StatementService
func NewStatementService() *StatementService {
	return &StatementService{}
}

var statementColumns = []string{"Date", "Kind", "Category", "Detail", "Amount", "Balance"}

// RenderPDF writes the account statement as a PDF document.
func (s *StatementService) RenderPDF(account *models.Account, txns []*models.Transaction, w io.Writer) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(120, 10, "Account statement")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(120, 7, fmt.Sprintf("%s  -  %s", account.Name, account.IBAN))
	pdf.Ln(10)

	widths := []float64{40, 25, 30, 90, 30, 30}

	pdf.SetFont("Arial", "B", 11)
	for i, header := range statementColumns {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "", false, 0, "")
	}
	pdf.Ln(7)

	pdf.SetFont("Arial", "", 10)
	for _, txn := range txns {
		cells := statementRow(txn)
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "", false, 0, "")
		}
		pdf.Ln(7)
	}

	if err := pdf.Output(w); err != nil {
		return internalError("failed to render pdf statement", err)
	}

	return nil
}

// RenderXLSX writes the account statement as an XLSX workbook.
func (s *StatementService) RenderXLSX(account *models.Account, txns []*models.Transaction, w io.Writer) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Statement")
	if err != nil {
		return internalError("failed to create xlsx sheet", err)
	}

	title := sheet.AddRow()
	title.AddCell().SetValue(account.Name)
	title.AddCell().SetValue(account.IBAN)

	header := sheet.AddRow()
	for _, column := range statementColumns {
		header.AddCell().SetValue(column)
	}

	for _, txn := range txns {
		row := sheet.AddRow()
		for _, cell := range statementRow(txn) {
			row.AddCell().SetValue(cell)
		}
	}

	if err := file.Write(w); err != nil {
		return internalError("failed to render xlsx statement", err)
	}

	return nil
}

func statementRow(txn *models.Transaction) []string {
	category, detail := "", ""
	if txn.Category != nil {
		category = *txn.Category
	}
	if txn.Detail != nil {
		detail = *txn.Detail
	}

	return []string{
		txn.CreatedAt.Format(time.DateTime),
		string(txn.Kind),
		category,
		detail,
		formatCents(txn.AmountCents),
		formatCents(txn.BalanceAfterCents),
	}
}
