package export

import (
	"Invoice-Service/domain"
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const maxColumnWidth = 50

var analysisSections = []struct {
	key   string
	sheet string
}{
	{"vendor_info", "Vendor Information"},
	{"invoice_details", "Invoice Details"},
	{"line_items", "Line Items"},
	{"taxes_fees", "Taxes & Fees"},
	{"payment_info", "Payment Information"},
	{"compliance_flags", "Compliance Flags and Risk Factors"},
}

// CreateInvoiceAnalysis renders the six-category document into a styled
// workbook: one sheet per non-empty category plus a Summary sheet in front.
func CreateInvoiceAnalysis(doc domain.InvoiceDocument) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := newHeaderStyle(f)
	if err != nil {
		return nil, err
	}

	for _, section := range analysisSections {
		tables := doc.Category(section.key)
		if len(tables) == 0 {
			continue
		}
		if _, err := f.NewSheet(section.sheet); err != nil {
			return nil, err
		}
		if err := writeSectionSheet(f, section.sheet, tables, headerStyle); err != nil {
			return nil, err
		}
	}

	if err := writeSummarySheet(f); err != nil {
		return nil, err
	}

	// Drop the default sheet and put Summary first.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	idx, err := f.GetSheetIndex("Summary")
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)

	return f.WriteToBuffer()
}

// CreateInvoiceExport renders one stored invoice into a workbook with a field
// comparison sheet (extracted vs classified) and a Summary sheet.
func CreateInvoiceExport(invoiceID, filename, userID, status string, createdAt time.Time, extracted map[string]string, classified map[string]domain.FieldClassification) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := newHeaderStyle(f)
	if err != nil {
		return nil, err
	}

	const dataSheet = "Invoice Data"
	if _, err := f.NewSheet(dataSheet); err != nil {
		return nil, err
	}

	headers := []string{"Field", "Extracted Value", "Classified Value", "Confidence"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(dataSheet, cell, header); err != nil {
			return nil, err
		}
	}
	startCell, _ := excelize.CoordinatesToCellName(1, 1)
	endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(dataSheet, startCell, endCell, headerStyle); err != nil {
		return nil, err
	}

	fields := make([]string, 0, len(extracted))
	for field := range extracted {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	widths := columnWidths(headers)
	for row, field := range fields {
		values := []any{field, extracted[field], "", ""}
		if classification, ok := classified[field]; ok {
			values[2] = classification.Value
			values[3] = classification.Confidence
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(dataSheet, cell, value); err != nil {
				return nil, err
			}
			widths.observe(col, fmt.Sprint(value))
		}
	}
	if err := widths.apply(f, dataSheet); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet("Summary"); err != nil {
		return nil, err
	}
	summaryRows := [][2]string{
		{"Invoice ID", invoiceID},
		{"Filename", filename},
		{"User ID", userID},
		{"Created At", createdAt.Format("2006-01-02 15:04:05")},
		{"Status", status},
	}
	for i, row := range summaryRows {
		if err := f.SetCellValue("Summary", fmt.Sprintf("A%d", i+1), row[0]); err != nil {
			return nil, err
		}
		if err := f.SetCellValue("Summary", fmt.Sprintf("B%d", i+1), row[1]); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth("Summary", "A", "B", 40); err != nil {
		return nil, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

func newHeaderStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
}

// writeSectionSheet writes each table of one category: styled header row from
// the CSV header line, then label/value rows split on the first comma. Rows
// whose value is empty or UNKNOWN are skipped, tables are separated by two
// blank rows.
func writeSectionSheet(f *excelize.File, sheet string, tables []domain.Table, headerStyle int) error {
	row := 1
	widths := columnWidths(nil)

	for _, table := range tables {
		lines := strings.Split(strings.TrimSpace(table.Data), "\n")
		if len(lines) < 2 {
			continue
		}

		headers := strings.Split(lines[0], ",")
		for col, header := range headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, strings.TrimSpace(header)); err != nil {
				return err
			}
			widths.observe(col, header)
		}
		startCell, _ := excelize.CoordinatesToCellName(1, row)
		endCell, _ := excelize.CoordinatesToCellName(len(headers), row)
		if err := f.SetCellStyle(sheet, startCell, endCell, headerStyle); err != nil {
			return err
		}
		row++

		for _, line := range lines[1:] {
			comma := strings.IndexByte(line, ',')
			if comma == -1 {
				continue
			}
			name := strings.TrimSpace(line[:comma])
			value := strings.TrimSpace(line[comma+1:])
			if value == "" || value == "UNKNOWN" {
				continue
			}

			nameCell, _ := excelize.CoordinatesToCellName(1, row)
			valueCell, _ := excelize.CoordinatesToCellName(2, row)
			if err := f.SetCellValue(sheet, nameCell, name); err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, valueCell, value); err != nil {
				return err
			}
			widths.observe(0, name)
			widths.observe(1, value)
			row++
		}

		row += 2
	}

	return widths.apply(f, sheet)
}

func writeSummarySheet(f *excelize.File) error {
	if _, err := f.NewSheet("Summary"); err != nil {
		return err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return err
	}
	sectionStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return err
	}

	if err := f.SetCellValue("Summary", "A1", "Invoice Analysis Report"); err != nil {
		return err
	}
	if err := f.SetCellStyle("Summary", "A1", "A1", titleStyle); err != nil {
		return err
	}
	if err := f.SetCellValue("Summary", "A3", fmt.Sprintf("Generated on: %s", time.Now().Format("2006-01-02 15:04:05"))); err != nil {
		return err
	}
	if err := f.SetCellValue("Summary", "A5", "Executive Summary"); err != nil {
		return err
	}
	if err := f.SetCellStyle("Summary", "A5", "A5", sectionStyle); err != nil {
		return err
	}
	if err := f.SetCellValue("Summary", "A6", "This report provides a comprehensive analysis of the invoice documents, including vendor information, invoice details, line items, and key terms and conditions."); err != nil {
		return err
	}
	return f.SetColWidth("Summary", "A", "A", 80)
}

// colWidths tracks the widest value per column so widths can be adjusted once
// at the end, capped at maxColumnWidth.
type colWidths map[int]int

func columnWidths(initial []string) colWidths {
	w := colWidths{}
	for i, s := range initial {
		w.observe(i, s)
	}
	return w
}

func (w colWidths) observe(col int, value string) {
	if len(value) > w[col] {
		w[col] = len(value)
	}
}

func (w colWidths) apply(f *excelize.File, sheet string) error {
	for col, length := range w {
		width := length + 2
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, float64(width)); err != nil {
			return err
		}
	}
	return nil
}
