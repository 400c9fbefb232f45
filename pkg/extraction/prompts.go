package extraction

import (
	"Invoice-Service/domain"
	"encoding/json"
	"fmt"
	"strings"
)

func buildStructurePrompt(parsed domain.ParseResult) string {
	chunksJSON, _ := json.MarshalIndent(parsed.Chunks, "", "  ")

	return fmt.Sprintf(`Analyze the following invoice document data and extract comprehensive invoice information. This may include vendor invoices, purchase orders, receipts, or billing statements.

INVOICE MARKDOWN:
%s

STRUCTURED CHUNKS:
%s

Your task is to extract invoice information and identify any compliance or processing flags:

1. VENDOR INFORMATION: Extract vendor/supplier details in CSV format:
   Field Name,Value
   REQUIRED FIELDS TO FIND:
   - Vendor Name (company/individual providing goods/services)
   - Vendor Address (complete address)
   - Vendor Contact (phone, email if available)
   - Tax ID (if available)
   - Payment Terms (net 30, due on receipt, etc.)

2. INVOICE DETAILS: Extract invoice header information in CSV format:
   Field Name,Value
   REQUIRED FIELDS TO FIND:
   - Invoice Number (unique identifier)
   - Invoice Date (when invoice was issued)
   - Due Date (payment due date)
   - Purchase Order Number (if referenced)
   - Currency (USD, EUR, etc.)

3. LINE ITEMS: Extract all line items in CSV format:
   Item Description,Quantity,Unit Price,Line Total
   REQUIRED FIELDS TO FIND:
   - Item descriptions
   - Quantities ordered/purchased
   - Unit prices
   - Extended amounts (quantity x unit price)

4. TAXES & FEES: Extract tax and fee information in CSV format:
   Tax/Fee Type,Rate,Amount
   REQUIRED FIELDS TO FIND:
   - Sales tax amounts and rates
   - Shipping/freight charges
   - Handling fees
   - Discounts applied

5. PAYMENT INFORMATION: Extract payment details in CSV format:
   Field Name,Value
   REQUIRED FIELDS TO FIND:
   - Total Amount Due
   - Amount Paid (if any)
   - Balance Due
   - Payment Method (if specified)

6. COMPLIANCE FLAGS: Extract compliance and processing flags in CSV format:
   Flag Type,Severity,Description
   REQUIRED FIELDS TO FIND:
   - Duplicate invoice detection
   - Amount discrepancies
   - Missing required fields
   - Tax compliance issues
   - Approval required flags

CRITICAL EXTRACTION RULES:
- Extract actual invoice data from invoices, receipts, and billing documents
- Handle negative amounts: If a value has a negative sign, preserve it. If a value is in parentheses, convert to negative
- Do NOT include instructions, explanations, or non-data text
- Extract actual invoice data (vendor names, invoice numbers, amounts, dates, etc.)
- Ensure all numeric values are clean (no commas in numbers, currency symbols removed)
- If any field cannot be determined, use "UNKNOWN"
- All required fields must be present
- Pay special attention to invoice numbers, dates, amounts, and vendor information

Respond in JSON format with these exact keys:
{
  "vendor_info": [{"data": "CSV data with headers"}],
  "invoice_details": [{"data": "CSV data with headers"}],
  "line_items": [{"data": "CSV data with headers"}],
  "taxes_fees": [{"data": "CSV data with headers"}],
  "payment_info": [{"data": "CSV data with headers"}],
  "compliance_flags": [{"data": "CSV data with headers"}]
}

Return ONLY valid JSON with NO explanatory text.`, parsed.Markdown, string(chunksJSON))
}

func buildCorrectionPrompt(extracted domain.InvoiceDocument, parsed domain.ParseResult) string {
	extractionJSON, _ := json.MarshalIndent(extracted, "", "  ")
	chunksJSON, _ := json.MarshalIndent(parsed.Chunks, "", "  ")

	return fmt.Sprintf(`Evaluate and correct the extraction of invoice information from this invoice document. This may include vendor invoices, purchase orders, receipts, or billing statements.

TASK: Review the extracted data against the raw document output and ensure invoice information is captured along with any compliance or processing flags.

RAW DOCUMENT DATA (Original Data):
MARKDOWN:
%s

STRUCTURED CHUNKS:
%s

EXTRACTED DATA (To be evaluated):
%s

Your job is to:
1. Compare the extraction against the raw document data above
2. Check if any invoice information that is clearly present in the raw data was missed
3. Verify that all invoice details were correctly extracted
4. Fix any errors in the extraction
5. Ensure ALL required fields are captured

REQUIRED INVOICE INFORMATION TO VERIFY:
1. VENDOR INFO: Name, Address, Contact, Tax ID, Payment Terms
2. INVOICE DETAILS: Invoice Number, Invoice Date, Due Date, PO Number, Currency
3. LINE ITEMS: Item descriptions, quantities, unit prices, line totals
4. TAXES & FEES: Tax amounts/rates, shipping, handling, discounts
5. PAYMENT INFO: Total due, amount paid, balance due, payment method
6. COMPLIANCE FLAGS: Duplicate detection, discrepancies, missing fields, tax issues

Carefully examine the following aspects:
1. VENDOR INFORMATION: Ensure vendor details are properly extracted
2. INVOICE HEADER: Verify invoice numbers, dates, and amounts are correct
3. LINE ITEMS: Check all line items are captured with correct quantities and prices
4. CALCULATIONS: Verify totals and tax calculations are accurate
5. COMPLIANCE: Check for any issues or flags that need attention
6. NUMBER FORMATS: Fix any issues with commas, decimal points, or currency symbols in numeric fields

IMPORTANT: Include all invoice information from vendor invoices, receipts, and billing documents. Remove any unrelated transactions, instructions, explanations, or non-relevant data.

The response MUST maintain the exact same JSON structure as the input with these exact keys:
- "vendor_info": Array of vendor information tables
- "invoice_details": Array of invoice detail tables
- "line_items": Array of line item tables
- "taxes_fees": Array of tax/fee tables
- "payment_info": Array of payment information tables
- "compliance_flags": Array of compliance flag tables

Each table should have a "data" property containing CSV data with appropriate headers.

If any field cannot be determined, use "UNKNOWN" for that field, but ALL fields MUST be present in the response.

Return ONLY valid JSON with NO explanatory text.`, parsed.Markdown, string(chunksJSON), string(extractionJSON))
}

func buildMergePrompt(documents []domain.DocumentData, combined domain.InvoiceDocument) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You have processed %d invoice documents - combine and validate the extracted data.\n\nDOCUMENTS PROCESSED:\n", len(documents))

	for i, doc := range documents {
		docJSON, _ := json.MarshalIndent(doc.Data, "", "  ")
		fmt.Fprintf(&sb, "\nDocument %d: %s\nData: %s\n", i+1, doc.DocumentName, string(docJSON))
	}

	combinedJSON, _ := json.MarshalIndent(combined, "", "  ")
	fmt.Fprintf(&sb, `

CURRENT COMBINED DATA:
%s

TASK:
1. Combine data from multiple invoice documents
2. Remove duplicates and conflicting information
3. Validate totals and calculations across documents
4. Flag any discrepancies between documents
5. Create a consolidated view of all invoice information

VALIDATION RULES:
- If the same vendor appears in multiple documents, combine their information
- If invoice numbers conflict, flag as potential duplicate
- Sum totals from multiple documents if they represent different invoices
- Flag any calculation discrepancies
- Preserve all unique line items and vendor information

Return a consolidated JSON with the same structure but with validated, combined data.
`, string(combinedJSON))

	return sb.String()
}
