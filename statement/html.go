package statement

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/easysell/recon_backend/models"
)

// DisputeWindowDays is a fixed business rule, not configuration: any
// discrepancy must be raised within this many days of receipt.
const DisputeWindowDays = 7

// statementTemplate uses html/template so every interpolated value is
// contextually escaped before it reaches an email body.
var statementTemplate = template.Must(template.New("statement").Funcs(template.FuncMap{
	"amt":  formatAmount,
	"text": formatText,
}).Parse(`<html>
  <body style="font-family: Arial, sans-serif; color: #333;">
    <p>Dear {{.PartyName}},</p>
    <p>Please find below the summary of your recent transactions with us:</p>
    <h3>Purchase &amp; Payment Details</h3>
    <table style="border-collapse: collapse; width: 100%; margin-bottom: 20px;">
      <thead>
{{- if .IsLedger}}
        <tr style="background-color: #f2f2f2; border: 2px solid #333;">
          <th style="border: 1px solid #333; padding: 8px;">Bill No</th>
          <th style="border: 1px solid #ddd; padding: 8px;">Advised No</th>
          <th style="border: 1px solid #ddd; padding: 8px;">Seller Advised No</th>
          <th style="border: 1px solid #ddd; padding: 8px;">Type</th>
          <th style="border: 1px solid #ddd; padding: 8px;">Debit</th>
          <th style="border: 1px solid #ddd; padding: 8px;">Credit</th>
          <th style="border: 1px solid #ddd; padding: 8px;">Running Balance</th>
        </tr>
{{- else}}
        <tr style="background-color: #f2f2f2; border: 2px solid #333;">
          <th style="border: 1px solid #333; padding: 8px;">Purchase Bill</th>
          <th style="border: 1px solid #ddd; padding: 8px;">Pur. Date</th>
          <th style="border: 1px solid #ddd; padding: 8px;">Amount Rs.</th>
          <th style="border: 1px solid #ddd; padding: 8px;">Debit Note</th>
          <th style="border: 1px solid #ddd; padding: 8px;">Total Payment</th>
          <th style="border: 1px solid #ddd; padding: 8px;">Bank Payment</th>
          <th style="border: 1px solid #ddd; padding: 8px;">Payment Date</th>
        </tr>
{{- end}}
      </thead>
      <tbody>
{{- range .Lines}}
{{- if $.IsLedger}}
        <tr style="text-align:center; border:1px solid #ccc;">
          <td style="border:1px solid #ccc;">{{text .InvoiceNo}}</td>
          <td style="border:1px solid #ccc;">{{text .MainAdviceNo}}</td>
          <td style="border:1px solid #ccc;">{{text .SellerAdviceNo}}</td>
          <td style="border:1px solid #ccc;">{{text .TransactionType}}</td>
          <td style="border:1px solid #ccc;">{{amt .DebitAmount}}</td>
          <td style="border:1px solid #ccc;">{{amt .BankPayment}}</td>
          <td style="border:1px solid #ccc;">{{amt .RunningBalance}}</td>
        </tr>
{{- else}}
        <tr style="text-align:center; border:1px solid #ccc;">
          <td style="border:1px solid #ccc;">{{text .InvoiceNo}}</td>
          <td style="border:1px solid #ccc;">{{text .PurchaseDate}}</td>
          <td style="border:1px solid #ccc;">{{amt .TotalInvoiceAmount}}</td>
          <td style="border:1px solid #ccc;">{{amt .DebitAmount}}</td>
          <td style="border:1px solid #ccc;">{{amt .NetAmount}}</td>
          <td style="border:1px solid #ccc;">{{amt .BankPayment}}</td>
          <td style="border:1px solid #ccc;">{{text .PaymentDate}}</td>
        </tr>
{{- end}}
{{- end}}
{{- if .IsLedger}}
        <tr style="text-align:center; font-weight:bold; background-color:#f9f9f9;">
          <td colspan="6" style="border:1px solid #ccc;">Final Balance</td>
          <td style="border:1px solid #ccc;">{{amt .FinalBalance}}</td>
        </tr>
{{- else}}
        <tr style="text-align:center; font-weight:bold; background-color:#f9f9f9;">
          <td colspan="2" style="border:1px solid #ccc;">Total</td>
          <td style="border:1px solid #ccc;">{{amt .TotalInvoiceAmount}}</td>
          <td style="border:1px solid #ccc;">-</td>
          <td style="border:1px solid #ccc;">{{amt .TotalNetAmount}}</td>
          <td style="border:1px solid #ccc;">{{amt .TotalBankPayment}}</td>
          <td style="border:1px solid #ccc;">-</td>
        </tr>
{{- end}}
      </tbody>
    </table>
{{- if .Notes}}
    <h3>Return/Debit Details</h3>
    <table style="border-collapse: collapse; width: auto; text-align:center">
      <thead>
        <tr style="background-color: #f2f2f2; border: 2px solid #333;">
          <th style="border: 2px solid #333; padding: 8px;">Date</th>
          <th style="border: 2px solid #333; padding: 8px;">Return Invoice No.</th>
          <th style="border: 2px solid #333; padding: 8px;">Amount</th>
        </tr>
      </thead>
      <tbody>
{{- range .Notes}}
        <tr style="border: 1px solid #ccc; text-align: center;">
          <td style="border:1px solid #ccc;">{{text .Date}}</td>
          <td style="border:1px solid #ccc;">{{text .ReferenceNo}}</td>
          <td style="border:1px solid #ccc;">{{amt .Amount}}</td>
        </tr>
{{- end}}
        <tr style="border:1px solid #ccc; background-color: #f9f9f9;">
          <td colspan="2" style="text-align:right; font-weight:bold; border:1px solid #ccc;">Total Note Amount:</td>
          <td style="border:1px solid #ccc; text-align:center; font-weight:bold;">{{amt .TotalNoteAmount}}</td>
        </tr>
      </tbody>
    </table>
    <br>
    <p><strong>Important Note:</strong> If you have any discrepancies or concerns regarding the above payment summary, please raise the issue within {{.DisputeWindowDays}} days. No changes or claims will be entertained after this period.</p>
{{- end}}
    <p>Thank you for your continued partnership.</p>
    <p>Best regards,<br><strong>Easy Sell Service Pvt. Ltd.</strong></p>
  </body>
</html>
`))

type htmlData struct {
	*Statement
	IsLedger          bool
	DisputeWindowDays int
}

// HTML renders the statement as an email body. Values are escaped by the
// template engine; missing text fields render as a dash.
func (s *Statement) HTML() (string, error) {
	var buf bytes.Buffer
	data := htmlData{
		Statement:         s,
		IsLedger:          s.Variant == models.VariantLedger,
		DisputeWindowDays: DisputeWindowDays,
	}
	if err := statementTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render statement for %q: %v", s.PartyName, err)
	}
	return buf.String(), nil
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatText(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
