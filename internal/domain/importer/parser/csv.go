package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/ledgerline/statement-extractor/internal/domain/importer/sniffer"
)

// statementRow maps the shared statement column vocabulary. gocsv binds by
// header name, so one struct covers every issuer's export; columns a file
// does not have stay empty, columns we do not know are ignored.
type statementRow struct {
	Date      string `csv:"date"`
	TransDate string `csv:"transaction date"`
	PostDate  string `csv:"post date"`

	Description string `csv:"description"`
	Merchant    string `csv:"merchant"`
	Payee       string `csv:"payee"`
	Details     string `csv:"details"`
	Memo        string `csv:"memo"`

	Amount string `csv:"amount"`
	Debit  string `csv:"debit"`
	Credit string `csv:"credit"`

	Category string `csv:"category"`
	Type     string `csv:"type"`
}

// ParseCSV sniffs the export layout and decodes its data rows. The header
// row is rewritten lowercase with duplicate names suffixed before decoding,
// so "Amount, Amount" exports bind cleanly.
func ParseCSV(data []byte) (*sniffer.FileConfig, []RawRow, error) {
	cfg, err := sniffer.DetectConfig(data)
	if err != nil {
		return nil, nil, err
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)
	w.Comma = cfg.Delimiter
	header := make([]string, len(cfg.Headers))
	for i, h := range cfg.Headers {
		header[i] = strings.ToLower(h)
	}
	if err := w.Write(header); err != nil {
		return nil, nil, err
	}
	w.Flush()

	body := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	body = body[cfg.SkipLines+1:]

	reader := csv.NewReader(io.MultiReader(
		strings.NewReader(buf.String()),
		strings.NewReader(strings.Join(body, "\n")),
	))
	reader.Comma = cfg.Delimiter
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var decoded []*statementRow
	if err := gocsv.UnmarshalCSV(reader, &decoded); err != nil {
		return nil, nil, fmt.Errorf("decode csv: %w", err)
	}

	rows := make([]RawRow, 0, len(decoded))
	for i, r := range decoded {
		rows = append(rows, RawRow{
			Line:        cfg.SkipLines + 2 + i,
			Date:        coalesce(r.TransDate, r.Date, r.PostDate),
			Description: coalesce(r.Description, r.Merchant, r.Payee, r.Details, r.Memo),
			Amount:      r.Amount,
			Debit:       r.Debit,
			Credit:      r.Credit,
			Category:    coalesce(r.Category, r.Type),
			Channel:     strings.TrimSpace(r.Type),
		})
	}
	return cfg, rows, nil
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
