// Package service orchestrates a statement import: account detection, year
// inference, row extraction, validation, sign normalization, categorization,
// and history recording.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ledgerline/statement-extractor/internal/domain/account"
	"github.com/ledgerline/statement-extractor/internal/domain/categorization"
	"github.com/ledgerline/statement-extractor/internal/domain/importer/history"
	"github.com/ledgerline/statement-extractor/internal/domain/importer/parser"
	stmtlines "github.com/ledgerline/statement-extractor/internal/domain/lines"
	"github.com/ledgerline/statement-extractor/internal/domain/matcher"
	"github.com/ledgerline/statement-extractor/pkg/money"
)

const tracerName = "statement-extractor.importer"

var (
	documentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statement_extractor",
		Subsystem: "importer",
		Name:      "documents_total",
		Help:      "Documents processed, by source format.",
	}, []string{"source"})

	rowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statement_extractor",
		Subsystem: "importer",
		Name:      "rows_total",
		Help:      "Statement rows scanned, by outcome.",
	}, []string{"outcome"})
)

// Document is one statement to import. Exactly one of Lines, CSV, or XLSX
// carries the content: Lines for extracted PDF text, the byte slices for
// tabular exports.
type Document struct {
	Filename string
	UserID   uuid.UUID

	Lines []string
	CSV   []byte
	XLSX  []byte
}

// Transaction is one extracted, validated, categorized statement row.
// Amount follows the canonical sign convention: negative for money out.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Primary     string
	Detailed    string
	RawCategory string
	Line        int
}

// ImportResult aggregates everything one document produced. Failed rows are
// reported, never fatal; an empty document yields zero transactions and one
// info.
type ImportResult struct {
	Transactions []Transaction
	Infos        []string
	Errors       []string
	SuccessCount int
	FailureCount int

	DetectedAccount  *account.Detected
	MatchedAccountID *uuid.UUID
	Metadata         *matcher.CardMetadata

	TotalIncome   *money.Money
	TotalExpenses *money.Money
}

// Service runs imports. The categorization service is required; account
// matching and history recording are optional and degrade to no-ops.
type Service struct {
	categories *categorization.Service
	accounts   *account.Matcher
	history    *history.Repository
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(categories *categorization.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		categories: categories,
		logger:     logger,
		now:        time.Now,
	}
}

// WithAccountMatcher enables matching detected accounts to stored ones.
func (s *Service) WithAccountMatcher(m *account.Matcher) *Service {
	s.accounts = m
	return s
}

// WithHistory enables best-effort import history records.
func (s *Service) WithHistory(repo *history.Repository) *Service {
	s.history = repo
	return s
}

// ImportDocument processes one statement end to end. It never returns an
// error: malformed rows become Errors entries, structural problems become
// Infos, and the result always reflects whatever could be extracted.
func (s *Service) ImportDocument(ctx context.Context, doc Document) *ImportResult {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ImportDocument")
	defer span.End()
	span.SetAttributes(attribute.String("import.filename", doc.Filename))

	source := doc.source()
	documentsTotal.WithLabelValues(source).Inc()

	res := &ImportResult{}
	// Filename detection is the weakest signal; each importer merges it in
	// behind whatever the document content yields.
	det := account.DetectFromFilename(doc.Filename)

	switch source {
	case "csv":
		det = s.importCSV(ctx, doc, det, res)
	case "xlsx":
		det = s.importExcel(ctx, doc, det, res)
	default:
		det = s.importText(ctx, doc, det, res)
	}

	res.DetectedAccount = det
	s.totals(res)

	if s.history != nil {
		rec := &history.Record{
			UserID:       doc.UserID,
			Filename:     doc.Filename,
			SuccessCount: res.SuccessCount,
			FailureCount: res.FailureCount,
			InfoCount:    len(res.Infos),
			AccountID:    res.MatchedAccountID,
		}
		if err := s.history.Save(ctx, rec); err != nil {
			s.logger.Warn("failed to record import history",
				slog.String("filename", doc.Filename),
				slog.Any("error", err),
			)
		}
	}

	s.logger.Info("import completed",
		slog.String("filename", doc.Filename),
		slog.String("source", source),
		slog.Int("success", res.SuccessCount),
		slog.Int("failed", res.FailureCount),
		slog.Int("infos", len(res.Infos)),
	)
	return res
}

func (d Document) source() string {
	switch {
	case len(d.CSV) > 0:
		return "csv"
	case len(d.XLSX) > 0:
		return "xlsx"
	default:
		return "text"
	}
}

// importText runs the pattern-matching path over extracted PDF lines.
func (s *Service) importText(ctx context.Context, doc Document, det *account.Detected, res *ImportResult) *account.Detected {
	stmt := doc.Lines
	if blankDocument(stmt) {
		res.Infos = append(res.Infos, "document contains no statement lines")
		return det
	}

	textDet := account.DetectFromText(stmt)
	det = mergeDetections(textDet, det)
	holder := ""
	if textDet != nil {
		holder = textDet.HolderName
	}

	acctType, acctSubtype := s.resolveAccount(ctx, doc.UserID, det, res)

	year := matcher.InferStatementYear(stmt, doc.Filename, s.now())
	res.Metadata = matcher.ExtractCardMetadata(stmt)

	informational := 0
	i := 0
	for i < len(stmt) {
		line := strings.TrimSpace(stmt[i])
		if line == "" {
			i++
			continue
		}
		if stmtlines.IsInformational(line) {
			informational++
			i++
			continue
		}

		m := matcher.MatchAt(stmt, i, holder)
		if m == nil {
			i++
			continue
		}

		row, rerr := matcher.ValidateRow(m.Date, m.Description, m.AmountToken, year)
		if rerr != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: %s", i+1, rerr))
			res.FailureCount++
			rowsTotal.WithLabelValues("failed").Inc()
			i += m.LinesConsumed
			continue
		}

		s.appendTransaction(ctx, doc.UserID, res, row, "", "", acctType, acctSubtype, i+1)
		i += m.LinesConsumed
	}

	if informational > 0 {
		res.Infos = append(res.Infos, fmt.Sprintf("skipped %d informational lines", informational))
	}
	if res.SuccessCount == 0 && res.FailureCount == 0 && len(res.Infos) == 0 {
		res.Infos = append(res.Infos, "no transaction lines recognized")
	}
	return det
}

func (s *Service) importCSV(ctx context.Context, doc Document, det *account.Detected, res *ImportResult) *account.Detected {
	cfg, rows, err := parser.ParseCSV(doc.CSV)
	if err != nil {
		res.Infos = append(res.Infos, fmt.Sprintf("file is not a readable statement export: %v", err))
		return det
	}
	det = mergeDetections(account.DetectFromHeaders(cfg.Headers), det)
	s.importRows(ctx, doc, det, res, rows)
	return det
}

func (s *Service) importExcel(ctx context.Context, doc Document, det *account.Detected, res *ImportResult) *account.Detected {
	headers, rows, err := parser.ParseExcel(doc.XLSX)
	if err != nil {
		res.Infos = append(res.Infos, fmt.Sprintf("file is not a readable workbook: %v", err))
		return det
	}
	det = mergeDetections(account.DetectFromHeaders(headers), det)
	s.importRows(ctx, doc, det, res, rows)
	return det
}

func (s *Service) importRows(ctx context.Context, doc Document, det *account.Detected, res *ImportResult, rows []parser.RawRow) {
	if len(rows) == 0 {
		res.Infos = append(res.Infos, "file contains no data rows")
		return
	}

	acctType, acctSubtype := s.resolveAccount(ctx, doc.UserID, det, res)
	year := matcher.InferStatementYear(nil, doc.Filename, s.now())

	skippedEmpty := 0
	for _, raw := range rows {
		if raw.Empty() {
			skippedEmpty++
			continue
		}
		row, rerr := matcher.ValidateRow(raw.Date, raw.Description, raw.AmountToken(), year)
		if rerr != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %s", raw.Line, rerr))
			res.FailureCount++
			rowsTotal.WithLabelValues("failed").Inc()
			continue
		}
		s.appendTransaction(ctx, doc.UserID, res, row, raw.Category, raw.Channel, acctType, acctSubtype, raw.Line)
	}
	if skippedEmpty > 0 {
		res.Infos = append(res.Infos, fmt.Sprintf("skipped %d empty rows", skippedEmpty))
	}
}

// resolveAccount matches the detection against stored accounts and returns
// the authoritative type and subtype for sign handling and classification.
func (s *Service) resolveAccount(ctx context.Context, userID uuid.UUID, det *account.Detected, res *ImportResult) (string, string) {
	acctType, acctSubtype := "", ""
	if det != nil {
		acctType, acctSubtype = det.Type, det.Subtype
	}
	if s.accounts != nil && det != nil && det.Usable() {
		if acct := s.accounts.Match(ctx, userID, det); acct != nil {
			res.MatchedAccountID = &acct.ID
			if acct.Type != "" {
				acctType = acct.Type
			}
			if acct.Subtype != "" {
				acctSubtype = acct.Subtype
			}
		}
	}
	return acctType, acctSubtype
}

func (s *Service) appendTransaction(ctx context.Context, userID uuid.UUID, res *ImportResult, row *matcher.Row, rawCategory, rawChannel, acctType, acctSubtype string, line int) {
	amt := categorization.NormalizeSign(acctType, row.Amount)
	mapping := s.categories.Categorize(ctx, userID, categorization.Input{
		Description:    row.Description,
		Amount:         amt,
		PaymentChannel: paymentChannel(rawChannel),
		Hint:           rawCategory,
		AccountType:    acctType,
		AccountSubtype: acctSubtype,
	})

	res.Transactions = append(res.Transactions, Transaction{
		Date:        row.Date,
		Description: row.Description,
		Amount:      amt,
		Primary:     mapping.Primary,
		Detailed:    mapping.Detailed,
		RawCategory: rawCategory,
		Line:        line,
	})
	res.SuccessCount++
	rowsTotal.WithLabelValues("imported").Inc()
}

// paymentChannel maps a tabular Type column value onto the classifier's
// channel vocabulary. Exports label transfers "ACH", "ACH Credit",
// "ACH_DEBIT" and the like; anything else carries no channel signal.
func paymentChannel(raw string) string {
	for _, tok := range strings.FieldsFunc(strings.ToLower(raw), func(r rune) bool {
		return r < 'a' || r > 'z'
	}) {
		if tok == categorization.ChannelACH {
			return categorization.ChannelACH
		}
	}
	return ""
}

func (s *Service) totals(res *ImportResult) {
	income, expenses := decimal.Zero, decimal.Zero
	for _, tx := range res.Transactions {
		if tx.Amount.IsPositive() {
			income = income.Add(tx.Amount)
		} else {
			expenses = expenses.Add(tx.Amount.Abs())
		}
	}
	res.TotalIncome = money.NewFromDecimal(income, money.USD)
	res.TotalExpenses = money.NewFromDecimal(expenses, money.USD)
}

// mergeDetections keeps the stronger detection and backfills gaps from the
// weaker one. Callers pass detections in confidence order: what the document
// itself says outranks the filename, so the filename only fills fields the
// content never stated.
func mergeDetections(primary, secondary *account.Detected) *account.Detected {
	if primary == nil || !primary.Usable() {
		if secondary != nil && secondary.Usable() {
			primary, secondary = secondary, primary
		}
	}
	if primary == nil {
		return secondary
	}
	if secondary == nil {
		return primary
	}

	merged := *primary
	if merged.Institution == "" {
		merged.Institution = secondary.Institution
	}
	if merged.AccountNumber == "" {
		merged.AccountNumber = secondary.AccountNumber
	}
	if merged.Type == "" {
		merged.Type = secondary.Type
		merged.Subtype = secondary.Subtype
	}
	if merged.HolderName == "" {
		merged.HolderName = secondary.HolderName
	}
	if !merged.IsCreditCard && secondary.IsCreditCard {
		merged.IsCreditCard = true
		if merged.Type == "" || merged.Type == account.TypeDepository {
			merged.Type = account.TypeCredit
			merged.Subtype = account.SubtypeCreditCard
		}
	}
	if merged.NewBalance == nil {
		merged.NewBalance = secondary.NewBalance
	}
	if merged.PreviousBalance == nil {
		merged.PreviousBalance = secondary.PreviousBalance
	}
	return &merged
}

func blankDocument(stmt []string) bool {
	for _, l := range stmt {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}
