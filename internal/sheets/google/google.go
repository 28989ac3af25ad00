package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"budgetdash/internal/aggregate"
	"budgetdash/internal/amqp"
	"budgetdash/internal/core"
	ports "budgetdash/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Default sheet (tab) names.
const (
	DefaultReportSheet       = "Report"
	DefaultActivitySheet     = "Activity"
	DefaultTransactionsSheet = "Transactions"
)

// Config selects the spreadsheet, its tabs and the service account credentials.
type Config struct {
	SpreadsheetID      string
	ReportSheet        string
	ActivitySheet      string
	TransactionsSheet  string
	ServiceAccountJSON string
	ServiceAccountFile string
}

type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	reportSheet       string
	activitySheet     string
	transactionsSheet string
	now               func() time.Time
}

// Ensure interface conformance
var (
	_ ports.ReportWriter      = (*Client)(nil)
	_ ports.ActivityWriter    = (*Client)(nil)
	_ ports.TransactionReader = (*Client)(nil)
)

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if len(opts) == 0 {
		credentialsJSON, err := loadCredentials(ctx, cfg.ServiceAccountJSON, cfg.ServiceAccountFile)
		if err != nil {
			return nil, err
		}
		opts = []goption.ClientOption{
			goption.WithCredentialsJSON(credentialsJSON),
			goption.WithScopes(gsheet.SpreadsheetsScope),
		}
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created successfully", "spreadsheet_id", cfg.SpreadsheetID)
	return newClient(svc, cfg), nil
}

func newClient(svc *gsheet.Service, cfg Config) *Client {
	return &Client{
		svc:               svc,
		spreadsheetID:     strings.TrimSpace(cfg.SpreadsheetID),
		reportSheet:       orDefault(cfg.ReportSheet, DefaultReportSheet),
		activitySheet:     orDefault(cfg.ActivitySheet, DefaultActivitySheet),
		transactionsSheet: orDefault(cfg.TransactionsSheet, DefaultTransactionsSheet),
		now:               time.Now,
	}
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

// loadCredentials reads service account credentials from inline JSON, a file,
// or GOOGLE_APPLICATION_CREDENTIALS, in that order.
func loadCredentials(ctx context.Context, inlineJSON, file string) ([]byte, error) {
	inlineJSON = strings.TrimSpace(inlineJSON)
	file = strings.TrimSpace(file)
	if inlineJSON == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inlineJSON != "":
		slog.DebugContext(ctx, "Using inline JSON credentials")
		return []byte(inlineJSON), nil
	case file != "":
		slog.DebugContext(ctx, "Reading credentials from file", "path", file)
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// WriteReport clears the report sheet and writes the summary from A1.
func (c *Client) WriteReport(ctx context.Context, s aggregate.Summary) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	clearRange := fmt.Sprintf("%s!A:G", c.reportSheet)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear %s: %w", clearRange, err)
	}

	rng := fmt.Sprintf("%s!A1", c.reportSheet)
	vr := &gsheet.ValueRange{Values: ports.ReportRows(s, c.now())}
	resp, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("update %s: %w", rng, err)
	}

	slog.InfoContext(ctx, "Report written to Google Sheets",
		"range", resp.UpdatedRange,
		"rows", resp.UpdatedRows,
		"revision", s.Revision)
	return resp.UpdatedRange, nil
}

// AppendActivity appends the event after the last row of the activity sheet.
func (c *Client) AppendActivity(ctx context.Context, msg *amqp.LedgerEventMessage) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:H", c.activitySheet)
	vr := &gsheet.ValueRange{Values: [][]any{ports.ActivityRow(msg)}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("append %s: %w", rng, err)
	}
	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	slog.DebugContext(ctx, "Activity appended to Google Sheets", "range", ref, "kind", msg.Kind)
	return ref, nil
}

// ReadTransactions reads the transactions sheet for import.
func (c *Client) ReadTransactions(ctx context.Context) ([]core.Transaction, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:E", c.transactionsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	txs, err := ports.ParseTransactionRows(resp.Values)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rng, err)
	}
	return txs, nil
}
