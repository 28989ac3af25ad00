package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"budgetdash/internal/aggregate"
	"budgetdash/internal/amqp"
	"budgetdash/internal/core"
	"budgetdash/internal/sheets"
)

// Sink keeps reports, activity and import rows in memory. It stands in for
// Google Sheets when no spreadsheet is configured.
type Sink struct {
	mu       sync.Mutex
	report   [][]any
	reports  int
	activity [][]any
	seed     []core.Transaction
	now      func() time.Time
}

var (
	_ sheets.ReportWriter      = (*Sink)(nil)
	_ sheets.ActivityWriter    = (*Sink)(nil)
	_ sheets.TransactionReader = (*Sink)(nil)
)

func New(seed []core.Transaction) *Sink {
	return &Sink{seed: append([]core.Transaction(nil), seed...), now: time.Now}
}

// NewFromFile seeds the sink from a semicolon separated file with the
// Date;Description;Amount;Category;Type layout. A missing file yields an empty seed.
func NewFromFile(path string) (*Sink, error) {
	rows := readRows(path)
	txs, err := sheets.ParseTransactionRows(rows)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}
	return New(txs), nil
}

func (s *Sink) WriteReport(_ context.Context, sum aggregate.Summary) (string, error) {
	rows := sheets.ReportRows(sum, s.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = rows
	s.reports++
	return fmt.Sprintf("mem:report:%d", s.reports), nil
}

func (s *Sink) AppendActivity(_ context.Context, msg *amqp.LedgerEventMessage) (string, error) {
	row := sheets.ActivityRow(msg)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity = append(s.activity, row)
	return fmt.Sprintf("mem:activity:%d", len(s.activity)), nil
}

func (s *Sink) ReadTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.seed...), nil
}

// Report returns the last written report rows.
func (s *Sink) Report() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]any(nil), s.report...)
}

// Activity returns every appended activity row.
func (s *Sink) Activity() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]any(nil), s.activity...)
}

func readRows(path string) [][]any {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out [][]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var row []any
		for _, cell := range strings.Split(line, ";") {
			row = append(row, strings.TrimSpace(cell))
		}
		out = append(out, row)
	}
	return out
}
