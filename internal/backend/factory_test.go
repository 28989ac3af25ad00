package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"budgetdash/internal/config"
	"budgetdash/internal/ledger"
	"budgetdash/internal/sheets/memory"
	"budgetdash/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	app := &config.Config{
		DataBackend:             "sqlite",
		SQLiteDBPath:            "/tmp/ledger.db",
		GoogleSpreadsheetID:     "sheet",
		GoogleReportSheet:       "Report",
		GoogleTransactionsSheet: "Transactions",
		MemorySeedFile:          "seed.txt",
	}
	cfg, err := FromAppConfig(app)
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.Sheets.SpreadsheetID != "sheet" || cfg.Sheets.TransactionsSheet != "Transactions" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.MemorySeedFile != "seed.txt" {
		t.Errorf("MemorySeedFile = %q, want seed.txt", cfg.MemorySeedFile)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite without path stays in memory", Config{Type: SQLiteBackend}, false},
		{"unknown type", Config{Type: "sheets"}, true},
		{"amqp without queue", Config{Type: MemoryBackend, AMQPURL: "amqp://localhost/", AMQPExchange: "x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBackend_Memory(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "seed.txt")
	content := "Date;Description;Amount;Category;Type\n2025-08-01;Rent;900;Bills;expense\n"
	if err := os.WriteFile(seed, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend, MemorySeedFile: seed})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	defer res.Cleanup()

	if _, ok := res.Store.(*ledger.Ledger); !ok {
		t.Errorf("Store = %T, want *ledger.Ledger", res.Store)
	}
	sink, ok := res.Sheets.(*memory.Sink)
	if !ok {
		t.Fatalf("Sheets = %T, want *memory.Sink", res.Sheets)
	}
	txs, err := sink.ReadTransactions(context.Background())
	if err != nil || len(txs) != 1 || txs[0].Description != "Rent" {
		t.Errorf("seed rows = %+v, err %v", txs, err)
	}
	if res.Publisher != nil {
		t.Error("publisher should be nil without AMQP URL")
	}
	if n := len(res.ServiceOptions()); n != 2 {
		t.Errorf("ServiceOptions() = %d options, want 2", n)
	}
}

func TestCreateBackend_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		Type:           SQLiteBackend,
		SQLiteDBPath:   path,
		MemorySeedFile: filepath.Join(t.TempDir(), "missing.txt"),
	})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if _, ok := res.Store.(*storage.SQLiteLedger); !ok {
		t.Errorf("Store = %T, want *storage.SQLiteLedger", res.Store)
	}
	snap, err := res.Store.Snapshot(context.Background())
	if err != nil || len(snap.Categories) != 7 {
		t.Errorf("expected default categories, got %d (err %v)", len(snap.Categories), err)
	}
	if err := res.Cleanup(); err != nil {
		t.Errorf("Cleanup: %v", err)
	}
}

func TestCreateBackend_SQLiteInMemory(t *testing.T) {
	for _, path := range []string{"", ":memory:"} {
		res, err := NewFactory(nil).CreateBackend(context.Background(), Config{
			Type:           SQLiteBackend,
			SQLiteDBPath:   path,
			MemorySeedFile: filepath.Join(t.TempDir(), "missing.txt"),
		})
		if err != nil {
			t.Fatalf("CreateBackend(%q): %v", path, err)
		}
		snap, err := res.Store.Snapshot(context.Background())
		if err != nil || len(snap.Categories) != 7 {
			t.Errorf("path %q: expected default categories, got %d (err %v)", path, len(snap.Categories), err)
		}
		if err := res.Cleanup(); err != nil {
			t.Errorf("Cleanup: %v", err)
		}
	}
}
