package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/vpnda/ledgerbook/db"
	"github.com/vpnda/ledgerbook/pkg/config"
	"github.com/vpnda/ledgerbook/pkg/models"
	"github.com/vpnda/ledgerbook/pkg/services"
)

func TestParseSubmitArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want submitArgs
	}{
		{
			name: "no optional arguments",
			args: nil,
			want: submitArgs{currency: "USD"},
		},
		{
			name: "currency only",
			args: []string{"PLN"},
			want: submitArgs{currency: "PLN"},
		},
		{
			name: "currency and date",
			args: []string{"PLN", "2019-02-15"},
			want: submitArgs{currency: "PLN", date: "2019-02-15"},
		},
		{
			name: "date before currency",
			args: []string{"2019-02-15", "PLN"},
			want: submitArgs{currency: "PLN", date: "2019-02-15"},
		},
		{
			name: "currency and note",
			args: []string{"PLN", "lunch with friends"},
			want: submitArgs{currency: "PLN", note: "lunch with friends"},
		},
		{
			name: "everything",
			args: []string{"PLN", "2019-02-15", "lunch with friends", "skip-rules"},
			want: submitArgs{currency: "PLN", date: "2019-02-15", note: "lunch with friends", skipRules: true},
		},
		{
			name: "skip-rules only",
			args: []string{"skip-rules"},
			want: submitArgs{currency: "USD", skipRules: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseSubmitArgs(tt.args, "USD")
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestRevertStatus(t *testing.T) {
	mock := db.NewMockDB()
	user, err := mock.UpsertUser("alice", filepath.Join(t.TempDir(), "alice.ledger"))
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	cfg := &config.Config{
		LedgerOptions: config.LedgerOptions{
			Binary:         "/nonexistent/ledger-binary",
			TimeoutSeconds: 1,
		},
		DefaultsOptions: config.DefaultsOptions{
			Currency:    "PLN",
			FromAccount: "Liabilities:Visa",
			ToAccount:   "Expenses:Unknown",
		},
	}

	state := replState{
		db:        mock,
		submitter: services.NewSubmitter(mock, cfg),
		user:      user,
	}

	if got := state.revertStatus(); got != "no" {
		t.Errorf("Expected revert status 'no' before any append, got '%s'", got)
	}

	_, err = state.submitter.Submit(context.Background(), user, &services.SubmitRequest{
		Payee: "Burger King",
		Date:  "2019-02-15",
		Accounts: []models.AccountInput{
			models.SplitAccount("Expenses:Food", "19.99", "PLN"),
			models.BareAccount("Liabilities:Visa"),
		},
	})
	if err != nil {
		t.Fatalf("Failed to submit entry: %v", err)
	}

	if got := state.revertStatus(); got != "yes" {
		t.Errorf("Expected revert status 'yes' after append, got '%s'", got)
	}

	if err := state.submitter.Revert(context.Background(), user); err != nil {
		t.Fatalf("Failed to revert entry: %v", err)
	}

	if got := state.revertStatus(); got != "no" {
		t.Errorf("Expected revert status 'no' after revert, got '%s'", got)
	}
}
