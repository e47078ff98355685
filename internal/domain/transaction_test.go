package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewTransactionSummary(t *testing.T) {
	summary := NewTransactionSummary(TransactionTotals{
		Income:   decimal.RequireFromString("100.00"),
		Expenses: decimal.RequireFromString("40.00"),
	})

	if summary.Income != 100 {
		t.Errorf("Income = %v, want 100", summary.Income)
	}
	if summary.Expenses != 40 {
		t.Errorf("Expenses = %v, want 40", summary.Expenses)
	}
	if summary.Balance != 60 {
		t.Errorf("Balance = %v, want 60", summary.Balance)
	}
}

func TestNewTransactionSummary_ZeroTotals(t *testing.T) {
	summary := NewTransactionSummary(TransactionTotals{})
	if summary.Income != 0 || summary.Expenses != 0 || summary.Balance != 0 {
		t.Errorf("expected zero summary, got %+v", summary)
	}
}

func TestTransaction_KindFollowsCategory(t *testing.T) {
	uncategorized := &Transaction{}
	if uncategorized.Kind() != nil {
		t.Error("expected nil kind for uncategorized transaction")
	}

	kind := CategoryKindExpense
	tagged := &Transaction{CategoryKind: &kind}
	if tagged.Kind() == nil || *tagged.Kind() != CategoryKindExpense {
		t.Errorf("expected expense kind, got %v", tagged.Kind())
	}
}
