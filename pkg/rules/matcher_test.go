package rules

import (
	"reflect"
	"testing"

	"github.com/vpnda/ledgerbook/pkg/models"
)

const defaultAccount = "Expenses:Uncategorized"

func TestLongerPayeePatternWins(t *testing.T) {
	// Creation order must not matter, only pattern length.
	ruleSets := [][]models.Rule{
		{
			{Payee: "CARREFOUR .*", NewPayee: "Carrefour"},
			{Payee: "CARREFOUR EXPRESS .*", NewPayee: "Carrefour Express"},
		},
		{
			{Payee: "CARREFOUR EXPRESS .*", NewPayee: "Carrefour Express"},
			{Payee: "CARREFOUR .*", NewPayee: "Carrefour"},
		},
	}

	testCases := []struct {
		name     string
		payee    string
		expected string
	}{
		{
			name:     "Longer pattern matches",
			payee:    "CARREFOUR EXPRESS WARSZAWA",
			expected: "Carrefour Express",
		},
		{
			name:     "Only shorter pattern matches",
			payee:    "CARREFOUR WARSZAWA",
			expected: "Carrefour",
		},
	}

	for _, ruleSet := range ruleSets {
		matcher := NewMatcher(defaultAccount, ruleSet)
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				fields := &Fields{Payee: tc.payee}
				if !matcher.Apply(fields) {
					t.Fatalf("Expected a rule to match %q", tc.payee)
				}
				if fields.Payee != tc.expected {
					t.Errorf("Expected payee %q, got %q", tc.expected, fields.Payee)
				}
			})
		}
	}
}

func TestNoMatchPassthrough(t *testing.T) {
	matcher := NewMatcher(defaultAccount, []models.Rule{
		{Payee: "CARREFOUR .*", NewPayee: "Carrefour", Account: "Expenses:Food"},
	})

	fields := &Fields{
		Payee:    "ZABKA Z1234",
		Accounts: []string{defaultAccount, "Liabilities:Credit Card"},
	}
	if matcher.Apply(fields) {
		t.Fatalf("Expected no rule to match")
	}
	if fields.Payee != "ZABKA Z1234" {
		t.Errorf("Expected payee to be unchanged, got %q", fields.Payee)
	}
	if fields.Accounts[0] != defaultAccount {
		t.Errorf("Expected default account to be unchanged, got %q", fields.Accounts[0])
	}
}

func TestFullMatchRequired(t *testing.T) {
	matcher := NewMatcher(defaultAccount, []models.Rule{
		{Payee: "CARREFOUR", NewPayee: "Carrefour"},
	})

	fields := &Fields{Payee: "CARREFOUR WARSZAWA"}
	if matcher.Apply(fields) {
		t.Errorf("Expected substring match to be rejected, payee is now %q", fields.Payee)
	}
}

func TestCaptureGroupReplacement(t *testing.T) {
	matcher := NewMatcher(defaultAccount, []models.Rule{
		{Payee: `PAYPAL \*(\w+)`, NewPayee: "$1"},
	})

	fields := &Fields{Payee: "PAYPAL *SPOTIFY"}
	if !matcher.Apply(fields) {
		t.Fatalf("Expected the rule to match")
	}
	if fields.Payee != "SPOTIFY" {
		t.Errorf("Expected payee 'SPOTIFY', got %q", fields.Payee)
	}
}

func TestNotePatternAndRewrite(t *testing.T) {
	matcher := NewMatcher(defaultAccount, []models.Rule{
		{Payee: "Landlord", Note: "rent.*", NewNote: "monthly rent"},
	})

	t.Run("Both conditions match", func(t *testing.T) {
		fields := &Fields{Payee: "Landlord", Note: "rent for january"}
		if !matcher.Apply(fields) {
			t.Fatalf("Expected the rule to match")
		}
		if fields.Note != "monthly rent" {
			t.Errorf("Expected note 'monthly rent', got %q", fields.Note)
		}
	})

	t.Run("Note condition fails", func(t *testing.T) {
		fields := &Fields{Payee: "Landlord", Note: "deposit"}
		if matcher.Apply(fields) {
			t.Errorf("Expected no match when the note condition fails")
		}
	})
}

func TestDefaultAccountReplacement(t *testing.T) {
	matcher := NewMatcher(defaultAccount, []models.Rule{
		{Payee: "CARREFOUR .*", NewPayee: "Carrefour", Account: "Expenses:Food"},
	})

	fields := &Fields{
		Payee:    "CARREFOUR WARSZAWA",
		Accounts: []string{defaultAccount, "Liabilities:Credit Card"},
	}
	if !matcher.Apply(fields) {
		t.Fatalf("Expected the rule to match")
	}

	expected := []string{"Expenses:Food", "Liabilities:Credit Card"}
	if !reflect.DeepEqual(fields.Accounts, expected) {
		t.Errorf("Expected accounts %v, got %v", expected, fields.Accounts)
	}
}

func TestMalformedPatternSkipsRule(t *testing.T) {
	matcher := NewMatcher(defaultAccount, []models.Rule{
		{Payee: "CARREFOUR (.*", NewPayee: "Broken"},
		{Payee: "CARREFOUR .*", NewPayee: "Carrefour"},
	})

	fields := &Fields{Payee: "CARREFOUR WARSZAWA"}
	if !matcher.Apply(fields) {
		t.Fatalf("Expected the well-formed rule to match")
	}
	if fields.Payee != "Carrefour" {
		t.Errorf("Expected payee 'Carrefour', got %q", fields.Payee)
	}
}

func TestRuleWithoutConditionsNeverMatches(t *testing.T) {
	matcher := NewMatcher(defaultAccount, []models.Rule{
		{NewPayee: "Everything"},
	})

	fields := &Fields{Payee: "Anything"}
	if matcher.Apply(fields) {
		t.Errorf("Expected a condition-less rule to never match")
	}
}

func TestFirstMatchStopsEvaluation(t *testing.T) {
	matcher := NewMatcher(defaultAccount, []models.Rule{
		{Payee: "SHOP AAAAAAAAAA.*", NewPayee: "First"},
		{Payee: "SHOP A.*", NewPayee: "Second"},
	})

	fields := &Fields{Payee: "SHOP AAAAAAAAAA 123"}
	if !matcher.Apply(fields) {
		t.Fatalf("Expected a rule to match")
	}
	// Only the longest matching rule applies, never both.
	if fields.Payee != "First" {
		t.Errorf("Expected payee 'First', got %q", fields.Payee)
	}
}
