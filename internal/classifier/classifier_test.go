package classifier

import (
	"testing"
)

func TestRulesetClassify(t *testing.T) {
	tests := []struct {
		name  string
		rules Ruleset
		input string
		want  string
	}{
		{"sms zomato", SMS, "zomato", "Food"},
		{"sms upper case", SMS, "UBER INDIA", "Travel"},
		{"sms no match", SMS, "corner store", DefaultCategory},
		{"sms empty", SMS, "", DefaultCategory},
		{"statement food", Statement, "zomato online order", "Food"},
		{"statement electricity", Statement, "ELECTRICITY BILL", "Bills"},
		{"statement ajio is shopping", Statement, "ajio fashion", "Shopping"},
		{"statement unknown", Statement, "cash deposit", DefaultCategory},
		{"quick groceries", Quick, "groceries", "Shopping"},
		{"quick coffee", Quick, "coffee", "Food"},
		{"quick movie", Quick, "movie tickets", "Entertainment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rules.Classify(tt.input)
			if got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRulesetFirstMatchWins(t *testing.T) {
	rules := Ruleset{
		{Keywords: []string{"pay"}, Category: "First"},
		{Keywords: []string{"paytm"}, Category: "Second"},
	}

	if got := rules.Classify("paytm wallet"); got != "First" {
		t.Errorf("got %q, want First", got)
	}
}

func TestRuleWholeWord(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"tea", "Food"},
		{"masala tea", "Food"},
		{"tea, biscuits", "Food"},
		{"went instead", DefaultCategory},
		{"steam cleaning", DefaultCategory},
		{"bus pass", "Travel"},
		{"business lunch", "Food"},
		{"business cards", DefaultCategory},
		{"auto to station", "Travel"},
		{"automatic watch", DefaultCategory},
		{"house rent", "Bills"},
		{"parent gift", DefaultCategory},
		{"current account fee", DefaultCategory},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Quick.Classify(tt.input); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRuleIgnoresEmptyKeyword(t *testing.T) {
	r := Rule{Keywords: []string{""}, Category: "X"}
	if r.Matches("anything") {
		t.Error("empty keyword should never match")
	}
}

func TestRulesetCategories(t *testing.T) {
	got := SMS.Categories()
	want := []string{"Food", "Travel", "Shopping", "Bills", "Entertainment"}

	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("category[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestHasIncomeMarker(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"SALARY NEFT", true},
		{"NEFT CR-ACME CORP", true},
		{"BY TRANSFER-UPI", true},
		{"CASH DEPOSIT", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := HasIncomeMarker(tt.input); got != tt.want {
				t.Errorf("HasIncomeMarker(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
