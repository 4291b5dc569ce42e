package router

import (
	"testing"

	"github.com/set-night/erpchat/internal/domain"
)

func TestCascadeFirstMatchWins(t *testing.T) {
	c := Cascade{
		Domain: domain.DomainFinance,
		Rules: []Rule{
			{Operation: "needs_id", Match: keywords("invoice"), Extract: func(q domain.Query) (domain.Entities, bool) {
				return nil, false
			}},
			{Operation: "specific", Match: func(q string) bool { return containsAll(q, "invoice", "detail") }},
			{Operation: "general", Match: keywords("invoice")},
		},
	}

	tests := []struct {
		question string
		wantOp   string
		wantOK   bool
	}{
		{"Invoice DETAIL please", "specific", true},
		{"invoice status", "general", true},
		{"weather", "", false},
	}
	for _, tt := range tests {
		in, ok := c.Classify(domain.Query{Text: tt.question})
		if ok != tt.wantOK {
			t.Fatalf("Classify(%q) ok = %v, want %v", tt.question, ok, tt.wantOK)
		}
		if ok && in.Operation != tt.wantOp {
			t.Errorf("Classify(%q) = %q, want %q", tt.question, in.Operation, tt.wantOp)
		}
	}
}

func TestCascadeKeepsQuery(t *testing.T) {
	c := Cascade{Domain: domain.DomainHRM, Rules: []Rule{{Operation: "op", Match: keywords("x")}}}
	q := domain.Query{Text: "X marks", ActorID: 4}
	in, ok := c.Classify(q)
	if !ok {
		t.Fatal("no match")
	}
	if in.Query != q || in.Domain != domain.DomainHRM || in.Entities == nil {
		t.Errorf("intent = %+v", in)
	}
}
