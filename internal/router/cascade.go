// Package router classifies ERP questions into data operations and executes
// them against the domain stores.
//
// Every domain keeps its rules as an ordered table. The first rule whose
// keywords match and whose entities can be extracted wins; a rule whose
// entities are missing falls through to the next one.
package router

import (
	"context"
	"strings"

	"github.com/set-night/erpchat/internal/domain"
)

// Router is implemented by every domain router.
type Router interface {
	Domain() domain.Domain
	// Classify picks the operation answering q. ok is false when the question
	// does not belong to this domain.
	Classify(q domain.Query) (*domain.Intent, bool)
	// Execute runs the data operation of a classified intent. Missing business
	// data is reported as a message result, not as an error.
	Execute(ctx context.Context, in *domain.Intent) (domain.Result, error)
}

// Rule is one row of a classification table.
type Rule struct {
	Area       string
	Operation  string
	Confidence float64
	// Match receives the lowercased question.
	Match func(q string) bool
	// Extract receives the original query. A nil Extract needs no entities.
	Extract func(q domain.Query) (domain.Entities, bool)
}

// Cascade evaluates a rule table in order.
type Cascade struct {
	Domain domain.Domain
	Rules  []Rule
}

func (c Cascade) Classify(q domain.Query) (*domain.Intent, bool) {
	lower := strings.ToLower(q.Text)
	for _, r := range c.Rules {
		if !r.Match(lower) {
			continue
		}
		ents := domain.Entities{}
		if r.Extract != nil {
			e, ok := r.Extract(q)
			if !ok {
				continue
			}
			ents = e
		}
		return &domain.Intent{
			Domain:     c.Domain,
			Area:       r.Area,
			Operation:  r.Operation,
			Confidence: r.Confidence,
			Entities:   ents,
			Query:      q,
		}, true
	}
	return nil, false
}

// Route classifies and executes in one step. ok is false when r does not
// recognize the question.
func Route(ctx context.Context, r Router, q domain.Query) (*domain.Intent, domain.Result, bool, error) {
	in, ok := r.Classify(q)
	if !ok {
		return nil, domain.Result{}, false, nil
	}
	res, err := r.Execute(ctx, in)
	if err != nil {
		return in, domain.Result{}, true, err
	}
	return in, res, true, nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// keywords returns a Match func for any of the given substrings.
func keywords(subs ...string) func(string) bool {
	return func(q string) bool { return containsAny(q, subs...) }
}

func intEntity(key string, find func(string) (int, bool)) func(domain.Query) (domain.Entities, bool) {
	return func(q domain.Query) (domain.Entities, bool) {
		n, ok := find(q.Text)
		if !ok {
			return nil, false
		}
		return domain.Entities{key: n}, true
	}
}

func unknownOperation(d domain.Domain, op string) error {
	return &UnknownOperationError{Domain: d, Operation: op}
}

// UnknownOperationError is returned by Execute for an intent the router did
// not produce.
type UnknownOperationError struct {
	Domain    domain.Domain
	Operation string
}

func (e *UnknownOperationError) Error() string {
	return "unknown " + string(e.Domain) + " operation " + e.Operation
}
