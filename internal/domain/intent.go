package domain

// Domain names an ERP module served by a router.
type Domain string

const (
	DomainFinance     Domain = "finance"
	DomainHRM         Domain = "hrm"
	DomainSalesCRM    Domain = "sales_crm"
	DomainSupplyChain Domain = "supply_chain"
)

// ParseDomain accepts the canonical names and the short aliases used by transports.
func ParseDomain(s string) (Domain, error) {
	switch s {
	case "finance", "accounting":
		return DomainFinance, nil
	case "hrm", "hr":
		return DomainHRM, nil
	case "sales_crm", "sales-crm", "sales", "crm":
		return DomainSalesCRM, nil
	case "supply_chain", "supply-chain", "supply", "scm":
		return DomainSupplyChain, nil
	}
	return "", ErrUnknownDomain
}

// Query is the input of a router: the raw question and the acting employee or customer id.
type Query struct {
	Text    string
	ActorID int
}

// Entities holds values extracted from a question, keyed by slot name.
type Entities map[string]any

func (e Entities) Int(key string) (int, bool) {
	v, ok := e[key].(int)
	return v, ok
}

func (e Entities) String(key string) (string, bool) {
	v, ok := e[key].(string)
	return v, ok && v != ""
}

// Intent is the classification of a question: which operation answers it.
// Confidence is a fixed per-rule signal, never used for routing.
type Intent struct {
	Domain     Domain
	Area       string
	Operation  string
	Confidence float64
	Entities   Entities
	Query      Query
}
