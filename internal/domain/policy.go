package domain

// Policy is a static reference entity from the support policy catalog.
// Policies are read-only during ticket processing.
type Policy struct {
	ID          string
	Name        string
	Description string
	WhenToUse   string
	Problems    []ProblemType
}

// AppliesTo reports whether the policy covers the given problem tag.
func (p Policy) AppliesTo(problem ProblemType) bool {
	for _, candidate := range p.Problems {
		if candidate == problem {
			return true
		}
	}
	return false
}

// PolicyCatalog holds the ordered policy list. Declaration order matters:
// it is the tie-break order when candidate policies cannot be
// disambiguated.
type PolicyCatalog struct {
	policies []Policy
	byID     map[string]int
}

// NewPolicyCatalog builds a catalog preserving declaration order.
func NewPolicyCatalog(policies []Policy) *PolicyCatalog {
	byID := make(map[string]int, len(policies))
	for i, p := range policies {
		byID[p.ID] = i
	}
	return &PolicyCatalog{policies: policies, byID: byID}
}

// All returns every policy in declaration order.
func (c *PolicyCatalog) All() []Policy {
	return c.policies
}

// ByID looks up a policy.
func (c *PolicyCatalog) ByID(id string) (Policy, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Policy{}, false
	}
	return c.policies[i], true
}

// ForProblems returns the policies whose problem set intersects the given
// tags, in declaration order, without duplicates.
func (c *PolicyCatalog) ForProblems(problems []ProblemType) []Policy {
	var matched []Policy
	for _, p := range c.policies {
		for _, tag := range problems {
			if p.AppliesTo(tag) {
				matched = append(matched, p)
				break
			}
		}
	}
	return matched
}

// DefaultPolicyCatalog returns the standard customer support policy set.
func DefaultPolicyCatalog() *PolicyCatalog {
	return NewPolicyCatalog([]Policy{
		{
			ID:          "standard-return",
			Name:        "Standard Return Policy",
			Description: "Customers can return any item within 30 days of purchase for a full refund if the item is in its original condition.",
			WhenToUse:   "For general return requests within the 30-day window where the item is unused or in original condition.",
			Problems:    []ProblemType{ProblemReturn, ProblemRefund, ProblemGeneral},
		},
		{
			ID:          "damaged-item",
			Name:        "Damaged Item Policy",
			Description: "If a customer receives a damaged or defective item, they are eligible for an immediate replacement or full refund, including shipping costs.",
			WhenToUse:   "When a customer reports receiving a damaged or defective product, regardless of when the purchase was made.",
			Problems:    []ProblemType{ProblemDamaged, ProblemQuality},
		},
		{
			ID:          "non-delivery-resolution",
			Name:        "Non-Delivery Resolution",
			Description: "If a package is marked as delivered but the customer hasn't received it, we'll initiate an investigation and either resend the item or provide a refund within 5 business days.",
			WhenToUse:   "When tracking shows delivered but customer reports non-receipt of package.",
			Problems:    []ProblemType{ProblemNonDelivery},
		},
		{
			ID:          "delayed-shipment",
			Name:        "Delayed Shipment Compensation",
			Description: "For orders delayed beyond the estimated delivery date by more than 3 business days, customers are eligible for expedited shipping on their next order or a 10% discount.",
			WhenToUse:   "When shipping takes significantly longer than the estimated delivery timeframe.",
			Problems:    []ProblemType{ProblemDelayed},
		},
		{
			ID:          "wrong-item-resolution",
			Name:        "Wrong Item Resolution",
			Description: "If a customer receives the wrong item, they can keep the incorrect item and we'll ship the correct one immediately, or they can return the wrong item for a full refund.",
			WhenToUse:   "When a customer receives an item different from what they ordered.",
			Problems:    []ProblemType{ProblemWrongItem},
		},
		{
			ID:          "size-fit-adjustment",
			Name:        "Size/Fit Adjustment",
			Description: "Customers can exchange clothing or wearable items for a different size within 45 days, with free return shipping.",
			WhenToUse:   "For clothing or wearable items with size or fit issues.",
			Problems:    []ProblemType{ProblemFit},
		},
		{
			ID:          "out-of-stock-compensation",
			Name:        "Out-of-Stock Compensation",
			Description: "If an item is out of stock after an order is placed, customers can choose to wait with a 15% discount, select an alternative item, or receive a full refund.",
			WhenToUse:   "When inventory issues prevent fulfillment of an order as placed.",
			Problems:    []ProblemType{ProblemNonDelivery, ProblemDelayed},
		},
		{
			ID:          "premium-customer-service",
			Name:        "Premium Customer Service",
			Description: "Customers who have spent over $500 in the past year receive priority support, free expedited shipping on replacements, and additional 5% compensation on any issues.",
			WhenToUse:   "For high-value customers with any type of issue. Check customer purchase history.",
			Problems:    []ProblemType{ProblemGeneral, ProblemDamaged, ProblemDelayed, ProblemNonDelivery, ProblemWrongItem, ProblemQuality, ProblemFit},
		},
		{
			ID:          "first-time-customer-courtesy",
			Name:        "First-Time Customer Courtesy",
			Description: "First-time customers receive extra flexibility on return timeframes (extended to 45 days) and a one-time courtesy refund or replacement even if outside normal policy guidelines.",
			WhenToUse:   "For first-time customers experiencing any issues with their order.",
			Problems:    []ProblemType{ProblemGeneral, ProblemDamaged, ProblemDelayed, ProblemNonDelivery, ProblemWrongItem, ProblemQuality, ProblemFit},
		},
		{
			ID:          "technical-support",
			Name:        "Technical Support Policy",
			Description: "For products requiring technical setup, customers can schedule a free 15-minute consultation with our technical support team.",
			WhenToUse:   "When customers have issues setting up or using electronic or complex products.",
			Problems:    []ProblemType{ProblemQuality, ProblemGeneral},
		},
		{
			ID:          "account-security",
			Name:        "Account Security Protocol",
			Description: "For account-related issues, we require verification of identity through multiple factors before making any changes or providing sensitive information.",
			WhenToUse:   "When handling account access, password resets, or personal information updates.",
			Problems:    []ProblemType{ProblemAccount},
		},
		{
			ID:          "website-functionality",
			Name:        "Website Functionality Issues",
			Description: "For reported website issues, we provide immediate workarounds when possible and escalate to the technical team with a 24-hour response commitment.",
			WhenToUse:   "When customers report problems with the website functionality.",
			Problems:    []ProblemType{ProblemWebsite},
		},
	})
}
