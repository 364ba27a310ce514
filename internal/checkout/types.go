package checkout

// StepID identifies a checkout wizard step.
type StepID string

const (
	StepCustomerInfo    StepID = "customer-info"
	StepShippingAddress StepID = "shipping-address"
	StepBillingAddress  StepID = "billing-address"
	StepReview          StepID = "review"
	StepPayment         StepID = "payment"
)

// Step is one entry of the fixed checkout step sequence. Completed means
// "was validated at least once", not "is currently valid".
type Step struct {
	ID        StepID `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Active    bool   `json:"active"`
}

// Address is a shipping or billing address.
type Address struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Street      string `json:"street"`
	HouseNumber string `json:"house_number"`
	PostalCode  string `json:"postal_code"`
	City        string `json:"city"`
	Country     string `json:"country"`
}

// CustomerInfo carries the shopper's contact details.
type CustomerInfo struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Errors is the per-step field validation error map. Empty maps are omitted.
type Errors struct {
	CustomerInfo    map[string]string `json:"customer_info,omitempty"`
	ShippingAddress map[string]string `json:"shipping_address,omitempty"`
	BillingAddress  map[string]string `json:"billing_address,omitempty"`
}

// Empty reports whether no step has validation errors.
func (e Errors) Empty() bool {
	return len(e.CustomerInfo) == 0 && len(e.ShippingAddress) == 0 && len(e.BillingAddress) == 0
}

// State is the checkout wizard state.
type State struct {
	CurrentStep              StepID       `json:"current_step"`
	Steps                    []Step       `json:"steps"`
	CustomerInfo             CustomerInfo `json:"customer_info"`
	ShippingAddress          Address      `json:"shipping_address"`
	BillingAddress           Address      `json:"billing_address"`
	UseSameAddressForBilling bool         `json:"use_same_address_for_billing"`
	DeliveryNotes            string       `json:"delivery_notes"`
	Errors                   Errors       `json:"errors"`
	IsSubmitting             bool         `json:"is_submitting"`
}

func initialAddress() Address {
	return Address{Country: "Switzerland"}
}

func initialSteps() []Step {
	return []Step{
		{ID: StepCustomerInfo, Title: "Kontaktdaten", Active: true},
		{ID: StepShippingAddress, Title: "Versandadresse"},
		{ID: StepBillingAddress, Title: "Rechnungsadresse"},
		{ID: StepReview, Title: "Übersicht"},
		{ID: StepPayment, Title: "Bezahlung"},
	}
}

func initialState() State {
	return State{
		CurrentStep:              StepCustomerInfo,
		Steps:                    initialSteps(),
		ShippingAddress:          initialAddress(),
		BillingAddress:           initialAddress(),
		UseSameAddressForBilling: true,
	}
}
