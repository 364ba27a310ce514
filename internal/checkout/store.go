package checkout

import (
	"errors"
	"sync"

	"github.com/benschg/klara-shop/internal/storage"
)

// ErrStepInvalid is returned by NextStep when the current step fails
// validation. Navigation is blocked while the error map is populated.
var ErrStepInvalid = errors.New("current step has validation errors")

// Store is the checkout wizard state container: a linear step machine from
// customer-info to payment. Steps never skip; advancing requires the current
// step to validate.
type Store struct {
	mu    sync.Mutex
	state State

	persistence *persistence
}

func NewStore(snapshots storage.SnapshotStore) *Store {
	return &Store{
		state:       initialState(),
		persistence: newPersistence(snapshots),
	}
}

// NextStep validates the current step and, on success, marks it completed and
// advances to the next step in the fixed order. At the terminal step it is a
// no-op.
func (s *Store) NextStep() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.validateCurrentStepLocked() {
		return ErrStepInvalid
	}

	idx := s.currentIndexLocked()
	if idx >= len(s.state.Steps)-1 {
		return nil
	}

	s.state.Steps[idx].Completed = true
	s.setCurrentStepLocked(s.state.Steps[idx+1].ID)
	s.persistLocked()
	return nil
}

// PreviousStep moves to the prior step unconditionally. Completed flags are
// kept: they record that a step was validated at least once.
func (s *Store) PreviousStep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.currentIndexLocked()
	if idx <= 0 {
		return
	}
	s.setCurrentStepLocked(s.state.Steps[idx-1].ID)
	s.persistLocked()
}

// ValidateCurrentStep validates the current step's fields, populating or
// clearing the per-step error map, and reports whether the step is valid.
func (s *Store) ValidateCurrentStep() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateCurrentStepLocked()
}

func (s *Store) validateCurrentStepLocked() bool {
	var errs Errors

	switch s.state.CurrentStep {
	case StepCustomerInfo:
		fieldErrs := make(map[string]string)
		if msg := validateEmail(s.state.CustomerInfo.Email); msg != "" {
			fieldErrs["email"] = msg
		}
		if msg := validatePhone(s.state.CustomerInfo.Phone); msg != "" {
			fieldErrs["phone"] = msg
		}
		if len(fieldErrs) > 0 {
			errs.CustomerInfo = fieldErrs
		}

	case StepShippingAddress:
		if fieldErrs := validateAddress(s.state.ShippingAddress); len(fieldErrs) > 0 {
			errs.ShippingAddress = fieldErrs
		}

	case StepBillingAddress:
		if !s.state.UseSameAddressForBilling {
			if fieldErrs := validateAddress(s.state.BillingAddress); len(fieldErrs) > 0 {
				errs.BillingAddress = fieldErrs
			}
		}
	}

	s.state.Errors = errs
	return errs.Empty()
}

// SetCustomerInfo updates the shopper's contact details.
func (s *Store) SetCustomerInfo(email, phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CustomerInfo = CustomerInfo{Email: email, Phone: phone}
	s.persistLocked()
}

// SetShippingAddress updates the shipping address. While the same-address
// flag is on, the billing address is kept identical.
func (s *Store) SetShippingAddress(a Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ShippingAddress = a
	if s.state.UseSameAddressForBilling {
		s.state.BillingAddress = a
	}
	s.persistLocked()
}

// SetBillingAddress updates the billing address.
func (s *Store) SetBillingAddress(a Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.BillingAddress = a
	s.persistLocked()
}

// ToggleSameAddress flips the same-address flag. Turning it on snapshots the
// current shipping address into billing. Returns the new flag value.
func (s *Store) ToggleSameAddress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.UseSameAddressForBilling = !s.state.UseSameAddressForBilling
	if s.state.UseSameAddressForBilling {
		s.state.BillingAddress = s.state.ShippingAddress
	}
	s.persistLocked()
	return s.state.UseSameAddressForBilling
}

// SetDeliveryNotes updates the free-text delivery notes.
func (s *Store) SetDeliveryNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.DeliveryNotes = notes
	s.persistLocked()
}

// SetSubmitting flags an order submission in progress. Not persisted.
func (s *Store) SetSubmitting(submitting bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsSubmitting = submitting
}

// Reset restores the full initial state, used after order placement or
// checkout dismissal.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = initialState()
	s.persistLocked()
}

// State returns a copy of the checkout state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyStateLocked()
}

// CurrentStep returns the active step ID.
func (s *Store) CurrentStep() StepID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentStep
}

// ReadyForPayment reports whether the wizard has reached the terminal
// payment step, which requires every prior step to have validated.
func (s *Store) ReadyForPayment() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentStep == StepPayment
}

func (s *Store) copyStateLocked() State {
	state := s.state
	state.Steps = make([]Step, len(s.state.Steps))
	copy(state.Steps, s.state.Steps)
	return state
}

func (s *Store) currentIndexLocked() int {
	for i, step := range s.state.Steps {
		if step.ID == s.state.CurrentStep {
			return i
		}
	}
	return 0
}

func (s *Store) setCurrentStepLocked(id StepID) {
	s.state.CurrentStep = id
	for i := range s.state.Steps {
		s.state.Steps[i].Active = s.state.Steps[i].ID == id
	}
}
