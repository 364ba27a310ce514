package checkout

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/benschg/klara-shop/internal/storage"
)

const (
	// SnapshotKey is the persistence namespace for the checkout.
	SnapshotKey = "checkout"

	// SchemaVersion tags persisted checkout snapshots.
	SchemaVersion = 1
)

// persistedState is the subset of checkout state that survives reloads:
// contact and address fields plus the current step. Errors and the
// submitting flag are transient.
type persistedState struct {
	CurrentStep              StepID       `json:"current_step"`
	CustomerInfo             CustomerInfo `json:"customer_info"`
	ShippingAddress          Address      `json:"shipping_address"`
	BillingAddress           Address      `json:"billing_address"`
	UseSameAddressForBilling bool         `json:"use_same_address_for_billing"`
	DeliveryNotes            string       `json:"delivery_notes"`
}

type persistence struct {
	snapshots storage.SnapshotStore
	migrator  *storage.Migrator
}

func newPersistence(snapshots storage.SnapshotStore) *persistence {
	migrator := storage.NewMigrator(SchemaVersion)
	// Version 0 snapshots carry the same shape, only untagged.
	migrator.Register(0, func(state json.RawMessage) (json.RawMessage, error) {
		return state, nil
	})
	return &persistence{snapshots: snapshots, migrator: migrator}
}

// Load restores persisted checkout fields into the store. A missing snapshot
// leaves the initial state in place.
func (s *Store) Load(ctx context.Context) error {
	if s.persistence.snapshots == nil {
		return nil
	}

	snap, err := s.persistence.snapshots.Load(ctx, SnapshotKey)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	state, err := s.persistence.migrator.Apply(snap.Version, snap.State)
	if err != nil {
		return err
	}

	var persisted persistedState
	if err := json.Unmarshal(state, &persisted); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = initialState()
	s.state.CustomerInfo = persisted.CustomerInfo
	s.state.ShippingAddress = persisted.ShippingAddress
	s.state.BillingAddress = persisted.BillingAddress
	s.state.UseSameAddressForBilling = persisted.UseSameAddressForBilling
	s.state.DeliveryNotes = persisted.DeliveryNotes
	if persisted.CurrentStep != "" {
		s.setCurrentStepLocked(persisted.CurrentStep)
		// Steps before the restored one must have validated to get there.
		for i := range s.state.Steps {
			if s.state.Steps[i].ID == persisted.CurrentStep {
				break
			}
			s.state.Steps[i].Completed = true
		}
	}
	return nil
}

func (s *Store) persistLocked() {
	if s.persistence.snapshots == nil {
		return
	}

	persisted := persistedState{
		CurrentStep:              s.state.CurrentStep,
		CustomerInfo:             s.state.CustomerInfo,
		ShippingAddress:          s.state.ShippingAddress,
		BillingAddress:           s.state.BillingAddress,
		UseSameAddressForBilling: s.state.UseSameAddressForBilling,
		DeliveryNotes:            s.state.DeliveryNotes,
	}
	state, err := json.Marshal(persisted)
	if err != nil {
		log.Printf("[Checkout] Failed to marshal checkout state: %v", err)
		return
	}

	snap := &storage.Snapshot{
		Key:       SnapshotKey,
		Version:   SchemaVersion,
		State:     state,
		UpdatedAt: time.Now(),
	}
	if err := s.persistence.snapshots.Save(context.Background(), snap); err != nil {
		log.Printf("[Checkout] Failed to persist checkout snapshot: %v", err)
	}
}
