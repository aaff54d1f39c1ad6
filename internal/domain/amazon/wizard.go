package amazon

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// WizardKind
// ---------------------------------------------------------------------------

// WizardKind selects which export a wizard drives
type WizardKind string

const (
	WizardKindCatalog   WizardKind = "catalog"
	WizardKindPricing   WizardKind = "pricing"
	WizardKindInventory WizardKind = "inventory"
)

// IsValid returns true if the kind is valid
func (k WizardKind) IsValid() bool {
	switch k {
	case WizardKindCatalog, WizardKindPricing, WizardKindInventory:
		return true
	default:
		return false
	}
}

// String returns the string representation of WizardKind
func (k WizardKind) String() string {
	return string(k)
}

// FeedType returns the feed submitted by this kind of export
func (k WizardKind) FeedType() FeedType {
	switch k {
	case WizardKindCatalog:
		return FeedTypeProduct
	case WizardKindPricing:
		return FeedTypePricing
	case WizardKindInventory:
		return FeedTypeInventory
	default:
		return ""
	}
}

// RequiresAccountLink is true for exports that only update already listed products
func (k WizardKind) RequiresAccountLink() bool {
	return k == WizardKindPricing || k == WizardKindInventory
}

// ---------------------------------------------------------------------------
// WizardState
// ---------------------------------------------------------------------------

// WizardState is a step of the export wizard
type WizardState string

const (
	WizardStateStart  WizardState = "start"
	WizardStateExport WizardState = "export"
	WizardStateDone   WizardState = "done"
	WizardStateEnd    WizardState = "end"
)

// ---------------------------------------------------------------------------
// WizardSession
// ---------------------------------------------------------------------------

// WizardSession tracks one run of an export wizard.
//
//	start --continue(n>0)--> export --complete--> done --finish--> end
//	start --continue(0)----> end
//	start --cancel---------> end
//	export --fail----------> start
type WizardSession struct {
	ID         uuid.UUID       `json:"id"`
	Kind       WizardKind      `json:"kind"`
	AccountID  uuid.UUID       `json:"account_id"`
	State      WizardState     `json:"state"`
	ProductIDs []uuid.UUID     `json:"product_ids,omitempty"`
	Result     *FeedSubmission `json:"result,omitempty"`
	LastError  string          `json:"last_error,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// NewWizardSession starts a wizard for an account
func NewWizardSession(kind WizardKind, accountID uuid.UUID) (*WizardSession, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidWizardKind
	}
	if accountID == uuid.Nil {
		return nil, ErrInvalidAccountID
	}
	now := time.Now()
	return &WizardSession{
		ID:        uuid.New(),
		Kind:      kind,
		AccountID: accountID,
		State:     WizardStateStart,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Continue records the selection. An empty selection ends the wizard
// without exporting; otherwise the session moves to export.
func (s *WizardSession) Continue(productIDs []uuid.UUID) (WizardState, error) {
	if s.State != WizardStateStart {
		return s.State, ErrInvalidTransition
	}
	s.ProductIDs = productIDs
	s.LastError = ""
	if len(productIDs) == 0 {
		s.moveTo(WizardStateEnd)
	} else {
		s.moveTo(WizardStateExport)
	}
	return s.State, nil
}

// Complete stores the submission acknowledgment and moves to done
func (s *WizardSession) Complete(result *FeedSubmission) error {
	if s.State != WizardStateExport {
		return ErrInvalidTransition
	}
	s.Result = result
	s.moveTo(WizardStateDone)
	return nil
}

// Fail returns the session to start so the selection can be corrected
func (s *WizardSession) Fail(err error) error {
	if s.State != WizardStateExport {
		return ErrInvalidTransition
	}
	if err != nil {
		s.LastError = err.Error()
	}
	s.moveTo(WizardStateStart)
	return nil
}

// Cancel leaves the wizard from the selection screen
func (s *WizardSession) Cancel() error {
	if s.State != WizardStateStart {
		return ErrInvalidTransition
	}
	s.moveTo(WizardStateEnd)
	return nil
}

// Finish closes the result screen
func (s *WizardSession) Finish() error {
	if s.State != WizardStateDone {
		return ErrInvalidTransition
	}
	s.moveTo(WizardStateEnd)
	return nil
}

// IsTerminal returns true once the wizard has ended
func (s *WizardSession) IsTerminal() bool {
	return s.State == WizardStateEnd
}

func (s *WizardSession) moveTo(state WizardState) {
	s.State = state
	s.UpdatedAt = time.Now()
}

// WizardStore keeps wizard sessions between requests
type WizardStore interface {
	Save(ctx context.Context, session *WizardSession, ttl time.Duration) error
	Get(ctx context.Context, id uuid.UUID) (*WizardSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
