package amazon

import (
	"context"
	"time"

	"github.com/erp/mws-connector/internal/domain/amazon"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultWizardTTL is how long an idle wizard session is kept
const DefaultWizardTTL = 30 * time.Minute

// Exporter runs one export of the export pipeline
type Exporter interface {
	Export(ctx context.Context, kind amazon.WizardKind, accountID uuid.UUID, productIDs []uuid.UUID) (*amazon.FeedSubmission, error)
}

// WizardService drives the catalog, pricing and inventory export wizards
type WizardService struct {
	accountRepo amazon.AccountRepository
	finder      amazon.ListingFinder
	exporter    Exporter
	store       amazon.WizardStore
	ttl         time.Duration
	logger      *zap.Logger
}

// NewWizardService creates a new WizardService
func NewWizardService(
	accountRepo amazon.AccountRepository,
	finder amazon.ListingFinder,
	exporter Exporter,
	store amazon.WizardStore,
	ttl time.Duration,
	logger *zap.Logger,
) *WizardService {
	if ttl <= 0 {
		ttl = DefaultWizardTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WizardService{
		accountRepo: accountRepo,
		finder:      finder,
		exporter:    exporter,
		store:       store,
		ttl:         ttl,
		logger:      logger,
	}
}

// Begin opens a wizard for the account and returns the products it can export
func (s *WizardService) Begin(ctx context.Context, kind amazon.WizardKind, accountID uuid.UUID) (*WizardResponse, error) {
	if !kind.IsValid() {
		return nil, amazon.ErrInvalidWizardKind
	}
	if _, err := s.accountRepo.FindByID(ctx, accountID); err != nil {
		return nil, err
	}

	session, err := amazon.NewWizardSession(kind, accountID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.finder.FindExportable(ctx, kind.RequiresAccountLink())
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, session, s.ttl); err != nil {
		return nil, err
	}

	resp := ToWizardResponse(session)
	resp.Candidates = ToCandidateResponses(candidates)
	return resp, nil
}

// Get returns a wizard session
func (s *WizardService) Get(ctx context.Context, sessionID uuid.UUID) (*WizardResponse, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return ToWizardResponse(session), nil
}

// Continue submits the selection. An empty selection ends the wizard without
// exporting. A failed export returns the session to start with the error recorded.
func (s *WizardService) Continue(ctx context.Context, sessionID uuid.UUID, productIDs []uuid.UUID) (*WizardResponse, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != amazon.WizardStateStart {
		return nil, amazon.ErrInvalidTransition
	}
	if len(productIDs) > 0 {
		if err := s.checkSelectable(ctx, session.Kind, productIDs); err != nil {
			return nil, err
		}
	}

	state, err := session.Continue(productIDs)
	if err != nil {
		return nil, err
	}
	if state == amazon.WizardStateEnd {
		return s.end(ctx, session)
	}

	submission, exportErr := s.exporter.Export(ctx, session.Kind, session.AccountID, productIDs)
	if exportErr != nil {
		_ = session.Fail(exportErr)
		if err := s.store.Save(ctx, session, s.ttl); err != nil {
			s.logger.Warn("Failed to save wizard session", zap.String("session_id", session.ID.String()), zap.Error(err))
		}
		return nil, exportErr
	}

	if err := session.Complete(submission); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, session, s.ttl); err != nil {
		return nil, err
	}
	return ToWizardResponse(session), nil
}

// Cancel leaves the wizard from the selection screen
func (s *WizardService) Cancel(ctx context.Context, sessionID uuid.UUID) (*WizardResponse, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Cancel(); err != nil {
		return nil, err
	}
	return s.end(ctx, session)
}

// Finish closes the result screen
func (s *WizardService) Finish(ctx context.Context, sessionID uuid.UUID) (*WizardResponse, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Finish(); err != nil {
		return nil, err
	}
	return s.end(ctx, session)
}

// end drops a terminal session from the store
func (s *WizardService) end(ctx context.Context, session *amazon.WizardSession) (*WizardResponse, error) {
	if err := s.store.Delete(ctx, session.ID); err != nil {
		return nil, err
	}
	return ToWizardResponse(session), nil
}

// checkSelectable rejects products outside the wizard's candidate set
func (s *WizardService) checkSelectable(ctx context.Context, kind amazon.WizardKind, productIDs []uuid.UUID) error {
	candidates, err := s.finder.FindExportable(ctx, kind.RequiresAccountLink())
	if err != nil {
		return err
	}
	selectable := make(map[uuid.UUID]struct{}, len(candidates))
	for i := range candidates {
		selectable[candidates[i].ID] = struct{}{}
	}
	for _, id := range productIDs {
		if _, ok := selectable[id]; !ok {
			return amazon.ProductNotSelectableError(id.String(), kind)
		}
	}
	return nil
}

var _ Exporter = (*ExportService)(nil)
