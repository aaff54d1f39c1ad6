package amazon

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/mws-connector/internal/domain/amazon"
	"github.com/erp/mws-connector/internal/domain/catalog"
	"github.com/erp/mws-connector/internal/domain/inventory"
	"github.com/erp/mws-connector/internal/domain/shared"
	"github.com/erp/mws-connector/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MetricsRecorder records the outcome of each export attempt
type MetricsRecorder interface {
	RecordExport(ctx context.Context, feedType, outcome string, messages, skipped int, elapsed time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) RecordExport(context.Context, string, string, int, int, time.Duration) {}

type noopArchive struct{}

func (noopArchive) Store(context.Context, *amazon.Account, *amazon.Feed, *amazon.FeedSubmission) error {
	return nil
}

// ExportService validates, builds, submits and records marketplace feeds
type ExportService struct {
	accountRepo    amazon.AccountRepository
	productRepo    catalog.ProductReader
	identifierRepo amazon.IdentifierReader
	linkRepo       amazon.AccountLinkRepository
	quantities     inventory.QuantityReader
	submitter      amazon.FeedSubmitter
	txScope        TransactionScope
	builder        *amazon.FeedBuilder
	archive        amazon.FeedArchive
	metrics        MetricsRecorder
	logger         *zap.Logger
}

// NewExportService creates a new ExportService
func NewExportService(
	accountRepo amazon.AccountRepository,
	productRepo catalog.ProductReader,
	identifierRepo amazon.IdentifierReader,
	linkRepo amazon.AccountLinkRepository,
	quantities inventory.QuantityReader,
	submitter amazon.FeedSubmitter,
	txScope TransactionScope,
	logger *zap.Logger,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		accountRepo:    accountRepo,
		productRepo:    productRepo,
		identifierRepo: identifierRepo,
		linkRepo:       linkRepo,
		quantities:     quantities,
		submitter:      submitter,
		txScope:        txScope,
		builder:        amazon.NewFeedBuilder(),
		archive:        noopArchive{},
		metrics:        noopMetrics{},
		logger:         logger,
	}
}

// SetFeedArchive sets where submitted envelopes are copied
func (s *ExportService) SetFeedArchive(archive amazon.FeedArchive) {
	if archive != nil {
		s.archive = archive
	}
}

// SetMetrics sets the export metrics recorder
func (s *ExportService) SetMetrics(metrics MetricsRecorder) {
	if metrics != nil {
		s.metrics = metrics
	}
}

// ExportCatalog submits a product feed and links every exported product to the account
func (s *ExportService) ExportCatalog(ctx context.Context, accountID uuid.UUID, productIDs []uuid.UUID) (*amazon.FeedSubmission, error) {
	return s.Export(ctx, amazon.WizardKindCatalog, accountID, productIDs)
}

// ExportPricing submits a price feed for the products linked to the account
func (s *ExportService) ExportPricing(ctx context.Context, accountID uuid.UUID, productIDs []uuid.UUID) (*amazon.FeedSubmission, error) {
	return s.Export(ctx, amazon.WizardKindPricing, accountID, productIDs)
}

// ExportInventory submits an inventory feed for linked products with storage stock
func (s *ExportService) ExportInventory(ctx context.Context, accountID uuid.UUID, productIDs []uuid.UUID) (*amazon.FeedSubmission, error) {
	return s.Export(ctx, amazon.WizardKindInventory, accountID, productIDs)
}

// Export runs the pipeline for the given kind of feed.
// Validation failures return before anything is sent to the marketplace.
func (s *ExportService) Export(ctx context.Context, kind amazon.WizardKind, accountID uuid.UUID, productIDs []uuid.UUID) (*amazon.FeedSubmission, error) {
	if !kind.IsValid() {
		return nil, amazon.ErrInvalidWizardKind
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "amazon_export", kind.String())
	defer span.End()

	feedType := kind.FeedType()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrAccountID, accountID.String(),
		telemetry.SpanAttrFeedType, feedType.String(),
		telemetry.SpanAttrCount, len(productIDs),
	)
	start := time.Now()

	if len(productIDs) == 0 {
		err := shared.NewDomainError("NO_PRODUCTS", "No products selected for export")
		telemetry.RecordError(span, err)
		return nil, err
	}

	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrMarketplaceID, account.MarketplaceID)

	listings, err := s.loadListings(ctx, productIDs)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var feed *amazon.Feed
	telemetry.WithProfileLabels(ctx, func(ctx context.Context) {
		feed, err = s.buildFeed(ctx, kind, account, listings)
	}, telemetry.ProfileLabelFeedType, feedType.String(), telemetry.ProfileLabelOperation, "build_feed")
	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.RecordExport(ctx, feedType.String(), telemetry.OutcomeRejected, 0, 0, time.Since(start))
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrMessageCount, feed.MessageCount(),
		telemetry.SpanAttrSkippedCount, feed.Skipped,
	)

	submission, err := s.submitter.SubmitFeed(ctx, account.Credentials(), feed, account.MarketplaceIDs())
	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.RecordExport(ctx, feedType.String(), telemetry.OutcomeFailed, feed.MessageCount(), feed.Skipped, time.Since(start))
		return nil, fmt.Errorf("submit %s: %w", feedType, err)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrSubmissionID, submission.SubmissionID)

	if kind == amazon.WizardKindCatalog {
		if err := s.linkExported(ctx, account.ID, feed.ProductIDs); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	if err := s.archive.Store(ctx, account, feed, submission); err != nil {
		s.logger.Warn("Failed to archive submitted feed",
			zap.String("feed_type", feedType.String()),
			zap.String("submission_id", submission.SubmissionID),
			zap.Error(err),
		)
	}

	s.metrics.RecordExport(ctx, feedType.String(), telemetry.OutcomeSubmitted, feed.MessageCount(), feed.Skipped, time.Since(start))
	s.logger.Info("Feed submitted",
		zap.String("account_id", account.ID.String()),
		zap.String("feed_type", feedType.String()),
		zap.String("submission_id", submission.SubmissionID),
		zap.Int("messages", feed.MessageCount()),
		zap.Int("skipped", feed.Skipped),
	)

	return submission, nil
}

// loadListings composes the requested products with their identifiers and
// links, in the caller's order. Every id must resolve to a product.
func (s *ExportService) loadListings(ctx context.Context, productIDs []uuid.UUID) ([]amazon.Listable, error) {
	products, err := s.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	if missing := firstMissing(productIDs, products); missing != uuid.Nil {
		return nil, shared.NewDomainErrorWithCause(
			"NOT_FOUND",
			fmt.Sprintf("Product %s not found", missing),
			amazon.ErrProductNotFound,
		)
	}

	ids := catalog.ProductIDs(products)
	identifiers, err := s.identifierRepo.FindByProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	links, err := s.linkRepo.FindByProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	return amazon.ListingsFromProducts(products, identifiers, links), nil
}

func (s *ExportService) buildFeed(ctx context.Context, kind amazon.WizardKind, account *amazon.Account, listings []amazon.Listable) (*amazon.Feed, error) {
	switch kind {
	case amazon.WizardKindCatalog:
		return s.builder.BuildProductFeed(account, listings)
	case amazon.WizardKindPricing:
		return s.builder.BuildPriceFeed(account, listings)
	default:
		ids := make([]uuid.UUID, len(listings))
		for i, l := range listings {
			ids[i] = l.ProductID()
		}
		quantities, err := s.quantities.SumByLocationType(ctx, ids, inventory.LocationTypeStorage)
		if err != nil {
			return nil, err
		}
		return s.builder.BuildInventoryFeed(account, listings, quantities)
	}
}

// linkExported records the export of every product to the account, all or nothing
func (s *ExportService) linkExported(ctx context.Context, accountID uuid.UUID, productIDs []uuid.UUID) error {
	links, err := amazon.NewAccountLinks(accountID, productIDs)
	if err != nil {
		return err
	}
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		created, err := repos.LinkRepo().CreateIfAbsent(ctx, links)
		if err != nil {
			return fmt.Errorf("link exported products: %w", err)
		}
		s.logger.Debug("Account links recorded",
			zap.String("account_id", accountID.String()),
			zap.Int64("created", created),
			zap.Int("exported", len(links)),
		)
		return nil
	})
}

// firstMissing returns the first requested id without a product, or uuid.Nil
func firstMissing(ids []uuid.UUID, products []catalog.Product) uuid.UUID {
	found := make(map[uuid.UUID]struct{}, len(products))
	for i := range products {
		found[products[i].ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return id
		}
	}
	return uuid.Nil
}
