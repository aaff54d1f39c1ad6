package amazon

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/mws-connector/internal/domain/amazon"
	"github.com/erp/mws-connector/internal/domain/catalog"
	"github.com/erp/mws-connector/internal/domain/shared"
	"github.com/erp/mws-connector/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// importedProductPrice is the placeholder price of a product created from the marketplace
var importedProductPrice = decimal.RequireFromString("0.01")

// ProductResolver finds the local product for a marketplace SKU, importing it when needed
type ProductResolver struct {
	accountRepo amazon.AccountRepository
	productRepo catalog.ProductReader
	lookup      amazon.CatalogLookup
	txScope     TransactionScope
	logger      *zap.Logger
}

// NewProductResolver creates a new ProductResolver
func NewProductResolver(
	accountRepo amazon.AccountRepository,
	productRepo catalog.ProductReader,
	lookup amazon.CatalogLookup,
	txScope TransactionScope,
	logger *zap.Logger,
) *ProductResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductResolver{
		accountRepo: accountRepo,
		productRepo: productRepo,
		lookup:      lookup,
		txScope:     txScope,
		logger:      logger,
	}
}

// ResolveBySKU returns the product whose code is sku. When none exists it is
// created from the marketplace data of the account's marketplace, together
// with an ASIN identifier.
func (r *ProductResolver) ResolveBySKU(ctx context.Context, accountID uuid.UUID, sku string) (*catalog.Product, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "amazon_resolver", "resolve_by_sku")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrAccountID, accountID.String(),
		telemetry.SpanAttrProductCode, sku,
	)

	if sku == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "SKU is required")
	}

	product, err := r.productRepo.FindByCode(ctx, sku)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		telemetry.RecordError(span, err)
		return nil, err
	}

	account, err := r.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	matches, err := r.lookup.GetMatchingProductForID(ctx, account.Credentials(), account.MarketplaceID, amazon.IDTypeSellerSKU, []string{sku})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("lookup sku %q: %w", sku, err)
	}
	match := firstMatch(matches)
	if match == nil {
		err := shared.NewDomainErrorWithCause(
			"NOT_FOUND_ON_MARKETPLACE",
			fmt.Sprintf(`Product with SKU "%s" not found on marketplace %s`, sku, account.MarketplaceID),
			amazon.ErrProductNotFoundOnMarketplace,
		)
		telemetry.RecordError(span, err)
		return nil, err
	}
	if match.Shape == amazon.AttributeShapeSingle {
		r.logger.Warn("Marketplace returned a single attribute set",
			zap.String("sku", sku),
			zap.String("asin", match.ASIN),
		)
	}

	product, err = r.importProduct(ctx, account, sku, match)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	r.logger.Info("Product imported from marketplace",
		zap.String("sku", sku),
		zap.String("asin", match.ASIN),
		zap.String("product_id", product.ID.String()),
	)
	return product, nil
}

// importProduct creates the product and its ASIN identifier in one transaction
func (r *ProductResolver) importProduct(ctx context.Context, account *amazon.Account, sku string, match *amazon.MatchedProduct) (*catalog.Product, error) {
	name := match.Title()
	if name == "" {
		name = sku
	}

	product, err := catalog.NewProduct(sku, name, account.DefaultUnit)
	if err != nil {
		return nil, err
	}
	if err := product.SetPrices(importedProductPrice, importedProductPrice); err != nil {
		return nil, err
	}
	product.SetAccounts(account.DefaultRevenueAccount, account.DefaultExpenseAccount)

	identifier, err := amazon.NewProductIdentifier(product.ID, match.ASIN, amazon.CodeTypeASIN)
	if err != nil {
		return nil, err
	}

	err = r.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return err
		}
		return repos.IdentifierRepo().Create(ctx, identifier)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// firstMatch returns the first match that carries an ASIN
func firstMatch(matches []amazon.MatchedProduct) *amazon.MatchedProduct {
	for i := range matches {
		if matches[i].ASIN != "" {
			return &matches[i]
		}
	}
	return nil
}
