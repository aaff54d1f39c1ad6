package amazon

import (
	"errors"
	"fmt"

	"github.com/erp/mws-connector/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// Amazon Errors
// ---------------------------------------------------------------------------

var (
	// Export validation errors
	ErrMissingProductCode = errors.New("amazon: product misses product code")
	ErrMissingIdentifiers = errors.New("amazon: product misses amazon product identifiers")

	// Record errors
	ErrInvalidProductID       = errors.New("amazon: invalid product ID")
	ErrInvalidAccountID       = errors.New("amazon: invalid account ID")
	ErrIdentifierCodeRequired = errors.New("amazon: identifier code is required")
	ErrInvalidCodeType        = errors.New("amazon: invalid identifier code type")
	ErrDuplicateIdentifier    = errors.New("amazon: identifier must be unique by type")
	ErrDuplicateProductCode   = errors.New("amazon: product code already exists")
	ErrIdentifierNotFound     = errors.New("amazon: identifier not found")

	// Account errors
	ErrAccountNotFound     = errors.New("amazon: mws account not found")
	ErrAccountInvalid      = errors.New("amazon: invalid mws account")
	ErrInvalidCurrencyCode = errors.New("amazon: invalid currency code")

	// Resolution errors
	ErrProductNotFound              = errors.New("amazon: product not found")
	ErrProductNotFoundOnMarketplace = errors.New("amazon: product not found on marketplace")

	// Wizard errors
	ErrInvalidWizardKind     = errors.New("amazon: invalid wizard kind")
	ErrInvalidTransition     = errors.New("amazon: transition not allowed in current state")
	ErrWizardSessionNotFound = errors.New("amazon: wizard session not found")
	ErrProductNotSelectable  = errors.New("amazon: product is not selectable for this export")
)

// MissingProductCodeError reports a product that cannot be exported without a SKU
func MissingProductCodeError(productName string) error {
	return shared.NewDomainErrorWithCause(
		"MISSING_PRODUCT_CODE",
		fmt.Sprintf(`Product "%s" misses Product Code`, productName),
		ErrMissingProductCode,
	)
}

// MissingIdentifiersError reports a product that has no marketplace identifier
func MissingIdentifiersError(productName string) error {
	return shared.NewDomainErrorWithCause(
		"MISSING_IDENTIFIERS",
		fmt.Sprintf(`Product "%s" misses Amazon Product Identifiers`, productName),
		ErrMissingIdentifiers,
	)
}

// DuplicateProductCodeError reports a code shared by a product carrying identifiers
func DuplicateProductCodeError(code string) error {
	return shared.NewDomainErrorWithCause(
		"DUPLICATE_PRODUCT_CODE",
		fmt.Sprintf(`Product with Amazon Code/SKU "%s" already exists`, code),
		ErrDuplicateProductCode,
	)
}

// DuplicateIdentifierError reports a (code, type) pair that is already registered
func DuplicateIdentifierError(code string, codeType CodeType) error {
	return shared.NewDomainErrorWithCause(
		"DUPLICATE_IDENTIFIER",
		fmt.Sprintf("A product identifier must be unique by type: %s %s", codeType, code),
		ErrDuplicateIdentifier,
	)
}

// ProductNotSelectableError reports a product outside the wizard's selectable set
func ProductNotSelectableError(productName string, kind WizardKind) error {
	return shared.NewDomainErrorWithCause(
		"PRODUCT_NOT_SELECTABLE",
		fmt.Sprintf(`Product "%s" cannot be selected for %s export`, productName, kind),
		ErrProductNotSelectable,
	)
}
