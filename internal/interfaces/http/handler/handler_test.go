package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	amazonapp "github.com/erp/mws-connector/internal/application/amazon"
	"github.com/erp/mws-connector/internal/domain/amazon"
	"github.com/erp/mws-connector/internal/domain/catalog"
	"github.com/erp/mws-connector/internal/infrastructure/cache"
	"github.com/erp/mws-connector/internal/infrastructure/persistence"
	"github.com/erp/mws-connector/internal/infrastructure/persistence/models"
	"github.com/erp/mws-connector/internal/interfaces/http/dto"
	"github.com/erp/mws-connector/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeMarketplace stands in for the MWS client
type fakeMarketplace struct {
	mu        sync.Mutex
	feeds     []*amazon.Feed
	matches   []amazon.MatchedProduct
	submitErr error
	lookupErr error
}

func (f *fakeMarketplace) SubmitFeed(_ context.Context, _ amazon.Credentials, feed *amazon.Feed, _ []string) (*amazon.FeedSubmission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.feeds = append(f.feeds, feed)
	return &amazon.FeedSubmission{
		SubmissionID:     fmt.Sprintf("5000%d", len(f.feeds)),
		FeedType:         feed.Type,
		ProcessingStatus: amazon.FeedStatusSubmitted,
		SubmittedDate:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeMarketplace) GetMatchingProductForID(_ context.Context, _ amazon.Credentials, _, _ string, _ []string) ([]amazon.MatchedProduct, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.matches, nil
}

func (f *fakeMarketplace) submitted() []*amazon.Feed {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*amazon.Feed(nil), f.feeds...)
}

// testEnv wires the handlers over an in-memory SQLite database
type testEnv struct {
	t       *testing.T
	db      *gorm.DB
	market  *fakeMarketplace
	router  *gin.Engine
	account *amazon.Account
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	accountRepo := persistence.NewGormAccountRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	identifierRepo := persistence.NewGormIdentifierRepository(db)
	linkRepo := persistence.NewGormAccountLinkRepository(db)
	txScope := persistence.NewGormTransactionScope(db)
	market := &fakeMarketplace{}
	store := cache.NewInMemoryWizardStore()
	t.Cleanup(func() { _ = store.Close() })

	log := zap.NewNop()
	exportService := amazonapp.NewExportService(accountRepo, productRepo, identifierRepo, linkRepo,
		persistence.NewGormStockRepository(db), market, txScope, log)

	accounts := NewAccountHandler(amazonapp.NewAccountService(accountRepo, log))
	identifiers := NewIdentifierHandler(amazonapp.NewIdentifierService(productRepo, identifierRepo, log))
	exports := NewExportHandler(exportService, amazonapp.NewProductResolver(accountRepo, productRepo, market, txScope, log))
	wizards := NewWizardHandler(amazonapp.NewWizardService(accountRepo, persistence.NewGormListingFinder(db), exportService, store, time.Minute, log))

	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/health", NewHealthHandler(nil, "test").Check)
	g := r.Group("/amazon")
	g.POST("/accounts", accounts.Create)
	g.GET("/accounts", accounts.List)
	g.GET("/accounts/:id", accounts.GetByID)
	g.POST("/accounts/:id/resolve", exports.Resolve)
	g.POST("/accounts/:id/exports/:kind", exports.Export)
	g.POST("/accounts/:id/wizards/:kind", wizards.Begin)
	g.GET("/products/:id/identifiers", identifiers.List)
	g.POST("/products/:id/identifiers", identifiers.Add)
	g.DELETE("/identifiers/:id", identifiers.Remove)
	g.GET("/wizards/:session", wizards.Get)
	g.POST("/wizards/:session/continue", wizards.Continue)
	g.POST("/wizards/:session/cancel", wizards.Cancel)
	g.POST("/wizards/:session/finish", wizards.Finish)

	account, err := amazon.NewAccount(amazon.AccountParams{
		Name:          "EU Seller",
		AccessKey:     "AKIA",
		SecretKey:     "secret",
		MerchantID:    "M1",
		MarketplaceID: "A1PA6795UKMFR9",
		DefaultUnit:   "pcs",
		CurrencyCode:  "EUR",
	})
	require.NoError(t, err)
	require.NoError(t, accountRepo.Save(context.Background(), account))

	return &testEnv{t: t, db: db, market: market, router: r, account: account}
}

// product saves a product, with identifiers when codes are given
func (e *testEnv) product(code, name string, identifiers ...string) *catalog.Product {
	e.t.Helper()
	p, err := catalog.NewProduct(code, name, "pcs")
	require.NoError(e.t, err)
	require.NoError(e.t, persistence.NewGormProductRepository(e.db).Save(context.Background(), p))
	for _, c := range identifiers {
		i, err := amazon.NewProductIdentifier(p.ID, c, amazon.CodeTypeEAN)
		require.NoError(e.t, err)
		require.NoError(e.t, persistence.NewGormIdentifierRepository(e.db).Create(context.Background(), i))
	}
	return p
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) accountPath(suffix string) string {
	return "/amazon/accounts/" + e.account.ID.String() + suffix
}

// envelope mirrors dto.Response with the payload left raw
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	env := decode(t, w, nil)
	require.NotNil(t, env.Error, w.Body.String())
	return env.Error.Code
}

func productIDs(products ...*catalog.Product) map[string][]uuid.UUID {
	ids := make([]uuid.UUID, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return map[string][]uuid.UUID{"product_ids": ids}
}
