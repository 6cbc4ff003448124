// Package wire provides dependency injection for the certbatch application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"

	"github.com/example/certbatch/internal/adapters/awssecrets"
	cliadapter "github.com/example/certbatch/internal/adapters/cli"
	"github.com/example/certbatch/internal/adapters/drive"
	"github.com/example/certbatch/internal/adapters/httpapi"
	"github.com/example/certbatch/internal/adapters/objectstore"
	"github.com/example/certbatch/internal/adapters/render"
	"github.com/example/certbatch/internal/adapters/s3blob"
	"github.com/example/certbatch/internal/adapters/smtp"
	"github.com/example/certbatch/internal/adapters/sqlite"
	"github.com/example/certbatch/internal/app"
	"github.com/example/certbatch/internal/config"
	"github.com/example/certbatch/internal/db"
	"github.com/example/certbatch/internal/logging"
	"github.com/example/certbatch/internal/ports/primary"
	"github.com/example/certbatch/internal/ports/secondary"
)

var (
	configPath string

	cfg      *config.Config
	logger   *slog.Logger
	database *sql.DB
	baseOnce sync.Once

	ledgerService primary.LedgerService
	ledgerOnce    sync.Once

	issuanceService primary.IssuanceService
	issuanceOnce    sync.Once

	catalogService primary.IssuanceService
	catalogOnce    sync.Once

	blobService primary.BlobService
	blobOnce    sync.Once
)

// SetConfigPath selects an explicit config file. It must be called before
// any accessor.
func SetConfigPath(path string) {
	configPath = path
}

// Config returns the loaded configuration.
func Config() *config.Config {
	baseOnce.Do(initBase)
	return cfg
}

// Logger returns the process logger.
func Logger() *slog.Logger {
	baseOnce.Do(initBase)
	return logger
}

// LedgerService returns the singleton LedgerService instance.
func LedgerService() primary.LedgerService {
	ledgerOnce.Do(initLedger)
	return ledgerService
}

// IssuanceService returns the singleton IssuanceService instance.
func IssuanceService() primary.IssuanceService {
	issuanceOnce.Do(initIssuance)
	return issuanceService
}

// CatalogService returns an IssuanceService that only knows the template
// catalog. It lists templates and validates requests without storage or
// mail credentials, and must not be used to issue.
func CatalogService() primary.IssuanceService {
	catalogOnce.Do(initCatalog)
	return catalogService
}

// BlobService returns the singleton BlobService instance.
func BlobService() primary.BlobService {
	blobOnce.Do(initBlobs)
	if blobService == nil {
		log.Fatalf("transient upload store is not configured (set blobs.bucket)")
	}
	return blobService
}

// HTTPServer returns a new HTTP server over the issuance service and, when
// configured, the upload store.
func HTTPServer() *httpapi.Server {
	blobOnce.Do(initBlobs)
	if blobService == nil {
		return httpapi.NewServer(IssuanceService(), nil, Logger())
	}
	return httpapi.NewServer(IssuanceService(), blobService, Logger())
}

// IssuanceAdapter returns a new IssuanceAdapter writing to out.
// Each call creates a new adapter (adapters are stateless translators).
func IssuanceAdapter(out io.Writer) *cliadapter.IssuanceAdapter {
	return cliadapter.NewIssuanceAdapter(IssuanceService(), out)
}

// CatalogAdapter returns an IssuanceAdapter over CatalogService.
func CatalogAdapter(out io.Writer) *cliadapter.IssuanceAdapter {
	return cliadapter.NewIssuanceAdapter(CatalogService(), out)
}

// LedgerAdapter returns a new LedgerAdapter writing to out.
func LedgerAdapter(out io.Writer) *cliadapter.LedgerAdapter {
	return cliadapter.NewLedgerAdapter(LedgerService(), out)
}

// BlobAdapter returns a new BlobAdapter writing to out.
func BlobAdapter(out io.Writer) *cliadapter.BlobAdapter {
	return cliadapter.NewBlobAdapter(BlobService(), out)
}

// initBase loads configuration, builds the logger and opens the ledger.
// This is called once via sync.Once.
func initBase() {
	ctx := context.Background()

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger = logging.New(os.Stderr, logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	slog.SetDefault(logger)

	if cfg.Secrets.Provider == config.SecretsAWS && cfg.HasSecretRefs() {
		resolver, err := awssecrets.NewFromEnvironment(ctx, cfg.Secrets.Region, logger)
		if err != nil {
			log.Fatalf("failed to create secrets resolver: %v", err)
		}
		if err := cfg.ResolveSecrets(ctx, resolver); err != nil {
			log.Fatalf("failed to resolve secrets: %v", err)
		}
	}

	database, err = db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
}

func initCatalog() {
	baseOnce.Do(initBase)

	registry, err := cfg.TemplateRegistry()
	if err != nil {
		log.Fatalf("failed to build template registry: %v", err)
	}
	catalogService = app.NewIssuanceService(app.IssuanceDeps{Registry: registry, Logger: logger})
}

func initLedger() {
	baseOnce.Do(initBase)

	counterRepo := sqlite.NewSerialCounterRepository(database)
	certRepo := sqlite.NewCertificateRepository(database)
	ledgerService = app.NewLedgerService(counterRepo, certRepo)
}

func initIssuance() {
	baseOnce.Do(initBase)
	ctx := context.Background()

	registry, err := cfg.TemplateRegistry()
	if err != nil {
		log.Fatalf("failed to build template registry: %v", err)
	}

	folders, err := newFolderStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize folder store: %v", err)
	}

	mailer, err := smtp.New(smtp.Config{
		Host:        cfg.Mail.Host,
		Port:        cfg.Mail.Port,
		Username:    cfg.Mail.Username,
		Password:    cfg.Mail.Password,
		FromName:    cfg.Mail.FromName,
		FromAddress: cfg.Mail.FromAddress,
	})
	if err != nil {
		log.Fatalf("failed to initialize mailer: %v", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	counterRepo := sqlite.NewSerialCounterRepository(database)
	certRepo := sqlite.NewCertificateRepository(database)

	issuanceService = app.NewIssuanceService(app.IssuanceDeps{
		Registry:  registry,
		Resolver:  app.NewDestinationResolver(folders),
		Allocator: app.NewSerialAllocator(counterRepo),
		Fetcher:   render.NewHTTPFetcher(nil),
		Renderer:  render.NewPDFRenderer(),
		Publisher: app.NewArtifactPublisher(folders),
		Auditor:   app.NewAuditRecorder(certRepo),
		Notifier:  app.NewNotifier(mailer),
		Logger:    logger,
		Workers:   cfg.Batch.Workers,
	})
}

// initBlobs leaves blobService nil when no bucket is configured.
func initBlobs() {
	baseOnce.Do(initBase)
	if cfg.Blobs.Bucket == "" {
		return
	}

	store, err := s3blob.NewFromEnvironment(context.Background(), s3blob.Options{
		Bucket:        cfg.Blobs.Bucket,
		Region:        cfg.Blobs.Region,
		Prefix:        cfg.Blobs.Prefix,
		PublicBaseURL: cfg.Blobs.PublicBaseURL,
	})
	if err != nil {
		log.Fatalf("failed to initialize upload store: %v", err)
	}
	blobService = app.NewBlobService(store, logger)
}

func newFolderStore(ctx context.Context, cfg *config.Config) (secondary.FolderStore, error) {
	if cfg.Storage.Backend == config.BackendObjectStore {
		o := cfg.Storage.ObjectStore
		return objectstore.New(objectstore.Config{
			Endpoint:      o.Endpoint,
			AccessKey:     o.AccessKey,
			SecretKey:     o.SecretKey,
			Bucket:        o.Bucket,
			UseSSL:        o.UseSSL,
			PublicBaseURL: o.PublicBaseURL,
		})
	}

	d := cfg.Storage.Drive
	return drive.New(ctx, drive.Credentials{
		ClientID:     d.ClientID,
		ClientSecret: d.ClientSecret,
		RedirectURI:  d.RedirectURI,
		RefreshToken: d.RefreshToken,
	})
}
