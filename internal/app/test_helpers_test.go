package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/example/certbatch/internal/core/template"
	"github.com/example/certbatch/internal/logging"
	"github.com/example/certbatch/internal/ports/secondary"
)

// ============================================================================
// Persistence mocks
// ============================================================================

// Ensure mocks implement the interfaces
var (
	_ secondary.SerialCounterRepository = (*mockSerialCounterRepository)(nil)
	_ secondary.CertificateRepository   = (*mockCertificateRepository)(nil)
)

// mockSerialCounterRepository implements secondary.SerialCounterRepository for testing.
type mockSerialCounterRepository struct {
	mu         sync.Mutex
	counts     map[string]int
	voided     []*secondary.VoidedSerialRecord
	reserveErr error
	voidErr    error
}

func newMockSerialCounterRepository() *mockSerialCounterRepository {
	return &mockSerialCounterRepository{counts: make(map[string]int)}
}

func (m *mockSerialCounterRepository) Reserve(ctx context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reserveErr != nil {
		return 0, m.reserveErr
	}
	if _, ok := m.counts[prefix]; !ok {
		m.counts[prefix] = 1
	}
	n := m.counts[prefix]
	m.counts[prefix] = n + 1
	return n, nil
}

func (m *mockSerialCounterRepository) Get(ctx context.Context, prefix string) (*secondary.SerialCounterRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.counts[prefix]
	if !ok {
		return nil, nil
	}
	return &secondary.SerialCounterRecord{Prefix: prefix, Count: n}, nil
}

func (m *mockSerialCounterRepository) List(ctx context.Context) ([]*secondary.SerialCounterRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*secondary.SerialCounterRecord
	for p, n := range m.counts {
		result = append(result, &secondary.SerialCounterRecord{Prefix: p, Count: n})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Prefix < result[j].Prefix })
	return result, nil
}

func (m *mockSerialCounterRepository) Void(ctx context.Context, record *secondary.VoidedSerialRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.voidErr != nil {
		return m.voidErr
	}
	m.voided = append(m.voided, record)
	return nil
}

func (m *mockSerialCounterRepository) ListVoided(ctx context.Context, prefix string) ([]*secondary.VoidedSerialRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*secondary.VoidedSerialRecord
	for _, v := range m.voided {
		if prefix != "" && v.Prefix != prefix {
			continue
		}
		result = append(result, v)
	}
	return result, nil
}

// next returns the number the series will issue next (1 if never used).
func (m *mockSerialCounterRepository) next(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.counts[prefix]; ok {
		return n
	}
	return 1
}

// mockCertificateRepository implements secondary.CertificateRepository for testing.
type mockCertificateRepository struct {
	mu        sync.Mutex
	records   []*secondary.CertificateRecord
	createErr error
}

func newMockCertificateRepository() *mockCertificateRepository {
	return &mockCertificateRepository{}
}

func (m *mockCertificateRepository) Create(ctx context.Context, cert *secondary.CertificateRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	cert.ID = int64(len(m.records) + 1)
	cert.CreatedAt = "2026-01-01T00:00:00Z"
	m.records = append(m.records, cert)
	return nil
}

func (m *mockCertificateRepository) GetBySerial(ctx context.Context, serialNumber string) (*secondary.CertificateRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.SerialNumber == serialNumber {
			return r, nil
		}
	}
	return nil, fmt.Errorf("certificate %s not found", serialNumber)
}

func (m *mockCertificateRepository) List(ctx context.Context, filters secondary.CertificateFilters) ([]*secondary.CertificateRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*secondary.CertificateRecord
	for _, r := range m.records {
		if filters.Email != "" && r.Email != filters.Email {
			continue
		}
		if filters.TemplateID != "" && r.TemplateID != filters.TemplateID {
			continue
		}
		if filters.BatchID != "" && r.BatchID != filters.BatchID {
			continue
		}
		result = append(result, r)
	}
	if filters.Limit > 0 && len(result) > filters.Limit {
		result = result[:filters.Limit]
	}
	return result, nil
}

func (m *mockCertificateRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// ============================================================================
// Storage mocks
// ============================================================================

var (
	_ secondary.FolderStore = (*mockFolderStore)(nil)
	_ secondary.BlobStore   = (*mockBlobStore)(nil)
)

// mockFolderStore implements secondary.FolderStore for testing.
type mockFolderStore struct {
	mu      sync.Mutex
	folders map[string]string // parent/name -> id
	files   map[string]string // folder/name -> id
	public  map[string]bool
	nextID  int

	createFolderCalls int
	uploads           []string

	findFolderErr   error
	createFolderErr error
	uploadErr       error
	makePublicErr   error
	hideUploads     bool // FindFile never sees uploaded files
}

func newMockFolderStore() *mockFolderStore {
	return &mockFolderStore{
		folders: make(map[string]string),
		files:   make(map[string]string),
		public:  make(map[string]bool),
		nextID:  1,
	}
}

func (m *mockFolderStore) FindFolder(ctx context.Context, parentID, name string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findFolderErr != nil {
		return "", false, m.findFolderErr
	}
	id, ok := m.folders[parentID+"/"+name]
	return id, ok, nil
}

func (m *mockFolderStore) CreateFolder(ctx context.Context, parentID, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createFolderErr != nil {
		return "", m.createFolderErr
	}
	m.createFolderCalls++
	id := fmt.Sprintf("folder-%d", m.nextID)
	m.nextID++
	m.folders[parentID+"/"+name] = id
	return id, nil
}

func (m *mockFolderStore) Upload(ctx context.Context, folderID, fileName, contentType string, content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadErr != nil {
		return m.uploadErr
	}
	id := fmt.Sprintf("file-%d", m.nextID)
	m.nextID++
	m.files[folderID+"/"+fileName] = id
	m.uploads = append(m.uploads, fileName)
	return nil
}

func (m *mockFolderStore) FindFile(ctx context.Context, folderID, fileName string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hideUploads {
		return "", false, nil
	}
	id, ok := m.files[folderID+"/"+fileName]
	return id, ok, nil
}

func (m *mockFolderStore) MakePublic(ctx context.Context, fileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.makePublicErr != nil {
		return m.makePublicErr
	}
	m.public[fileID] = true
	return nil
}

func (m *mockFolderStore) FolderURL(folderID string) string {
	return "https://drive.google.com/drive/folders/" + folderID
}

func (m *mockFolderStore) FileURL(fileID string) string {
	return "https://drive.google.com/file/d/" + fileID + "/view"
}

// mockBlobStore implements secondary.BlobStore for testing.
type mockBlobStore struct {
	blobs     map[string]*secondary.BlobRecord // pathname -> record
	putErr    error
	listErr   error
	deleteErr error
	failOn    string // Delete of this target fails
	deleted   []string
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{blobs: make(map[string]*secondary.BlobRecord)}
}

func (m *mockBlobStore) Put(ctx context.Context, pathname, contentType string, content []byte) (*secondary.BlobRecord, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	r := &secondary.BlobRecord{
		URL:        "https://blobs.example.com/" + pathname,
		Pathname:   pathname,
		Size:       int64(len(content)),
		UploadedAt: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	m.blobs[pathname] = r
	return r, nil
}

func (m *mockBlobStore) List(ctx context.Context) ([]*secondary.BlobRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.BlobRecord
	for _, r := range m.blobs {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Pathname < result[j].Pathname })
	return result, nil
}

func (m *mockBlobStore) Delete(ctx context.Context, urlOrPathname string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if m.failOn != "" && m.failOn == urlOrPathname {
		return errors.New("delete failed")
	}
	for p, r := range m.blobs {
		if r.URL == urlOrPathname || p == urlOrPathname {
			delete(m.blobs, p)
			m.deleted = append(m.deleted, p)
			return nil
		}
	}
	return errors.New("blob not found")
}

// ============================================================================
// Render and mail mocks
// ============================================================================

var (
	_ secondary.BackgroundFetcher = (*mockBackgroundFetcher)(nil)
	_ secondary.DocumentRenderer  = (*mockDocumentRenderer)(nil)
	_ secondary.Mailer            = (*mockMailer)(nil)
)

// mockBackgroundFetcher implements secondary.BackgroundFetcher for testing.
type mockBackgroundFetcher struct {
	mu       sync.Mutex
	calls    int
	fetchErr error
}

func (m *mockBackgroundFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return []byte("png:" + source), nil
}

// mockDocumentRenderer implements secondary.DocumentRenderer for testing.
type mockDocumentRenderer struct {
	mu        sync.Mutex
	requests  []secondary.RenderRequest
	renderErr error
}

func (m *mockDocumentRenderer) Render(ctx context.Context, req secondary.RenderRequest) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.renderErr != nil {
		return nil, m.renderErr
	}
	m.requests = append(m.requests, req)
	return []byte("%PDF-1.3 " + req.SerialNumber), nil
}

// mockMailer implements secondary.Mailer for testing.
type mockMailer struct {
	mu      sync.Mutex
	sent    []*secondary.Message
	sendErr error
}

func (m *mockMailer) Send(ctx context.Context, msg *secondary.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

// ============================================================================
// Service fixture
// ============================================================================

const testDestinationURL = "https://drive.google.com/drive/folders/PARENT123?usp=sharing"

// issuanceFixture exposes every mock behind an IssuanceServiceImpl.
type issuanceFixture struct {
	counters *mockSerialCounterRepository
	certs    *mockCertificateRepository
	store    *mockFolderStore
	fetcher  *mockBackgroundFetcher
	renderer *mockDocumentRenderer
	mailer   *mockMailer
}

func newTestIssuanceService(workers int) (*IssuanceServiceImpl, *issuanceFixture) {
	f := &issuanceFixture{
		counters: newMockSerialCounterRepository(),
		certs:    newMockCertificateRepository(),
		store:    newMockFolderStore(),
		fetcher:  &mockBackgroundFetcher{},
		renderer: &mockDocumentRenderer{},
		mailer:   &mockMailer{},
	}

	service := NewIssuanceService(IssuanceDeps{
		Registry:   template.MustDefaultRegistry(),
		Resolver:   NewDestinationResolver(f.store),
		Allocator:  NewSerialAllocator(f.counters),
		Fetcher:    f.fetcher,
		Renderer:   f.renderer,
		Publisher:  NewArtifactPublisher(f.store),
		Auditor:    NewAuditRecorder(f.certs),
		Notifier:   NewNotifier(f.mailer),
		Logger:     logging.Discard(),
		Workers:    workers,
		NewBatchID: func() string { return "batch-test" },
	})
	return service, f
}
