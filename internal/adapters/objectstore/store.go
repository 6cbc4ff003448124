// Package objectstore implements the destination folder store on an
// S3-compatible object store through MinIO.
//
// Folders are virtual. A folder is identified by a random id; its entry
// under the parent is an index object carrying that id as metadata:
//
//	folders/<parent>/children/<name>  -> folder-id: <id>
//	folders/<id>/files/<file name>    -> file content
//	folders/<id>/index.html           -> public page linking the files
//
// A file's id is its object key. Anonymous reads are granted once, by
// prefix, for files and index pages; the index page is the folder's
// shareable URL.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/example/certbatch/internal/ports/secondary"
)

const (
	noSuchKey      = "NoSuchKey"
	folderIDHeader = "Folder-Id"

	folderRoot   = "folders/"
	filesSegment = "/files/"
	indexName    = "index.html"
)

// objectAPI is the subset of the MinIO client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	GetBucketPolicy(ctx context.Context, bucketName string) (string, error)
	SetBucketPolicy(ctx context.Context, bucketName, policy string) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// Config holds connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL is where anonymous readers reach the bucket. Defaults
	// to the endpoint.
	PublicBaseURL string
}

// Store implements secondary.FolderStore.
type Store struct {
	api     objectAPI
	bucket  string
	baseURL string
	newID   func() string

	// Serializes read-modify-write of the bucket policy.
	policyMu sync.Mutex
	granted  bool

	indexMu sync.Mutex
}

// New connects to the object store.
func New(cfg Config) (*Store, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("object store endpoint and bucket are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	base := cfg.PublicBaseURL
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.Endpoint
	}
	return newStore(client, cfg.Bucket, base), nil
}

func newStore(api objectAPI, bucket, baseURL string) *Store {
	return &Store{
		api:     api,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		newID:   uuid.NewString,
	}
}

// FindFolder reads the index entry for name under parentID.
func (s *Store) FindFolder(ctx context.Context, parentID, name string) (string, bool, error) {
	info, err := s.api.StatObject(ctx, s.bucket, childKey(parentID, name), minio.StatObjectOptions{})
	if err != nil {
		return notFoundOr(err)
	}
	for k, v := range info.UserMetadata {
		if strings.EqualFold(k, folderIDHeader) && v != "" {
			return v, true, nil
		}
	}
	return "", false, nil
}

// CreateFolder writes a new index entry under parentID and the folder's
// public page, so the folder URL resolves before any file is published.
func (s *Store) CreateFolder(ctx context.Context, parentID, name string) (string, error) {
	id := s.newID()
	key := childKey(parentID, name)
	_, err := s.api.PutObject(ctx, s.bucket, key, bytes.NewReader([]byte(id)), int64(len(id)), minio.PutObjectOptions{
		ContentType:  "text/plain",
		UserMetadata: map[string]string{folderIDHeader: id},
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}

	if err := s.ensurePublicRead(ctx); err != nil {
		return "", err
	}
	if err := s.writeIndex(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

// Upload stores content in folderID.
func (s *Store) Upload(ctx context.Context, folderID, fileName, contentType string, content []byte) error {
	return s.put(ctx, fileKey(folderID, fileName), contentType, content)
}

// FindFile confirms the object exists and returns its key.
func (s *Store) FindFile(ctx context.Context, folderID, fileName string) (string, bool, error) {
	key := fileKey(folderID, fileName)
	if _, err := s.api.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		return notFoundOr(err)
	}
	return key, true, nil
}

// MakePublic ensures the anonymous read grant and lists the file on its
// folder's page.
func (s *Store) MakePublic(ctx context.Context, fileID string) error {
	folderID, ok := folderOf(fileID)
	if !ok {
		return fmt.Errorf("not a folder file: %s", fileID)
	}
	if err := s.ensurePublicRead(ctx); err != nil {
		return err
	}
	return s.writeIndex(ctx, folderID)
}

// FolderURL returns the public page of a folder.
func (s *Store) FolderURL(folderID string) string {
	return s.baseURL + "/" + s.bucket + "/" + indexKey(folderID)
}

// FileURL returns the public URL of a file.
func (s *Store) FileURL(fileID string) string {
	return s.baseURL + "/" + s.bucket + "/" + fileID
}

// ensurePublicRead installs the prefix grant once per process. The policy
// is re-read first so statements written by others survive.
func (s *Store) ensurePublicRead(ctx context.Context) error {
	s.policyMu.Lock()
	defer s.policyMu.Unlock()
	if s.granted {
		return nil
	}

	current, err := s.api.GetBucketPolicy(ctx, s.bucket)
	if err != nil && minio.ToErrorResponse(err).Code != "NoSuchBucketPolicy" {
		return fmt.Errorf("failed to read bucket policy: %w", err)
	}

	updated, changed, err := grantPublicRead(current, s.bucket)
	if err != nil {
		return err
	}
	if changed {
		if err := s.api.SetBucketPolicy(ctx, s.bucket, updated); err != nil {
			return fmt.Errorf("failed to update bucket policy: %w", err)
		}
	}
	s.granted = true
	return nil
}

// writeIndex rewrites the folder page from the files currently stored.
func (s *Store) writeIndex(ctx context.Context, folderID string) error {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	prefix := folderRoot + folderID + filesSegment
	var names []string
	for obj := range s.api.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
		}
		names = append(names, strings.TrimPrefix(obj.Key, prefix))
	}
	sort.Strings(names)

	page, err := renderIndex(names)
	if err != nil {
		return fmt.Errorf("failed to render folder index: %w", err)
	}
	return s.put(ctx, indexKey(folderID), "text/html; charset=utf-8", page)
}

func (s *Store) put(ctx context.Context, key, contentType string, content []byte) error {
	_, err := s.api.PutObject(ctx, s.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func childKey(parentID, name string) string {
	return folderRoot + parentID + "/children/" + name
}

func fileKey(folderID, fileName string) string {
	return folderRoot + folderID + filesSegment + fileName
}

func indexKey(folderID string) string {
	return folderRoot + folderID + "/" + indexName
}

// folderOf extracts the folder id from a file key.
func folderOf(fileKey string) (string, bool) {
	rest, ok := strings.CutPrefix(fileKey, folderRoot)
	if !ok {
		return "", false
	}
	folderID, name, ok := strings.Cut(rest, filesSegment)
	if !ok || folderID == "" || name == "" {
		return "", false
	}
	return folderID, true
}

func notFoundOr(err error) (string, bool, error) {
	if minio.ToErrorResponse(err).Code == noSuchKey {
		return "", false, nil
	}
	return "", false, err
}

// Ensure Store implements the interface.
var _ secondary.FolderStore = (*Store)(nil)
