// Package s3blob implements the transient upload store on Amazon S3.
package s3blob

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/example/certbatch/internal/ports/secondary"
)

// s3API is the subset of the S3 client the store uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Options configures a Store.
type Options struct {
	Bucket string
	Region string
	// Prefix is prepended to every key, e.g. "uploads/".
	Prefix string
	// PublicBaseURL is the public address of the bucket. Defaults to the
	// virtual-hosted S3 endpoint.
	PublicBaseURL string
}

// Store implements secondary.BlobStore.
type Store struct {
	client  s3API
	bucket  string
	prefix  string
	baseURL string
	now     func() time.Time
}

// New creates a Store over an existing S3 client.
func New(client s3API, opts Options) *Store {
	base := strings.TrimRight(opts.PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
	}
	return &Store{
		client:  client,
		bucket:  opts.Bucket,
		prefix:  opts.Prefix,
		baseURL: base,
		now:     time.Now,
	}
}

// NewFromEnvironment loads AWS credentials from the default chain.
func NewFromEnvironment(ctx context.Context, opts Options) (*Store, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if opts.Region == "" {
		opts.Region = cfg.Region
	}
	return New(s3.NewFromConfig(cfg), opts), nil
}

// Put uploads content under pathname with public-read access.
func (s *Store) Put(ctx context.Context, pathname, contentType string, content []byte) (*secondary.BlobRecord, error) {
	key := s.prefix + pathname
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(content),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(content))),
		ACL:           types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return nil, fmt.Errorf("put %s: %w", key, err)
	}

	return &secondary.BlobRecord{
		URL:        s.urlFor(key),
		Pathname:   pathname,
		Size:       int64(len(content)),
		UploadedAt: s.now(),
	}, nil
}

// List returns every blob under the configured prefix.
func (s *Store) List(ctx context.Context) ([]*secondary.BlobRecord, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	}
	if s.prefix != "" {
		input.Prefix = aws.String(s.prefix)
	}

	var records []*secondary.BlobRecord
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", s.bucket, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			records = append(records, &secondary.BlobRecord{
				URL:        s.urlFor(key),
				Pathname:   strings.TrimPrefix(key, s.prefix),
				Size:       aws.ToInt64(obj.Size),
				UploadedAt: aws.ToTime(obj.LastModified),
			})
		}
	}
	return records, nil
}

// Delete removes a blob given its public URL or its pathname.
func (s *Store) Delete(ctx context.Context, urlOrPathname string) error {
	key, err := s.keyFor(urlOrPathname)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) urlFor(key string) string {
	return s.baseURL + "/" + key
}

func (s *Store) keyFor(urlOrPathname string) (string, error) {
	if strings.HasPrefix(urlOrPathname, s.baseURL+"/") {
		return strings.TrimPrefix(urlOrPathname, s.baseURL+"/"), nil
	}
	if strings.HasPrefix(urlOrPathname, "http://") || strings.HasPrefix(urlOrPathname, "https://") {
		u, err := url.Parse(urlOrPathname)
		if err != nil {
			return "", fmt.Errorf("invalid blob URL %q: %w", urlOrPathname, err)
		}
		return strings.TrimPrefix(u.Path, "/"), nil
	}
	return s.prefix + strings.TrimPrefix(urlOrPathname, "/"), nil
}

// Ensure Store implements the interface.
var _ secondary.BlobStore = (*Store)(nil)
