// Package drive implements the destination folder store on Google Drive.
package drive

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/example/certbatch/internal/core/destination"
	"github.com/example/certbatch/internal/ports/secondary"
)

const folderMimeType = "application/vnd.google-apps.folder"

// Credentials identify the OAuth client and the offline grant to act under.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	RefreshToken string
}

// Store implements secondary.FolderStore.
type Store struct {
	svc *drive.Service
}

// New creates a Store authenticated with a long-lived refresh token.
func New(ctx context.Context, creds Credentials) (*Store, error) {
	if creds.ClientID == "" || creds.RefreshToken == "" {
		return nil, fmt.Errorf("drive client id and refresh token are required")
	}
	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURI,
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveScope},
	}
	ts := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken})
	return NewWithOptions(ctx, option.WithTokenSource(ts))
}

// NewWithOptions creates a Store with explicit client options.
func NewWithOptions(ctx context.Context, opts ...option.ClientOption) (*Store, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Store{svc: svc}, nil
}

// FindFolder looks up a non-trashed folder named name under parentID.
func (s *Store) FindFolder(ctx context.Context, parentID, name string) (string, bool, error) {
	q := fmt.Sprintf("'%s' in parents and name='%s' and mimeType='%s' and trashed=false",
		escape(parentID), escape(name), folderMimeType)
	return s.first(ctx, q, "createdTime")
}

// CreateFolder creates a folder under parentID.
func (s *Store) CreateFolder(ctx context.Context, parentID, name string) (string, error) {
	f, err := s.svc.Files.Create(&drive.File{
		Name:     name,
		MimeType: folderMimeType,
		Parents:  []string{parentID},
	}).Fields("id").SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return f.Id, nil
}

// Upload stores content as a new file in folderID.
func (s *Store) Upload(ctx context.Context, folderID, fileName, contentType string, content []byte) error {
	_, err := s.svc.Files.Create(&drive.File{
		Name:     fileName,
		MimeType: contentType,
		Parents:  []string{folderID},
	}).Media(bytes.NewReader(content), googleapi.ContentType(contentType)).
		Fields("id").SupportsAllDrives(true).Context(ctx).Do()
	return err
}

// FindFile looks up a non-trashed file by name in folderID. Drive allows
// duplicate names, so the most recently created match wins.
func (s *Store) FindFile(ctx context.Context, folderID, fileName string) (string, bool, error) {
	q := fmt.Sprintf("name='%s' and '%s' in parents and trashed=false", escape(fileName), escape(folderID))
	return s.first(ctx, q, "createdTime desc")
}

// MakePublic grants anyone-with-the-link read access.
func (s *Store) MakePublic(ctx context.Context, fileID string) error {
	_, err := s.svc.Permissions.Create(fileID, &drive.Permission{
		Role: "reader",
		Type: "anyone",
	}).SupportsAllDrives(true).Context(ctx).Do()
	return err
}

// FolderURL returns the browser URL of a folder.
func (s *Store) FolderURL(folderID string) string {
	return destination.FolderURL(folderID)
}

// FileURL returns the browser URL of a file.
func (s *Store) FileURL(fileID string) string {
	return "https://drive.google.com/file/d/" + fileID + "/view"
}

// first returns the first match of q in orderBy order. Drive may return
// partial or empty pages before the end of the results, so it follows
// nextPageToken until a page has a file or the results run out.
func (s *Store) first(ctx context.Context, q, orderBy string) (string, bool, error) {
	token := ""
	for {
		call := s.svc.Files.List().Q(q).OrderBy(orderBy).
			Fields("nextPageToken, files(id, name)").PageSize(10).
			SupportsAllDrives(true).IncludeItemsFromAllDrives(true)
		if token != "" {
			call = call.PageToken(token)
		}
		list, err := call.Context(ctx).Do()
		if err != nil {
			return "", false, err
		}
		for _, f := range list.Files {
			if f.Id != "" {
				return f.Id, true, nil
			}
		}
		if list.NextPageToken == "" {
			return "", false, nil
		}
		token = list.NextPageToken
	}
}

// escape quotes a value for a Drive query string literal.
func escape(v string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v)
}

// Ensure Store implements the interface.
var _ secondary.FolderStore = (*Store)(nil)
