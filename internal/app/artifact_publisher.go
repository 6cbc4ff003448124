package app

import (
	"context"
	"fmt"

	"github.com/example/certbatch/internal/ports/secondary"
)

const pdfContentType = "application/pdf"

// PublishedArtifact is an uploaded, publicly readable certificate.
type PublishedArtifact struct {
	FileID    string
	FileName  string
	Reference string
}

// ArtifactPublisher uploads a rendered certificate into a recipient's folder,
// confirms it by name, and opens it for anonymous reading.
type ArtifactPublisher struct {
	store secondary.FolderStore
}

// NewArtifactPublisher creates an ArtifactPublisher with injected dependencies.
func NewArtifactPublisher(store secondary.FolderStore) *ArtifactPublisher {
	return &ArtifactPublisher{store: store}
}

// Publish uploads content as fileName into folderID. The upload response is
// not trusted: the file id comes from a name lookup scoped to the folder.
func (p *ArtifactPublisher) Publish(ctx context.Context, folderID, fileName string, content []byte) (*PublishedArtifact, error) {
	if folderID == "" {
		return nil, fmt.Errorf("User folder ID is undefined")
	}

	if err := p.store.Upload(ctx, folderID, fileName, pdfContentType, content); err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", fileName, err)
	}

	fileID, found, err := p.store.FindFile(ctx, folderID, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up uploaded file %s: %w", fileName, err)
	}
	if !found || fileID == "" {
		return nil, verificationFailed(fileName, folderID)
	}

	if err := p.store.MakePublic(ctx, fileID); err != nil {
		return nil, fmt.Errorf("failed to share %s: %w", fileName, err)
	}

	return &PublishedArtifact{
		FileID:    fileID,
		FileName:  fileName,
		Reference: p.store.FileURL(fileID),
	}, nil
}
