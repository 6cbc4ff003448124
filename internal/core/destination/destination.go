// Package destination contains the pure naming rules for per-recipient
// destination folders and the artifacts published into them.
package destination

import (
	"regexp"
	"strings"
)

// FolderURLBase is the canonical shareable reference prefix for a folder id.
const FolderURLBase = "https://drive.google.com/drive/folders/"

var (
	folderIDPattern = regexp.MustCompile(`/folders/([^/?]*)`)
	folderNameStrip = regexp.MustCompile(`[^\w\s-]`)
	fileNameStrip   = regexp.MustCompile(`[/\\'"\x00-\x1f]`)
	fileNameSpacing = regexp.MustCompile(`\s+`)
)

// ExtractFolderID pulls the container id out of a ".../folders/<id>" URL.
// Returns false when the URL has no non-empty id segment.
func ExtractFolderID(url string) (string, bool) {
	m := folderIDPattern.FindStringSubmatch(url)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// FolderName derives the recipient's folder name: "<name> Certificates"
// with every character outside word, space and hyphen removed.
func FolderName(recipientName string) string {
	return folderNameStrip.ReplaceAllString(recipientName+" Certificates", "")
}

// FolderURL returns the shareable reference for a folder id.
func FolderURL(folderID string) string {
	return FolderURLBase + folderID
}

// ArtifactFileName names the PDF for one (recipient, template) pair:
// "<prefix>_<name>.pdf" with whitespace turned into underscores.
func ArtifactFileName(serialPrefix, recipientName string) string {
	return fileToken(serialPrefix) + "_" + fileToken(recipientName) + ".pdf"
}

// ArchiveFileName names the per-recipient bundle attached to the email.
func ArchiveFileName(recipientName string) string {
	return fileNameStrip.ReplaceAllString(recipientName, "") + "_certificates.zip"
}

func fileToken(s string) string {
	s = fileNameStrip.ReplaceAllString(strings.TrimSpace(s), "")
	return fileNameSpacing.ReplaceAllString(s, "_")
}
