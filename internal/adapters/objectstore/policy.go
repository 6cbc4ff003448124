package objectstore

import (
	"encoding/json"
	"fmt"
	"slices"
)

const publicReadSid = "CertbatchPublicRead"

type policyDocument struct {
	Version   string           `json:"Version"`
	Statement []map[string]any `json:"Statement"`
}

// publicResources are the keys anonymous readers may fetch: every folder's
// files and its index page. Folder ids are random, so neither is
// enumerable.
func publicResources(bucket string) []any {
	return []any{
		"arn:aws:s3:::" + bucket + "/" + folderRoot + "*" + filesSegment + "*",
		"arn:aws:s3:::" + bucket + "/" + folderRoot + "*/" + indexName,
	}
}

// grantPublicRead sets the anonymous GetObject statement of a bucket policy
// to the fixed folder resources, creating the policy or the statement as
// needed. The statement size does not grow with the number of objects.
// Statements it does not own are preserved. changed is false when the
// grant is already in place.
func grantPublicRead(current, bucket string) (policy string, changed bool, err error) {
	doc := policyDocument{Version: "2012-10-17"}
	if current != "" {
		if err := json.Unmarshal([]byte(current), &doc); err != nil {
			return "", false, fmt.Errorf("failed to parse bucket policy: %w", err)
		}
	}

	want := publicResources(bucket)

	var stmt map[string]any
	for _, s := range doc.Statement {
		if sid, _ := s["Sid"].(string); sid == publicReadSid {
			stmt = s
			break
		}
	}
	if stmt == nil {
		stmt = map[string]any{
			"Sid":       publicReadSid,
			"Effect":    "Allow",
			"Principal": map[string]any{"AWS": []any{"*"}},
			"Action":    []any{"s3:GetObject"},
		}
		doc.Statement = append(doc.Statement, stmt)
	} else if have, ok := stmt["Resource"].([]any); ok && slices.Equal(have, want) {
		return current, false, nil
	}

	// Replaces per-object resources left by older grants.
	stmt["Resource"] = want

	out, err := json.Marshal(doc)
	if err != nil {
		return "", false, fmt.Errorf("failed to encode bucket policy: %w", err)
	}
	return string(out), true, nil
}
