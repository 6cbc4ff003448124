package destination

import "testing"

func TestExtractFolderID(t *testing.T) {
	tests := []struct {
		url    string
		wantID string
		wantOK bool
	}{
		{"https://drive.google.com/drive/folders/1AbC-xyz_9", "1AbC-xyz_9", true},
		{"https://drive.google.com/drive/u/0/folders/abc123?usp=sharing", "abc123", true},
		{"https://drive.google.com/drive/folders/abc/def", "abc", true},
		{"https://drive.google.com/drive/folders/", "", false},
		{"https://drive.google.com/drive/folders/?usp=sharing", "", false},
		{"https://example.com/files/abc", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		id, ok := ExtractFolderID(tt.url)
		if ok != tt.wantOK || id != tt.wantID {
			t.Errorf("ExtractFolderID(%q) = (%q, %v), want (%q, %v)", tt.url, id, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestFolderName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Ada Lovelace", "Ada Lovelace Certificates"},
		{"Mary-Jane O'Neil", "Mary-Jane ONeil Certificates"},
		{"Dr. Who?", "Dr Who Certificates"},
		{"a/b\\c", "abc Certificates"},
	}

	for _, tt := range tests {
		if got := FolderName(tt.name); got != tt.want {
			t.Errorf("FolderName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFolderNameIsStable(t *testing.T) {
	if FolderName("Ada Lovelace") != FolderName("Ada Lovelace") {
		t.Error("expected identical names to produce identical folder names")
	}
}

func TestArtifactFileName(t *testing.T) {
	got := ArtifactFileName("PMPP B#", "Ada Lovelace")
	if got != "PMPP_B#_Ada_Lovelace.pdf" {
		t.Errorf("unexpected file name %q", got)
	}

	got = ArtifactFileName("SS B#", "  Jean  O'Hara/../x ")
	if got != "SS_B#_Jean_OHara..x.pdf" {
		t.Errorf("unexpected file name %q", got)
	}
}

func TestArchiveFileName(t *testing.T) {
	if got := ArchiveFileName("Ada Lovelace"); got != "Ada Lovelace_certificates.zip" {
		t.Errorf("unexpected archive name %q", got)
	}
}

func TestFolderURL(t *testing.T) {
	if got := FolderURL("xyz"); got != "https://drive.google.com/drive/folders/xyz" {
		t.Errorf("unexpected folder URL %q", got)
	}
}
