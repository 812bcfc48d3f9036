package services

import (
	"strings"
	"testing"
)

func TestCheckAllowedFile(t *testing.T) {
	cases := []struct {
		name    string
		wantExt string
		wantOK  bool
	}{
		{"photo.jpg", "jpg", true},
		{"PHOTO.JPG", "jpg", true},
		{"clip.mov", "mov", true},
		{"letter.PDF", "pdf", true},
		{"archive.tar.gz", "", false},
		{"script.exe", "", false},
		{"noextension", "", false},
		{".hidden", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		ext, ok := CheckAllowedFile(tc.name)
		if ok != tc.wantOK {
			t.Errorf("CheckAllowedFile(%q) ok = %v, want %v", tc.name, ok, tc.wantOK)
		}
		if ok && ext != tc.wantExt {
			t.Errorf("CheckAllowedFile(%q) ext = %q, want %q", tc.name, ext, tc.wantExt)
		}
	}
}

func TestFileCategory(t *testing.T) {
	if got := FileCategory("png"); got != "image" {
		t.Fatalf("png category = %q, want image", got)
	}
	if got := FileCategory("MP4"); got != "video" {
		t.Fatalf("MP4 category = %q, want video", got)
	}
	if got := FileCategory("docx"); got != "document" {
		t.Fatalf("docx category = %q, want document", got)
	}
	if got := FileCategory("xyz"); got != "file" {
		t.Fatalf("unknown category = %q, want file", got)
	}
}

func TestGenerateStorageName(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		name := generateStorageName("JPG")
		if !strings.HasSuffix(name, ".jpg") {
			t.Fatalf("storage name %q should end in .jpg", name)
		}
		stem := strings.TrimSuffix(name, ".jpg")
		if len(stem) != 32 {
			t.Fatalf("storage name stem %q should be 32 hex chars", stem)
		}
		for _, r := range stem {
			if !strings.ContainsRune("0123456789abcdef", r) {
				t.Fatalf("storage name %q contains non-hex rune %q", name, r)
			}
		}
		if seen[name] {
			t.Fatalf("storage name %q generated twice", name)
		}
		seen[name] = true
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"../../etc/passwd":  "passwd",
		"dir/photo.jpg":     "photo.jpg",
		"plain.png":         "plain.png",
		"weird..name.jpg":   "weird_name.jpg",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTitleFromFilename(t *testing.T) {
	if got := titleFromFilename("summer-2019.jpg"); got != "summer-2019" {
		t.Fatalf("title = %q, want summer-2019", got)
	}
	if got := titleFromFilename(".jpg"); got != "Untitled" {
		t.Fatalf("title = %q, want Untitled", got)
	}
}
