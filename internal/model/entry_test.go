package model

import (
	"encoding/json"
	"testing"
)

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		name  string
		entry RepositoryEntry
		want  string
	}{
		{"git repo uses base name", RepositoryEntry{Path: "/home/dev/widget", Kind: KindGitRepository}, "widget"},
		{"workspace drops extension", RepositoryEntry{Path: "/home/dev/api.code-workspace", Kind: KindWorkspace}, "api"},
		{"git repo keeps dots", RepositoryEntry{Path: "/home/dev/my.site", Kind: KindGitRepository}, "my.site"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.DisplayTitle(); got != tt.want {
				t.Errorf("DisplayTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEntryKindJSONRoundTrip(t *testing.T) {
	in := RepositoryEntry{Path: "/a/b", Kind: KindWorkspace}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}

	var out RepositoryEntry
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Kind != KindWorkspace {
		t.Errorf("Kind = %v, want KindWorkspace", out.Kind)
	}
}

func TestParseSortPolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    SortPolicy
		wantErr bool
	}{
		{"recency", SortRecencyOfDiscovery, false},
		{"", SortRecencyOfDiscovery, false},
		{"last-opened", SortLastOpened, false},
		{"LastOpened", SortLastOpened, false},
		{"bogus", SortRecencyOfDiscovery, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSortPolicy(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSortPolicy(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSortPolicy(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
