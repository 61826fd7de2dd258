package rank

import (
	"reflect"
	"testing"
	"time"

	"repodex/internal/classify"
	"repodex/internal/model"
)

type fakeLangs struct {
	langs   map[string][]classify.Language
	remotes map[string]string
	detects int
}

func (f *fakeLangs) Has(path string) bool {
	_, ok := f.langs[path]
	return ok
}

func (f *fakeLangs) DetectAndCache(path string) []classify.Language {
	f.detects++
	tags := []classify.Language{classify.LangUnknown}
	if f.langs == nil {
		f.langs = map[string][]classify.Language{}
	}
	f.langs[path] = tags
	return tags
}

func (f *fakeLangs) Languages(path string) []classify.Language {
	if tags, ok := f.langs[path]; ok {
		return tags
	}
	return []classify.Language{classify.LangUnknown}
}

func (f *fakeLangs) RemoteURL(path string) string { return f.remotes[path] }

type fakeUsage struct {
	opened map[string]time.Time
}

func (f *fakeUsage) LastOpened(path string) (time.Time, bool) {
	at, ok := f.opened[path]
	return at, ok
}

func gitEntry(path string) model.RepositoryEntry {
	return model.RepositoryEntry{Path: path, Kind: model.KindGitRepository}
}

func titles(entries []model.RepositoryEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.DisplayTitle()
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want Query
	}{
		{"auth", Query{Text: "auth"}},
		{"lang:rust auth", Query{Text: "auth", Lang: []string{"rust"}}},
		{"LANG:Go", Query{Lang: []string{"Go"}}},
		{"--remote api", Query{Text: "api", RemoteOnly: true}},
		{"lang:go lang:rust svc", Query{Text: "svc", Lang: []string{"go", "rust"}}},
		{"lang:", Query{Text: "lang:"}},
		{"", Query{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := Parse(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestLangFilterExcludesOtherLanguages(t *testing.T) {
	langs := &fakeLangs{langs: map[string][]classify.Language{
		"/dev/auth-rs":  {classify.LangRust},
		"/dev/auth-go":  {classify.LangGo},
		"/dev/unrelate": {classify.LangRust},
	}}
	e := New(langs, &fakeUsage{}, nil)

	got := e.Rank([]model.RepositoryEntry{
		gitEntry("/dev/auth-rs"),
		gitEntry("/dev/auth-go"),
		gitEntry("/dev/unrelate"),
	}, "lang:rust auth", model.SortRecencyOfDiscovery, 0)

	want := []string{"auth-rs"}
	if !reflect.DeepEqual(titles(got), want) {
		t.Errorf("titles = %v, want %v", titles(got), want)
	}
}

func TestRemoteOnlyFilter(t *testing.T) {
	langs := &fakeLangs{
		langs: map[string][]classify.Language{
			"/dev/pub":   {classify.LangGo},
			"/dev/local": {classify.LangGo},
		},
		remotes: map[string]string{"/dev/pub": "https://github.com/o/pub"},
	}
	e := New(langs, &fakeUsage{}, nil)

	got := e.Rank([]model.RepositoryEntry{
		gitEntry("/dev/pub"),
		gitEntry("/dev/local"),
	}, "--remote", model.SortRecencyOfDiscovery, 0)

	if len(got) != 1 || got[0].Path != "/dev/pub" {
		t.Errorf("got %v, want only the entry with a remote", titles(got))
	}
}

func TestFuzzyOrdersByScoreThenTitle(t *testing.T) {
	langs := &fakeLangs{langs: map[string][]classify.Language{
		"/dev/widget":    {classify.LangGo},
		"/dev/gadget":    {classify.LangGo},
		"/dev/unrelated": {classify.LangGo},
	}}
	e := New(langs, &fakeUsage{}, nil)

	got := e.Rank([]model.RepositoryEntry{
		gitEntry("/dev/unrelated"),
		gitEntry("/dev/widget"),
		gitEntry("/dev/gadget"),
	}, "get", model.SortRecencyOfDiscovery, 0)

	for _, title := range titles(got) {
		if title == "unrelated" {
			t.Error("non-matching entry survived fuzzy filtering")
		}
	}
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2", len(got))
	}
}

func TestEmptyQueryPreservesDiscoveryOrder(t *testing.T) {
	langs := &fakeLangs{langs: map[string][]classify.Language{
		"/dev/b": {classify.LangGo},
		"/dev/a": {classify.LangGo},
	}}
	e := New(langs, &fakeUsage{}, nil)

	got := e.Rank([]model.RepositoryEntry{
		gitEntry("/dev/b"),
		gitEntry("/dev/a"),
	}, "", model.SortRecencyOfDiscovery, 0)

	want := []string{"b", "a"}
	if !reflect.DeepEqual(titles(got), want) {
		t.Errorf("titles = %v, want discovery order %v", titles(got), want)
	}
}

func TestLastOpenedPolicyRanksRecentFirst(t *testing.T) {
	yesterday := time.Now().Add(-24 * time.Hour)
	lastWeek := time.Now().Add(-7 * 24 * time.Hour)
	langs := &fakeLangs{langs: map[string][]classify.Language{
		"/dev/never":     {classify.LangGo},
		"/dev/yesterday": {classify.LangGo},
		"/dev/lastweek":  {classify.LangGo},
	}}
	usage := &fakeUsage{opened: map[string]time.Time{
		"/dev/yesterday": yesterday,
		"/dev/lastweek":  lastWeek,
	}}
	e := New(langs, usage, nil)

	got := e.Rank([]model.RepositoryEntry{
		gitEntry("/dev/never"),
		gitEntry("/dev/lastweek"),
		gitEntry("/dev/yesterday"),
	}, "", model.SortLastOpened, 0)

	want := []string{"yesterday", "lastweek", "never"}
	if !reflect.DeepEqual(titles(got), want) {
		t.Errorf("titles = %v, want %v", titles(got), want)
	}
}

func TestUnseenEntriesAreDetectedOnce(t *testing.T) {
	langs := &fakeLangs{}
	e := New(langs, &fakeUsage{}, nil)

	e.Rank([]model.RepositoryEntry{gitEntry("/dev/new")}, "", model.SortRecencyOfDiscovery, 0)
	if langs.detects != 1 {
		t.Errorf("detects = %d after first query, want 1", langs.detects)
	}

	e.Rank([]model.RepositoryEntry{gitEntry("/dev/new")}, "", model.SortRecencyOfDiscovery, 0)
	if langs.detects != 1 {
		t.Errorf("detects = %d after second query, want still 1", langs.detects)
	}
}

func TestWorkspaceEntriesSkipClassification(t *testing.T) {
	langs := &fakeLangs{}
	e := New(langs, &fakeUsage{}, nil)

	got := e.Rank([]model.RepositoryEntry{
		{Path: "/dev/api.code-workspace", Kind: model.KindWorkspace},
	}, "", model.SortRecencyOfDiscovery, 0)

	if langs.detects != 0 {
		t.Errorf("detects = %d for a workspace entry, want 0", langs.detects)
	}
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1", len(got))
	}
	want := []classify.Language{classify.LangUnknown}
	if !reflect.DeepEqual(got[0].Languages, want) {
		t.Errorf("workspace Languages = %v, want %v", got[0].Languages, want)
	}
}

func TestLimitTruncates(t *testing.T) {
	langs := &fakeLangs{langs: map[string][]classify.Language{}}
	var entries []model.RepositoryEntry
	for _, p := range []string{"/dev/a", "/dev/b", "/dev/c"} {
		langs.langs[p] = []classify.Language{classify.LangGo}
		entries = append(entries, gitEntry(p))
	}
	e := New(langs, &fakeUsage{}, nil)

	got := e.Rank(entries, "", model.SortRecencyOfDiscovery, 2)
	if len(got) != 2 {
		t.Errorf("got %d entries with limit 2, want 2", len(got))
	}
}
