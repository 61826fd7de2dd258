package classify

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// signatureFiles lists project manifests that identify a single-language
// ecosystem with high precision. Checked in priority order.
var signatureFiles = []struct {
	name string
	lang Language
}{
	{"go.mod", LangGo},
	{"go.work", LangGo},
	{"Cargo.toml", LangRust},
	{"pyproject.toml", LangPython},
	{"requirements.txt", LangPython},
	{"setup.py", LangPython},
	{"package.json", LangTypeScript}, // refined to JS below
	{"pom.xml", LangJava},
	{"build.gradle", LangJava},
	{"build.gradle.kts", LangKotlin},
	{"Gemfile", LangRuby},
	{"composer.json", LangPHP},
	{"mix.exs", LangElixir},
	{"pubspec.yaml", LangDart},
}

// signatureLanguage applies the signature-file fast path: when the manifests
// at the repository root identify exactly one ecosystem, the scan is skipped.
// Polyglot roots (manifests for several languages) fall through to the
// frequency scan.
func (c *Classifier) signatureLanguage(repoPath string) (Language, bool) {
	found := make(map[Language]struct{})
	var first Language

	for _, sig := range signatureFiles {
		full := filepath.Join(repoPath, sig.name)
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			continue
		}

		lang := sig.lang
		switch sig.name {
		case "Cargo.toml":
			if !validTOMLManifest(full, "package", "workspace") {
				continue
			}
		case "pyproject.toml":
			if !validTOMLManifest(full, "project", "tool", "build-system") {
				continue
			}
		case "package.json":
			lang = c.refineJSorTS(repoPath)
		}

		if _, seen := found[lang]; !seen {
			if len(found) == 0 {
				first = lang
			}
			found[lang] = struct{}{}
		}
	}

	if len(found) == 1 {
		return first, true
	}
	return LangUnknown, false
}

// validTOMLManifest parses the file and requires at least one of the given
// top-level tables, so a stray same-named file does not misclassify a repo.
func validTOMLManifest(path string, tables ...string) bool {
	var doc map[string]interface{}
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return false
	}
	for _, t := range tables {
		if _, ok := doc[t]; ok {
			return true
		}
	}
	return false
}

// refineJSorTS distinguishes TypeScript from JavaScript projects.
func (c *Classifier) refineJSorTS(repoPath string) Language {
	if _, err := os.Stat(filepath.Join(repoPath, "tsconfig.json")); err == nil {
		return LangTypeScript
	}
	if hasFileWithExt(repoPath, ".ts") {
		return LangTypeScript
	}
	return LangJavaScript
}

// hasFileWithExt checks the root and a src/ subdirectory for a file with
// the given extension.
func hasFileWithExt(root, ext string) bool {
	for _, dir := range []string{root, filepath.Join(root, "src")} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() && filepath.Ext(e.Name()) == ext {
				return true
			}
		}
	}
	return false
}
