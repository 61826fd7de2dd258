// Package classify determines the significant languages of a repository
// and extracts its configured remote URL.
package classify

import "strings"

// Language represents a programming language tag.
type Language string

const (
	LangGo         Language = "go"
	LangTypeScript Language = "typescript"
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
	LangRust       Language = "rust"
	LangJava       Language = "java"
	LangKotlin     Language = "kotlin"
	LangCSharp     Language = "csharp"
	LangCPP        Language = "cpp"
	LangC          Language = "c"
	LangRuby       Language = "ruby"
	LangPHP        Language = "php"
	LangSwift      Language = "swift"
	LangDart       Language = "dart"
	LangScala      Language = "scala"
	LangElixir     Language = "elixir"
	LangHaskell    Language = "haskell"
	LangLua        Language = "lua"
	LangShell      Language = "shell"
	LangHTML       Language = "html"
	LangCSS        Language = "css"
	LangVue        Language = "vue"
	LangUnknown    Language = "unknown"
)

// extensionTable maps file extensions to languages.
var extensionTable = map[string]Language{
	".go":    LangGo,
	".ts":    LangTypeScript,
	".tsx":   LangTypeScript,
	".js":    LangJavaScript,
	".jsx":   LangJavaScript,
	".mjs":   LangJavaScript,
	".cjs":   LangJavaScript,
	".py":    LangPython,
	".pyi":   LangPython,
	".rs":    LangRust,
	".java":  LangJava,
	".kt":    LangKotlin,
	".kts":   LangKotlin,
	".cs":    LangCSharp,
	".cpp":   LangCPP,
	".cc":    LangCPP,
	".cxx":   LangCPP,
	".hpp":   LangCPP,
	".c":     LangC,
	".h":     LangC,
	".rb":    LangRuby,
	".php":   LangPHP,
	".swift": LangSwift,
	".dart":  LangDart,
	".scala": LangScala,
	".ex":    LangElixir,
	".exs":   LangElixir,
	".hs":    LangHaskell,
	".lua":   LangLua,
	".sh":    LangShell,
	".bash":  LangShell,
	".zsh":   LangShell,
	".html":  LangHTML,
	".css":   LangCSS,
	".scss":  LangCSS,
	".less":  LangCSS,
	".vue":   LangVue,
}

// skipExtensions lists binary and media extensions that never count
// toward classification.
var skipExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".ico": {}, ".svg": {},
	".webp": {}, ".bmp": {}, ".mp3": {}, ".mp4": {}, ".wav": {}, ".ogg": {},
	".avi": {}, ".mov": {}, ".zip": {}, ".gz": {}, ".tar": {}, ".7z": {},
	".rar": {}, ".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {},
	".exe": {}, ".dll": {}, ".so": {}, ".dylib": {}, ".a": {}, ".o": {},
	".bin": {}, ".dat": {}, ".db": {}, ".sqlite": {}, ".ttf": {}, ".otf": {},
	".woff": {}, ".woff2": {}, ".eot": {}, ".lock": {},
}

// DisplayName returns a human-readable name for the language.
func (l Language) DisplayName() string {
	switch l {
	case LangGo:
		return "Go"
	case LangTypeScript:
		return "TypeScript"
	case LangJavaScript:
		return "JavaScript"
	case LangPython:
		return "Python"
	case LangRust:
		return "Rust"
	case LangJava:
		return "Java"
	case LangKotlin:
		return "Kotlin"
	case LangCSharp:
		return "C#"
	case LangCPP:
		return "C++"
	case LangC:
		return "C"
	case LangRuby:
		return "Ruby"
	case LangPHP:
		return "PHP"
	case LangSwift:
		return "Swift"
	case LangDart:
		return "Dart"
	case LangScala:
		return "Scala"
	case LangElixir:
		return "Elixir"
	case LangHaskell:
		return "Haskell"
	case LangLua:
		return "Lua"
	case LangShell:
		return "Shell"
	case LangHTML:
		return "HTML"
	case LangCSS:
		return "CSS"
	case LangVue:
		return "Vue"
	default:
		return "Unknown"
	}
}

// Matches reports whether the language tag matches a user-supplied filter
// token, case-insensitively and by substring.
func (l Language) Matches(token string) bool {
	token = strings.ToLower(token)
	return strings.Contains(strings.ToLower(string(l)), token) ||
		strings.Contains(strings.ToLower(l.DisplayName()), token)
}
