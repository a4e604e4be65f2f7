package config

// Version is the current seqc version. Set at build time via -ldflags.
var Version = "0.1.0"

const SourceFileExt = ".seq"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".seq"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode indicates if the program is running in test mode.
var IsTestMode = false

// StdlibEnvVar is the environment variable checked when resolving std:
// includes, after the embedded table and ahead of executable-relative paths.
const StdlibEnvVar = "SEQ_STDLIB"

// Include directive literal prefixes (spec.md 6.1).
const (
	StdIncludePrefix = "std:"
	FfiIncludePrefix = "ffi:"
)

// AllowLintAnnotationPrefix is the per-word lint-suppression annotation
// (spec.md 6.1): "# seq:allow(<lint-id>)".
const AllowLintAnnotationPrefix = "# seq:allow("

// RuntimeSymbolPrefix is prepended to every runtime primitive name codegen
// emits a declaration for (spec.md 6.3).
const RuntimeSymbolPrefix = "patch_seq_"

// Default structural-lint nesting depth (spec.md 4.5).
const DefaultMaxIfNestingDepth = 4

// Exit codes (spec.md 6.5).
const (
	ExitSuccess           = 0
	ExitDiagnosticErrors  = 1
	ExitInternalCompiler  = 2
)
