// Package include resolves the three include forms spec.md 3.2/6.1/6.2
// define (std:<name>, "relative/path", ffi:<name>) and checks for
// definition collisions across resolved modules. Grounded directly on
// original_source/crates/compiler/src/resolver.rs, translated from its
// Result-returning methods to Go's (value, error) idiom.
package include

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/funvibe/seqc/internal/ast"
	"github.com/funvibe/seqc/internal/config"
)

// SourceReader loads the text of a resolved module. Production use backs
// this with an os.ReadFile-based implementation; tests substitute an
// in-memory map (see resolver_test.go), matching the original's approach of
// keeping the resolver's IO pluggable for testability.
type SourceReader func(path string) (string, error)

// ResolvedContent is one include's resolved, loaded source plus the
// directory subsequent relative includes within it should resolve against.
type ResolvedContent struct {
	Include ast.Include
	Path    string // the resolved filesystem/embedded path, "" for ffi
	Source  string
	Dir     string
}

// Resolver resolves a program's includes to loaded source text, tracking
// already-visited modules to avoid duplicate work (singleflight-style
// dedup — see Resolve's memo map) and to detect definition collisions
// across the resolved set.
type Resolver struct {
	Embedded  embed.FS // compiled-in stdlib table, may be the zero value
	HasEmbed  bool
	Read      SourceReader
	ExePath   string // defaults to os.Executable()
	Cache     *StdlibCache // optional sqlite-backed std: module cache

	mu     sync.Mutex
	memo   map[string]*ResolvedContent
	inFlight map[string]bool
}

// WithStdlibCache attaches a sqlite-backed cache consulted for every
// std:<name> resolution not served by the embedded table, after findStdlib
// has located the stdlib directory and before the module file is read.
func (r *Resolver) WithStdlibCache(c *StdlibCache) *Resolver {
	r.Cache = c
	return r
}

func New(reader SourceReader) *Resolver {
	return &Resolver{
		Read: reader,
		memo: map[string]*ResolvedContent{},
		inFlight: map[string]bool{},
	}
}

// WithEmbedded attaches a compiled-in stdlib filesystem, checked before any
// environment-variable or executable-relative lookup (spec.md 6.2).
func (r *Resolver) WithEmbedded(fs embed.FS) *Resolver {
	r.Embedded = fs
	r.HasEmbed = true
	return r
}

// ResolveResult is the full output of resolving one program's include graph.
type ResolveResult struct {
	Contents []*ResolvedContent
}

// Resolve walks prog's includes (non-recursively at this call; recursive
// includes from within resolved modules are out of this package's contract
// — spec.md does not name transitive re-exports, only direct includes) and
// returns their resolved contents, or the first resolver error encountered
// (missing module, cycle, or a rejected empty/absolute relative path).
func (r *Resolver) Resolve(prog *ast.Program, sourceDir string) (*ResolveResult, error) {
	result := &ResolveResult{}
	for _, inc := range prog.Includes {
		content, err := r.resolveOne(inc, sourceDir)
		if err != nil {
			return nil, err
		}
		result.Contents = append(result.Contents, content)
	}
	return result, nil
}

func (r *Resolver) resolveOne(inc ast.Include, sourceDir string) (*ResolvedContent, error) {
	key := includeKey(inc, sourceDir)

	r.mu.Lock()
	if cached, ok := r.memo[key]; ok {
		r.mu.Unlock()
		return cached, nil
	}
	if r.inFlight[key] {
		r.mu.Unlock()
		return nil, fmt.Errorf("include cycle detected resolving %s", key)
	}
	r.inFlight[key] = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.inFlight, key)
		r.mu.Unlock()
	}()

	var content *ResolvedContent
	var err error

	switch v := inc.(type) {
	case ast.FfiInclude:
		content = &ResolvedContent{Include: inc, Dir: sourceDir}
	case ast.StdInclude:
		content, err = r.resolveStd(v.Name)
	case ast.RelativeInclude:
		content, err = r.resolveRelative(v.Path, sourceDir)
	default:
		err = fmt.Errorf("unknown include kind %T", inc)
	}
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.memo[key] = content
	r.mu.Unlock()
	return content, nil
}

func includeKey(inc ast.Include, sourceDir string) string {
	switch v := inc.(type) {
	case ast.StdInclude:
		return "std:" + v.Name
	case ast.FfiInclude:
		return "ffi:" + v.Name
	case ast.RelativeInclude:
		return "rel:" + filepath.Join(sourceDir, v.Path)
	default:
		return fmt.Sprintf("%v", inc)
	}
}

func (r *Resolver) resolveRelative(path, sourceDir string) (*ResolvedContent, error) {
	if path == "" {
		return nil, fmt.Errorf("relative include path must not be empty")
	}
	if filepath.IsAbs(path) {
		return nil, fmt.Errorf("relative include path must not be absolute: %q", path)
	}
	full := filepath.Join(sourceDir, path)
	src, err := r.Read(full)
	if err != nil {
		return nil, fmt.Errorf("resolving relative include %q: %w", path, err)
	}
	return &ResolvedContent{Include: ast.RelativeInclude{Path: path}, Path: full, Source: src, Dir: filepath.Dir(full)}, nil
}

func (r *Resolver) resolveStd(name string) (*ResolvedContent, error) {
	if r.HasEmbed {
		data, err := r.Embedded.ReadFile(name + config.SourceFileExt)
		if err == nil {
			return &ResolvedContent{Include: ast.StdInclude{Name: name}, Source: string(data), Dir: ""}, nil
		}
	}
	dir, err := r.findStdlib()
	if err != nil {
		return nil, fmt.Errorf("resolving std include %q: %w", name, err)
	}
	full := filepath.Join(dir, name+config.SourceFileExt)

	if src, cachedDir, ok := r.Cache.Lookup(name, full); ok {
		return &ResolvedContent{Include: ast.StdInclude{Name: name}, Path: full, Source: src, Dir: cachedDir}, nil
	}

	src, err := r.Read(full)
	if err != nil {
		return nil, fmt.Errorf("resolving std include %q: %w", name, err)
	}
	r.Cache.Put(name, full, src, dir)
	return &ResolvedContent{Include: ast.StdInclude{Name: name}, Path: full, Source: src, Dir: dir}, nil
}

// findStdlib implements spec.md 6.2's lookup order: SEQ_STDLIB env var,
// then a "stdlib" directory next to the running executable (or one parent
// up, to tolerate a bin/ subdirectory layout), then "./stdlib" relative to
// the working directory. Grounded on resolver.rs's find_stdlib.
func (r *Resolver) findStdlib() (string, error) {
	if v := os.Getenv(config.StdlibEnvVar); v != "" {
		if dirExists(v) {
			return v, nil
		}
	}

	exe := r.ExePath
	if exe == "" {
		if p, err := os.Executable(); err == nil {
			exe = p
		}
	}
	if exe != "" {
		exeDir := filepath.Dir(exe)
		if candidate := filepath.Join(exeDir, "stdlib"); dirExists(candidate) {
			return candidate, nil
		}
		if candidate := filepath.Join(exeDir, "..", "stdlib"); dirExists(candidate) {
			return candidate, nil
		}
	}

	if dirExists("./stdlib") {
		return "./stdlib", nil
	}
	return "", fmt.Errorf("could not locate stdlib (checked %s, executable-relative paths, ./stdlib)", config.StdlibEnvVar)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// CheckCollisions reports an error if the same word name is defined more
// than once across the resolved set plus the root program, mirroring
// resolver.rs's module-level check_collisions.
func CheckCollisions(root *ast.Program, resolved []*ast.Program) error {
	seen := map[string]bool{}
	check := func(p *ast.Program) error {
		for _, w := range p.Words {
			if seen[w.Name] {
				return fmt.Errorf("duplicate word definition: %s", w.Name)
			}
			seen[w.Name] = true
		}
		return nil
	}
	if err := check(root); err != nil {
		return err
	}
	for _, p := range resolved {
		if err := check(p); err != nil {
			return err
		}
	}
	return nil
}

// CheckUnionCollisions reports an error if the same union name, or the
// same constructor tag within different unions, is defined more than once.
func CheckUnionCollisions(root *ast.Program, resolved []*ast.Program) error {
	seenUnion := map[string]bool{}
	seenTag := map[string]string{}
	check := func(p *ast.Program) error {
		for _, u := range p.Unions {
			if seenUnion[u.Name] {
				return fmt.Errorf("duplicate union definition: %s", u.Name)
			}
			seenUnion[u.Name] = true
			for _, c := range u.Constructors {
				if owner, ok := seenTag[c.Tag]; ok && owner != u.Name {
					return fmt.Errorf("constructor tag %q defined in both %s and %s", c.Tag, owner, u.Name)
				}
				seenTag[c.Tag] = u.Name
			}
		}
		return nil
	}
	if err := check(root); err != nil {
		return err
	}
	for _, p := range resolved {
		if err := check(p); err != nil {
			return err
		}
	}
	return nil
}
