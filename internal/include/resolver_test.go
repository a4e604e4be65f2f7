package include

import (
	"errors"
	"os"
	"testing"

	"github.com/funvibe/seqc/internal/ast"
)

func memReader(files map[string]string) SourceReader {
	return func(path string) (string, error) {
		if src, ok := files[path]; ok {
			return src, nil
		}
		return "", errors.New("not found: " + path)
	}
}

func TestResolveRelativeInclude(t *testing.T) {
	files := map[string]string{
		"/proj/lib.seq": ": helper ( -- ) ;",
	}
	r := New(memReader(files))
	prog := &ast.Program{Includes: []ast.Include{ast.RelativeInclude{Path: "lib.seq"}}}
	res, err := r.Resolve(prog, "/proj")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(res.Contents) != 1 || res.Contents[0].Source != files["/proj/lib.seq"] {
		t.Fatalf("unexpected result: %+v", res.Contents)
	}
}

func TestResolveRelativeIncludeCrossDirectory(t *testing.T) {
	files := map[string]string{
		"/proj/shared/lib.seq": ": helper ( -- ) ;",
	}
	r := New(memReader(files))
	prog := &ast.Program{Includes: []ast.Include{ast.RelativeInclude{Path: "../shared/lib.seq"}}}
	res, err := r.Resolve(prog, "/proj/src")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(res.Contents) != 1 {
		t.Fatalf("expected one resolved include")
	}
}

func TestEmptyRelativePathRejected(t *testing.T) {
	r := New(memReader(nil))
	prog := &ast.Program{Includes: []ast.Include{ast.RelativeInclude{Path: ""}}}
	_, err := r.Resolve(prog, "/proj")
	if err == nil {
		t.Fatalf("expected error for empty include path")
	}
}

func TestAbsoluteRelativePathRejected(t *testing.T) {
	r := New(memReader(map[string]string{"/etc/passwd": "nope"}))
	prog := &ast.Program{Includes: []ast.Include{ast.RelativeInclude{Path: "/etc/passwd"}}}
	_, err := r.Resolve(prog, "/proj")
	if err == nil {
		t.Fatalf("expected error for absolute include path")
	}
}

func TestFfiIncludeResolvesWithoutReadingSource(t *testing.T) {
	r := New(memReader(nil))
	prog := &ast.Program{Includes: []ast.Include{ast.FfiInclude{Name: "libc"}}}
	res, err := r.Resolve(prog, "/proj")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(res.Contents) != 1 || res.Contents[0].Source != "" {
		t.Fatalf("expected ffi include with no loaded source")
	}
}

func TestStdlibCacheServesSecondLookupWithoutReread(t *testing.T) {
	cache, err := OpenStdlibCache("")
	if err != nil {
		t.Fatalf("opening in-memory stdlib cache: %v", err)
	}
	defer cache.Close()

	dir := t.TempDir()
	full := dir + "/list.seq"
	if err := os.WriteFile(full, []byte(": length ( -- ) ;"), 0o644); err != nil {
		t.Fatalf("writing fixture stdlib module: %v", err)
	}

	reads := 0
	reader := func(path string) (string, error) {
		reads++
		data, err := os.ReadFile(path)
		return string(data), err
	}

	r := New(reader)
	r.ExePath = "/nonexistent/bin/seqc"
	t.Setenv("SEQ_STDLIB", dir)
	r.WithStdlibCache(cache)

	prog := &ast.Program{Includes: []ast.Include{ast.StdInclude{Name: "list"}}}
	if _, err := r.Resolve(prog, "/proj"); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if reads != 1 {
		t.Fatalf("expected exactly one disk read on a cold cache, got %d", reads)
	}

	// A fresh resolver (simulating a second process run) should now hit the
	// cache instead of reading the file again.
	r2 := New(reader)
	r2.ExePath = "/nonexistent/bin/seqc"
	r2.WithStdlibCache(cache)
	if _, err := r2.Resolve(prog, "/proj"); err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if reads != 1 {
		t.Fatalf("expected the cache to serve the second resolve without a disk read, got %d reads", reads)
	}
}

func TestStdIncludeMissingStdlibErrors(t *testing.T) {
	r := New(memReader(nil))
	r.ExePath = "/nonexistent/bin/seqc"
	t.Setenv("SEQ_STDLIB", "")
	prog := &ast.Program{Includes: []ast.Include{ast.StdInclude{Name: "list"}}}
	_, err := r.Resolve(prog, "/proj")
	if err == nil {
		t.Fatalf("expected error when no stdlib can be located")
	}
}

func TestCheckCollisionsDetectsDuplicateWord(t *testing.T) {
	root := &ast.Program{Words: []ast.WordDef{{Name: "double"}}}
	other := &ast.Program{Words: []ast.WordDef{{Name: "double"}}}
	if err := CheckCollisions(root, []*ast.Program{other}); err == nil {
		t.Fatalf("expected collision error")
	}
}

func TestCheckCollisionsAllowsDistinctNames(t *testing.T) {
	root := &ast.Program{Words: []ast.WordDef{{Name: "double"}}}
	other := &ast.Program{Words: []ast.WordDef{{Name: "triple"}}}
	if err := CheckCollisions(root, []*ast.Program{other}); err != nil {
		t.Fatalf("unexpected collision error: %v", err)
	}
}

func TestCheckUnionCollisionsDetectsDuplicateTagAcrossUnions(t *testing.T) {
	root := &ast.Program{Unions: []ast.UnionDef{
		{Name: "Option", Constructors: []ast.ConstructorDef{{Tag: "Some", Arity: 1}, {Tag: "None", Arity: 0}}},
	}}
	other := &ast.Program{Unions: []ast.UnionDef{
		{Name: "Result", Constructors: []ast.ConstructorDef{{Tag: "Some", Arity: 1}}},
	}}
	if err := CheckUnionCollisions(root, []*ast.Program{other}); err == nil {
		t.Fatalf("expected tag collision error")
	}
}
