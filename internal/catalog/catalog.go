// Package catalog holds named spectral sequence examples declared in CUE.
//
// Built-in examples are embedded from builtin.cue. Extra examples can be
// loaded from a directory of .cue files sharing one package; every entry
// under the top-level "example" struct is checked against #Example in
// schema.cue.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/serress/internal/engine"
	"github.com/roach88/serress/internal/label"
)

//go:embed schema.cue
var schemaSource string

//go:embed builtin.cue
var builtinSource string

// Bounds mirrors engine.BoundaryPolicy in catalog entries.
type Bounds struct {
	Right bool
	Upper bool
}

// Example is one compiled catalog entry.
type Example struct {
	Key         string
	Name        string
	Description string
	Width       int
	Height      int
	Fiber       []label.Label
	Base        []label.Label
	Total       []label.Label
	Bounds      Bounds
	Pos         token.Pos
}

// Build creates a Sequence for the example and applies its seeds in order:
// fiber, base, total. Caller options are applied after the example's own.
//
// On a Conflict the partially propagated Sequence is returned together with
// the error so it can still be rendered.
func (e Example) Build(opts ...engine.Option) (*engine.Sequence, error) {
	all := append([]engine.Option{
		engine.WithName(e.Name),
		engine.WithBoundaryPolicy(engine.BoundaryPolicy{
			RightBounded: e.Bounds.Right,
			UpperBounded: e.Bounds.Upper,
		}),
	}, opts...)

	s, err := engine.NewSequence(e.Width, e.Height, all...)
	if err != nil {
		return nil, err
	}
	if err := s.SetFiber(e.Fiber); err != nil {
		return s, err
	}
	if err := s.SetBase(e.Base); err != nil {
		return s, err
	}
	if err := s.SetTotal(e.Total); err != nil {
		return s, err
	}
	return s, nil
}

// Catalog is an ordered set of examples addressable by key or name.
type Catalog struct {
	examples []Example
	index    map[string]int
}

func newCatalog() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// add inserts ex, replacing an existing entry with the same key in place.
func (c *Catalog) add(ex Example) {
	key := normalize(ex.Key)
	i, ok := c.index[key]
	if ok {
		if old := normalize(c.examples[i].Name); c.index[old] == i {
			delete(c.index, old)
		}
		c.examples[i] = ex
	} else {
		c.examples = append(c.examples, ex)
		i = len(c.examples) - 1
	}
	c.index[key] = i
	c.reindexNames()
}

func (c *Catalog) reindexNames() {
	for i, ex := range c.examples {
		if _, taken := c.index[normalize(ex.Name)]; !taken {
			c.index[normalize(ex.Name)] = i
		}
	}
}

// Examples returns every entry in declaration order.
func (c *Catalog) Examples() []Example {
	out := make([]Example, len(c.examples))
	copy(out, c.examples)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.examples) }

// Lookup finds an example by key or display name. Matching ignores case and
// Unicode normalization form, so "HOPF" and "s^1 → s^3 → s^2" both find hopf.
func (c *Catalog) Lookup(name string) (Example, error) {
	if i, ok := c.index[normalize(name)]; ok {
		return c.examples[i], nil
	}
	return Example{}, &UnknownExampleError{Name: name}
}

// Merge returns a new catalog holding c's entries followed by other's.
// Entries of other replace entries of c with the same key.
func (c *Catalog) Merge(other *Catalog) *Catalog {
	out := newCatalog()
	for _, ex := range c.examples {
		out.add(ex)
	}
	for _, ex := range other.examples {
		out.add(ex)
	}
	return out
}

func normalize(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// Builtin compiles the embedded examples.
func Builtin() (*Catalog, error) {
	return Compile("builtin.cue", builtinSource)
}

// Compile compiles CUE source holding an "example" struct.
func Compile(filename, src string) (*Catalog, error) {
	ctx := cuecontext.New()
	return fromValue(ctx, ctx.CompileString(src, cue.Filename(filename)))
}

// LoadDir loads every .cue file in dir as one CUE package and compiles its
// examples.
func LoadDir(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &LoadError{Dir: dir, Message: "cannot access examples directory", Err: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{Dir: dir, Message: "not a directory"}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Dir: dir, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Dir: dir, Message: "loading CUE files", Err: inst.Err}
	}
	return fromValue(ctx, ctx.BuildInstance(inst))
}

func fromValue(ctx *cue.Context, v cue.Value) (*Catalog, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	v = schema.Unify(v)
	if err := v.Validate(); err != nil {
		return nil, formatCUEError(err)
	}

	examplesVal := v.LookupPath(cue.ParsePath("example"))
	if !examplesVal.Exists() {
		return nil, &CompileError{Field: "example", Message: "no examples defined", Pos: v.Pos()}
	}
	iter, err := examplesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	c := newCatalog()
	for iter.Next() {
		ex, err := compileExample(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		c.add(ex)
	}
	if c.Len() == 0 {
		return nil, &CompileError{Field: "example", Message: "no examples defined", Pos: examplesVal.Pos()}
	}
	return c, nil
}

func compileExample(key string, v cue.Value) (Example, error) {
	ex := Example{Key: key, Pos: v.Pos()}

	var err error
	if ex.Name, err = requiredString(v, "name"); err != nil {
		return Example{}, err
	}
	if d := v.LookupPath(cue.ParsePath("description")); d.Exists() {
		if ex.Description, err = d.String(); err != nil {
			return Example{}, formatCUEError(err)
		}
	}
	if ex.Width, err = requiredInt(v, "width"); err != nil {
		return Example{}, err
	}
	if ex.Height, err = requiredInt(v, "height"); err != nil {
		return Example{}, err
	}

	for _, field := range []struct {
		name string
		dst  *[]label.Label
	}{
		{"fiber", &ex.Fiber},
		{"base", &ex.Base},
		{"total", &ex.Total},
	} {
		if *field.dst, err = labels(v, field.name); err != nil {
			return Example{}, err
		}
	}

	if ex.Bounds.Right, err = boolDefault(v, "bounds.right"); err != nil {
		return Example{}, err
	}
	if ex.Bounds.Upper, err = boolDefault(v, "bounds.upper"); err != nil {
		return Example{}, err
	}
	return ex, nil
}

func requiredString(v cue.Value, field string) (string, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() || !f.IsConcrete() {
		return "", &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	s, err := f.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func requiredInt(v cue.Value, field string) (int, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() || !f.IsConcrete() {
		return 0, &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	n, err := f.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return int(n), nil
}

func boolDefault(v cue.Value, path string) (bool, error) {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return true, nil
	}
	f, _ = f.Default()
	b, err := f.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}

// labels reads an optional list of labels. Integers are ranks; strings go
// through label.Parse.
func labels(v cue.Value, field string) ([]label.Label, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return nil, nil
	}
	iter, err := f.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var out []label.Label
	for iter.Next() {
		elem := iter.Value()
		if n, err := elem.Int64(); err == nil {
			if n < 0 || n > label.MaxRank {
				return nil, &CompileError{Field: field, Message: fmt.Sprintf("rank %d outside 0..%d", n, label.MaxRank), Pos: elem.Pos()}
			}
			out = append(out, label.Value(int(n)))
			continue
		}
		s, err := elem.String()
		if err != nil {
			return nil, &CompileError{Field: field, Message: "label must be a string or an integer rank", Pos: elem.Pos()}
		}
		l, err := label.Parse(s)
		if err != nil {
			return nil, &CompileError{Field: field, Message: err.Error(), Pos: elem.Pos()}
		}
		out = append(out, l)
	}
	return out, nil
}
