// Package compilectx bundles the shared infrastructure threaded through
// every compile stage: the source registry and the name interner.
//
// Grounded on natrix-compiler/src/ctx.rs's CompilerContext, which seeds
// the interner with every keyword and builtin name at construction so
// that later lookups (e.g. the analyzer's builtin scope) never need to
// intern on the fly.
package compilectx

import (
	"github.com/informatter/natrix/builtin"
	"github.com/informatter/natrix/interner"
	"github.com/informatter/natrix/source"
	"github.com/informatter/natrix/token"
)

// Context is read by the analyzer and bytecode compiler and is not
// safe for cross-goroutine sharing, matching the single-threaded
// evaluation model described for the rest of the pipeline.
type Context struct {
	Sources  *source.Sources
	Interner *interner.Interner
}

// New creates a Context with a fresh source registry and an interner
// pre-seeded with every language keyword and builtin name.
func New() *Context {
	in := interner.New()
	for keyword := range token.KeyWords {
		in.Intern(keyword)
	}
	for _, id := range builtin.All {
		in.Intern(id.Name())
	}
	return &Context{
		Sources:  source.New(),
		Interner: in,
	}
}
