package builder

import (
	"context"
	"slices"

	"github.com/leapstack-labs/lmodel/internal/naming"
	"github.com/leapstack-labs/lmodel/internal/parser"
)

// DeclareStrictBuilder emits the strict types pragma when enabled.
type DeclareStrictBuilder struct{}

func (DeclareStrictBuilder) Build(_ context.Context, c *Context) ([]string, error) {
	if !c.Config.DeclareStrict() {
		return nil, nil
	}
	return []string{"declare(strict_types=1);", ""}, nil
}

// NamespaceBuilder emits the namespace declaration.
type NamespaceBuilder struct{}

func (NamespaceBuilder) Build(_ context.Context, c *Context) ([]string, error) {
	return []string{"namespace " + c.Namespace() + ";", ""}, nil
}

// UsesBuilder emits the imports of the previous file plus the base class.
type UsesBuilder struct{}

func (UsesBuilder) Build(_ context.Context, c *Context) ([]string, error) {
	uses := slices.Clone(c.parsed().Uses)
	if extends := c.Config.Extends(); !slices.Contains(uses, extends) {
		uses = append(uses, extends)
		slices.Sort(uses)
	}

	lines := make([]string, 0, len(uses)+1)
	for _, use := range uses {
		lines = append(lines, "use "+use+";")
	}
	if len(lines) > 0 {
		lines = append(lines, "")
	}
	return lines, nil
}

// ClassExtendsBuilder emits the class declaration.
type ClassExtendsBuilder struct{}

func (ClassExtendsBuilder) Build(_ context.Context, c *Context) ([]string, error) {
	return []string{"class " + c.ClassName() + " extends " + naming.ShortName(c.Config.Extends())}, nil
}

// StatementGroupStartBuilder opens the class body.
type StatementGroupStartBuilder struct{}

func (StatementGroupStartBuilder) Build(context.Context, *Context) ([]string, error) {
	return []string{"{"}, nil
}

// TraitBuilder re-emits the traits used by the previous file, sorted.
type TraitBuilder struct{}

func (TraitBuilder) Build(_ context.Context, c *Context) ([]string, error) {
	traits := c.parsed().Traits
	if len(traits) == 0 {
		return nil, nil
	}

	lines := make([]string, 0, len(traits)+1)
	for _, trait := range traits {
		lines = append(lines, c.Indent(1)+"use "+naming.ShortName(trait)+";")
	}
	slices.Sort(lines)
	lines = slices.Compact(lines)
	return append(lines, ""), nil
}

// PreservedLinesBuilder emits the marker and the hand-written region.
type PreservedLinesBuilder struct{}

func (PreservedLinesBuilder) Build(_ context.Context, c *Context) ([]string, error) {
	preserved := c.parsed().Preserved
	lines := make([]string, 0, len(preserved)+1)
	lines = append(lines, c.Indent(1)+parser.PreservedMarker)
	return append(lines, preserved...), nil
}

// StatementGroupEndBuilder closes the class body.
type StatementGroupEndBuilder struct{}

func (StatementGroupEndBuilder) Build(context.Context, *Context) ([]string, error) {
	return []string{"}"}, nil
}
