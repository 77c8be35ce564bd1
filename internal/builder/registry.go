package builder

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/lmodel/internal/config"
)

// Factory creates a builder.
type Factory func() Builder

// Noop is the name of the builder that emits nothing. Overriding a kind
// with it removes the section from generated models.
const Noop = "noop"

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

func init() {
	builtins := map[Kind]Builder{
		KindDeclareStrict:       DeclareStrictBuilder{},
		KindNamespace:           NamespaceBuilder{},
		KindUses:                UsesBuilder{},
		KindPhpDoc:              PhpDocBuilder{},
		KindClassExtends:        ClassExtendsBuilder{},
		KindStatementGroupStart: StatementGroupStartBuilder{},
		KindTrait:               TraitBuilder{},
		KindConstants:           ConstantsBuilder{},
		KindTimestamps:          TimestampsBuilder{},
		KindDatabaseInformation: DatabaseInformationBuilder{},
		KindPreservedLines:      PreservedLinesBuilder{},
		KindStatementGroupEnd:   StatementGroupEndBuilder{},
	}
	for kind, b := range builtins {
		Register(string(kind), func() Builder { return b })
	}
	Register(Noop, func() Builder { return NoopBuilder{} })
}

// Register adds a named builder factory. Built-in builders are registered
// under their kind. Registering an existing name replaces it.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves a builder factory by name.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// Names returns all registered builder names (sorted).
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NoopBuilder emits nothing.
type NoopBuilder struct{}

func (NoopBuilder) Build(context.Context, *Context) ([]string, error) {
	return nil, nil
}

// Stage is one resolved step of a Pipeline.
type Stage struct {
	Kind    Kind
	Name    string
	Builder Builder
}

// Pipeline runs one builder per kind in output order.
type Pipeline struct {
	stages []Stage
	logger *slog.Logger
}

// NewPipeline resolves a builder for every kind. overrides maps a kind to
// the registered name replacing its built-in builder.
func NewPipeline(overrides map[string]string, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	known := make(map[string]bool, len(Kinds))
	for _, kind := range Kinds {
		known[string(kind)] = true
	}
	for kind := range overrides {
		if !known[kind] {
			return nil, &config.ConfigError{
				Key:     config.KeyBuilders + "." + kind,
				Message: fmt.Sprintf("unknown builder kind. Available kinds: %s.", kindList()),
			}
		}
	}

	stages := make([]Stage, 0, len(Kinds))
	for _, kind := range Kinds {
		name := string(kind)
		if override, ok := overrides[name]; ok && override != "" {
			name = override
		}
		factory, ok := Get(name)
		if !ok {
			return nil, &config.ConfigError{
				Key:     config.KeyBuilders + "." + string(kind),
				Message: fmt.Sprintf("builder %q is not registered. Available builders: %s.", name, strings.Join(Names(), ", ")),
			}
		}
		if name != string(kind) {
			logger.Debug("builder overridden", slog.String("kind", string(kind)), slog.String("builder", name))
		}
		stages = append(stages, Stage{Kind: kind, Name: name, Builder: factory()})
	}

	return &Pipeline{stages: stages, logger: logger}, nil
}

// Stages returns the resolved stages in output order.
func (p *Pipeline) Stages() []Stage {
	return p.stages
}

// Run executes every stage and concatenates the output. The first error
// aborts the run.
func (p *Pipeline) Run(ctx context.Context, c *Context) ([]string, error) {
	var lines []string
	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := s.Builder.Build(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("%s builder: %w", s.Kind, err)
		}
		lines = append(lines, out...)
	}
	return lines, nil
}

func kindList() string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
