package generator

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/leapstack-labs/lmodel/internal/builder"
	"github.com/leapstack-labs/lmodel/internal/config"
	"github.com/leapstack-labs/lmodel/internal/database"
	"github.com/leapstack-labs/lmodel/pkg/core"
)

// Sentinels accepted for the connection and tables arguments.
const (
	DefaultConnection = "default"
	AllTables         = "all"
	Current           = "."
)

// Arguments are the positional inputs of a run.
type Arguments struct {
	// Connection is a configured connection name, "default" or ".".
	Connection string
	// Tables is a comma separated list, "all" or ".".
	Tables string
}

// Options control whether models are written or previewed.
type Options struct {
	// Destination prints where each model would be written.
	Destination bool
	// Console prints the content of each model.
	Console bool
}

// Preview reports whether the run leaves the filesystem untouched.
func (o Options) Preview() bool {
	return o.Destination || o.Console
}

// Reporter receives the user-facing progress of a run.
type Reporter interface {
	Title(text string)
	Warn(text string)
	Destination(className, filename string)
	Content(className, content string)
	Generated(className, filename string)
	Summary(count int)
}

// OpenFunc opens the schema of a connection.
type OpenFunc func(ctx context.Context, cfg core.AdapterConfig, logger *slog.Logger) (database.Database, error)

// ModelsBuilder generates the models of one connection.
type ModelsBuilder struct {
	cfg      *config.Config
	reporter Reporter
	logger   *slog.Logger

	// Open connects to a schema. Defaults to the adapter registry.
	Open OpenFunc
	// Writer persists models. Defaults to FileWriter.
	Writer Writer
}

// NewModelsBuilder creates a ModelsBuilder for cfg.
// If logger is nil, a discard logger is used.
func NewModelsBuilder(cfg *config.Config, reporter Reporter, logger *slog.Logger) *ModelsBuilder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ModelsBuilder{
		cfg:      cfg,
		reporter: reporter,
		logger:   logger,
		Open:     openDatabase,
		Writer:   FileWriter{},
	}
}

func openDatabase(ctx context.Context, cfg core.AdapterConfig, logger *slog.Logger) (database.Database, error) {
	return database.Open(ctx, cfg, logger)
}

// Execute resolves the connection and tables of args and generates a model
// per table, stopping at the first failure. It returns the number of models
// generated or previewed.
func (m *ModelsBuilder) Execute(ctx context.Context, args Arguments, opts Options) (int, error) {
	if !opts.Preview() {
		m.reporter.Title("Create/update model(s) from existing schema")
	}

	connection, err := m.ResolveConnection(args.Connection)
	if err != nil {
		return 0, err
	}

	db, err := m.open(ctx, connection)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()

	tables, err := m.resolveTables(ctx, db, connection, args.Tables, true)
	if err != nil {
		return 0, err
	}

	if err := m.cfg.Validate(); err != nil {
		return 0, err
	}

	RegisterTypeMappings(m.cfg, db)
	pipeline, err := builder.NewPipeline(m.cfg.BuilderOverrides(), m.logger)
	if err != nil {
		return 0, err
	}

	packages, err := m.cfg.PackageDefinitions()
	if err != nil {
		return 0, err
	}

	count := 0
	mb := NewModelBuilder(m.cfg, db, pipeline, m.logger)
	for _, table := range tables {
		if err := m.generate(ctx, mb, connection, table, packages.Match(table), opts); err != nil {
			return count, err
		}
		count++
		m.logger.Debug("model count", slog.Int("generated", count), slog.Int("total", len(tables)))
	}

	if !opts.Preview() {
		m.reporter.Summary(count)
	}
	return count, nil
}

func (m *ModelsBuilder) generate(ctx context.Context, mb *ModelBuilder, connection, table string, pkg *config.PackageDefinition, opts Options) error {
	if err := mb.SetTable(ctx, connection, table, pkg); err != nil {
		return err
	}
	content, err := mb.Build(ctx)
	if err != nil {
		return err
	}

	filename, className := mb.Filename(), mb.ClassName()
	if opts.Preview() {
		if opts.Destination {
			m.reporter.Destination(className, filename)
		}
		if opts.Console {
			m.reporter.Content(className, content)
		}
		return nil
	}

	if err := m.Writer.Write(filename, content); err != nil {
		return err
	}
	m.logger.Info("model generated", slog.String("class", className), slog.String("file", filename))
	m.reporter.Generated(className, filename)
	return nil
}

// ResolveConnection maps the connection argument to a configured
// connection name.
func (m *ModelsBuilder) ResolveConnection(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == DefaultConnection || name == Current {
		name = m.cfg.DefaultConnection()
	}
	if !slices.Contains(m.cfg.Connections(), name) {
		return "", config.NewConfigError("Connection %s not found. Available connections: %s.",
			name, strings.Join(m.cfg.Connections(), ", "))
	}
	return name, nil
}

func (m *ModelsBuilder) open(ctx context.Context, connection string) (database.Database, error) {
	adapterCfg, err := m.cfg.Connection(connection)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("opening connection", slog.String("connection", connection), slog.String("driver", adapterCfg.Type))
	return m.Open(ctx, adapterCfg, m.logger)
}

// resolveTables expands the tables argument and drops ignored tables and
// the migrations table. Ignored tables are reported when report is set.
func (m *ModelsBuilder) resolveTables(ctx context.Context, db database.Database, connection, arg string, report bool) ([]string, error) {
	existing, err := db.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables of %s: %w", connection, err)
	}

	var requested []string
	switch arg = strings.TrimSpace(arg); arg {
	case AllTables, Current:
		requested = existing
	default:
		for _, t := range strings.Split(arg, ",") {
			if t = strings.TrimSpace(t); t != "" {
				requested = append(requested, t)
			}
		}
	}

	migrations := m.cfg.MigrationsTable()
	tables := make([]string, 0, len(requested))
	for _, table := range requested {
		if !slices.Contains(existing, table) {
			return nil, config.NewConfigError("Table %s not found.", table)
		}
		if m.cfg.IsIgnored(connection, table) {
			if report {
				m.logger.Warn("table ignored", slog.String("connection", connection), slog.String("table", table))
				m.reporter.Warn("Table " + table + " ignored.")
			}
			continue
		}
		if table == migrations || slices.Contains(tables, table) {
			continue
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// RegisterTypeMappings registers the built-in and configured storage type
// mappings on db. Configured mappings win.
func RegisterTypeMappings(cfg *config.Config, db database.Database) {
	mappings := make(map[string]string, len(config.DefaultTypeMappings))
	for k, v := range config.DefaultTypeMappings {
		mappings[k] = v
	}
	for k, v := range cfg.TypeMappings() {
		mappings[k] = v
	}

	keys := make([]string, 0, len(mappings))
	for k := range mappings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		db.RegisterTypeMapping(k, mappings[k])
	}
}
