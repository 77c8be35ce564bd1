// Package generator turns schema tables into model files. ModelBuilder
// renders one table; ModelsBuilder resolves and renders a whole run.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/lmodel/internal/builder"
	"github.com/leapstack-labs/lmodel/internal/config"
	"github.com/leapstack-labs/lmodel/internal/database"
	"github.com/leapstack-labs/lmodel/internal/naming"
	"github.com/leapstack-labs/lmodel/internal/parser"
)

// fileHeader opens every model file.
var fileHeader = []string{"<?php", ""}

// ModelBuilder renders the model of one table. It must be bound to a table
// with SetTable before Build is called.
type ModelBuilder struct {
	cfg      *config.Config
	db       database.Database
	pipeline *builder.Pipeline
	logger   *slog.Logger

	bound    *builder.Context
	filename string
}

// NewModelBuilder creates an unbound model builder.
// If logger is nil, a discard logger is used.
func NewModelBuilder(cfg *config.Config, db database.Database, pipeline *builder.Pipeline, logger *slog.Logger) *ModelBuilder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ModelBuilder{cfg: cfg, db: db, pipeline: pipeline, logger: logger}
}

// SetTable binds the builder to table on connection, optionally routed to
// pkg. The existing model file, if any, is parsed so its imports, traits and
// preserved region survive regeneration.
func (m *ModelBuilder) SetTable(ctx context.Context, connection, table string, pkg *config.PackageDefinition) error {
	m.bound = nil

	filename := ModelFilename(m.cfg, connection, table, pkg)

	exists, err := m.db.HasTable(ctx, table)
	if err != nil {
		return fmt.Errorf("failed to look up table %s: %w", table, err)
	}
	if !exists {
		return &BuilderError{Message: "Table [" + table + "] not found."}
	}

	file, err := parser.Parse(filename)
	if err != nil {
		return err
	}
	if file.Exists() {
		m.logger.Debug("parsed existing model",
			slog.String("file", filename),
			slog.Int("preserved_lines", len(file.Preserved)))
	}

	m.filename = filename
	m.bound = &builder.Context{
		Config:     m.cfg,
		Connection: connection,
		Table:      table,
		Database:   m.db,
		File:       file,
		Package:    pkg,
	}
	return nil
}

// Build renders the bound table.
func (m *ModelBuilder) Build(ctx context.Context) (string, error) {
	if m.bound == nil {
		return "", &BuilderError{Message: "No table set."}
	}

	lines, err := m.pipeline.Run(ctx, m.bound)
	if err != nil {
		return "", fmt.Errorf("failed to build model for table %s: %w", m.bound.Table, err)
	}

	out := make([]string, 0, len(fileHeader)+len(lines))
	out = append(out, fileHeader...)
	out = append(out, lines...)
	return strings.Join(out, "\n"), nil
}

// Filename is the model file of the bound table.
func (m *ModelBuilder) Filename() string {
	return m.filename
}

// ClassName is the fully qualified class name of the bound table's model.
func (m *ModelBuilder) ClassName() string {
	if m.bound == nil {
		return ""
	}
	return naming.JoinNamespace(m.bound.Namespace(), m.bound.ClassName())
}

// ModelFilename computes where the model of table is written.
func ModelFilename(cfg *config.Config, connection, table string, pkg *config.PackageDefinition) string {
	if pkg != nil {
		return pkg.Filename(table)
	}
	return filepath.Join(cfg.ModelDirectory(connection), naming.Studly(table)+".php")
}
