package generator

import (
	"context"
	"os"

	"github.com/leapstack-labs/lmodel/internal/naming"
)

// Table routing states reported by Inspect.
const (
	StatusModel      = "model"
	StatusPackage    = "package"
	StatusIgnored    = "ignored"
	StatusMigrations = "migrations"
)

// TableInfo describes how a run would treat one table.
type TableInfo struct {
	Table     string `json:"table"`
	Status    string `json:"status"`
	Package   string `json:"package,omitempty"`
	ClassName string `json:"class,omitempty"`
	Filename  string `json:"file,omitempty"`
	// Exists reports whether the model file is already on disk.
	Exists bool `json:"exists"`
}

// Inspect lists every table of a connection with the routing a run would
// apply to it, without building or writing anything.
func (m *ModelsBuilder) Inspect(ctx context.Context, connectionArg string) (string, []TableInfo, error) {
	connection, err := m.ResolveConnection(connectionArg)
	if err != nil {
		return "", nil, err
	}

	db, err := m.open(ctx, connection)
	if err != nil {
		return "", nil, err
	}
	defer func() { _ = db.Close() }()

	tables, err := db.Tables(ctx)
	if err != nil {
		return "", nil, err
	}
	packages, err := m.cfg.PackageDefinitions()
	if err != nil {
		return "", nil, err
	}

	infos := make([]TableInfo, 0, len(tables))
	for _, table := range tables {
		info := TableInfo{Table: table, Status: StatusModel}
		switch pkg := packages.Match(table); {
		case m.cfg.IsIgnored(connection, table):
			info.Status = StatusIgnored
		case table == m.cfg.MigrationsTable():
			info.Status = StatusMigrations
		default:
			namespace := m.cfg.ModelNamespace(connection)
			if pkg != nil {
				info.Status = StatusPackage
				info.Package = pkg.ID
				namespace = pkg.Namespace()
			}
			info.ClassName = naming.JoinNamespace(namespace, naming.Studly(table))
			info.Filename = ModelFilename(m.cfg, connection, table, pkg)
			info.Exists = fileExists(info.Filename)
		}
		infos = append(infos, info)
	}
	return connection, infos, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
