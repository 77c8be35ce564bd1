package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/leapstack-labs/lmodel/internal/cli/output"
	intconfig "github.com/leapstack-labs/lmodel/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Force     bool
	Driver    string
	Path      string
	Namespace string
}

// defaultPorts are the conventional server ports of network drivers.
var defaultPorts = map[string]int{
	"mysql":    3306,
	"postgres": 5432,
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a starter lmodel.yaml",
		Long: `Create a commented lmodel.yaml with every setting at its default and one
connection for the chosen driver.

Connection credentials reference environment variables as ${VAR} so the file
can be committed.`,
		Example: `  # Initialize in current directory
  lmodel init

  # Initialize for PostgreSQL with a custom namespace
  lmodel init --driver postgres --namespace 'Domain\Models'

  # Force overwrite existing config
  lmodel init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite existing configuration")
	cmd.Flags().StringVar(&opts.Driver, "driver", "mysql", "Database driver of the starter connection (mysql|postgres|sqlite|duckdb)")
	cmd.Flags().StringVar(&opts.Path, "path", "app/Models", "Directory models are written to")
	cmd.Flags().StringVar(&opts.Namespace, "namespace", `App\Models`, "Namespace of generated models")

	_ = cmd.RegisterFlagCompletionFunc("driver", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"mysql", "postgres", "sqlite", "duckdb"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runInit(cmd *cobra.Command, dir string, opts *InitOptions) error {
	r, err := newRenderer(cmd)
	if err != nil {
		return err
	}

	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, intconfig.DefaultConfigFile)
	if _, err := os.Stat(configPath); err == nil && !opts.Force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", intconfig.DefaultConfigFile)
	}

	content, err := starterConfig(opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.StatusLine(configPath, output.StatusSuccess, "")
	r.Println("")
	r.Success("lmodel configuration created!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Fill in the connection settings")
	r.Println("  2. Run 'lmodel tables' to preview the routing of each table")
	r.Println("  3. Run 'lmodel make default all' to generate the models")

	return nil
}

// starterConfig renders the starter configuration as commented YAML.
func starterConfig(opts *InitOptions) ([]byte, error) {
	conn, err := starterConnection(opts.Driver)
	if err != nil {
		return nil, err
	}

	doc := mapping(
		entry(intconfig.KeyDeclareStrict, scalar("true", "!!bool"), "Start every model with declare(strict_types=1)."),
		entry(intconfig.KeyPath, scalar(opts.Path, ""), "Directory models are written to, relative to this file."),
		entry(intconfig.KeyNamespace, scalar(opts.Namespace, ""), "Namespace of generated models."),
		entry(intconfig.KeyAddConnectionToNamespace, scalar("true", "!!bool"), "Append the studly connection name to the namespace and path."),
		entry(intconfig.KeyAddDatabaseConnection, scalar("true", "!!bool"), ""),
		entry(intconfig.KeyAddDatabaseTable, scalar("true", "!!bool"), ""),
		entry(intconfig.KeyExtends, scalar(intconfig.DefaultExtends, ""), "Base class of every model."),
		entry(intconfig.KeyIndent, scalar("null", "!!null"), "Indentation unit. null means four spaces."),
		entry(intconfig.KeyMaxLineLength, scalar(strconv.Itoa(intconfig.DefaultMaxLineLength), "!!int"), "Attribute arrays longer than this are written one element per line."),
		entry(intconfig.KeyMigrationsTable, scalar(intconfig.DefaultMigrationsTable, ""), "Never generated."),
		entry(intconfig.KeyDefaultConnection, scalar("main", ""), `Connection selected by "default" and ".".`),
		entry(intconfig.KeyConnections, mapping(entry("main", conn, "")), ""),
		entry(intconfig.KeyIgnored, mapping(entry("main", sequence(), "")), "Tables that are never generated, per connection."),
		entry(intconfig.KeyPhpDoc, mapping(), "Extra storage type to @property type mappings."),
		entry(intconfig.KeyDoctrine, mapping(), "Extra storage type mappings applied when columns are read."),
		entry(intconfig.KeyTables, mapping(), "Per table settings: created_at, updated_at, date_format, fillable,\nguarded, readonly, hidden, casts, accessors and constants."),
	)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{
		Kind:        yaml.DocumentNode,
		HeadComment: "lmodel configuration",
		Content:     []*yaml.Node{doc},
	}); err != nil {
		return nil, fmt.Errorf("failed to render configuration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to render configuration: %w", err)
	}
	return buf.Bytes(), nil
}

func starterConnection(driver string) (*yaml.Node, error) {
	switch driver {
	case "sqlite", "duckdb":
		return mapping(
			entry("driver", scalar(driver, ""), ""),
			entry("path", scalar("database/database."+driver, ""), ""),
		), nil
	case "mysql", "postgres":
		fields := []pair{
			entry("driver", scalar(driver, ""), ""),
			entry("host", scalar("${DB_HOST}", ""), ""),
			entry("port", scalar(strconv.Itoa(defaultPorts[driver]), "!!int"), ""),
			entry("database", scalar("${DB_DATABASE}", ""), ""),
			entry("username", scalar("${DB_USERNAME}", ""), ""),
			entry("password", scalar("${DB_PASSWORD}", ""), ""),
		}
		if driver == "postgres" {
			fields = append(fields, entry("schema", scalar("public", ""), ""))
		}
		return mapping(fields...), nil
	default:
		return nil, fmt.Errorf("unknown driver %q (expected mysql, postgres, sqlite or duckdb)", driver)
	}
}

// pair is a key/value entry of a mapping node. The key carries the comment.
type pair struct {
	key, value *yaml.Node
}

func entry(key string, value *yaml.Node, comment string) pair {
	k := scalar(key, "")
	k.HeadComment = comment
	return pair{key: k, value: value}
}

func mapping(pairs ...pair) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, p := range pairs {
		m.Content = append(m.Content, p.key, p.value)
	}
	if len(pairs) == 0 {
		m.Style = yaml.FlowStyle
	}
	return m
}

func sequence() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
}

func scalar(value, tag string) *yaml.Node {
	if tag == "" {
		tag = "!!str"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
