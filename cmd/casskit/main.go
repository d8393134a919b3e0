// Command casskit is a small operational CLI over the library: schema
// inspection, ad-hoc statements and key/value upserts against a cluster
// described by a yaml config file.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/casskit/casskit"
	"github.com/casskit/casskit/config"
	"github.com/casskit/casskit/executor"
	"github.com/casskit/casskit/statement"
	"github.com/casskit/casskit/types"
	"go.uber.org/zap"
)

type cliContext struct {
	ctx     context.Context
	session *casskit.Session
}

type keyspacesCmd struct{}

func (c *keyspacesCmd) Run(cli *cliContext) error {
	keyspaces, err := cli.session.ListKeyspaces(cli.ctx)
	if err != nil {
		return err
	}
	for _, ks := range keyspaces {
		fmt.Println(ks)
	}
	return nil
}

type tablesCmd struct {
	Keyspace string `arg:"" help:"Keyspace to list tables of."`
}

func (c *tablesCmd) Run(cli *cliContext) error {
	tables, err := cli.session.ListTables(cli.ctx, c.Keyspace)
	if err != nil {
		return err
	}
	for _, table := range tables {
		fmt.Println(table)
	}
	return nil
}

type columnsCmd struct {
	Table string `arg:"" help:"Table to describe, optionally keyspace-qualified."`
	Types bool   `help:"Show the CQL type of each column."`
}

func (c *columnsCmd) Run(cli *cliContext) error {
	if c.Types {
		cols, err := cli.session.ListColumnTypes(cli.ctx, c.Table)
		if err != nil {
			return err
		}
		for _, col := range cols {
			fmt.Printf("%s\t%s\n", col.Name, col.Type)
		}
		return nil
	}
	cols, err := cli.session.ListColumns(cli.ctx, c.Table)
	if err != nil {
		return err
	}
	for _, col := range cols {
		fmt.Println(col)
	}
	return nil
}

type execCmd struct {
	Query       string `arg:"" help:"CQL statement to execute."`
	Consistency string `help:"Consistency level for this statement." default:""`
	PageSize    int    `help:"Rows per page when the statement returns rows." default:"100"`
}

func (c *execCmd) Run(cli *cliContext) error {
	opts := statement.BuildOptions{}
	if c.Consistency != "" {
		consistency, err := types.ParseConsistency(c.Consistency)
		if err != nil {
			return err
		}
		opts.Consistency = &consistency
	}

	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(c.Query)), "select") {
		return cli.session.Exec(cli.ctx, c.Query, opts)
	}

	return cli.session.Select(cli.ctx, c.Query, opts, c.PageSize, func(row *executor.Row) (executor.RowAction, error) {
		pairs := make([]string, 0, row.Len())
		for _, col := range row.Columns() {
			if v, ok := row.Value(col); ok {
				pairs = append(pairs, fmt.Sprintf("%s=%v", col, v))
			}
		}
		sort.Strings(pairs)
		fmt.Println(strings.Join(pairs, " "))
		return executor.Continue, nil
	})
}

type upsertCmd struct {
	Table string   `arg:"" help:"Table to upsert into, optionally keyspace-qualified."`
	Pairs []string `arg:"" help:"Alternating column name and value arguments."`

	MapUnknown  string `help:"map<text,text> column collecting pairs whose key is not a column."`
	NoComplain  bool   `help:"Silently drop pairs whose key is not a column."`
	IfNotExists bool   `help:"Only insert when no row with this key exists."`
	Consistency string `help:"Consistency level for this statement." default:""`
}

func (c *upsertCmd) Run(cli *cliContext) error {
	opts := statement.UpsertOptions{
		MapUnknownTo: types.ColumnName(c.MapUnknown),
		DropUnknown:  c.NoComplain,
		IfNotExists:  c.IfNotExists,
	}
	if c.Consistency != "" {
		consistency, err := types.ParseConsistency(c.Consistency)
		if err != nil {
			return err
		}
		opts.Consistency = &consistency
	}
	pairs := make([]any, len(c.Pairs))
	for i, p := range c.Pairs {
		pairs[i] = p
	}
	return cli.session.Upsert(cli.ctx, c.Table, pairs, opts)
}

var cli struct {
	Config string `help:"YAML configuration file." short:"f" default:"config.yaml" env:"CASSKIT_CONFIG"`

	Keyspaces keyspacesCmd `cmd:"" help:"List keyspaces."`
	Tables    tablesCmd    `cmd:"" help:"List the tables of a keyspace."`
	Columns   columnsCmd   `cmd:"" help:"List the columns of a table."`
	Exec      execCmd      `cmd:"" help:"Execute a CQL statement."`
	Upsert    upsertCmd    `cmd:"" help:"Upsert key/value pairs into a table."`
}

func main() {
	parsed := kong.Parse(&cli,
		kong.Name("casskit"),
		kong.Description("Schema-driven CQL statement tool."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(cli.Config)
	parsed.FatalIfErrorf(err)

	logger, err := config.NewLogger(cfg.Logger)
	parsed.FatalIfErrorf(err)
	defer logger.Sync()

	session, err := casskit.Connect(cfg, logger)
	parsed.FatalIfErrorf(err)
	defer session.Close()

	err = parsed.Run(&cliContext{ctx: context.Background(), session: session})
	if err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
