package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		{
			Name:        "I",
			Aliases:     []string{"ifmt"},
			Description: "input format: json/j, yaml/y",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.InFormat), "(format)"),
		},
		{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "output format: json/j, yaml/y",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "deltoid").
		WithSynopsis("deltoid [opts] command [opts]").
		WithDescription("deltoid diffs, patches and keeps histories of documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return deltoidMain(cfg, cc, args)
		}).
		WithSubs(
			DiffCommand(cfg),
			PatchCommand(cfg),
			GetCommand(cfg),
			HistoryCommand(cfg),
			ServeCommand(cfg),
			PushCommand(cfg))
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d", "di").
		WithOpts(opts...).
		WithSynopsis("diff [-r] [-jsonpatch | -text] a b").
		WithDescription("diff documents, exiting 1 when they differ").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Patch, "patch").
		WithAliases("p", "pa").
		WithSynopsis("patch <delta> [files]").
		WithDescription("apply a delta produced by diff to documents").
		WithRun(func(cc *cli.Context, args []string) error {
			return patch(cfg, cc, args)
		})
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g", "ge").
		WithSynopsis("get <objectpath> [files]").
		WithDescription("get document elements from files").
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

func HistoryCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &HistoryConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.History, "history").
		WithAliases("h", "hist").
		WithSynopsis("history <subcommand>").
		WithDescription("convert and query document histories").
		WithSubs(
			CompactCommand(cfg),
			ExpandCommand(cfg),
			ListCommand(cfg))
}

func CompactCommand(histCfg *HistoryConfig) *cli.Command {
	cfg := &CompactConfig{HistoryConfig: histCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Compact, "compact").
		WithAliases("c").
		WithOpts(opts...).
		WithSynopsis("compact [-origin o] files").
		WithDescription("record the documents in files as one delta history").
		WithRun(func(cc *cli.Context, args []string) error {
			return compact(cfg, cc, args)
		})
}

func ExpandCommand(histCfg *HistoryConfig) *cli.Command {
	cfg := &ExpandConfig{HistoryConfig: histCfg}
	return cli.NewCommandAt(&cfg.Expand, "expand").
		WithAliases("x").
		WithSynopsis("expand [file]").
		WithDescription("expand a delta history into its full states").
		WithRun(func(cc *cli.Context, args []string) error {
			return expand(cfg, cc, args)
		})
}

func ListCommand(histCfg *HistoryConfig) *cli.Command {
	cfg := &ListConfig{HistoryConfig: histCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.List, "list").
		WithAliases("l", "ls").
		WithOpts(opts...).
		WithSynopsis("list [-where expr] [-path objectpath] [file]").
		WithDescription(listDescription).
		WithRun(func(cc *cli.Context, args []string) error {
			return list(cfg, cc, args)
		})
}

const listDescription = `list the entries of a delta history.

-where filters entries with an expression over

  index      the position of the entry
  timestamp  when the entry was recorded
  origin     who recorded it
  state      the document after the entry

for example

  deltoid history list -where 'origin == "ci" && getpath(state, "spec.replicas") > 2'

-path shows the value at an object path in each listed state.`

func ServeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ServeConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Serve, "serve").
		WithOpts(opts...).
		WithSynopsis("serve [-addr a] [-db path] [-log name] [-metrics a]").
		WithDescription("serve a persistent document history over JSON-RPC").
		WithRun(func(cc *cli.Context, args []string) error {
			return serve(cfg, cc, args)
		})
}

func PushCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PushConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Push, "push").
		WithOpts(opts...).
		WithSynopsis("push [-addr a] [-origin o] [files]").
		WithDescription("push documents to a history server").
		WithRun(func(cc *cli.Context, args []string) error {
			return push(cfg, cc, args)
		})
}
