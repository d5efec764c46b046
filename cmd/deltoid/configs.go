package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/signadot/deltoid/encode"
	"github.com/signadot/deltoid/format"
)

type MainConfig struct {
	Color bool `cli:"name=color desc='encode with color'"`

	J bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Y bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

func (cfg *MainConfig) flagFormat() (format.Format, bool) {
	switch {
	case cfg.J:
		return format.JSONFormat, true
	case cfg.Y:
		return format.YAMLFormat, true
	}
	return format.YAMLFormat, false
}

// inFormat is the format of the file at path: -I, then -j or -y, then the
// file extension.
func (cfg *MainConfig) inFormat(path string) format.Format {
	if cfg.InFormat != nil {
		return *cfg.InFormat
	}
	if f, ok := cfg.flagFormat(); ok {
		return f
	}
	return format.FromPath(path)
}

func (cfg *MainConfig) outFormat() format.Format {
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	f, _ := cfg.flagFormat()
	return f
}

// colors reports whether output to w is colored: -color if given,
// otherwise whether w is a terminal.
func (cfg *MainConfig) colors(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	if cfg.Main != nil {
		for _, opt := range cfg.Main.Opts {
			if opt.Name != "color" {
				continue
			}
			if opt.Value != nil {
				return false
			}
			break
		}
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeFormat(cfg.outFormat()),
	}
	if cfg.colors(w) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

type DiffConfig struct {
	*MainConfig
	Reverse   bool `cli:"name=r desc='reverse the diff'"`
	JSONPatch bool `cli:"name=jsonpatch desc='output an RFC 6902 JSON patch'"`
	Text      bool `cli:"name=text desc='output a line diff of the encoded documents'"`

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig

	Patch *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type HistoryConfig struct {
	*MainConfig

	History *cli.Command
}

type CompactConfig struct {
	*HistoryConfig
	Origin string `cli:"name=origin desc='origin of the states (default: the file names)'"`

	Compact *cli.Command
}

type ExpandConfig struct {
	*HistoryConfig

	Expand *cli.Command
}

type ListConfig struct {
	*HistoryConfig
	Where string `cli:"name=where desc='expr filter over index, timestamp, origin and state'"`
	Path  string `cli:"name=path desc='show the value at this object path'"`

	List *cli.Command
}

type ServeConfig struct {
	*MainConfig
	Addr    string `cli:"name=addr desc='listen address (default $DELTOID_ADDR)'"`
	DB      string `cli:"name=db desc='history database (default $DELTOID_DB)'"`
	Log     string `cli:"name=log desc='name of the served history (default $DELTOID_LOG)'"`
	Metrics string `cli:"name=metrics desc='metrics listen address (default $DELTOID_METRICS_ADDR)'"`

	Serve *cli.Command
}

type PushConfig struct {
	*MainConfig
	Addr   string `cli:"name=addr desc='server address (default $DELTOID_ADDR)'"`
	Origin string `cli:"name=origin desc='origin of the pushed states (default: a random UUID)'"`

	Push *cli.Command
}
