/*
skelmesh decodes skeletal mesh and animation files. It can print a summary
of them, convert them to binary glTF or play a clip on a mesh.
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/spaghettifunk/skelmesh/engine/config"
	"github.com/spaghettifunk/skelmesh/engine/core"
)

const usage = `Usage: %s [flags] <command> [files...]

Commands:
  inspect [files...]        print a YAML summary of each file (default: every asset in -assets)
  export mesh [clips...]    write mesh and clips to <export dir>/<mesh>.glb
  play mesh [clip]          play a clip on a mesh and log the root bone

Flags:
`

func parseFlags(fs *flag.FlagSet, args []string) (*config.Flags, error) {
	f := &config.Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "TOML configuration file")
	fs.StringVar(&f.LogLevel, "log", "", "log level (debug, info, warn, error, fatal)")
	fs.StringVar(&f.AssetsDir, "assets", "", "assets directory")
	fs.StringVar(&f.Layout, "layout", "", "mesh layout of files without a known extension (chunked, minimal)")
	fs.StringVar(&f.Clip, "clip", "", "clip played by play")
	fs.IntVar(&f.TargetFPS, "fps", 0, "frame rate of play")
	fs.Float64Var(&f.DurationSeconds, "duration", 0, "seconds play runs for, 0 until interrupted")
	fs.Float64Var(&f.Speed, "speed", 0, "playback speed")
	fs.BoolVar(&f.Watch, "watch", false, "reload assets when their files change")
	fs.IntVar(&f.Workers, "workers", 0, "decoding workers")
	fs.StringVar(&f.ExportDir, "out", "", "export directory")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

func run(args []string) error {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), usage, args[0])
		fs.PrintDefaults()
	}
	flags, err := parseFlags(fs, args[1:])
	if err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Resolve(*flags)
	if err != nil {
		return err
	}
	if err := core.SetLogLevel(cfg.LogLevel); err != nil {
		return err
	}

	command, files := fs.Arg(0), fs.Args()[1:]
	switch command {
	case "inspect":
		return inspectCommand(cfg, files, os.Stdout)
	case "export":
		_, err = exportCommand(cfg, files)
		return err
	case "play":
		return playCommand(cfg, files)
	}
	fs.Usage()
	return fmt.Errorf("unknown command %q", command)
}

func main() {
	if err := run(os.Args); err != nil && !errors.Is(err, flag.ErrHelp) {
		core.LogFatal("%s", err)
	}
}
