// MIT License

// Copyright (c) 2018 Akhil Indurti

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// This CLI utility parses MediaWiki wikitext and runs a command listed below
// on the resulting syntax tree.
//
// Usage:
//   mwtext [command]
//
// Available Commands:
//   check       Verify that wikitext files survive a parse and serialize round trip
//   dump        Print the syntax tree of a wikitext source file
//   edit        Edit the parameters of templates in a wikitext source file
//   help        Help about any command
//   html        HTML source view generator for wikitext source files
//   quotes      Resolve bold and italic quote runs line by line
//   templates   List the templates of a wikitext source file
//
// Flags:
//       --config      configuration file
//   -h, --help        help for mwtext
//       --log-level   log level: trace, debug, info, warn or error
//
// Use "mwtext [command] --help" for more information about a command.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func prefix(msg string, err error) error {
	return fmt.Errorf("%s%w", msg, err)
}

// app holds what every subcommand shares: the standard streams, the
// configuration and the logger.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	v          *viper.Viper
	configFile string
	cfg        Config
	log        zerolog.Logger
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		v:      viper.New(),
		log:    zerolog.Nop(),
	}
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mwtext",
		Short: "round-trip tooling for MediaWiki wikitext",
		Long: `This CLI utility parses MediaWiki wikitext and runs a command listed
below on the resulting syntax tree. Serializing the tree reproduces the
source byte for byte, so edits touch nothing but the edited parameters.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "``configuration file")
	pf.String("log-level", "warn", "``log level: trace, debug, info, warn or error")
	a.v.BindPFlag("log_level", pf.Lookup("log-level"))

	rootCmd.AddCommand(
		a.checkCmd(),
		a.dumpCmd(),
		a.templatesCmd(),
		a.editCmd(),
		a.quotesCmd(),
		a.htmlCmd(),
	)
	return rootCmd
}

// setup loads the configuration and builds the logger. It runs before every
// subcommand.
func (a *app) setup() error {
	cfg, err := loadConfig(a.v, a.configFile)
	if err != nil {
		return prefix("(config) ", err)
	}
	a.cfg = cfg
	log, err := newLogger(a.stderr, cfg.LogLevel)
	if err != nil {
		return prefix("(config) ", err)
	}
	a.log = log
	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.Debug().Str("file", used).Msg("configuration loaded")
	}
	return nil
}

// newLogger returns a logger writing to w at the given level. A terminal
// gets human readable output, anything else JSON lines.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	// The global level is a floor under every logger's own level. It is
	// only ever lowered, for trace output.
	if lvl < zerolog.GlobalLevel() {
		zerolog.SetGlobalLevel(lvl)
	}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		w = zerolog.ConsoleWriter{Out: f}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

func main() {
	if err := newApp(os.Stdin, os.Stdout, os.Stderr).rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
