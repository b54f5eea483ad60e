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

package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"akhil.cc/mwtext/parser"
)

// Config is read from mwtext.yaml and from MWTEXT_* environment variables,
// for example MWTEXT_FILE_PREFIXES=Datei:,Bild:.
type Config struct {
	// Extra vocabulary, added to the parser's defaults.
	Variables        []string `mapstructure:"variables"`
	URLSchemes       []string `mapstructure:"url_schemes"`
	FilePrefixes     []string `mapstructure:"file_prefixes"`
	BehaviorSwitches []string `mapstructure:"behavior_switches"`

	// Filters name the commands that render templates in the html view.
	Filters    []Filter `mapstructure:"filters"`
	LinkPrefix string   `mapstructure:"link_prefix"`
	LogLevel   string   `mapstructure:"log_level"`
}

// Filter names the command that renders a template. It is a list entry
// since viper lowercases map keys.
type Filter struct {
	Template string `mapstructure:"template"`
	Command  string `mapstructure:"command"`
}

// filters returns the html generator's filter table.
func (c Config) filters() map[string]string {
	m := make(map[string]string, len(c.Filters))
	for _, f := range c.Filters {
		m[strings.ReplaceAll(strings.TrimSpace(f.Template), " ", "_")] = f.Command
	}
	return m
}

var configKeys = []string{
	"variables", "url_schemes", "file_prefixes", "behavior_switches",
	"link_prefix", "log_level",
}

// loadConfig reads file, or mwtext.yaml from the working directory or
// $HOME/.config/mwtext when file is empty. A missing default file is not an
// error.
func loadConfig(v *viper.Viper, file string) (Config, error) {
	v.SetConfigType("yaml")
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("mwtext")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "mwtext"))
		}
	}
	v.SetEnvPrefix("mwtext")
	v.AutomaticEnv()
	for _, k := range configKeys {
		v.BindEnv(k)
	}
	v.SetDefault("log_level", "warn")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, err
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// parser returns the parser configuration: the default vocabularies plus
// the extra words of c.
func (c Config) parser(log *zerolog.Logger) *parser.Config {
	pc := parser.DefaultConfig()
	pc.Variables = append(pc.Variables, c.Variables...)
	pc.URLSchemes = append(pc.URLSchemes, c.URLSchemes...)
	pc.FilePrefixes = append(pc.FilePrefixes, c.FilePrefixes...)
	pc.BehaviorSwitches = append(pc.BehaviorSwitches, c.BehaviorSwitches...)
	pc.Logger = log
	return pc
}
