// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the geo-cluster CLI. It clusters the
// GEO datasets linked to a set of PubMed articles, either once from the
// command line or behind an HTTP API.
package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/onrik/logrus/filename"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/geo-cluster/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	Verbose    bool
	Quiet      bool
	SecretsDir = ".secrets/"
)

// loadedSecrets holds keys loaded from SecretsDir at startup.
var loadedSecrets map[string]string

var rootCmd = &cobra.Command{
	Use:   "geo-cluster",
	Short: "Cluster GEO datasets linked to PubMed articles",
	Long: `geo-cluster looks up the GEO datasets linked to each PubMed ID through
NCBI E-utilities, groups the datasets by the similarity of their descriptions,
and reports the clusters together with a publication/dataset graph.

Use "cluster" for a one-off run and "serve" to expose the same pipeline over
HTTP for the visualization front end.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(SecretsDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			log.WithField("keys", keys).Debug("loaded secrets")
		}
		return nil
	},
}

func init() {
	// Logging first, so config loading can report at debug level.
	cobra.OnInitialize(initLogging, initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./geo-cluster.yaml or ~/.config/geo-cluster/geo-cluster.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&Quiet, "quiet", "q", false, "Activate quiet log output")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "Activate verbose log output")
	rootCmd.PersistentFlags().StringVar(&SecretsDir, "secrets-dir", SecretsDir, "Directory of secret files (ncbi-api-key, ncbi-email)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("geo-cluster")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "geo-cluster"))
		}
	}

	viper.SetEnvPrefix("GEO_CLUSTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	}
}

func initLogging() {
	level := log.InfoLevel
	if Verbose {
		log.AddHook(filename.NewHook())
		level = log.DebugLevel
	}
	if Quiet {
		level = log.ErrorLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
