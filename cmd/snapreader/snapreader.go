package main

import (
	"os"

	"github.com/NethermindEth/snapreader/db"
	"github.com/NethermindEth/snapreader/db/pebble"
	"github.com/NethermindEth/snapreader/metrics"
	"github.com/NethermindEth/snapreader/statereader"
	"github.com/NethermindEth/snapreader/utils"
	"github.com/NethermindEth/snapreader/validator"
	"github.com/mitchellh/mapstructure"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Version string

const (
	configF      = "config"
	dbPathF      = "db-path"
	heightF      = "height"
	verbosityF   = "verbosity"
	colourF      = "colour"
	legacyF      = "legacy"
	metricsF     = "metrics"
	dbCacheSizeF = "db-cache-size"

	defaultConfig      = ""
	defaultDBPath      = ""
	defaultHeight      = uint64(0)
	defaultVerbosity   = utils.INFO
	defaultColour      = true
	defaultLegacy      = false
	defaultMetrics     = false
	defaultDBCacheSize = uint(8)

	configFlagUsage    = "The yaml configuration file."
	dbPathUsage        = "Location of the database files."
	heightUsage        = "Block number to read the state at. The state includes the changes of that block."
	verbosityFlagUsage = "Verbosity of the logs. Options: debug, info, warn, error."
	colourUsage        = "Use `--colour=false` command to disable colourized outputs (ANSI Escape Codes)."
	legacyUsage        = "Only resolve Cairo 0 classes, ignoring Sierra class declarations."
	metricsUsage       = "Print the collected prometheus metrics after the command output."
	dbCacheSizeUsage   = "Determines the amount of memory (in megabytes) allocated for caching data in the database."
)

type Config struct {
	DBPath      string         `mapstructure:"db-path" validate:"required"`
	Height      uint64         `mapstructure:"height"`
	Verbosity   utils.LogLevel `mapstructure:"verbosity" validate:"log_level"`
	Colour      bool           `mapstructure:"colour"`
	Legacy      bool           `mapstructure:"legacy"`
	Metrics     bool           `mapstructure:"metrics"`
	DBCacheSize uint           `mapstructure:"db-cache-size" validate:"min=1"`
}

func NewCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "snapreader",
		Short:         "Inspect Starknet contract state as of a block.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	verbosity := defaultVerbosity
	rootCmd.PersistentFlags().String(configF, defaultConfig, configFlagUsage)
	rootCmd.PersistentFlags().String(dbPathF, defaultDBPath, dbPathUsage)
	rootCmd.PersistentFlags().Uint64(heightF, defaultHeight, heightUsage)
	rootCmd.PersistentFlags().Var(&verbosity, verbosityF, verbosityFlagUsage)
	rootCmd.PersistentFlags().Bool(colourF, defaultColour, colourUsage)
	rootCmd.PersistentFlags().Bool(legacyF, defaultLegacy, legacyUsage)
	rootCmd.PersistentFlags().Bool(metricsF, defaultMetrics, metricsUsage)
	rootCmd.PersistentFlags().Uint(dbCacheSizeF, defaultDBCacheSize, dbCacheSizeUsage)

	rootCmd.AddCommand(StorageCmd(), NonceCmd(), ClassHashCmd(), ClassCmd(), SizeCmd(), SeedCmd())
	return rootCmd
}

// loadConfig merges the yaml config file, if any, with the command line
// flags. Flags set explicitly take precedence.
func loadConfig(cmd *cobra.Command) (*Config, error) {
	v := viper.New()

	cfgFile, err := cmd.Flags().GetString(configF)
	if err != nil {
		return nil, err
	}
	if cfgFile != "" {
		v.SetConfigType("yaml")
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	cfg := new(Config)
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(cfg, decodeHook); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	if err := validator.Validator().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func openDB(path string, options ...pebble.Option) (*pebble.DB, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.Errorf("database path %q does not exist", path)
	}

	database, err := pebble.New(path, options...)
	if err != nil {
		return nil, errors.Wrap(err, "open db")
	}
	return database, nil
}

// withReader opens the database read-only and runs query against a reader
// bound to the configured height. The rows returned by query are rendered as
// a table on the command output.
func withReader(cmd *cobra.Command, query func(statereader.StateReader) ([][]string, error)) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := utils.NewZapLogger(cfg.Verbosity, cfg.Colour)
	if err != nil {
		return errors.Wrap(err, "create logger")
	}

	database, err := openDB(cfg.DBPath,
		pebble.WithReadOnly(),
		pebble.WithLogger(cfg.Colour),
		pebble.WithCacheSize(cfg.DBCacheSize),
	)
	if err != nil {
		return err
	}
	defer db.CloseAndWrapOnError(database.Close, &err)

	readerOpts := []statereader.Option{statereader.WithLogger(log)}
	var registry *prometheus.Registry
	if cfg.Metrics {
		registry = metrics.NewRegistry()
		database.WithListener(metrics.NewDBMetrics(registry))
		readerOpts = append(readerOpts, statereader.WithListener(metrics.NewClassMetrics(registry)))
	}

	newReader := statereader.New
	if cfg.Legacy {
		newReader = statereader.NewLegacy
	}

	var rows [][]string
	err = database.View(func(snap db.Snapshot) error {
		reader := newReader(snap, cfg.Height, readerOpts...)
		log.Debugw("Reading state", "height", reader.Height(), "legacy", cfg.Legacy)

		var queryErr error
		rows, queryErr = query(reader)
		return queryErr
	})
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Field", "Value"})
	table.AppendBulk(rows)
	table.Render()

	if registry != nil {
		return metrics.Dump(cmd.OutOrStdout(), registry)
	}
	return nil
}
