package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robalobadob/softskill/apps/go-server/internal/config"
)

const (
	app = "softskill-server"
)

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "softskill-server scores soft-skill assessment games and reports them to recruiters",
		SilenceUsage: true,
		// Without a subcommand the server runs.
		RunE: func(cmd *cobra.Command, args []string) error { return serveCmd.RunE(cmd, args) },
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := config.Bind(viper.GetViper()); err != nil {
		log.Fatal().Err(err).Msg("binding environment variables")
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a YAML config file (default: none, env and .env only)")
	rootCmd.PersistentFlags().String("log-level", "info", "trace|debug|info|warn|error")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("database-url", "", "sqlite path or postgres:// url")

	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("database-url", rootCmd.PersistentFlags().Lookup("database-url"))
}

// loadConfig resolves configuration and sets up the global logger.
func loadConfig() (*config.Config, error) {
	c, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(c.Level())
	if !viper.GetBool("json") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return c, nil
}
