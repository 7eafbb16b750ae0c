package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	errs "github.com/oitsjustjose/MC-Docker/internal/errors"
	"github.com/oitsjustjose/MC-Docker/internal/interfaces"
	"github.com/oitsjustjose/MC-Docker/internal/logging"
	"github.com/oitsjustjose/MC-Docker/internal/server"
	"github.com/oitsjustjose/MC-Docker/internal/state"
)

var (
	cfgFile string
	quiet   bool

	rootCmd = &cobra.Command{
		Use:   "mc-docker",
		Short: "Manage Minecraft server containers in Docker",
		Long: `mc-docker runs Minecraft game servers as Docker containers built on the
itzg/minecraft-server image.

Each server is a named container with its world data bind-mounted from the
host, so worlds survive container recreation. Lifecycle commands (create,
start, stop, restart, delete), an interactive rcon console, log streaming and
a companion backup container are all driven from this one binary.`,
		// SilenceUsage prevents Cobra from printing the usage message on errors
		// that are handled by the application.
		SilenceUsage: true,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.mc-docker/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress informational output")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	viper.SetDefault("java", "21")
	viper.SetDefault("data_home", filepath.Join(configDir(), "servers"))
	viper.SetDefault("state_db", filepath.Join(configDir(), "state.db"))
	viper.SetDefault("backup_interval", "24h")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in the per-user mc-docker directory
		viper.AddConfigPath(configDir())
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("MC_DOCKER")
	viper.AutomaticEnv() // read in environment variables that match

	// A missing config file is fine, the defaults above cover everything. A
	// file that exists but cannot be read is worth a warning.
	if err := viper.ReadInConfig(); err == nil {
		if !quiet {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		fmt.Fprintf(os.Stderr, "Warning: could not read config file: %v\n", err)
	}
}

// configDir is the per-user home for config, state and default server roots.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mc-docker"
	}
	return filepath.Join(home, ".mc-docker")
}

// defaultRoot is where a server's world data lives when --root is not given.
func defaultRoot(name string) string {
	return filepath.Join(viper.GetString("data_home"), name)
}

// Helper functions to get manager instances
func getRuntime() (server.Runtime, error) {
	return server.NewDockerRuntime()
}

func getStateManager() (interfaces.StateManager, error) {
	dbPath := viper.GetString("state_db")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, errs.NewGenericError("failed to create state directory", err)
	}
	return state.NewManager(dbPath)
}

func getServerManager(ctx context.Context, runtime server.Runtime, name string) (*server.Manager, error) {
	log := logging.New(name)
	log.SetQuiet(quiet)
	return server.NewManager(ctx, name, runtime, log)
}
