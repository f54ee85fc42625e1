package protocol

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cyfronet-fid/eosc-analyses/constants"
	"github.com/cyfronet-fid/eosc-analyses/utils"
	"github.com/cyfronet-fid/eosc-analyses/utils/logger"
)

var (
	configPath    string
	envFile       string
	logLevel      string
	configFolder  string
	schemaVersion string
	collections   []string

	commands = []*cobra.Command{}
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "eosc-analyses",
	Short: "Flatten research product dumps into parquet tables and report missing metadata",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := loadEnvFile(envFile); err != nil {
			return err
		}
		viper.AutomaticEnv()
		setDefaults()

		if logLevel != "" {
			viper.Set(constants.LogLevel, logLevel)
		}
		if configFolder != "" {
			viper.Set(constants.ConfigFolder, configFolder)
		}

		// logger uses LOG_LEVEL and CONFIG_FOLDER
		logger.Init()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}

		if ok := utils.IsValidSubcommand(commands, args[0]); !ok {
			return fmt.Errorf("'%s' is an invalid command. Use 'eosc-analyses --help' to display usage guide", args[0])
		}
		return nil
	},
}

// loadEnvFile loads settings from an env file; the default file is optional
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if path == constants.EnvFile && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load env file[%s]: %s", path, err)
}

// setDefaults registers the output locations used when no setting names them
func setDefaults() {
	viper.SetDefault(constants.MetadataPath, constants.DefaultMetadataPath)
	viper.SetDefault(constants.ProcessedMetadataPath, constants.DefaultProcessedPath)
}

func CreateRootCommand() *cobra.Command {
	RootCmd.AddCommand(commands...)
	return RootCmd
}

// Execute runs the command line until done or interrupted and exits on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := CreateRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		logger.Fatal(err)
	}
}

func init() {
	commands = append(commands, convertCmd, analyzeCmd, discoverCmd, schemaCmd, clearCmd)
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "", "", "(Optional) JSON config file, its values override the environment")
	RootCmd.PersistentFlags().StringVarP(&envFile, "env-file", "", constants.EnvFile, "(Optional) Env file loaded before reading settings")
	RootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", "", "(Optional) Log level, overrides LOG_LEVEL")
	RootCmd.PersistentFlags().StringVarP(&configFolder, "config-folder", "", "", "(Optional) Folder receiving rotated log files, overrides CONFIG_FOLDER")
	RootCmd.PersistentFlags().StringVarP(&schemaVersion, "schema-version", "", "", "(Optional) Data model version, overrides SCHEMA_VERSION")
	RootCmd.PersistentFlags().StringSliceVarP(&collections, "collection", "c", nil, "(Optional) Collections to process, all configured collections when not set")
	// Disable Cobra CLI's built-in usage and error handling
	RootCmd.SilenceUsage = true
	RootCmd.SilenceErrors = true
}
