package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "dev"

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command. Browsers start the binary with the
// extension origin as its only argument, so bare invocation runs the host.
var rootCmd = &cobra.Command{
	Use:   "factlens [extension-origin]",
	Short: "factlens - claim verification host for AI chat answers",
	Long: `factlens extracts factual claims from AI assistant answers and checks
them with an LLM fact-checking call, falling back to a web search against
trusted domains. Citations the chat platform already embedded are passed
through as confirmed.

It is started by the browser as a native-messaging host and talks JSON over
stdin/stdout. Run "factlens config init" once to create a configuration file.`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	// Chrome on Windows appends --parent-window=<handle>
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 || !isExtensionOrigin(args[0]) {
			return cmd.Help()
		}
		return runHost(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "factlens %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.factlens/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	configureViper(viper.GetViper(), cfgFile)

	// A missing file is normal: defaults apply
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	}
}

// configureViper points v at the config file and the FACTLENS_* environment
func configureViper(v *viper.Viper, file string) {
	if file != "" {
		v.SetConfigFile(file)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home + "/.factlens")
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FACTLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only covers keys viper already knows; bind the common ones
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
}

func isExtensionOrigin(arg string) bool {
	return strings.HasPrefix(arg, "chrome-extension://") ||
		strings.HasPrefix(arg, "moz-extension://") ||
		strings.HasSuffix(arg, ".json") // Firefox passes the manifest path first
}
