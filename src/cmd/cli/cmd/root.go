package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pctracer-svc/src/clients/dashboard"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	keyServer      = "server"
	keyCookieName  = "cookie-name"
	keySessionFile = "session-file"
	keyTimeout     = "timeout"
	keyDebug       = "debug"
)

var (
	cfgFile string
	v       = viper.New()
	client  *dashboard.Client
)

var rootCmd = &cobra.Command{
	Use:   "pctracer",
	Short: "Terminal client for the PC Tracer dashboard",
	Long: `pctracer reads users, activity records and chart data from a running
PC Tracer dashboard and renders the activity report in the terminal.`,
	PersistentPreRunE: setupClient,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupClient(_ *cobra.Command, _ []string) error {
	if err := loadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(logrus.WarnLevel)
	if v.GetBool(keyDebug) {
		logrus.SetLevel(logrus.DebugLevel)
	}

	token, err := readSession(v.GetString(keySessionFile))
	if err != nil {
		return err
	}

	client = dashboard.NewClient(v.GetString(keyServer), v.GetString(keyCookieName), token, v.GetDuration(keyTimeout))
	return nil
}

func loadConfig() error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".pctracer"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("pctracer")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PCTRACER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pctracer-session"
	}
	return filepath.Join(home, ".pctracer", "session")
}

func readSession(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read session file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func saveSession(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $HOME/.pctracer/pctracer.yaml)")
	flags.String(keyServer, "http://localhost:3000", "dashboard URL")
	flags.String(keyCookieName, "pctracer_session", "session cookie name")
	flags.String(keySessionFile, defaultSessionFile(), "file holding the session saved by login")
	flags.Duration(keyTimeout, 30*time.Second, "request timeout")
	flags.Bool(keyDebug, false, "enable debug logging")

	for _, key := range []string{keyServer, keyCookieName, keySessionFile, keyTimeout, keyDebug} {
		_ = v.BindPFlag(key, flags.Lookup(key))
	}

	rootCmd.AddCommand(loginCmd, usersCmd, activitiesCmd, chartCmd)
}
