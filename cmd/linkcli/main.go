// Package main реализует linkcli — консольный клиент EasyLink.
// Команды работают через локальную сессию: чтения отдаются из снимка
// коллекций, мутации применяются оптимистично и сверяются с сервером.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Totarae/EasyLink/internal/client"
	"github.com/Totarae/EasyLink/internal/kvstore"
)

// Значения глобальных флагов.
var (
	flagServer  string
	flagDataDir string
	flagJSON    bool
	flagVerbose bool
)

// session инициализируется в PersistentPreRunE и доступна всем командам.
var (
	session *client.Session
	prefs   *client.PrefStore
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "linkcli",
	Short: "linkcli — консольный клиент менеджера закладок EasyLink",
	Long: `linkcli управляет закладками на сервере EasyLink.

Списки отдаются из локального снимка, если он свежее пяти минут;
мутации применяются сразу и в фоне сверяются с сервером.`,
	SilenceUsage:      true,
	PersistentPreRunE: initSession,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagServer, "server", "s", "http://localhost:8080", "адрес сервера EasyLink")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "каталог локальных данных (по умолчанию ~/.easylink)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "вывод в формате JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "подробный лог")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(favCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(prefsCmd)
}

func initSession(cmd *cobra.Command, args []string) error {
	dataDir := flagDataDir
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".easylink")
	}

	store, err := kvstore.Open(filepath.Join(dataDir, "state.json"))
	if err != nil {
		return fmt.Errorf("failed to open local storage: %w", err)
	}

	logger := zap.NewNop()
	if flagVerbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
	}

	api := client.New(flagServer, logger)
	session = client.NewSession(api, store, nil, logger)
	prefs = client.NewPrefStore(store)
	return nil
}
