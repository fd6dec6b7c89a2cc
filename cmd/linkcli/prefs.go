package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	prefTheme   string
	prefPrimary string
	prefAccent  string
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Настройки оформления",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Показать текущие настройки",
	RunE:  runPrefsShow,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Изменить настройки",
	Long: `Set меняет тему и цвета интерфейса. Цвета задаются в формате #rrggbb.

Example:
  linkcli prefs set --theme dark
  linkcli prefs set --primary "#3b82f6" --accent "#f59e0b"`,
	RunE: runPrefsSet,
}

func init() {
	prefsSetCmd.Flags().StringVar(&prefTheme, "theme", "", "тема: light, dark, system")
	prefsSetCmd.Flags().StringVar(&prefPrimary, "primary", "", "основной цвет, #rrggbb")
	prefsSetCmd.Flags().StringVar(&prefAccent, "accent", "", "акцентный цвет, #rrggbb")

	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsSetCmd)
}

func runPrefsShow(cmd *cobra.Command, args []string) error {
	p := prefs.Load()
	if flagJSON {
		return printJSON(p)
	}
	fmt.Printf("Theme:   %s\nPrimary: %s\nAccent:  %s\n", p.Theme, p.PrimaryColor, p.AccentColor)
	return nil
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	p := prefs.Load()
	if cmd.Flags().Changed("theme") {
		p.Theme = prefTheme
	}
	if cmd.Flags().Changed("primary") {
		p.PrimaryColor = prefPrimary
	}
	if cmd.Flags().Changed("accent") {
		p.AccentColor = prefAccent
	}

	if err := prefs.Save(p); err != nil {
		return err
	}
	fmt.Println("Preferences saved")
	return nil
}
