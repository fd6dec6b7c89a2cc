package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Totarae/EasyLink/internal/model"
)

var (
	exportOut string
	clearYes  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Выгрузить все данные в JSON",
	Long: `Export выгружает все категории и ссылки в JSON-файл.

Example:
  linkcli export --out backup.json
  linkcli export > backup.json`,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Загрузить данные из JSON-файла",
	Long: `Import загружает категории и ссылки из файла выгрузки.
Дубликаты по URL и записи без имени или URL пропускаются.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Стереть все данные на сервере",
	RunE:  runClear,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Проверить доступность сервера",
	RunE:  runHealth,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "файл вывода (по умолчанию stdout)")
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "не спрашивать подтверждение")
}

func runExport(cmd *cobra.Command, args []string) error {
	data, err := session.Export(cmd.Context())
	if err != nil {
		return err
	}

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if exportOut != "" {
		fmt.Printf("Exported %d links, %d categories to %s\n", len(data.Links), len(data.Categories), exportOut)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	var req model.ImportRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("failed to parse import file: %w", err)
	}

	result, err := session.Import(cmd.Context(), req)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(result)
	}
	fmt.Printf("Imported %d links, skipped %d\n", result.Imported, result.Skipped)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		fmt.Print("This deletes ALL links and categories on the server. Continue? [y/N] ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
			fmt.Println("Aborted")
			return nil
		}
	}

	if err := session.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("All data has been cleared")
	return nil
}

func runHealth(cmd *cobra.Command, args []string) error {
	status, err := session.Health(cmd.Context())
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(status)
	}
	fmt.Printf("%s (%s)\n", status.Message, status.Timestamp.Format("2006-01-02 15:04:05"))
	return nil
}
