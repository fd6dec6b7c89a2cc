package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var catRmReassignTo int64

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Управление категориями",
}

var catListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать категории со счётчиками ссылок",
	RunE:  runCatList,
}

var catAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Создать категорию",
	Long: `Add создаёт категорию. Имена уникальны без учёта пробелов по краям;
при совпадении возвращается уже существующая категория.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatAdd,
}

var catRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Переименовать категорию",
	Args:  cobra.ExactArgs(2),
	RunE:  runCatRename,
}

var catRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Удалить категорию",
	Long: `Rm удаляет категорию. Её ссылки остаются без категории либо,
с флагом --reassign-to, переносятся в другую категорию.

Example:
  linkcli category rm 3
  linkcli category rm 3 --reassign-to 5`,
	Args: cobra.ExactArgs(1),
	RunE: runCatRm,
}

func init() {
	catRmCmd.Flags().Int64Var(&catRmReassignTo, "reassign-to", 0, "категория, в которую перенести ссылки")

	categoryCmd.AddCommand(catListCmd)
	categoryCmd.AddCommand(catAddCmd)
	categoryCmd.AddCommand(catRenameCmd)
	categoryCmd.AddCommand(catRmCmd)
}

func runCatList(cmd *cobra.Command, args []string) error {
	categories, err := session.Categories(cmd.Context())
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(categories)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLINKS")
	for _, c := range categories {
		fmt.Fprintf(w, "%d\t%s\t%d\n", c.ID, c.Name, c.LinkCount)
	}
	return w.Flush()
}

func runCatAdd(cmd *cobra.Command, args []string) error {
	category, err := session.CreateCategory(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(category)
	}
	fmt.Printf("Category %d: %s\n", category.ID, category.Name)
	return nil
}

func runCatRename(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	category, err := session.RenameCategory(cmd.Context(), id, args[1])
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(category)
	}
	fmt.Printf("Renamed category %d to %s\n", category.ID, category.Name)
	return nil
}

func runCatRm(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	var reassignTo *int64
	if cmd.Flags().Changed("reassign-to") {
		reassignTo = &catRmReassignTo
	}

	if err := session.DeleteCategory(cmd.Context(), id, reassignTo); err != nil {
		return err
	}
	fmt.Printf("Deleted category %d\n", id)
	return nil
}
