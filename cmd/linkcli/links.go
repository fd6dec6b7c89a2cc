package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Totarae/EasyLink/internal/model"
)

// Флаги команд работы со ссылками.
var (
	listSearch   string
	listCategory int64
	listFavorite bool
	listSort     string
	listOrder    string
	listPage     int
	listPerPage  int
	listRefresh  bool

	addName     string
	addURL      string
	addCategory int64
	addFavorite bool

	updName       string
	updURL        string
	updCategory   int64
	updNoCategory bool
	updFavorite   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать ссылки",
	Long: `List выводит сохранённые ссылки.

Без фильтров список отдаётся из локального снимка, если он свежий;
фильтры и сортировка всегда уходят на сервер.

Example:
  linkcli list
  linkcli list --search google --favorite
  linkcli list --sort name --order asc --page 1 --per-page 20`,
	RunE: runList,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Добавить ссылку",
	Long: `Add создаёт ссылку. URL должен быть абсолютным.

Example:
  linkcli add --name "Google" --url https://google.com
  linkcli add --name "Docs" --url https://go.dev --category 3 --favorite`,
	RunE: runAdd,
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Изменить ссылку",
	Long: `Update меняет только переданные поля ссылки.

Example:
  linkcli update 7 --name "New name"
  linkcli update 7 --category 3
  linkcli update 7 --no-category`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Удалить ссылку",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

var favCmd = &cobra.Command{
	Use:   "fav <id>",
	Short: "Переключить флаг избранного",
	Args:  cobra.ExactArgs(1),
	RunE:  runFav,
}

func init() {
	listCmd.Flags().StringVar(&listSearch, "search", "", "поиск по имени и URL")
	listCmd.Flags().Int64Var(&listCategory, "category", 0, "фильтр по id категории")
	listCmd.Flags().BoolVar(&listFavorite, "favorite", false, "только избранные")
	listCmd.Flags().StringVar(&listSort, "sort", "", "сортировка: createdAt, name, favorite")
	listCmd.Flags().StringVar(&listOrder, "order", "", "порядок: asc, desc")
	listCmd.Flags().IntVar(&listPage, "page", 0, "номер страницы")
	listCmd.Flags().IntVar(&listPerPage, "per-page", 0, "размер страницы")
	listCmd.Flags().BoolVar(&listRefresh, "refresh", false, "перечитать с сервера, минуя снимок")

	addCmd.Flags().StringVar(&addName, "name", "", "имя ссылки (обязательно)")
	addCmd.Flags().StringVar(&addURL, "url", "", "абсолютный URL (обязательно)")
	addCmd.Flags().Int64Var(&addCategory, "category", 0, "id категории")
	addCmd.Flags().BoolVar(&addFavorite, "favorite", false, "пометить избранной")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("url")

	updateCmd.Flags().StringVar(&updName, "name", "", "новое имя")
	updateCmd.Flags().StringVar(&updURL, "url", "", "новый URL")
	updateCmd.Flags().Int64Var(&updCategory, "category", 0, "новая категория")
	updateCmd.Flags().BoolVar(&updNoCategory, "no-category", false, "снять категорию")
	updateCmd.Flags().BoolVar(&updFavorite, "favorite", false, "значение флага избранного")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	filters := model.LinkFilters{
		Search:  listSearch,
		Sort:    listSort,
		Order:   listOrder,
		Page:    listPage,
		PerPage: listPerPage,
	}
	if listCategory > 0 {
		filters.CategoryID = &listCategory
	}
	if listFavorite {
		fav := true
		filters.Favorite = &fav
	}

	var (
		links []model.Link
		err   error
	)
	filtered := filters.Search != "" || filters.CategoryID != nil ||
		filters.Favorite != nil || filters.Sort != "" || filters.Order != "" || filters.Paginated()
	switch {
	case filtered:
		// Фильтры считает сервер, снимок хранит только полный список.
		links, err = session.SearchLinks(ctx, filters)
	case listRefresh:
		links, err = session.RefreshLinks(ctx)
	default:
		links, err = session.Links(ctx)
	}
	if err != nil {
		return err
	}

	return printLinks(links)
}

func runAdd(cmd *cobra.Command, args []string) error {
	req := model.CreateLinkRequest{
		Name:     addName,
		URL:      addURL,
		Favorite: addFavorite,
	}
	if addCategory > 0 {
		req.CategoryID = &addCategory
	}

	link, err := session.CreateLink(cmd.Context(), req)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(link)
	}
	fmt.Printf("Created link %d: %s\n", link.ID, link.Name)
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	fields := make(map[string]any)
	if cmd.Flags().Changed("name") {
		fields["name"] = updName
	}
	if cmd.Flags().Changed("url") {
		fields["url"] = updURL
	}
	if cmd.Flags().Changed("favorite") {
		fields["favorite"] = updFavorite
	}
	if updNoCategory {
		fields["categoryId"] = nil
	} else if cmd.Flags().Changed("category") {
		fields["categoryId"] = updCategory
	}
	if len(fields) == 0 {
		return fmt.Errorf("nothing to update")
	}

	link, err := session.UpdateLink(cmd.Context(), id, fields)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(link)
	}
	fmt.Printf("Updated link %d: %s\n", link.ID, link.Name)
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := session.DeleteLink(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("Deleted link %d\n", id)
	return nil
}

func runFav(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	link, err := session.ToggleFavorite(cmd.Context(), id)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(link)
	}
	state := "unfavorited"
	if link.Favorite {
		state = "favorited"
	}
	fmt.Printf("Link %d %s\n", link.ID, state)
	return nil
}

func printLinks(links []model.Link) error {
	if flagJSON {
		return printJSON(links)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tURL\tCATEGORY\tFAV")
	for _, l := range links {
		fav := ""
		if l.Favorite {
			fav = "*"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", l.ID, l.Name, l.URL, l.CategoryName, fav)
	}
	return w.Flush()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
