package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/smartworkmark/seo-content-portal/internal/model"
)

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Manage saved filters",
}

var filtersListCmd = &cobra.Command{
	Use:   "list [content-type]",
	Short: "List saved filters, optionally for one content type",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFiltersList,
}

var filtersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved filter",
	Args:  cobra.ExactArgs(1),
	RunE:  runFiltersDelete,
}

func init() {
	filtersCmd.AddCommand(filtersListCmd, filtersDeleteCmd)
}

func runFiltersList(cmd *cobra.Command, args []string) error {
	var kind model.ContentKind
	if len(args) == 1 {
		kind = model.ContentKind(args[0])
		if !kind.Valid() {
			return fmt.Errorf("unknown content type %q", args[0])
		}
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	list := a.filters.List(cmd.Context())
	if kind != "" {
		list = a.filters.ListForContentType(cmd.Context(), kind)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tRANGE\tPRACTICES\tCREATED")
	for _, f := range list {
		practices := "all"
		if len(f.Practices) > 0 {
			practices = strings.Join(f.Practices, ", ")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", f.ID, f.Name, f.ContentType, f.DateRange, practices, f.CreatedAt)
	}
	return tw.Flush()
}

func runFiltersDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.filters.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return nil
}
