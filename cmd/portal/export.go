package main

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/smartworkmark/seo-content-portal/internal/server"
)

var exportFlags struct {
	groups    []string
	dateRange string
	sortKey   string
	dir       string
	errors    bool
	output    string
	refresh   bool
}

var exportCmd = &cobra.Command{
	Use:   "export <blogs|gmb-posts|replies>",
	Short: "Write one content table as CSV",
	Long: `Fetches the current snapshot, applies the selection and writes the
table as CSV. Use --output - to write to stdout; by default the file is named
after the table and today's date.

Example:
  portal export blogs --range 30d --group "Acme Dental" --group "Smith, Jones DDS"`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringArrayVar(&exportFlags.groups, "group", nil, "practice or account name to include, repeatable (default all)")
	f.StringVar(&exportFlags.dateRange, "range", "7d", "date range: 7d, 30d or 90d")
	f.StringVar(&exportFlags.sortKey, "sort", "", "column key to sort by (default date)")
	f.StringVar(&exportFlags.dir, "dir", "desc", "sort direction: asc or desc")
	f.BoolVar(&exportFlags.errors, "errors", false, "export error records instead")
	f.StringVarP(&exportFlags.output, "output", "o", "", "output file, - for stdout")
	f.BoolVar(&exportFlags.refresh, "refresh", false, "regenerate mock data before exporting")
}

func exportValues() url.Values {
	v := url.Values{}
	for _, g := range exportFlags.groups {
		v.Add("groups", g)
	}
	v.Set("range", exportFlags.dateRange)
	v.Set("sort", exportFlags.sortKey)
	v.Set("dir", exportFlags.dir)
	if exportFlags.errors {
		v.Set("errors", "true")
	}
	return v
}

func runExport(cmd *cobra.Command, args []string) error {
	q, err := server.ParseQuery(args[0], exportValues())
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	snap := a.fetcher.Fetch(cmd.Context(), exportFlags.refresh)
	now := time.Now().In(a.cfg.Location)

	if exportFlags.output == "-" {
		w := bufio.NewWriter(cmd.OutOrStdout())
		if err := server.Export(w, &snap, q, now, a.cfg.Location); err != nil {
			return err
		}
		return w.Flush()
	}

	path := exportFlags.output
	if path == "" {
		path = q.Filename(now)
	}
	file, err := os.Create(path) //nolint:gosec // operator-supplied output path
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := server.Export(file, &snap, q, now, a.cfg.Location); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	a.log.Info("export written", "path", path, "source", snap.Source)
	return nil
}
