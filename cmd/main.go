package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var (
	apiURL   string
	apiToken string

	rootCmd = &cobra.Command{
		Use:           "assetdesk",
		Short:         "Asset register API server and command line client",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, background jobs and cache invalidation listener",
		Args:  cobra.NoArgs,
		RunE:  runServe, // Defined in serve.go
	}

	listCmd = &cobra.Command{
		Use:   "list <kind>",
		Short: "Search, filter, order and page a collection on a running server",
		Args:  cobra.ExactArgs(1),
		RunE:  runList, // Defined in remote.go
	}

	exportCmd = &cobra.Command{
		Use:   "export <kind>",
		Short: "Export every record matching the query as CSV or PDF",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport, // Defined in remote.go
	}

	deleteCmd = &cobra.Command{
		Use:   "delete <kind> <id>...",
		Short: "Delete one or more records and report each failure",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runDelete, // Defined in remote.go
	}

	tokenCmd = &cobra.Command{
		Use:   "token <subject>",
		Short: "Mint a development token signed with JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE:  runToken, // Defined in remote.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (default from API_URL)")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "bearer token (default from API_TOKEN)")

	for _, c := range []*cobra.Command{listCmd, exportCmd} {
		c.Flags().StringVarP(&listFlags.search, "search", "s", "", "search term")
		c.Flags().StringVarP(&listFlags.ordering, "ordering", "o", "", "order by field, prefix with - for descending")
		c.Flags().StringToStringVarP(&listFlags.filters, "filter", "f", nil, "equality filter field=value, repeatable")
	}
	listCmd.Flags().IntVar(&listFlags.page, "page", 1, "page number")
	listCmd.Flags().IntVar(&listFlags.pageSize, "page-size", 0, "records per page (default 10)")
	listCmd.Flags().BoolVar(&listFlags.json, "json", false, "print the page as JSON")

	exportCmd.Flags().StringVar(&exportFlags.format, "format", "csv", "csv or pdf")
	exportCmd.Flags().StringVar(&exportFlags.out, "out", "", "output file (default: generated name in the current directory)")
	exportCmd.Flags().BoolVar(&exportFlags.upload, "upload", false, "store the file on the server and print its link")

	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", tokenTTL, "token lifetime")

	rootCmd.AddCommand(serveCmd, listCmd, exportCmd, deleteCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
