package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"doc-manager/internal/client"
	"doc-manager/internal/domain"
	"doc-manager/internal/view"
	"doc-manager/pkg/logger"

	"github.com/spf13/cobra"
)

const defaultServerURL = "http://localhost:8080"

type options struct {
	server  string
	search  string
	timeout time.Duration
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "docctl",
		Short:         "Upload and search PDF documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.server, "server", serverFromEnv(), "document manager base URL")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "request timeout")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(newUploadCmd(opts), newListCmd(opts))
	return root
}

func newUploadCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a PDF and print its extracted text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			v, err := newView(opts)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			v.SelectFile(filepath.Base(args[0]), content)
			uploadErr := v.Submit(ctx)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, v.Message())
			if uploadErr != nil {
				return fmt.Errorf("upload failed")
			}
			fmt.Fprintf(out, "URL: %s\n\n%s\n\n", v.PublicURL(), v.ExtractedText())

			v.SetSearch(opts.search)
			return printDocuments(out, v.Visible())
		},
	}
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "filter the refreshed list by name or text")
	return cmd
}

func newListCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List uploaded documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newView(opts)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			if err := v.Refresh(ctx); err != nil {
				return fmt.Errorf("fetch documents: %w", err)
			}
			v.SetSearch(opts.search)
			return printDocuments(cmd.OutOrStdout(), v.Visible())
		},
	}
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "filter by name or extracted text")
	return cmd
}

func newView(opts *options) (*view.DocumentView, error) {
	var appLogger *logger.AppLogger
	if opts.verbose {
		l, err := logger.NewLogger("dev", "debug")
		if err != nil {
			return nil, err
		}
		appLogger = l
	} else {
		appLogger = logger.NewNop()
	}
	return view.NewDocumentView(client.New(opts.server), appLogger), nil
}

func printDocuments(w io.Writer, docs []domain.Document) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTEXT\tURL")
	for _, doc := range docs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", doc.ID, doc.Name, preview(doc.ExtractedText, 48), doc.URL)
	}
	return tw.Flush()
}

// preview collapses whitespace and cuts s to at most n runes.
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func serverFromEnv() string {
	if v := os.Getenv("DOC_MANAGER_URL"); v != "" {
		return v
	}
	return defaultServerURL
}
