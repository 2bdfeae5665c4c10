package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/recurly-client/internal/constants"
	"github.com/fivetwenty-io/recurly-client/pkg/recurly"
)

const timeLayout = "2006-01-02 15:04:05"

// outputFormat returns the configured output format, defaulting to table.
func outputFormat() string {
	format := strings.ToLower(strings.TrimSpace(viper.GetString("output")))
	if format == "" {
		return constants.FormatTable
	}

	return format
}

// writeStructured encodes v as JSON or YAML when that output was requested.
// It reports false for table output, leaving rendering to the caller.
func writeStructured(w io.Writer, v any) (bool, error) {
	switch outputFormat() {
	case constants.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		err := encoder.Encode(v)
		if err != nil {
			return true, fmt.Errorf("failed to encode output as JSON: %w", err)
		}

		return true, nil
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(w)

		err := encoder.Encode(v)
		if err != nil {
			return true, fmt.Errorf("failed to encode output as YAML: %w", err)
		}

		err = encoder.Close()
		if err != nil {
			return true, fmt.Errorf("failed to encode output as YAML: %w", err)
		}

		return true, nil
	case constants.FormatTable:
		return false, nil
	default:
		return true, fmt.Errorf("%w: %q", constants.ErrInvalidOutputFormat, outputFormat())
	}
}

func newTable(w io.Writer, headers ...any) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(headers...)

	return table
}

func renderTable(table *tablewriter.Table) error {
	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderProperties prints name/value pairs as a two-column table.
func renderProperties(w io.Writer, rows [][]string) error {
	table := newTable(w, "Property", "Value")

	for _, row := range rows {
		_ = table.Append(row[0], row[1])
	}

	return renderTable(table)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return constants.NotAvailable
	}

	return t.Format(timeLayout)
}

func formatCents(cents int, currency string) string {
	amount := decimal.New(int64(cents), -2).StringFixed(2)
	if currency == "" {
		return amount
	}

	return amount + " " + currency
}

func orNA(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

// linkedKey names the target of link: its key when the resource is known,
// otherwise the last segment of its href.
func linkedKey[T any](link *recurly.Link[T]) string {
	if key := link.KeyOf(); key != "" {
		return key
	}

	if href := link.Href(); href != "" {
		return path.Base(href)
	}

	return constants.NotAvailable
}

func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

// listFlags are the filter flags shared by every list command.
type listFlags struct {
	state     string
	sort      string
	order     string
	beginTime string
	endTime   string
	perPage   int
	all       bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.state, "state", "", "filter by state")
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort by created_at or updated_at")
	cmd.Flags().StringVar(&f.order, "order", "", "sort order (asc, desc)")
	cmd.Flags().StringVar(&f.beginTime, "begin-time", "", "only records at or after this time (RFC3339 format)")
	cmd.Flags().StringVar(&f.endTime, "end-time", "", "only records before this time (RFC3339 format)")
	cmd.Flags().IntVar(&f.perPage, "per-page", constants.StandardPageSize, "results per page")
	cmd.Flags().BoolVar(&f.all, "all", false, "fetch all pages")
}

func (f *listFlags) criteria() (*recurly.FilterCriteria, error) {
	begin, err := parseFlagTime(f.beginTime)
	if err != nil {
		return nil, err
	}

	end, err := parseFlagTime(f.endTime)
	if err != nil {
		return nil, err
	}

	perPage := min(f.perPage, constants.MaxPageSize)

	return recurly.ListOptions{
		State:     f.state,
		Sort:      recurly.SortField(f.sort),
		Order:     recurly.SortOrder(f.order),
		PerPage:   perPage,
		BeginTime: begin,
		EndTime:   end,
	}.Criteria(), nil
}

func parseFlagTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", constants.ErrInvalidTime, value)
	}

	return t, nil
}

// page is what a list command prints: the fetched items and whether more
// pages were left unfetched.
type page[T any] struct {
	items []*T
	total int
	known bool
	more  bool
}

// fetchPage reads the first page of list, or every page when all is set.
func fetchPage[T any](cmd *cobra.Command, list *recurly.List[T], all bool) (*page[T], error) {
	ctx := cmd.Context()
	result := &page[T]{}

	var err error

	if all {
		result.items, err = list.Collect(ctx)
	} else {
		result.items, err = list.Items(ctx)
	}

	if err != nil {
		return nil, err
	}

	result.total, result.known, err = list.Total(ctx)
	if err != nil {
		return nil, err
	}

	if !all {
		result.more, err = list.HasNext(ctx)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func printPageFooter[T any](cmd *cobra.Command, p *page[T]) {
	if !p.more {
		return
	}

	if p.known {
		printf(cmd, "\nShowing %d of %d. Use --all to fetch all pages.\n", len(p.items), p.total)

		return
	}

	printf(cmd, "\nShowing %d. Use --all to fetch all pages.\n", len(p.items))
}
