package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-fanout-go"
	"github.com/lex00/wetwire-fanout-go/internal/fanout"
)

func newListCmd() *cobra.Command {
	var (
		flags        pipelineFlags
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entities with their sanitized names and ports",
		Long: `List shows how every input line is sanitized and which port it gets.

Examples:
    wetwire-fanout list
    wetwire-fanout list --port-strategy stable --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, &flags, outputFormat)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func runList(cmd *cobra.Command, flags *pipelineFlags, format string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	p, err := runPipeline(cmd.Context(), cmd, flags, log)
	if err != nil {
		return err
	}
	return outputListResult(cmd.OutOrStdout(), listResult(p.result.Entities), format)
}

func listResult(entities []fanout.Entity) wetwire.ListResult {
	result := wetwire.ListResult{Entities: make([]wetwire.Entity, 0, len(entities))}
	for _, e := range entities {
		result.Entities = append(result.Entities, wetwire.Entity{
			Index: e.Index,
			Raw:   e.Raw,
			Name:  e.Name,
			Port:  e.Port,
			Path:  e.Path(),
		})
	}
	return result
}

func outputListResult(out io.Writer, result wetwire.ListResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))

	case "text":
		if len(result.Entities) == 0 {
			fmt.Fprintln(out, "No entities found.")
			return nil
		}

		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"#", "Raw", "Name", "Port", "Path"})
		table.SetAutoWrapText(false)
		for _, e := range result.Entities {
			table.Append([]string{strconv.Itoa(e.Index), e.Raw, e.Name, strconv.Itoa(e.Port), e.Path})
		}
		table.Render()

	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}
