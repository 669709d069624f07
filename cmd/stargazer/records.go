package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	stargazer "github.com/goliatone/go-stargazer"
	"github.com/goliatone/go-stargazer/adapters/gocommand"
	"github.com/goliatone/go-stargazer/adapters/gologger"
	stargazercommand "github.com/goliatone/go-stargazer/command"
	"github.com/goliatone/go-stargazer/core"
	stargazerquery "github.com/goliatone/go-stargazer/query"
	"github.com/urfave/cli/v3"
)

func recordsCommand() *cli.Command {
	return &cli.Command{
		Name:  "records",
		Usage: "read and write star records in the configured store",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "print one star record",
				ArgsUsage: "<organization> <name>",
				Action:    runRecordsGet,
			},
			{
				Name:      "list",
				Usage:     "print every star record of an organization",
				ArgsUsage: "<organization>",
				Action:    runRecordsList,
			},
			{
				Name:      "set",
				Usage:     "write a star record, bypassing the webhook pipeline",
				ArgsUsage: "<organization> <name> <stars> [last-updated]",
				Action:    runRecordsSet,
			},
		},
	}
}

// withDispatcher builds the service, subscribes its handlers and runs fn.
func withDispatcher(ctx context.Context, cmd *cli.Command, fn func(context.Context) error) error {
	root := cmd.Root()
	cfg, err := loadConfig(ctx, root.String("config"), nil)
	if err != nil {
		return err
	}
	provider := gologger.New(os.Stderr, root.String("log-format"), root.String("log-level"))

	svc, err := stargazer.NewService(ctx, cfg, stargazer.WithLoggerProvider(provider))
	if err != nil {
		return fmt.Errorf("setup service: %w", err)
	}
	defer svc.Close()

	facade, err := stargazer.NewFacade(svc)
	if err != nil {
		return err
	}
	subscriptions, err := facade.Register(gocommand.NewRegistryAdapter(nil))
	if err != nil {
		return fmt.Errorf("register handlers: %w", err)
	}
	defer func() {
		for _, subscription := range subscriptions {
			subscription.Unsubscribe()
		}
	}()
	return fn(ctx)
}

func runRecordsGet(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("usage: records get <organization> <name>")
	}
	msg := stargazerquery.GetStarRecordMessage{
		Organization: cmd.Args().Get(0),
		Name:         cmd.Args().Get(1),
	}
	return withDispatcher(ctx, cmd, func(ctx context.Context) error {
		record, err := gocommand.Query[stargazerquery.GetStarRecordMessage, core.StarRecord](ctx, msg)
		if err != nil {
			return err
		}
		return printJSON(output(cmd), record)
	})
}

func runRecordsList(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("usage: records list <organization>")
	}
	msg := stargazerquery.ListStarRecordsMessage{Organization: cmd.Args().Get(0)}
	return withDispatcher(ctx, cmd, func(ctx context.Context) error {
		records, err := gocommand.Query[stargazerquery.ListStarRecordsMessage, []core.StarRecord](ctx, msg)
		if err != nil {
			return err
		}
		if records == nil {
			records = []core.StarRecord{}
		}
		return printJSON(output(cmd), records)
	})
}

func runRecordsSet(ctx context.Context, cmd *cli.Command) error {
	msg, err := parseSetArgs(cmd.Args().Slice())
	if err != nil {
		return err
	}
	return withDispatcher(ctx, cmd, func(ctx context.Context) error {
		if err := gocommand.Dispatch(ctx, msg); err != nil {
			return err
		}
		record, err := gocommand.Query[stargazerquery.GetStarRecordMessage, core.StarRecord](ctx, stargazerquery.GetStarRecordMessage{
			Organization: msg.Record.Organization,
			Name:         msg.Record.Name,
		})
		if err != nil {
			return err
		}
		return printJSON(output(cmd), record)
	})
}

func parseSetArgs(args []string) (stargazercommand.UpsertStarRecordMessage, error) {
	if len(args) < 3 || len(args) > 4 {
		return stargazercommand.UpsertStarRecordMessage{}, fmt.Errorf("usage: records set <organization> <name> <stars> [last-updated]")
	}
	count, err := strconv.Atoi(args[2])
	if err != nil {
		return stargazercommand.UpsertStarRecordMessage{}, fmt.Errorf("stars must be an integer: %w", err)
	}
	msg := stargazercommand.UpsertStarRecordMessage{
		Record: core.StarRecord{
			Organization: args[0],
			Name:         args[1],
			Stars:        count,
		},
	}
	if len(args) == 4 {
		msg.Record.LastUpdated = args[3]
	}
	return msg, msg.Validate()
}

func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func printJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
