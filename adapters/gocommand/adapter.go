package gocommand

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	stargazercommand "github.com/goliatone/go-stargazer/command"
	"github.com/goliatone/go-stargazer/core"
	stargazerquery "github.com/goliatone/go-stargazer/query"
)

// ValidateMessageContract enforces Type() plus optional Validate() contract.
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(command.Message)
	if !ok {
		return fmt.Errorf("gocommand: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	return nil
}

type RegistryAdapter struct {
	registry *command.Registry
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) RegisterCommand(cmd any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(cmd)
}

func (a *RegistryAdapter) RegisterQuery(qry any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(qry)
}

func (a *RegistryAdapter) AddResolver(key string, resolver command.Resolver) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.AddResolver(strings.TrimSpace(key), resolver)
}

func (a *RegistryAdapter) HasResolver(key string) bool {
	if a == nil || a.registry == nil {
		return false
	}
	return a.registry.HasResolver(strings.TrimSpace(key))
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.Initialize()
}

func SubscribeCommand[T any](cmd command.Commander[T], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
}

func SubscribeCommandFunc[T any](handler command.CommandFunc[T], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeCommand(handler, runnerOpts...)
}

func SubscribeQuery[T any, R any](qry command.Querier[T, R], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeQuery(qry, runnerOpts...)
}

func SubscribeQueryFunc[T any, R any](qry command.QueryFunc[T, R], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeQuery(qry, runnerOpts...)
}

func Dispatch[T any](ctx context.Context, msg T) error {
	return commanddispatcher.Dispatch(ctx, msg)
}

func Query[T any, R any](ctx context.Context, msg T) (R, error) {
	return commanddispatcher.Query[T, R](ctx, msg)
}

func RegisterAndSubscribe[T any](
	adapter *RegistryAdapter,
	cmd command.Commander[T],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if cmd == nil {
		return nil, fmt.Errorf("gocommand: command is required")
	}
	subscription := SubscribeCommand(cmd, runnerOpts...)
	if err := adapter.RegisterCommand(cmd); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

func RegisterAndSubscribeQuery[T any, R any](
	adapter *RegistryAdapter,
	qry command.Querier[T, R],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if qry == nil {
		return nil, fmt.Errorf("gocommand: query is required")
	}
	subscription := SubscribeQuery(qry, runnerOpts...)
	if err := adapter.RegisterQuery(qry); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

// Handlers groups the stargazer command and query handlers that get wired
// into the dispatcher. Nil handlers are skipped.
type Handlers struct {
	UpsertStarRecord *stargazercommand.UpsertStarRecordCommand
	ProcessDelivery  *stargazercommand.ProcessDeliveryCommand
	GetStarRecord    *stargazerquery.GetStarRecordQuery
	ListStarRecords  *stargazerquery.ListStarRecordsQuery
}

// RegisterHandlers subscribes every configured handler and returns the
// subscriptions so callers can unsubscribe on shutdown.
func RegisterHandlers(adapter *RegistryAdapter, handlers Handlers) ([]commanddispatcher.Subscription, error) {
	subscriptions := make([]commanddispatcher.Subscription, 0, 4)
	rollback := func(err error) ([]commanddispatcher.Subscription, error) {
		for _, subscription := range subscriptions {
			subscription.Unsubscribe()
		}
		return nil, err
	}

	if handlers.UpsertStarRecord != nil {
		subscription, err := RegisterAndSubscribe[stargazercommand.UpsertStarRecordMessage](adapter, handlers.UpsertStarRecord)
		if err != nil {
			return rollback(err)
		}
		subscriptions = append(subscriptions, subscription)
	}
	if handlers.ProcessDelivery != nil {
		subscription, err := RegisterAndSubscribe[stargazercommand.ProcessDeliveryMessage](adapter, handlers.ProcessDelivery)
		if err != nil {
			return rollback(err)
		}
		subscriptions = append(subscriptions, subscription)
	}
	if handlers.GetStarRecord != nil {
		subscription, err := RegisterAndSubscribeQuery[stargazerquery.GetStarRecordMessage, core.StarRecord](adapter, handlers.GetStarRecord)
		if err != nil {
			return rollback(err)
		}
		subscriptions = append(subscriptions, subscription)
	}
	if handlers.ListStarRecords != nil {
		subscription, err := RegisterAndSubscribeQuery[stargazerquery.ListStarRecordsMessage, []core.StarRecord](adapter, handlers.ListStarRecords)
		if err != nil {
			return rollback(err)
		}
		subscriptions = append(subscriptions, subscription)
	}
	return subscriptions, nil
}
