package gocommand

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-command"
	stargazercommand "github.com/goliatone/go-stargazer/command"
	"github.com/goliatone/go-stargazer/core"
	stargazerquery "github.com/goliatone/go-stargazer/query"
	"github.com/goliatone/go-stargazer/stars"
	"github.com/goliatone/go-stargazer/store/memory"
)

type okMessage struct{}

func (okMessage) Type() string { return "stargazer.command.ok" }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "" }

type failingMessage struct{}

func (failingMessage) Type() string { return "stargazer.command.fail" }

func (failingMessage) Validate() error { return errors.New("invalid payload") }

type dispatchMessage struct {
	ID string
}

func (dispatchMessage) Type() string { return "stargazer.command.test" }

func TestValidateMessageContract(t *testing.T) {
	if err := ValidateMessageContract(okMessage{}); err != nil {
		t.Fatalf("expected valid message, got %v", err)
	}
	if err := ValidateMessageContract(invalidMessage{}); err == nil {
		t.Fatalf("expected empty type to fail contract validation")
	}
	if err := ValidateMessageContract(failingMessage{}); err == nil {
		t.Fatalf("expected Validate() failure to bubble")
	}
}

func TestRegistryAndDispatchWiring(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	executed := 0
	customResolverCalled := 0

	cmd := command.CommandFunc[dispatchMessage](func(context.Context, dispatchMessage) error {
		executed++
		return nil
	})

	if _, err := RegisterAndSubscribe(adapter, cmd); err != nil {
		t.Fatalf("register and subscribe: %v", err)
	}
	if err := adapter.AddResolver("custom", func(any, command.CommandMeta, *command.Registry) error {
		customResolverCalled++
		return nil
	}); err != nil {
		t.Fatalf("add resolver: %v", err)
	}
	if !adapter.HasResolver("custom") {
		t.Fatalf("expected custom resolver to be registered")
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}
	if customResolverCalled == 0 {
		t.Fatalf("expected resolver hook to run during initialization")
	}

	if err := Dispatch(context.Background(), dispatchMessage{ID: "m1"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if executed != 1 {
		t.Fatalf("expected command execution count=1, got %d", executed)
	}
}

func TestRegisterHandlersRoutesStarRecords(t *testing.T) {
	store := memory.NewStore()
	gateway, err := stars.NewGateway(store)
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}
	fixed := func() time.Time { return time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC) }

	adapter := NewRegistryAdapter(command.NewRegistry())
	subscriptions, err := RegisterHandlers(adapter, Handlers{
		UpsertStarRecord: stargazercommand.NewUpsertStarRecordCommand(gateway, fixed),
		GetStarRecord:    stargazerquery.NewGetStarRecordQuery(gateway),
		ListStarRecords:  stargazerquery.NewListStarRecordsQuery(gateway),
	})
	if err != nil {
		t.Fatalf("register handlers: %v", err)
	}
	defer func() {
		for _, subscription := range subscriptions {
			subscription.Unsubscribe()
		}
	}()
	if len(subscriptions) != 3 {
		t.Fatalf("expected 3 subscriptions, got %d", len(subscriptions))
	}

	ctx := context.Background()
	for _, name := range []string{"beta", "alpha"} {
		msg := stargazercommand.UpsertStarRecordMessage{Record: core.StarRecord{Organization: "octo", Name: name, Stars: 3}}
		if err := Dispatch(ctx, msg); err != nil {
			t.Fatalf("dispatch upsert %s: %v", name, err)
		}
	}

	record, err := Query[stargazerquery.GetStarRecordMessage, core.StarRecord](ctx, stargazerquery.GetStarRecordMessage{Organization: "octo", Name: "alpha"})
	if err != nil {
		t.Fatalf("query record: %v", err)
	}
	if record.FullName != "octo/alpha" || record.Stars != 3 || record.LastUpdated != "2024-03-04T05:06:07.000Z" {
		t.Fatalf("unexpected record %+v", record)
	}

	records, err := Query[stargazerquery.ListStarRecordsMessage, []core.StarRecord](ctx, stargazerquery.ListStarRecordsMessage{Organization: "octo"})
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 2 || records[0].Name != "alpha" || records[1].Name != "beta" {
		t.Fatalf("unexpected list %+v", records)
	}
}

func TestRegisterHandlersRequiresAdapter(t *testing.T) {
	_, err := RegisterHandlers(nil, Handlers{
		UpsertStarRecord: stargazercommand.NewUpsertStarRecordCommand(nil, nil),
	})
	if err == nil {
		t.Fatalf("expected missing adapter to fail")
	}
}
