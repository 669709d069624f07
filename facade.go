package stargazer

import (
	"fmt"

	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-stargazer/adapters/gocommand"
	stargazercommand "github.com/goliatone/go-stargazer/command"
	stargazerquery "github.com/goliatone/go-stargazer/query"
)

type Commands struct {
	UpsertStarRecord *stargazercommand.UpsertStarRecordCommand
	ProcessDelivery  *stargazercommand.ProcessDeliveryCommand
}

type Queries struct {
	GetStarRecord   *stargazerquery.GetStarRecordQuery
	ListStarRecords *stargazerquery.ListStarRecordsQuery
}

// Facade exposes the service through go-command handlers.
type Facade struct {
	service  *Service
	commands Commands
	queries  Queries
}

func NewFacade(service *Service) (*Facade, error) {
	if service == nil || service.gateway == nil || service.processor == nil {
		return nil, fmt.Errorf("stargazer: service is required")
	}
	return &Facade{
		service: service,
		commands: Commands{
			UpsertStarRecord: stargazercommand.NewUpsertStarRecordCommand(service.gateway, service.now),
			ProcessDelivery:  stargazercommand.NewProcessDeliveryCommand(service.processor),
		},
		queries: Queries{
			GetStarRecord:   stargazerquery.NewGetStarRecordQuery(service.gateway),
			ListStarRecords: stargazerquery.NewListStarRecordsQuery(service.gateway),
		},
	}, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

// Register subscribes every handler on the go-command dispatcher.
func (f *Facade) Register(adapter *gocommand.RegistryAdapter) ([]commanddispatcher.Subscription, error) {
	if f == nil {
		return nil, fmt.Errorf("stargazer: facade is required")
	}
	return gocommand.RegisterHandlers(adapter, gocommand.Handlers{
		UpsertStarRecord: f.commands.UpsertStarRecord,
		ProcessDelivery:  f.commands.ProcessDelivery,
		GetStarRecord:    f.queries.GetStarRecord,
		ListStarRecords:  f.queries.ListStarRecords,
	})
}
