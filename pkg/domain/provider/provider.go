// Package provider defines the board provider plugin contract: the
// operations an external board backend must expose so the assignment
// engine can drive it over a go-plugin net/rpc connection.
package provider

import (
	"net/rpc"

	"github.com/hashicorp/go-plugin"

	"boardkit/pkg/domain/board"
)

// Provider is the interface board backend plugins must implement.
type Provider interface {
	// Init hands the plugin its configuration and checks connectivity.
	Init(config map[string]string) error

	// ListIterations reads the configured iteration sequence for a named
	// iteration-type field.
	ListIterations(fieldName string) ([]board.Iteration, error)

	// ListItems reads all project items with their current field values.
	ListItems() ([]board.Item, error)

	// SetItemIteration assigns an iteration field value on one item.
	SetItemIteration(itemID, fieldID, iterationID string) error

	// SetItemDueDate assigns a date field value on one item.
	SetItemDueDate(itemID, fieldID string, date board.Date) error
}

// BoardPlugin is the plugin.Plugin implementation for serving/consuming
// a Provider over net/rpc.
type BoardPlugin struct {
	Impl Provider
}

func (p *BoardPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	return &ProviderRPCServer{Impl: p.Impl}, nil
}

func (p *BoardPlugin) Client(b *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &ProviderRPCClient{Client: c}, nil
}

// RPC argument types.

type ListIterationsArgs struct {
	FieldName string
}

type SetIterationArgs struct {
	ItemID      string
	FieldID     string
	IterationID string
}

type SetDueDateArgs struct {
	ItemID  string
	FieldID string
	Date    board.Date
}

// ProviderRPCClient is the client half of the Provider bridge.
type ProviderRPCClient struct{ Client *rpc.Client }

func (g *ProviderRPCClient) Init(config map[string]string) error {
	var resp interface{}
	return g.Client.Call("Plugin.Init", config, &resp)
}

func (g *ProviderRPCClient) ListIterations(fieldName string) ([]board.Iteration, error) {
	var resp []board.Iteration
	err := g.Client.Call("Plugin.ListIterations", &ListIterationsArgs{FieldName: fieldName}, &resp)
	return resp, err
}

func (g *ProviderRPCClient) ListItems() ([]board.Item, error) {
	var resp []board.Item
	err := g.Client.Call("Plugin.ListItems", struct{}{}, &resp)
	return resp, err
}

func (g *ProviderRPCClient) SetItemIteration(itemID, fieldID, iterationID string) error {
	var resp interface{}
	args := &SetIterationArgs{ItemID: itemID, FieldID: fieldID, IterationID: iterationID}
	return g.Client.Call("Plugin.SetItemIteration", args, &resp)
}

func (g *ProviderRPCClient) SetItemDueDate(itemID, fieldID string, date board.Date) error {
	var resp interface{}
	args := &SetDueDateArgs{ItemID: itemID, FieldID: fieldID, Date: date}
	return g.Client.Call("Plugin.SetItemDueDate", args, &resp)
}

// ProviderRPCServer is the server half of the Provider bridge.
type ProviderRPCServer struct{ Impl Provider }

func (s *ProviderRPCServer) Init(config map[string]string, resp *interface{}) error {
	return s.Impl.Init(config)
}

func (s *ProviderRPCServer) ListIterations(args *ListIterationsArgs, resp *[]board.Iteration) error {
	iterations, err := s.Impl.ListIterations(args.FieldName)
	*resp = iterations
	return err
}

func (s *ProviderRPCServer) ListItems(args struct{}, resp *[]board.Item) error {
	items, err := s.Impl.ListItems()
	*resp = items
	return err
}

func (s *ProviderRPCServer) SetItemIteration(args *SetIterationArgs, resp *interface{}) error {
	return s.Impl.SetItemIteration(args.ItemID, args.FieldID, args.IterationID)
}

func (s *ProviderRPCServer) SetItemDueDate(args *SetDueDateArgs, resp *interface{}) error {
	return s.Impl.SetItemDueDate(args.ItemID, args.FieldID, args.Date)
}
