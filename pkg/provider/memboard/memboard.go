// Package memboard implements an in-memory board provider used for
// development runs and contract testing. State can be seeded from a YAML
// board file or constructed directly.
package memboard

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"boardkit/pkg/domain/board"
)

// boardFile is the on-disk shape of a mock board.
type boardFile struct {
	Iterations []iterationEntry `yaml:"iterations"`
	Items      []itemEntry      `yaml:"items"`
}

type iterationEntry struct {
	ID           string     `yaml:"id"`
	Title        string     `yaml:"title"`
	StartDate    board.Date `yaml:"start_date"`
	DurationDays int        `yaml:"duration_days"`
}

type itemEntry struct {
	ID        string     `yaml:"id"`
	Number    int        `yaml:"number"`
	Title     string     `yaml:"title"`
	Iteration string     `yaml:"iteration"`
	DueDate   board.Date `yaml:"due_date"`
}

// Provider is an in-memory board. Mutations apply to the held state, so
// repeated engine runs observe their own earlier updates, which is what
// idempotence testing needs.
type Provider struct {
	mu          sync.Mutex
	initialized bool
	iterations  []board.Iteration
	order       []string
	items       map[string]*board.Item
}

// New builds a provider over literal state.
func New(iterations []board.Iteration, items []board.Item) *Provider {
	p := &Provider{
		iterations: iterations,
		items:      make(map[string]*board.Item, len(items)),
	}
	for i := range items {
		it := items[i]
		p.items[it.ID] = &it
		p.order = append(p.order, it.ID)
	}
	return p
}

// Load reads a mock board file.
func Load(path string) (*Provider, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("reading board file: %w", err)
	}
	var bf boardFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("parsing board file %s: %w", path, err)
	}

	iterations := make([]board.Iteration, 0, len(bf.Iterations))
	for _, e := range bf.Iterations {
		iterations = append(iterations, board.Iteration{
			ID:           e.ID,
			Title:        e.Title,
			StartDate:    e.StartDate,
			DurationDays: e.DurationDays,
		})
	}
	items := make([]board.Item, 0, len(bf.Items))
	for _, e := range bf.Items {
		title := e.Title
		if title == "" {
			title = board.DraftItemTitle
		}
		items = append(items, board.Item{
			ID:             e.ID,
			ContentType:    board.ContentTypeIssue,
			Number:         e.Number,
			Title:          title,
			IterationTitle: e.Iteration,
			DueDate:        e.DueDate,
		})
	}
	return New(iterations, items), nil
}

// Init checks the handshake config. A "board" key reloads state from the
// named file; fail=true simulates an auth failure for contract tests.
func (p *Provider) Init(config map[string]string) error {
	if config["fail"] == "true" {
		return errors.New("mock provider: init refused (fail=true)")
	}
	if path := config["board"]; path != "" {
		loaded, err := Load(path)
		if err != nil {
			return err
		}
		p.mu.Lock()
		p.iterations = loaded.iterations
		p.items = loaded.items
		p.order = loaded.order
		p.mu.Unlock()
	}
	p.mu.Lock()
	p.initialized = true
	p.mu.Unlock()
	return nil
}

// ListIterations returns the configured iteration sequence in order.
func (p *Provider) ListIterations(fieldName string) ([]board.Iteration, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]board.Iteration, len(p.iterations))
	copy(out, p.iterations)
	return out, nil
}

// ListItems returns all items in their original order.
func (p *Provider) ListItems() ([]board.Item, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]board.Item, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, *p.items[id])
	}
	return out, nil
}

// SetItemIteration assigns the iteration named by iterationID to an item.
func (p *Provider) SetItemIteration(itemID, fieldID, iterationID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	item, ok := p.items[itemID]
	if !ok {
		return fmt.Errorf("mock provider: unknown item %s", itemID)
	}
	for _, it := range p.iterations {
		if it.ID == iterationID {
			item.IterationTitle = it.Title
			return nil
		}
	}
	return fmt.Errorf("mock provider: unknown iteration %s", iterationID)
}

// SetItemDueDate assigns a due date to an item.
func (p *Provider) SetItemDueDate(itemID, fieldID string, date board.Date) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	item, ok := p.items[itemID]
	if !ok {
		return fmt.Errorf("mock provider: unknown item %s", itemID)
	}
	item.DueDate = date
	return nil
}
