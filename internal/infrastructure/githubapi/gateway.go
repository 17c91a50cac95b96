package githubapi

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"boardkit/pkg/domain"
	"boardkit/pkg/domain/board"
)

const resolveOrgProjectQuery = `query($owner: String!, $number: Int!) {
	organization(login: $owner) {
		projectV2(number: $number) { id number title }
	}
}`

const resolveUserProjectQuery = `query($owner: String!, $number: Int!) {
	user(login: $owner) {
		projectV2(number: $number) { id number title }
	}
}`

const iterationFieldQuery = `query($project: ID!, $field: String!) {
	node(id: $project) {
		... on ProjectV2 {
			field(name: $field) {
				... on ProjectV2IterationField {
					id name dataType
					configuration {
						iterations { id title startDate duration }
						completedIterations { id title startDate duration }
					}
				}
			}
		}
	}
}`

const listFieldsQuery = `query($project: ID!) {
	node(id: $project) {
		... on ProjectV2 {
			fields(first: 50) {
				nodes {
					... on ProjectV2FieldCommon { id name dataType }
				}
			}
		}
	}
}`

const listItemsQuery = `query($project: ID!, $cursor: String) {
	node(id: $project) {
		... on ProjectV2 {
			items(first: 100, after: $cursor) {
				pageInfo { hasNextPage endCursor }
				nodes {
					id
					content {
						__typename
						... on Issue { number title }
						... on PullRequest { number title }
						... on DraftIssue { title }
					}
					fieldValues(first: 20) {
						nodes {
							... on ProjectV2ItemFieldIterationValue {
								title iterationId
								field { ... on ProjectV2FieldCommon { name } }
							}
							... on ProjectV2ItemFieldDateValue {
								date
								field { ... on ProjectV2FieldCommon { name } }
							}
						}
					}
				}
			}
		}
	}
}`

const setIterationMutation = `mutation($project: ID!, $item: ID!, $field: ID!, $iteration: String!) {
	updateProjectV2ItemFieldValue(input: {
		projectId: $project, itemId: $item, fieldId: $field,
		value: { iterationId: $iteration }
	}) { projectV2Item { id } }
}`

const setDateMutation = `mutation($project: ID!, $item: ID!, $field: ID!, $date: Date!) {
	updateProjectV2ItemFieldValue(input: {
		projectId: $project, itemId: $item, fieldId: $field,
		value: { date: $date }
	}) { projectV2Item { id } }
}`

const createDateFieldMutation = `mutation($project: ID!, $name: String!) {
	createProjectV2Field(input: { projectId: $project, dataType: DATE, name: $name }) {
		projectV2Field { ... on ProjectV2FieldCommon { id name dataType } }
	}
}`

const addItemMutation = `mutation($project: ID!, $content: ID!) {
	addProjectV2ItemById(input: { projectId: $project, contentId: $content }) {
		item { id }
	}
}`

type projectNode struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Title  string `json:"title"`
}

type iterationNode struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StartDate string `json:"startDate"`
	Duration  int    `json:"duration"`
}

type fieldNode struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	DataType string `json:"dataType"`
}

// Gateway drives one GitHub Project v2 through the GraphQL API. It
// implements board.FieldAdmin; every call is attempted exactly once.
type Gateway struct {
	client        *Client
	owner         string
	ownerType     string
	number        int
	iterFieldName string
	dueFieldName  string
	logger        *slog.Logger

	mu        sync.Mutex
	projectID string
}

// NewGateway binds a client to the project named by the workspace
// configuration.
func NewGateway(client *Client, cfg *domain.Config, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		client:        client,
		owner:         cfg.Owner,
		ownerType:     cfg.OwnerType,
		number:        cfg.ProjectNumber,
		iterFieldName: cfg.IterationFieldName(),
		dueFieldName:  cfg.DueDateFieldName(),
		logger:        logger,
	}
}

// ResolveProject maps owner/number to the project node.
func (g *Gateway) ResolveProject(ctx context.Context) (board.Project, error) {
	query := resolveOrgProjectQuery
	if g.ownerType == domain.OwnerTypeUser {
		query = resolveUserProjectQuery
	}

	var resp struct {
		Organization *struct {
			ProjectV2 *projectNode `json:"projectV2"`
		} `json:"organization"`
		User *struct {
			ProjectV2 *projectNode `json:"projectV2"`
		} `json:"user"`
	}
	err := g.client.Do(ctx, query, map[string]any{"owner": g.owner, "number": g.number}, &resp)
	if err != nil {
		return board.Project{}, err
	}

	var node *projectNode
	switch {
	case resp.Organization != nil:
		node = resp.Organization.ProjectV2
	case resp.User != nil:
		node = resp.User.ProjectV2
	}
	if node == nil {
		return board.Project{}, fmt.Errorf("%w: %s/%d", board.ErrProjectNotFound, g.owner, g.number)
	}

	g.mu.Lock()
	g.projectID = node.ID
	g.mu.Unlock()

	return board.Project{ID: node.ID, Number: node.Number, Title: node.Title, Owner: g.owner}, nil
}

func (g *Gateway) ensureProject(ctx context.Context) (string, error) {
	g.mu.Lock()
	id := g.projectID
	g.mu.Unlock()
	if id != "" {
		return id, nil
	}
	project, err := g.ResolveProject(ctx)
	if err != nil {
		return "", err
	}
	return project.ID, nil
}

// ListIterations reads the full iteration schedule of the named field,
// completed sprints included, ordered by start date.
func (g *Gateway) ListIterations(ctx context.Context, fieldName string) (board.Field, []board.Iteration, error) {
	projectID, err := g.ensureProject(ctx)
	if err != nil {
		return board.Field{}, nil, err
	}

	var resp struct {
		Node struct {
			Field *struct {
				fieldNode
				Configuration struct {
					Iterations          []iterationNode `json:"iterations"`
					CompletedIterations []iterationNode `json:"completedIterations"`
				} `json:"configuration"`
			} `json:"field"`
		} `json:"node"`
	}
	err = g.client.Do(ctx, iterationFieldQuery, map[string]any{"project": projectID, "field": fieldName}, &resp)
	if err != nil {
		return board.Field{}, nil, err
	}
	if resp.Node.Field == nil || resp.Node.Field.ID == "" {
		return board.Field{}, nil, &board.FieldNotFoundError{Name: fieldName}
	}

	field := board.Field{
		ID:   resp.Node.Field.ID,
		Name: resp.Node.Field.Name,
		Type: resp.Node.Field.DataType,
	}
	if field.Type != board.FieldTypeIteration {
		return board.Field{}, nil, &board.FieldNotFoundError{Name: fieldName}
	}

	nodes := append(resp.Node.Field.Configuration.CompletedIterations, resp.Node.Field.Configuration.Iterations...)
	iterations := make([]board.Iteration, 0, len(nodes))
	for _, n := range nodes {
		start, err := board.ParseDate(n.StartDate)
		if err != nil {
			return board.Field{}, nil, fmt.Errorf("iteration %q: %w", n.Title, err)
		}
		iterations = append(iterations, board.Iteration{
			ID:           n.ID,
			Title:        n.Title,
			StartDate:    start,
			DurationDays: n.Duration,
		})
	}
	sort.Slice(iterations, func(i, j int) bool {
		return iterations[i].StartDate.Before(iterations[j].StartDate)
	})

	return field, iterations, nil
}

// FindDateField locates a DATE field by the configured name or one of
// the accepted aliases.
func (g *Gateway) FindDateField(ctx context.Context, name string) (board.Field, error) {
	projectID, err := g.ensureProject(ctx)
	if err != nil {
		return board.Field{}, err
	}

	var resp struct {
		Node struct {
			Fields struct {
				Nodes []fieldNode `json:"nodes"`
			} `json:"fields"`
		} `json:"node"`
	}
	if err := g.client.Do(ctx, listFieldsQuery, map[string]any{"project": projectID}, &resp); err != nil {
		return board.Field{}, err
	}

	for _, n := range resp.Node.Fields.Nodes {
		if n.DataType != board.FieldTypeDate {
			continue
		}
		if matchesDateField(n.Name, name) {
			return board.Field{ID: n.ID, Name: n.Name, Type: n.DataType}, nil
		}
	}
	tried := append([]string{name}, board.DateFieldAliases...)
	return board.Field{}, &board.FieldNotFoundError{Name: name, Tried: tried}
}

func matchesDateField(fieldName, configured string) bool {
	if fieldName == configured {
		return true
	}
	for _, alias := range board.DateFieldAliases {
		if fieldName == alias {
			return true
		}
	}
	return false
}

// ListItems pages through all project items and carries each one's
// iteration and due-date values, matched by field name so renamed or
// aliased fields still count.
func (g *Gateway) ListItems(ctx context.Context) ([]board.Item, error) {
	projectID, err := g.ensureProject(ctx)
	if err != nil {
		return nil, err
	}

	var items []board.Item
	cursor := ""
	for {
		variables := map[string]any{"project": projectID}
		if cursor != "" {
			variables["cursor"] = cursor
		}

		var resp struct {
			Node struct {
				Items struct {
					PageInfo struct {
						HasNextPage bool   `json:"hasNextPage"`
						EndCursor   string `json:"endCursor"`
					} `json:"pageInfo"`
					Nodes []struct {
						ID      string `json:"id"`
						Content *struct {
							Typename string `json:"__typename"`
							Number   int    `json:"number"`
							Title    string `json:"title"`
						} `json:"content"`
						FieldValues struct {
							Nodes []struct {
								Title       string `json:"title"`
								IterationID string `json:"iterationId"`
								Date        string `json:"date"`
								Field       struct {
									Name string `json:"name"`
								} `json:"field"`
							} `json:"nodes"`
						} `json:"fieldValues"`
					} `json:"nodes"`
				} `json:"items"`
			} `json:"node"`
		}
		if err := g.client.Do(ctx, listItemsQuery, variables, &resp); err != nil {
			return nil, err
		}

		for _, n := range resp.Node.Items.Nodes {
			item := board.Item{ID: n.ID, ContentType: board.ContentTypeDraftIssue, Title: board.DraftItemTitle}
			if n.Content != nil {
				if n.Content.Typename != "" {
					item.ContentType = n.Content.Typename
				}
				item.Number = n.Content.Number
				if n.Content.Title != "" {
					item.Title = n.Content.Title
				}
			}
			for _, v := range n.FieldValues.Nodes {
				switch {
				case v.IterationID != "" && v.Field.Name == g.iterFieldName:
					item.IterationTitle = v.Title
				case v.Date != "" && matchesDateField(v.Field.Name, g.dueFieldName):
					due, err := board.ParseDate(v.Date)
					if err != nil {
						return nil, fmt.Errorf("item %s due date: %w", n.ID, err)
					}
					item.DueDate = due
				}
			}
			items = append(items, item)
		}

		if !resp.Node.Items.PageInfo.HasNextPage {
			break
		}
		cursor = resp.Node.Items.PageInfo.EndCursor
	}

	return items, nil
}

// SetItemIteration assigns the iteration in one mutation.
func (g *Gateway) SetItemIteration(ctx context.Context, itemID, fieldID, iterationID string) error {
	projectID, err := g.ensureProject(ctx)
	if err != nil {
		return err
	}
	err = g.client.Do(ctx, setIterationMutation, map[string]any{
		"project": projectID, "item": itemID, "field": fieldID, "iteration": iterationID,
	}, nil)
	if err != nil {
		return &board.UpdateError{ItemID: itemID, Field: g.iterFieldName, Err: err}
	}
	return nil
}

// SetItemDueDate assigns the due date in one mutation.
func (g *Gateway) SetItemDueDate(ctx context.Context, itemID, fieldID string, date board.Date) error {
	projectID, err := g.ensureProject(ctx)
	if err != nil {
		return err
	}
	err = g.client.Do(ctx, setDateMutation, map[string]any{
		"project": projectID, "item": itemID, "field": fieldID, "date": date.String(),
	}, nil)
	if err != nil {
		return &board.UpdateError{ItemID: itemID, Field: g.dueFieldName, Err: err}
	}
	return nil
}

// CreateDateField provisions a DATE field on the project.
func (g *Gateway) CreateDateField(ctx context.Context, name string) (board.Field, error) {
	projectID, err := g.ensureProject(ctx)
	if err != nil {
		return board.Field{}, err
	}

	var resp struct {
		CreateProjectV2Field struct {
			ProjectV2Field fieldNode `json:"projectV2Field"`
		} `json:"createProjectV2Field"`
	}
	err = g.client.Do(ctx, createDateFieldMutation, map[string]any{"project": projectID, "name": name}, &resp)
	if err != nil {
		return board.Field{}, fmt.Errorf("failed to create field %q: %w", name, err)
	}

	created := resp.CreateProjectV2Field.ProjectV2Field
	g.logger.Info("date field created", "field", created.Name, "id", created.ID)
	return board.Field{ID: created.ID, Name: created.Name, Type: created.DataType}, nil
}

// AddItem puts existing content onto the board.
func (g *Gateway) AddItem(ctx context.Context, contentNodeID string) (string, error) {
	projectID, err := g.ensureProject(ctx)
	if err != nil {
		return "", err
	}

	var resp struct {
		AddProjectV2ItemByID struct {
			Item struct {
				ID string `json:"id"`
			} `json:"item"`
		} `json:"addProjectV2ItemById"`
	}
	err = g.client.Do(ctx, addItemMutation, map[string]any{"project": projectID, "content": contentNodeID}, &resp)
	if err != nil {
		return "", fmt.Errorf("failed to add item: %w", err)
	}
	return resp.AddProjectV2ItemByID.Item.ID, nil
}
