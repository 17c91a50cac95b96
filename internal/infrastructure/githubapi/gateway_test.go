package githubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"boardkit/pkg/domain"
	"boardkit/pkg/domain/board"
)

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func newTestGateway(t *testing.T, handler func(req gqlRequest) (string, bool)) (*Gateway, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		payload, ok := handler(req)
		if !ok {
			t.Fatalf("unexpected query: %s", req.Query)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, payload)
	}))
	t.Cleanup(server.Close)

	cfg := &domain.Config{
		Owner:          "acme",
		OwnerType:      domain.OwnerTypeOrganization,
		ProjectNumber:  7,
		IterationField: "Iteration",
		DueDateField:   "Due Date",
	}
	return NewGateway(NewClient(server.URL, "test-token"), cfg, nil), server
}

const projectPayload = `{"data":{"organization":{"projectV2":{"id":"proj-1","number":7,"title":"Thermostat Savings"}}}}`

func TestGateway_ResolveProject(t *testing.T) {
	var projectQueries int
	gw, _ := newTestGateway(t, func(req gqlRequest) (string, bool) {
		if strings.Contains(req.Query, "organization(login:") {
			projectQueries++
			if req.Variables["owner"] != "acme" || req.Variables["number"] != float64(7) {
				t.Errorf("variables = %v", req.Variables)
			}
			return projectPayload, true
		}
		if strings.Contains(req.Query, "fields(first:") {
			return `{"data":{"node":{"fields":{"nodes":[{"id":"f-due","name":"Due Date","dataType":"DATE"}]}}}}`, true
		}
		return "", false
	})

	project, err := gw.ResolveProject(context.Background())
	if err != nil {
		t.Fatalf("ResolveProject() error = %v", err)
	}
	if project.ID != "proj-1" || project.Number != 7 || project.Owner != "acme" {
		t.Errorf("project = %+v", project)
	}

	// The resolved ID is cached for later calls.
	if _, err := gw.FindDateField(context.Background(), "Due Date"); err != nil {
		t.Fatalf("FindDateField() error = %v", err)
	}
	if projectQueries != 1 {
		t.Errorf("project queries = %d, want 1", projectQueries)
	}
}

func TestGateway_ResolveProject_NotFound(t *testing.T) {
	gw, _ := newTestGateway(t, func(req gqlRequest) (string, bool) {
		return `{"data":{"organization":{"projectV2":null}}}`, true
	})

	_, err := gw.ResolveProject(context.Background())
	if !errors.Is(err, board.ErrProjectNotFound) {
		t.Errorf("error = %v, want %v", err, board.ErrProjectNotFound)
	}
}

func TestGateway_ListIterations(t *testing.T) {
	gw, _ := newTestGateway(t, func(req gqlRequest) (string, bool) {
		switch {
		case strings.Contains(req.Query, "organization(login:"):
			return projectPayload, true
		case strings.Contains(req.Query, "field(name:"):
			if req.Variables["field"] != "Iteration" {
				t.Errorf("field variable = %v", req.Variables["field"])
			}
			return `{"data":{"node":{"field":{
				"id":"f-iter","name":"Iteration","dataType":"ITERATION",
				"configuration":{
					"iterations":[{"id":"it-3","title":"Sprint 3","startDate":"2026-02-16","duration":7}],
					"completedIterations":[
						{"id":"it-2","title":"Sprint 2","startDate":"2026-02-09","duration":7},
						{"id":"it-1","title":"Sprint 1","startDate":"2026-02-02","duration":7}
					]
				}}}}}`, true
		}
		return "", false
	})

	field, iterations, err := gw.ListIterations(context.Background(), "Iteration")
	if err != nil {
		t.Fatalf("ListIterations() error = %v", err)
	}
	if field.ID != "f-iter" || field.Type != board.FieldTypeIteration {
		t.Errorf("field = %+v", field)
	}
	if len(iterations) != 3 {
		t.Fatalf("iterations = %d, want 3", len(iterations))
	}
	for i, want := range []string{"Sprint 1", "Sprint 2", "Sprint 3"} {
		if iterations[i].Title != want {
			t.Errorf("iteration %d = %q, want %q (sorted by start)", i, iterations[i].Title, want)
		}
	}
	if iterations[0].DurationDays != 7 {
		t.Errorf("duration = %d, want 7", iterations[0].DurationDays)
	}
}

func TestGateway_ListIterations_MissingField(t *testing.T) {
	gw, _ := newTestGateway(t, func(req gqlRequest) (string, bool) {
		switch {
		case strings.Contains(req.Query, "organization(login:"):
			return projectPayload, true
		case strings.Contains(req.Query, "field(name:"):
			return `{"data":{"node":{"field":null}}}`, true
		}
		return "", false
	})

	_, _, err := gw.ListIterations(context.Background(), "Iteration")
	if !errors.Is(err, board.ErrFieldNotFound) {
		t.Errorf("error = %v, want %v", err, board.ErrFieldNotFound)
	}
}

func TestGateway_FindDateField_Alias(t *testing.T) {
	gw, _ := newTestGateway(t, func(req gqlRequest) (string, bool) {
		switch {
		case strings.Contains(req.Query, "organization(login:"):
			return projectPayload, true
		case strings.Contains(req.Query, "fields(first:"):
			return `{"data":{"node":{"fields":{"nodes":[
				{"id":"f-text","name":"Due Date","dataType":"TEXT"},
				{"id":"f-target","name":"Target date","dataType":"DATE"}
			]}}}}`, true
		}
		return "", false
	})

	field, err := gw.FindDateField(context.Background(), "Due Date")
	if err != nil {
		t.Fatalf("FindDateField() error = %v", err)
	}
	if field.ID != "f-target" {
		t.Errorf("field = %+v, want the aliased DATE field, not the TEXT field", field)
	}
}

func TestGateway_FindDateField_Missing(t *testing.T) {
	gw, _ := newTestGateway(t, func(req gqlRequest) (string, bool) {
		switch {
		case strings.Contains(req.Query, "organization(login:"):
			return projectPayload, true
		case strings.Contains(req.Query, "fields(first:"):
			return `{"data":{"node":{"fields":{"nodes":[{"id":"f-status","name":"Status","dataType":"SINGLE_SELECT"}]}}}}`, true
		}
		return "", false
	})

	_, err := gw.FindDateField(context.Background(), "Due Date")
	var notFound *board.FieldNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want FieldNotFoundError", err)
	}
	if len(notFound.Tried) != 1+len(board.DateFieldAliases) {
		t.Errorf("tried = %v, want configured name plus aliases", notFound.Tried)
	}
}

func TestGateway_ListItems_PaginationAndFieldMatching(t *testing.T) {
	gw, _ := newTestGateway(t, func(req gqlRequest) (string, bool) {
		switch {
		case strings.Contains(req.Query, "organization(login:"):
			return projectPayload, true
		case strings.Contains(req.Query, "items(first:"):
			if req.Variables["cursor"] == nil {
				return `{"data":{"node":{"items":{
					"pageInfo":{"hasNextPage":true,"endCursor":"CUR1"},
					"nodes":[
						{"id":"item-1",
						 "content":{"__typename":"Issue","number":4,"title":"Draft data dictionary"},
						 "fieldValues":{"nodes":[
							{"title":"Sprint 2","iterationId":"it-2","field":{"name":"Iteration"}},
							{"date":"2026-02-15","field":{"name":"Target date"}},
							{"date":"2026-12-31","field":{"name":"Ship date"}}
						 ]}}
					]}}}}`, true
			}
			if req.Variables["cursor"] == "CUR1" {
				return `{"data":{"node":{"items":{
					"pageInfo":{"hasNextPage":false,"endCursor":""},
					"nodes":[
						{"id":"item-2","content":null,"fieldValues":{"nodes":[]}}
					]}}}}`, true
			}
		}
		return "", false
	})

	items, err := gw.ListItems(context.Background())
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2 across pages", len(items))
	}

	first := items[0]
	if first.IterationTitle != "Sprint 2" {
		t.Errorf("iteration = %q, want matched by field name", first.IterationTitle)
	}
	if first.DueDate.String() != "2026-02-15" {
		t.Errorf("due date = %q, want the aliased field value, not %q", first.DueDate, "2026-12-31")
	}

	second := items[1]
	if second.Title != board.DraftItemTitle {
		t.Errorf("title = %q, want %q for content-less items", second.Title, board.DraftItemTitle)
	}
}

func TestGateway_SetItemIteration(t *testing.T) {
	var got map[string]any
	gw, _ := newTestGateway(t, func(req gqlRequest) (string, bool) {
		switch {
		case strings.Contains(req.Query, "organization(login:"):
			return projectPayload, true
		case strings.Contains(req.Query, "updateProjectV2ItemFieldValue"):
			got = req.Variables
			return `{"data":{"updateProjectV2ItemFieldValue":{"projectV2Item":{"id":"item-1"}}}}`, true
		}
		return "", false
	})

	if err := gw.SetItemIteration(context.Background(), "item-1", "f-iter", "it-2"); err != nil {
		t.Fatalf("SetItemIteration() error = %v", err)
	}
	if got["project"] != "proj-1" || got["item"] != "item-1" || got["field"] != "f-iter" || got["iteration"] != "it-2" {
		t.Errorf("variables = %v", got)
	}
}

func TestGateway_SetItemDueDate_ErrorWrapsUpdateError(t *testing.T) {
	gw, _ := newTestGateway(t, func(req gqlRequest) (string, bool) {
		switch {
		case strings.Contains(req.Query, "organization(login:"):
			return projectPayload, true
		case strings.Contains(req.Query, "updateProjectV2ItemFieldValue"):
			return `{"errors":[{"message":"field archived"}]}`, true
		}
		return "", false
	})

	err := gw.SetItemDueDate(context.Background(), "item-1", "f-due", board.MustParseDate("2026-02-15"))
	var updateErr *board.UpdateError
	if !errors.As(err, &updateErr) {
		t.Fatalf("error = %v, want UpdateError", err)
	}
	if updateErr.ItemID != "item-1" {
		t.Errorf("item = %q", updateErr.ItemID)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("error chain should carry the APIError, got %v", err)
	}
}

func TestGateway_CreateDateField(t *testing.T) {
	gw, _ := newTestGateway(t, func(req gqlRequest) (string, bool) {
		switch {
		case strings.Contains(req.Query, "organization(login:"):
			return projectPayload, true
		case strings.Contains(req.Query, "createProjectV2Field"):
			if req.Variables["name"] != "Due Date" {
				t.Errorf("name variable = %v", req.Variables["name"])
			}
			return `{"data":{"createProjectV2Field":{"projectV2Field":{"id":"f-new","name":"Due Date","dataType":"DATE"}}}}`, true
		}
		return "", false
	})

	field, err := gw.CreateDateField(context.Background(), "Due Date")
	if err != nil {
		t.Fatalf("CreateDateField() error = %v", err)
	}
	if field.ID != "f-new" || field.Type != board.FieldTypeDate {
		t.Errorf("field = %+v", field)
	}
}

func TestGateway_AddItem(t *testing.T) {
	gw, _ := newTestGateway(t, func(req gqlRequest) (string, bool) {
		switch {
		case strings.Contains(req.Query, "organization(login:"):
			return projectPayload, true
		case strings.Contains(req.Query, "addProjectV2ItemById"):
			if req.Variables["content"] != "node-9" {
				t.Errorf("content variable = %v", req.Variables["content"])
			}
			return `{"data":{"addProjectV2ItemById":{"item":{"id":"item-9"}}}}`, true
		}
		return "", false
	})

	itemID, err := gw.AddItem(context.Background(), "node-9")
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if itemID != "item-9" {
		t.Errorf("item id = %q, want item-9", itemID)
	}
}
