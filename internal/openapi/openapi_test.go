package openapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const petstoreYAML = `openapi: 3.0.0
info:
  title: Petstore
  version: "1.0"
servers:
  - url: https://petstore.example.com/v1/
paths:
  /pets:
    parameters:
      - name: tenant
        in: query
    get:
      summary: List pets
      parameters:
        - name: limit
          in: query
        - name: X-Trace
          in: header
    post:
      operationId: createPet
      requestBody:
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Pet'
  /pets/{id}:
    delete:
      parameters:
        - name: id
          in: path
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
          example: rex
        age:
          type: integer
        tags:
          type: array
          items:
            type: string
`

func TestRequestsFromYAML(t *testing.T) {
	doc, err := Parse([]byte(petstoreYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	reqs, err := doc.Requests()
	if err != nil {
		t.Fatalf("Requests() error = %v", err)
	}
	if len(reqs) != 3 {
		t.Fatalf("got %d requests, want 3", len(reqs))
	}

	list := reqs[0]
	if list.Method != "GET" || list.Title != "List pets" || list.URL != "https://petstore.example.com/v1/pets" {
		t.Fatalf("list request = %+v", list)
	}
	if len(list.QueryParams) != 2 || list.QueryParams[0] != "tenant" || list.QueryParams[1] != "limit" {
		t.Fatalf("query params = %v", list.QueryParams)
	}
	if list.Body != "" {
		t.Fatalf("GET body = %q, want empty", list.Body)
	}

	create := reqs[1]
	if create.Method != "POST" || create.Title != "createPet" {
		t.Fatalf("create request = %+v", create)
	}
	wantBody := "{\n  \"age\": 0,\n  \"name\": \"rex\",\n  \"tags\": [\n    \"string\"\n  ]\n}"
	if create.Body != wantBody {
		t.Fatalf("create body = %q, want %q", create.Body, wantBody)
	}

	del := reqs[2]
	if del.Method != "DELETE" || del.Title != "DELETE /pets/{id}" || del.URL != "https://petstore.example.com/v1/pets/{id}" {
		t.Fatalf("delete request = %+v", del)
	}
}

func TestParseJSON(t *testing.T) {
	raw := `{"openapi":"3.0.0","paths":{"/health":{"get":{"requestBody":{"content":{"application/json":{"example":{"ok":true}}}}}}}}`
	doc, err := Parse([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	reqs, err := doc.Requests()
	if err != nil {
		t.Fatal(err)
	}
	if reqs[0].URL != "/health" || reqs[0].Body != "{\n  \"ok\": true\n}" {
		t.Fatalf("request = %+v", reqs[0])
	}
}

func TestNoOperations(t *testing.T) {
	doc, err := Parse([]byte("openapi: 3.0.0\npaths: {}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := doc.Requests(); !errors.Is(err, ErrNoOperations) {
		t.Fatalf("Requests() error = %v, want ErrNoOperations", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("openapi: [unclosed")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRecursiveSchemaTerminates(t *testing.T) {
	doc := &Document{Components: &Components{Schemas: map[string]map[string]any{
		"Node": {"type": "object", "properties": map[string]any{
			"child": map[string]any{"$ref": "#/components/schemas/Node"},
		}},
	}}}
	body := doc.exampleBody(&RequestBody{Content: map[string]MediaType{
		"application/json": {Schema: map[string]any{"$ref": "#/components/schemas/Node"}},
	}})
	if body == "" {
		t.Fatal("expected a body for a recursive schema")
	}
}

func TestLoadFileAndURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")
	if err := os.WriteFile(path, []byte(petstoreYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(context.Background(), path); err != nil {
		t.Fatalf("Load(file) error = %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openapi.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(petstoreYAML))
	}))
	defer srv.Close()

	doc, err := Load(context.Background(), srv.URL+"/openapi.yaml")
	if err != nil {
		t.Fatalf("Load(url) error = %v", err)
	}
	if doc.Info.Title != "Petstore" {
		t.Fatalf("title = %q", doc.Info.Title)
	}
	if _, err := Load(context.Background(), srv.URL+"/missing"); err == nil {
		t.Fatal("expected error for 404")
	}
}
