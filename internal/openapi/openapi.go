// Package openapi converts the operations of an OpenAPI 3 document into
// saved requests.
package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/andyrewlee/reqtty/internal/data"
)

// ErrNoOperations is returned for a document without any operation.
var ErrNoOperations = errors.New("openapi: document has no operations")

// maxSchemaDepth bounds example generation for recursive schemas.
const maxSchemaDepth = 8

// Document is the subset of an OpenAPI 3 document the importer reads.
type Document struct {
	OpenAPI    string              `json:"openapi" yaml:"openapi"`
	Info       Info                `json:"info" yaml:"info"`
	Servers    []Server            `json:"servers,omitempty" yaml:"servers,omitempty"`
	Paths      map[string]PathItem `json:"paths" yaml:"paths"`
	Components *Components         `json:"components,omitempty" yaml:"components,omitempty"`
}

type Info struct {
	Title   string `json:"title" yaml:"title"`
	Version string `json:"version" yaml:"version"`
}

type Server struct {
	URL string `json:"url" yaml:"url"`
}

// Components holds reusable schemas referenced with $ref.
type Components struct {
	Schemas map[string]map[string]any `json:"schemas,omitempty" yaml:"schemas,omitempty"`
}

type PathItem struct {
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Get        *Operation  `json:"get,omitempty" yaml:"get,omitempty"`
	Post       *Operation  `json:"post,omitempty" yaml:"post,omitempty"`
	Put        *Operation  `json:"put,omitempty" yaml:"put,omitempty"`
	Patch      *Operation  `json:"patch,omitempty" yaml:"patch,omitempty"`
	Delete     *Operation  `json:"delete,omitempty" yaml:"delete,omitempty"`
	Head       *Operation  `json:"head,omitempty" yaml:"head,omitempty"`
	Options    *Operation  `json:"options,omitempty" yaml:"options,omitempty"`
}

type Operation struct {
	OperationID string       `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Summary     string       `json:"summary,omitempty" yaml:"summary,omitempty"`
	Parameters  []Parameter  `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
}

type Parameter struct {
	Name string `json:"name" yaml:"name"`
	In   string `json:"in" yaml:"in"` // query, path, header, cookie
}

type RequestBody struct {
	Content map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

type MediaType struct {
	Schema  map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
	Example any            `json:"example,omitempty" yaml:"example,omitempty"`
}

type methodOp struct {
	method string
	op     *Operation
}

// operations lists the operations of a path item in a stable method order.
func (p PathItem) operations() []methodOp {
	all := []methodOp{
		{"GET", p.Get}, {"POST", p.Post}, {"PUT", p.Put}, {"PATCH", p.Patch},
		{"DELETE", p.Delete}, {"HEAD", p.Head}, {"OPTIONS", p.Options},
	}
	out := all[:0]
	for _, o := range all {
		if o.op != nil {
			out = append(out, o)
		}
	}
	return out
}

// Load reads a document from a file path or an http(s) URL.
func Load(ctx context.Context, location string) (*Document, error) {
	raw, err := read(ctx, location)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

func read(ctx context.Context, location string) ([]byte, error) {
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		raw, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("read openapi document: %w", err)
		}
		return raw, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch openapi document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch openapi document: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Parse decodes a JSON or YAML document.
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		doc = Document{}
		if yerr := yaml.Unmarshal(raw, &doc); yerr != nil {
			return nil, fmt.Errorf("parse openapi document as JSON or YAML: %w", yerr)
		}
	}
	return &doc, nil
}

// Requests converts every operation, ordered by path then method.
func (d *Document) Requests() ([]data.Request, error) {
	base := ""
	if len(d.Servers) > 0 {
		base = strings.TrimRight(d.Servers[0].URL, "/")
	}

	paths := make([]string, 0, len(d.Paths))
	for p := range d.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var out []data.Request
	for _, path := range paths {
		item := d.Paths[path]
		for _, o := range item.operations() {
			out = append(out, d.request(base, path, o.method, o.op, item.Parameters))
		}
	}
	if len(out) == 0 {
		return nil, ErrNoOperations
	}
	return out, nil
}

func (d *Document) request(base, path, method string, op *Operation, shared []Parameter) data.Request {
	title := op.Summary
	if title == "" {
		title = op.OperationID
	}
	if title == "" {
		title = method + " " + path
	}

	var query []string
	seen := map[string]bool{}
	for _, p := range append(append([]Parameter(nil), shared...), op.Parameters...) {
		if p.In == "query" && !seen[p.Name] {
			seen[p.Name] = true
			query = append(query, p.Name)
		}
	}

	return data.Request{
		Method:      method,
		Title:       title,
		URL:         base + path,
		Body:        d.exampleBody(op.RequestBody),
		QueryParams: query,
	}
}

// exampleBody renders the first JSON media type of body as indented JSON,
// preferring its explicit example over one built from the schema.
func (d *Document) exampleBody(body *RequestBody) string {
	if body == nil || len(body.Content) == 0 {
		return ""
	}
	media, ok := body.Content["application/json"]
	if !ok {
		types := make([]string, 0, len(body.Content))
		for t := range body.Content {
			types = append(types, t)
		}
		sort.Strings(types)
		media = body.Content[types[0]]
	}

	example := media.Example
	if example == nil && media.Schema != nil {
		example = d.exampleFromSchema(media.Schema, 0)
	}
	if example == nil {
		return ""
	}
	out, err := json.MarshalIndent(example, "", "  ")
	if err != nil {
		return ""
	}
	return string(out)
}

func (d *Document) resolve(schema map[string]any) map[string]any {
	ref, ok := schema["$ref"].(string)
	if !ok || d.Components == nil {
		return schema
	}
	name := strings.TrimPrefix(ref, "#/components/schemas/")
	if resolved, ok := d.Components.Schemas[name]; ok {
		return resolved
	}
	return schema
}

func (d *Document) exampleFromSchema(schema map[string]any, depth int) any {
	if depth > maxSchemaDepth {
		return nil
	}
	schema = d.resolve(schema)
	if example, ok := schema["example"]; ok {
		return example
	}

	typ, _ := schema["type"].(string)
	if typ == "" {
		if _, ok := schema["properties"]; ok {
			typ = "object"
		}
	}
	switch typ {
	case "object":
		result := map[string]any{}
		if props, ok := schema["properties"].(map[string]any); ok {
			for name, prop := range props {
				if propSchema, ok := prop.(map[string]any); ok {
					result[name] = d.exampleFromSchema(propSchema, depth+1)
				}
			}
		}
		return result
	case "array":
		if items, ok := schema["items"].(map[string]any); ok {
			return []any{d.exampleFromSchema(items, depth+1)}
		}
		return []any{}
	case "string":
		return "string"
	case "integer", "number":
		return 0
	case "boolean":
		return false
	default:
		return nil
	}
}
