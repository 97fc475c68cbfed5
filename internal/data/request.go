package data

import "strings"

// Request is one saved request definition.
type Request struct {
	Method      string   `json:"method"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Body        string   `json:"body"`
	QueryParams []string `json:"query_params,omitempty"`
}

// Title is the part of a request the list displays.
type Title struct {
	Method string
	Title  string
}

// DefaultRequest is the request seeded into an empty store.
func DefaultRequest() Request {
	return Request{
		Method: "POST",
		Title:  "Create request",
		URL:    "http://google.com",
		Body:   "{\n  \"method\": \"POST\",\n  \"title\": \"Create request\",\n  \"url\": \"http://google.com\",\n  \"body\": \"hellooo\"\n}",
	}
}

// Normalized returns r with the method upper-cased and surrounding space
// trimmed from the method, title and URL.
func (r Request) Normalized() Request {
	r.Method = strings.ToUpper(strings.TrimSpace(r.Method))
	if r.Method == "" {
		r.Method = "GET"
	}
	r.Title = strings.TrimSpace(r.Title)
	r.URL = strings.TrimSpace(r.URL)
	return r
}

// DisplayTitle returns the title, falling back to "METHOD url".
func (r Request) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Method + " " + r.URL
}

func (r Request) clone() Request {
	if r.QueryParams != nil {
		r.QueryParams = append([]string(nil), r.QueryParams...)
	}
	return r
}

func (r Request) equal(o Request) bool {
	if r.Method != o.Method || r.Title != o.Title || r.URL != o.URL || r.Body != o.Body {
		return false
	}
	if len(r.QueryParams) != len(o.QueryParams) {
		return false
	}
	for i := range r.QueryParams {
		if r.QueryParams[i] != o.QueryParams[i] {
			return false
		}
	}
	return true
}
