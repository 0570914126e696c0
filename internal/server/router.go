// SPDX-License-Identifier: MPL-2.0

package server

import (
	"context"
	"fmt"
	"regexp"
)

type (
	// Request is the parsed request line. Headers and body are not read.
	Request struct {
		Method   string
		Path     string
		Protocol string
	}

	// Response is written back verbatim with the standard header set.
	Response struct {
		Status      int
		ContentType string
		Body        []byte
	}

	// HandlerFunc answers a routed request. A returned error becomes a 500
	// response carrying the error text.
	HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

	// Router dispatches requests to the first route whose pattern matches
	// the path.
	Router struct {
		routes   []route
		notFound HandlerFunc
	}

	route struct {
		pattern *regexp.Regexp
		handler HandlerFunc
	}
)

// NewRouter returns an empty router answering every path with NotFound.
func NewRouter() *Router {
	return &Router{notFound: NotFound}
}

// Handle appends a route. pattern is a regular expression matched against
// the request path; it panics if pattern does not compile.
func (r *Router) Handle(pattern string, h HandlerFunc) {
	r.routes = append(r.routes, route{pattern: regexp.MustCompile(pattern), handler: h})
}

// Dispatch runs the matching handler and always returns a response.
func (r *Router) Dispatch(ctx context.Context, req *Request) *Response {
	h := r.notFound
	for _, rt := range r.routes {
		if rt.pattern.MatchString(req.Path) {
			h = rt.handler
			break
		}
	}

	resp, err := h(ctx, req)
	if err != nil {
		return Text(StatusInternalServerError, err.Error())
	}
	return resp
}

// NotFound answers paths no route matches.
func NotFound(_ context.Context, req *Request) (*Response, error) {
	return Text(StatusNotFound, fmt.Sprintf("Doesn’t look like “%s” even exists.", req.Path)), nil
}

// Text returns a plain-text response.
func Text(status int, body string) *Response {
	return &Response{Status: status, ContentType: ContentTypeText, Body: []byte(body)}
}
