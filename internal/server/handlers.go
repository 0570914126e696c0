// SPDX-License-Identifier: MPL-2.0

package server

import (
	"context"

	"github.com/dexd/dexd/internal/aggregate"
)

// DataRoute matches /getdata with an optional trailing slash.
const DataRoute = `^/getdata/?$`

// ConfigBuilder produces the aggregate served by DataRoute.
// *aggregate.Aggregator satisfies it.
type ConfigBuilder interface {
	Build(ctx context.Context) (*aggregate.Config, error)
}

// DataHandler rebuilds the aggregate on every request and returns it as
// JSON.
func DataHandler(builder ConfigBuilder) HandlerFunc {
	return func(ctx context.Context, _ *Request) (*Response, error) {
		cfg, err := builder.Build(ctx)
		if err != nil {
			return nil, err
		}
		body, err := cfg.JSON()
		if err != nil {
			return nil, err
		}
		return &Response{Status: StatusOK, ContentType: ContentTypeJSON, Body: body}, nil
	}
}

// NewDexRouter returns the daemon's route table: DataRoute and nothing else.
func NewDexRouter(builder ConfigBuilder) *Router {
	r := NewRouter()
	r.Handle(DataRoute, DataHandler(builder))
	return r
}
