// SPDX-License-Identifier: MPL-2.0

// Package server is the dexd HTTP listener.
//
// The server reads only the request line of each connection, dispatches the
// path through a Router, writes one response with a fixed header set and
// closes the connection. Connections are handled strictly one after another
// on a single accept loop: a slow compiler run delays every other client,
// and no two requests ever build the aggregate at the same time.
package server
