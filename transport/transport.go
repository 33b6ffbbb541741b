// Package transport sends an encoded config request to the game server and
// returns the raw response body.
//
// The body returned by a Transport is the server's base64 text, unmodified;
// decoding it is the envelope package's job.
package transport

import "context"

// DefaultEndpoint is the production config endpoint.
const DefaultEndpoint = "https://auxbrain.com/ei/get_config"

// Transport performs one request/response exchange.
type Transport interface {
	Send(ctx context.Context, body []byte) ([]byte, error)
}

// Func adapts a function to Transport.
type Func func(ctx context.Context, body []byte) ([]byte, error)

func (f Func) Send(ctx context.Context, body []byte) ([]byte, error) { return f(ctx, body) }
