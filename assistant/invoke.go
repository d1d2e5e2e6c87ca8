package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-ai/inkwell/catalog"
	"github.com/inkwell-ai/inkwell/editor"
	"github.com/inkwell-ai/inkwell/errors"
	"github.com/inkwell-ai/inkwell/internal/httpclient"
	"github.com/inkwell-ai/inkwell/logger"
	"github.com/inkwell-ai/inkwell/request"
	"github.com/inkwell-ai/inkwell/response"
)

// Transport executes one rendered endpoint call and returns the decoded
// response body. The default implementation speaks JSON over HTTP; tests
// substitute their own.
type Transport interface {
	Call(ctx context.Context, e *catalog.Endpoint, r request.Rendered) (interface{}, error)
}

// HTTPTransport is the production Transport.
type HTTPTransport struct {
	Client *httpclient.Client
}

// Call issues the request with the endpoint's method, headers, and body
// and decodes the JSON response. Non-2xx statuses still decode: many APIs
// return their error payload through the endpoint's error path.
func (t *HTTPTransport) Call(ctx context.Context, e *catalog.Endpoint, r request.Rendered) (interface{}, error) {
	url := strings.TrimRight(e.URL, "/") + r.Resource

	var body io.Reader
	if len(r.Body) > 0 && e.Method != http.MethodGet {
		raw, err := json.Marshal(r.Body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, e.Method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range e.Headers {
		req.Header.Set(k, v)
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var decoded interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

// Invocation is one in-flight endpoint call for one selection region.
// It transitions created → running → completed; Result is only valid
// after the done channel closes.
type Invocation struct {
	ID       string
	Prompt   *catalog.Prompt
	Endpoint *catalog.Endpoint
	Region   editor.Region
	Rendered request.Rendered

	started time.Time
	done    chan struct{}
	result  map[string]interface{}
}

// StartInvocation renders the request and launches the call. The returned
// invocation completes even if nobody awaits it.
func StartInvocation(transport Transport, p *catalog.Prompt, e *catalog.Endpoint,
	region editor.Region, ctx editor.Context, extra map[string]string) *Invocation {

	inv := &Invocation{
		ID:       uuid.NewString(),
		Prompt:   p,
		Endpoint: e,
		Region:   region,
		Rendered: request.Render(p, e, ctx.Text, ctx.Pre, ctx.Post, extra),
		started:  time.Now(),
		done:     make(chan struct{}),
	}

	go inv.run(transport)
	return inv
}

func (inv *Invocation) run(transport Transport) {
	defer close(inv.done)

	timeout := time.Duration(inv.Endpoint.Timeout) * time.Second
	if timeout <= 0 {
		timeout = catalog.DefaultTimeout * time.Second
	}
	callCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Debugw("dispatching invocation",
		"id", inv.ID,
		"prompt", inv.Prompt.ID,
		"endpoint", inv.Endpoint.Key(),
		"resource", inv.Rendered.Resource)

	raw, err := transport.Call(callCtx, inv.Endpoint, inv.Rendered)
	if err != nil {
		inv.result = map[string]interface{}{"error": err.Error()}
		return
	}
	inv.result = response.Parse(raw, inv.Endpoint)
}

// Await blocks until the invocation completes, emitting progress roughly
// once a second. If ctx expires first the invocation is abandoned, not
// cancelled: its goroutine finishes on its own timeout, and the caller
// gets a timeout result.
func (inv *Invocation) Await(ctx context.Context, progress func(elapsed time.Duration)) map[string]interface{} {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-inv.done:
			return inv.result
		case <-ticker.C:
			if progress != nil {
				progress(time.Since(inv.started))
			}
		case <-ctx.Done():
			err := errors.Wrapf(errors.ErrTimeout, "no response after %s from %s",
				time.Since(inv.started).Round(time.Second), inv.Endpoint.Key())
			logger.Warnw("abandoning invocation", "id", inv.ID, "error", err)
			return map[string]interface{}{"error": err.Error()}
		}
	}
}

// Output returns the invocation's rendered output string, or the error the
// result carries. An empty output is an error too: callers must never
// write it into a buffer.
func Output(result map[string]interface{}) (string, error) {
	if msg, ok := result["error"].(string); ok && msg != "" {
		return "", errors.New(msg)
	}
	out, _ := result["output"].(string)
	if out == "" {
		return "", errors.Wrap(errors.ErrNoOutput, "no response")
	}
	return out, nil
}

// ListResult returns the invocation's list rows, when present.
func ListResult(result map[string]interface{}) ([][]string, bool) {
	rows, ok := result["list"].([][]string)
	return rows, ok
}
