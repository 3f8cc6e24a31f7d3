package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ajitpratap0/mcp-sdk-go/pkg/logging"
	"github.com/ajitpratap0/mcp-sdk-go/pkg/protocol"
	"github.com/ajitpratap0/mcp-sdk-go/pkg/server"
	"github.com/ajitpratap0/mcp-sdk-go/pkg/transport"

	"github.com/aaronpaddy/slack-mcp-server/internal/infrastructure/metrics"
)

// Server binds the resource and tool handlers to the four protocol verbs
// by implementing the SDK's provider interfaces. The handlers already
// guarantee that no error crosses their boundary; the provider methods add
// a second, redundant catch-all so that even a defect in a handler
// degrades to an empty or error-flagged envelope instead of faulting the
// request loop.
//
// There is no session state: every verb invocation is one-shot, and the
// single long-lived workspace client is shared read-only, so concurrent
// invocations on the same Server are independent.
type Server struct {
	name    string
	version string

	resources *ResourceHandler
	tools     *ToolHandler
	logger    logging.Logger
	metrics   *metrics.Metrics

	inner *server.Server
}

var (
	_ server.ToolsProvider     = (*Server)(nil)
	_ server.ResourcesProvider = (*Server)(nil)
)

// Options configures the protocol server.
type Options struct {
	Name        string
	Version     string
	Description string
	Logger      logging.Logger
	Metrics     *metrics.Metrics
}

// NewServer wires the handlers to an SDK server over the given transport.
func NewServer(t transport.Transport, resources *ResourceHandler, tools *ToolHandler, opts Options) *Server {
	s := &Server{
		name:      opts.Name,
		version:   opts.Version,
		resources: resources,
		tools:     tools,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
	}

	s.inner = server.New(t,
		server.WithName(opts.Name),
		server.WithVersion(opts.Version),
		server.WithDescription(opts.Description),
		server.WithToolsProvider(s),
		server.WithResourcesProvider(s),
		server.WithStructuredLogger(opts.Logger),
	)
	return s
}

func (s *Server) Name() string    { return s.name }
func (s *Server) Version() string { return s.version }

// Serve runs the protocol loop until ctx is cancelled or the transport
// fails.
func (s *Server) Serve(ctx context.Context) error {
	return s.inner.Start(ctx)
}

// Stop shuts the underlying SDK server down.
func (s *Server) Stop() error {
	return s.inner.Stop()
}

// NewStdioTransport builds the stdio transport used by `serve`.
func NewStdioTransport() (transport.Transport, error) {
	cfg := transport.DefaultTransportConfig(transport.TransportTypeStdio)
	return transport.NewTransport(cfg)
}

// NewHTTPTransport builds a streamable HTTP transport bound to endpoint.
func NewHTTPTransport(endpoint string) (transport.Transport, error) {
	cfg := transport.DefaultTransportConfig(transport.TransportTypeStreamableHTTP)
	cfg.Endpoint = endpoint
	return transport.NewTransport(cfg)
}

// --- server.ToolsProvider ---

// ListTools returns the static catalog. The adapter never paginates
// listings back to the caller, so the result always carries the
// no-more-pages marker.
func (s *Server) ListTools(_ context.Context, _ string, _ *protocol.PaginationParams) (tools []protocol.Tool, total int, cursor string, hasMore bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("list tools panicked", logging.Any("panic", r))
			tools, total, cursor, hasMore, err = nil, 0, "", false, nil
		}
	}()

	catalog := s.tools.Catalog()
	return catalog, len(catalog), "", false, nil
}

// CallTool dispatches to the tool handler and wraps its error-flagged
// envelope into the protocol result. Provider-level failures (which the
// handler contract rules out) are still converted, never raised.
func (s *Server) CallTool(ctx context.Context, name string, input json.RawMessage, _ json.RawMessage) (result *protocol.CallToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("tool call panicked", logging.String("tool", name), logging.Any("panic", r))
			result = callToolError(fmt.Sprintf("Error calling tool: %v", r))
			err = nil
		}
	}()

	if s.metrics != nil {
		s.metrics.ToolCalls.WithLabelValues(name).Inc()
	}

	res := s.tools.Call(ctx, name, input)
	payload, merr := json.Marshal(res)
	if merr != nil {
		return callToolError(fmt.Sprintf("Error calling tool: %v", merr)), nil
	}
	return &protocol.CallToolResult{Result: payload}, nil
}

func callToolError(text string) *protocol.CallToolResult {
	payload, _ := json.Marshal(errorResult("%s", text))
	return &protocol.CallToolResult{Result: payload}
}

// --- server.ResourcesProvider ---

// ListResources enumerates the resource set fresh on every call. The URI
// filter and recursion flags are ignored: the adapter exposes one flat,
// small listing and relies on the handler's fail-soft degradation for
// availability.
func (s *Server) ListResources(ctx context.Context, _ string, _ bool, _ *protocol.PaginationParams) (resources []protocol.Resource, templates []protocol.ResourceTemplate, total int, cursor string, hasMore bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("list resources panicked", logging.Any("panic", r))
			resources, templates, total, cursor, hasMore, err = nil, nil, 0, "", false, nil
		}
	}()

	if s.metrics != nil {
		s.metrics.ResourceListings.Inc()
	}

	list := s.resources.List(ctx)
	return list, nil, len(list), "", false, nil
}

// ReadResource resolves a URI through the resource handler. Failures come
// back as a text/plain body describing the problem, never as an error.
func (s *Server) ReadResource(ctx context.Context, uri string, _ map[string]interface{}, _ *protocol.ResourceRange) (contents *protocol.ResourceContents, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("resource read panicked", logging.String("uri", uri), logging.Any("panic", r))
			contents = textContents(uri, mimeText, fmt.Sprintf("Error reading resource: %v", r))
			err = nil
		}
	}()

	if s.metrics != nil {
		s.metrics.ResourceReads.Inc()
	}

	body, mime := s.resources.Read(ctx, uri)
	return textContents(uri, mime, body), nil
}

// SubscribeResource is unsupported: the adapter is stateless between calls
// and has nothing to watch for changes.
func (s *Server) SubscribeResource(_ context.Context, uri string, _ bool) (bool, error) {
	return false, fmt.Errorf("resource subscriptions are not supported: %s", uri)
}

func textContents(uri, mime, body string) *protocol.ResourceContents {
	content, _ := json.Marshal(body)
	return &protocol.ResourceContents{
		URI:     uri,
		Type:    mime,
		Content: content,
	}
}
