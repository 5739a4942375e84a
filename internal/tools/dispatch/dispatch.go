package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/todoist-mcp/internal/logging"
)

// ErrNoArguments is returned when a tool is called without arguments.
var ErrNoArguments = errors.New("No arguments provided") //nolint:staticcheck // surfaced verbatim to agents

// HandlerFunc executes a validated tool call.
type HandlerFunc func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error)

// Operation is one registered tool.
type Operation struct {
	Tool     mcp.Tool
	Category string

	// ReadOnly operations never mutate remote state and stay registered in
	// read-only mode.
	ReadOnly bool

	// Validate may be nil, in which case every object is accepted.
	Validate Validator
	Handle   HandlerFunc
}

// Name returns the tool name.
func (op Operation) Name() string {
	return op.Tool.Name
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithReadOnly makes Add skip operations that mutate remote state.
func WithReadOnly(readOnly bool) Option {
	return func(d *Dispatcher) {
		d.readOnly = readOnly
	}
}

// Dispatcher maps tool names to operations.
type Dispatcher struct {
	logger   *slog.Logger
	readOnly bool
	ops      map[string]Operation
}

// New creates an empty Dispatcher.
func New(logger *slog.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	d := &Dispatcher{
		logger: logger,
		ops:    make(map[string]Operation),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ReadOnly reports whether mutating operations are skipped.
func (d *Dispatcher) ReadOnly() bool {
	return d.readOnly
}

// Add registers op. In read-only mode mutating operations are skipped
// silently.
func (d *Dispatcher) Add(op Operation) error {
	name := op.Name()
	if name == "" {
		return errors.New("operation has no tool name")
	}
	if op.Handle == nil {
		return fmt.Errorf("operation %s has no handler", name)
	}
	if _, exists := d.ops[name]; exists {
		return fmt.Errorf("operation %s already registered", name)
	}
	if d.readOnly && !op.ReadOnly {
		d.logger.Debug("skipping mutating tool in read-only mode", logging.Tool(name))
		return nil
	}
	d.ops[name] = op
	return nil
}

// Lookup returns the operation registered under name.
func (d *Dispatcher) Lookup(name string) (Operation, bool) {
	op, ok := d.ops[name]
	return op, ok
}

// Operations returns every registered operation sorted by name.
func (d *Dispatcher) Operations() []Operation {
	ops := make([]Operation, 0, len(d.ops))
	for _, op := range d.ops {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Name() < ops[j].Name()
	})
	return ops
}

// Dispatch runs the tool called name with the raw arguments.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, rawArgs any) *mcp.CallToolResult {
	logger := d.logger.With(logging.Tool(name))

	if rawArgs == nil {
		return errorResult(ErrNoArguments)
	}

	op, ok := d.Lookup(name)
	if !ok {
		logger.Warn("unknown tool requested")
		return mcp.NewToolResultError("Unknown tool: " + name)
	}

	args, ok := rawArgs.(map[string]any)
	if !ok {
		return d.invalid(logger, name, fmt.Sprintf("arguments must be an object, got %T", rawArgs))
	}

	if op.Validate != nil {
		if err := op.Validate(args); err != nil {
			return d.invalid(logger, name, err.Error())
		}
	}

	result, err := RecoverWithResult(func() (*mcp.CallToolResult, error) {
		return op.Handle(ctx, args)
	})
	if err != nil {
		var panicErr *PanicError
		if errors.As(err, &panicErr) {
			logger.Error("tool handler panicked",
				logging.Err(err),
				slog.String("stack", panicErr.StackTrace),
			)
		} else {
			logger.Debug("tool handler failed", logging.Err(err))
		}
		return errorResult(err)
	}
	if result == nil {
		return errorResult(errors.New("tool returned no result"))
	}
	return result
}

func (d *Dispatcher) invalid(logger *slog.Logger, name, reason string) *mcp.CallToolResult {
	err := &ValidationError{Tool: name, Reason: reason}
	logger.Debug("invalid tool arguments", slog.String("reason", reason))
	return errorResult(err)
}

func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError("Error: " + err.Error())
}
