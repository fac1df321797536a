package interact

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/semdoc/internal/registry"
	"github.com/roach88/semdoc/internal/token"
	"github.com/roach88/semdoc/internal/trace"
)

// InvocationHandler is the external collaborator reached through
// "gateway.*" handler refs. The core calls it synchronously and treats the
// call as atomic; it does not know or care what system fulfils it.
type InvocationHandler interface {
	Invoke(handlerRef, operation string, input token.Object, obs token.Observer) (token.Object, error)
}

// Interactor executes token interactions: affordance lookup, handler
// dispatch, and witness capture.
//
// "core.*" handler refs are fulfilled internally by pure functions over
// the token; everything else is delegated to the injected
// InvocationHandler.
type Interactor struct {
	reg     *registry.Registry
	handler InvocationHandler
	ids     trace.WitnessIDGenerator
	clock   trace.Clock
	sink    trace.Sink
}

// Option configures an Interactor.
type Option func(*Interactor)

// WithHandler sets the external invocation handler for gateway actions.
func WithHandler(h InvocationHandler) Option {
	return func(i *Interactor) { i.handler = h }
}

// WithWitnessIDs sets the witness ID generator. Tests inject a
// trace.FixedGenerator for deterministic output.
func WithWitnessIDs(g trace.WitnessIDGenerator) Option {
	return func(i *Interactor) { i.ids = g }
}

// WithClock sets the logical clock stamping traces.
func WithClock(c trace.Clock) Option {
	return func(i *Interactor) { i.clock = c }
}

// WithSink sets the audit sink receiving witnesses.
func WithSink(s trace.Sink) Option {
	return func(i *Interactor) { i.sink = s }
}

// New creates an Interactor over the given registry. Defaults: UUIDv7
// witness IDs, a fresh sequence clock, and an in-memory sink.
func New(reg *registry.Registry, opts ...Option) *Interactor {
	i := &Interactor{
		reg:   reg,
		ids:   trace.UUIDv7Generator{},
		clock: trace.NewSeqClock(),
		sink:  trace.NewMemorySink(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Request describes one interaction.
type Request struct {
	Token    token.MeaningToken
	Action   string
	Observer token.Observer
	Args     token.Object

	// SkipTrace suppresses witness capture. The zero value records a
	// witness on every successful interaction.
	SkipTrace bool
}

// Interact executes one action on a token.
//
// An action the token does not expose, or exposes disabled for this
// observer, returns NotAvailable without side effects. Handler errors and
// panics become Failure results; they are never propagated. On success a
// trace witness is captured (unless SkipTrace) and its ID returned in the
// result.
func (i *Interactor) Interact(req Request) token.InteractionResult {
	aff, ok := i.enabledAffordance(req.Token, req.Observer, req.Action)
	if !ok {
		return token.NotAvailable(fmt.Sprintf(
			"action %q is not available on this %s token", req.Action, req.Token.Kind))
	}

	output, err := i.execute(aff, req)
	if err != nil {
		slog.Warn("interaction failed",
			"action", req.Action,
			"token", req.Token.ID,
			"handler_ref", aff.HandlerRef,
			"error", err)
		return token.Failure(err.Error())
	}
	if output == nil {
		output = token.Object{}
	}

	witnessID := ""
	if !req.SkipTrace {
		id, err := i.capture(aff, req, output)
		if err != nil {
			return token.Failure(fmt.Sprintf("record witness: %v", err))
		}
		witnessID = id
	}

	slog.Debug("interaction complete",
		"action", req.Action,
		"token", req.Token.ID,
		"witness_id", witnessID)
	return token.Success(output, witnessID)
}

// execute dispatches to the builtin core handlers or the external
// invocation handler. Panics are converted to errors so a misbehaving
// handler cannot take down the caller.
func (i *Interactor) execute(aff token.Affordance, req Request) (output token.Object, err error) {
	defer func() {
		if r := recover(); r != nil {
			output = nil
			err = fmt.Errorf("handler %s panicked: %v", aff.HandlerRef, r)
		}
	}()

	if strings.HasPrefix(aff.HandlerRef, "core.") {
		return i.executeCore(aff, req)
	}
	if i.handler == nil {
		return nil, fmt.Errorf("no invocation handler configured for %s", aff.HandlerRef)
	}
	return i.handler.Invoke(aff.HandlerRef, req.Action, req.Args, req.Observer)
}

// executeCore fulfils the built-in handler refs with pure functions over
// the token. Each arm is one (handler, kind) behavior.
func (i *Interactor) executeCore(aff token.Affordance, req Request) (token.Object, error) {
	tok := req.Token
	switch aff.HandlerRef {
	case "core.hover":
		return hoverOutput(tok), nil

	case "core.navigate":
		return navigateOutput(tok)

	case "core.toggle":
		return executeToggle(tok, req.Args)

	case "core.copy":
		p, ok := tok.Payload.(token.CodeBlockPayload)
		if !ok {
			return nil, fmt.Errorf("copy is only defined for code blocks")
		}
		return token.Object{"text": token.Str(p.Body)}, nil

	case "core.preview":
		p, ok := tok.Payload.(token.ImagePayload)
		if !ok {
			return nil, fmt.Errorf("preview is only defined for images")
		}
		return token.Object{"alt": token.Str(p.Alt), "target": token.Str(p.Target)}, nil

	case "core.expand":
		p, ok := tok.Payload.(token.TablePayload)
		if !ok {
			return nil, fmt.Errorf("expand is only defined for tables")
		}
		header := make(token.Array, len(p.Header))
		for j, h := range p.Header {
			header[j] = token.Str(h)
		}
		return token.Object{"header": header, "rows": token.Int(len(p.Rows))}, nil

	default:
		return nil, fmt.Errorf("unknown core handler %s", aff.HandlerRef)
	}
}

// hoverOutput summarizes any token kind for inspection.
func hoverOutput(tok token.MeaningToken) token.Object {
	out := token.Object{"kind": token.Str(tok.Kind)}
	switch p := tok.Payload.(type) {
	case token.CheckboxPayload:
		out["checked"] = token.Bool(p.Checked)
		out["label"] = token.Str(p.Label)
	case token.PathRefPayload:
		out["path"] = token.Str(strings.Join(p.Segments, "."))
		out["is_ghost"] = token.Bool(p.IsGhost)
	case token.ImagePayload:
		out["alt"] = token.Str(p.Alt)
		out["target"] = token.Str(p.Target)
	case token.CodeBlockPayload:
		out["language"] = token.Str(p.Language)
		out["lines"] = token.Int(int64(len(strings.Split(p.Body, "\n"))))
	case token.CrossRefPayload:
		out["ref_type"] = token.Str(p.RefType)
		out["ref_id"] = token.Str(p.RefID)
	case token.TablePayload:
		out["columns"] = token.Int(int64(len(p.Header)))
		out["rows"] = token.Int(int64(len(p.Rows)))
	}
	return out
}

// navigateOutput resolves the navigation target for navigable kinds.
func navigateOutput(tok token.MeaningToken) (token.Object, error) {
	switch p := tok.Payload.(type) {
	case token.PathRefPayload:
		out := token.Object{"target": token.Str(strings.Join(p.Segments, "."))}
		if p.IsGhost {
			out["ghost"] = token.Bool(true)
		}
		return out, nil
	case token.ImagePayload:
		return token.Object{"target": token.Str(p.Target)}, nil
	case token.CrossRefPayload:
		return token.Object{"target": token.Str(p.RefID)}, nil
	default:
		return nil, fmt.Errorf("%s tokens have no navigation target", tok.Kind)
	}
}

// capture synthesizes and records a witness for a successful interaction.
func (i *Interactor) capture(aff token.Affordance, req Request, output token.Object) (string, error) {
	input := req.Args
	if input == nil {
		input = token.Object{}
	}
	w := trace.TraceWitness{
		ID: i.ids.Generate(),
		Trace: trace.ExecutionTrace{
			HandlerRef: aff.HandlerRef,
			Operation:  req.Action,
			Input:      input,
			Output:     output,
			Timestamp:  i.clock.Next(),
			ObserverID: req.Observer.ID,
		},
	}
	if err := i.sink.Record(w); err != nil {
		return "", err
	}
	return w.ID, nil
}
