// Package engine provides the Lisp evaluation engine for plate definitions.
// It wraps zygomys in a sandboxed environment and produces a Design, the
// named plate specs a source file defines.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/platestamper/pkg/plate"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// DefaultName is the name given to a plate returned by a program that
// defines no named plates.
const DefaultName = "plate"

// Design is the set of plates defined by a program, in definition order.
type Design struct {
	Names []string
	Specs map[string]plate.Spec
}

func newDesign() *Design {
	return &Design{Specs: make(map[string]plate.Spec)}
}

func (d *Design) add(name string, s plate.Spec) error {
	if _, dup := d.Specs[name]; dup {
		return fmt.Errorf("plate %q defined twice", name)
	}
	d.Names = append(d.Names, name)
	d.Specs[name] = s
	return nil
}

// Len returns the number of plates.
func (d *Design) Len() int { return len(d.Names) }

// Lookup returns the plate called name. An empty name selects the first
// plate defined.
func (d *Design) Lookup(name string) (plate.Spec, bool) {
	if name == "" {
		if len(d.Names) == 0 {
			return plate.Spec{}, false
		}
		name = d.Names[0]
	}
	s, ok := d.Specs[name]
	return s, ok
}

// Engine wraps the zygomys interpreter. Each call to Evaluate runs in a
// fresh sandbox, so results depend only on the source.
type Engine struct {
	// Timeout bounds one evaluation. Zero means DefaultTimeout.
	Timeout time.Duration

	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs source and returns the Design it defines.
//
// Parse and runtime errors in the source come back as EvalErrors with a
// nil Design. The error result is reserved for failures of the engine
// itself: a panic, ErrTimeout, ErrSuperseded or the context ending.
func (e *Engine) Evaluate(ctx context.Context, source string) (*Design, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		d, evalErrs, err := e.evaluate(source)
		ch <- evalResult{design: d, errors: evalErrs, err: err}
	}()

	return e.wait(ctx, ch, gen)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Design, []EvalError, error) {
	d := newDesign()
	if strings.TrimSpace(source) == "" {
		return d, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, d)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}

	last, err := env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	// A bare (plate ...) or (sbs96) as the final form defines the default plate.
	if d.Len() == 0 {
		if sp, ok := last.(*sexpSpec); ok {
			_ = d.add(DefaultName, sp.spec)
		}
	}
	return d, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
