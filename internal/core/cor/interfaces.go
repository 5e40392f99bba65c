// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cor (Chain of Responsibility) provides the building blocks used to
// express a preview request as an ordered sequence of commands. A request is
// carried through the chain by a Context, which holds the values commands hand
// to each other, the errors they report and the temporary files they create.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the keys a BaseChain uses to pipe the output of one
// command into the input of the next.
const (
	// CtxIn is the default key for the primary input of a command.
	CtxIn = "__IN__"
	// CtxOut is the default key where a command places its primary output.
	CtxOut = "__OUT__"
)

// Context is the per-execution state passed through a chain of commands.
type Context interface {
	// SetContext sets the Go context used for cancellation and tracing.
	SetContext(ctx context.Context)

	// GetContext returns the current Go context.
	GetContext() context.Context

	// Add stores a value under key and returns the Context for chaining.
	Add(key string, value interface{}) Context

	// Get returns the value stored under key, or nil.
	Get(key string) interface{}

	// Remove deletes the value stored under key.
	Remove(key string)

	// AddError records err as produced by the named command.
	AddError(name string, err error)

	// GetErrors returns the recorded errors in the order they were added.
	GetErrors() []error

	// HasErrors reports whether any command recorded an error.
	HasErrors() bool

	// Err joins every recorded error into one, or returns nil.
	Err() error

	// AddTempFile registers a file or directory to be removed by Close.
	AddTempFile(path string)

	// GetTempFiles returns the registered temporary paths.
	GetTempFiles() []string

	// Close removes every registered temporary path. Paths that no longer
	// exist are ignored. It must be deferred by whoever creates the Context.
	Close() error
}

// Executable is anything with an Execute step.
type Executable interface {
	Execute(context Context)
}

// Command is an atomic unit of work in a chain.
type Command interface {
	Executable

	// GetName returns the command name used for errors, spans and metrics.
	GetName() string

	// GetInputParam returns the key the command reads its input from.
	GetInputParam() string

	// GetOutputParam returns the key the command writes its output to.
	GetOutputParam() string

	// IsExecutable is the precondition checked before Execute.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain is a Command made of other commands, executed in order.
type Chain interface {
	Command

	// ContinueOnFailure controls whether commands after a failed one still run.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the chain.
	AddCommand(command Command) Chain
}
