// Copyright 2026 The sig Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tracing

import "context"

// NoopTracer is a Tracer that records nothing. It is the default tracer.
type NoopTracer struct{}

// Start returns the context unchanged and a no-op span.
func (NoopTracer) Start(ctx context.Context, name string) (context.Context, Span) {
	return ctx, NoopSpan{}
}

// NoopSpan is a Span that records nothing.
type NoopSpan struct{}

// SetAttribute does nothing.
func (NoopSpan) SetAttribute(key string, value interface{}) {}

// End does nothing.
func (NoopSpan) End() {}
