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

package main

import (
	"context"
	"log"
	"os"

	"github.com/disreguard/sig/cmd/sig/cli"
	"github.com/disreguard/sig/pkg/tracing"
)

func main() {
	log.SetFlags(0)

	ctx := context.Background()
	if err := tracing.InitFromEnv(ctx); err != nil {
		log.Printf("warning: failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := tracing.Shutdown(ctx); err != nil {
			log.Printf("warning: failed to shut down tracing: %v", err)
		}
	}()

	if err := cli.New().Execute(); err != nil {
		log.Printf("error: %v", err)
		_ = tracing.Shutdown(ctx)
		os.Exit(1)
	}
}
