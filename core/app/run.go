// Copyright (C) 2026 The Unseen Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package app provides the shared entry point logic for command line tools.
package app

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kvark/unseen/core/log"
)

var (
	// Name is the full name of the application.
	Name string
	// ShortHelp should be set to add a help message to the usage text.
	ShortHelp = ""
	// ShortUsage is usage text to print out to show the non-flag arguments.
	ShortUsage = ""
	// Verbose enables debug level logging when set.
	Verbose = flag.Bool("verbose", false, "enable debug level logging")
)

// Run performs all the common application setup, invokes run with a
// configured context, and exits with a non-zero status if run fails.
// It does not return.
func Run(run func(ctx context.Context) error) {
	if Name == "" {
		Name = os.Args[0]
	}
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n", ShortHelp)
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] %s\n", Name, ShortUsage)
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx := context.Background()
	ctx = log.PutProcess(ctx, Name)
	ctx = log.PutHandler(ctx, log.Std(log.Normal))
	if !*Verbose {
		ctx = log.PutFilter(ctx, log.Info)
	}

	if err := run(ctx); err != nil {
		log.E(ctx, "%s failed: %v", Name, err)
		os.Exit(1)
	}
	os.Exit(0)
}
