/*
Copyright 2024-2025 the Unikorn Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/zapr"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ideacenter/apitests/pkg/constants"
	"github.com/ideacenter/apitests/pkg/server"
)

func run() error {
	options := server.DefaultOptions()
	options.AddFlags(pflag.CommandLine)

	verbose := pflag.Bool("verbose", false, "Log every request.")

	pflag.Parse()

	config := zap.NewProductionConfig()

	if *verbose {
		// logr V(1) maps to zap level -1.
		config.Level = zap.NewAtomicLevelAt(zapcore.Level(-1))
	}

	zapLogger, err := config.Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}

	defer func() {
		_ = zapLogger.Sync()
	}()

	logger := zapr.NewLogger(zapLogger).WithName("init")
	logger.Info("service starting", "application", constants.Application, "version", constants.Version, "revision", constants.Revision)

	if len(options.Users) == 0 {
		logger.Info("no users configured, nobody will be able to log in")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s, err := server.New(options, zapr.NewLogger(zapLogger))
	if err != nil {
		logger.Error(err, "failed to create server")
		return err
	}

	if err := s.Run(ctx); err != nil {
		logger.Error(err, "server exited")
		return err
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
