// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command daxstats is a standalone diagnostic server: it builds one
// Client from a config file, exposes its pool/cache state as JSON on
// /stats and its Prometheus collectors on /metrics, and otherwise does
// nothing on the client's behalf. It exists to let an operator watch a
// cluster's connection and cache behaviour from outside an application
// process.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/gops/agent"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	dax "github.com/nhr-fau/dax-client-go"
	"github.com/nhr-fau/dax-client-go/config"
	"github.com/nhr-fau/dax-client-go/internal/signer"
	"github.com/nhr-fau/dax-client-go/pkg/log"
)

func main() {
	var flagConfigFile, flagEnvFile, flagAddr string
	var flagGops bool
	flag.StringVar(&flagConfigFile, "config", "./config.json", "Client config file")
	flag.StringVar(&flagEnvFile, "env", "./.env", "Dotenv file overlaying process environment")
	flag.StringVar(&flagAddr, "addr", ":8115", "Address to serve /stats and /metrics on")
	flag.BoolVar(&flagGops, "gops", false, "Listen via github.com/google/gops/agent (for debugging)")
	flag.Parse()

	if flagGops {
		if err := agent.Listen(agent.Options{}); err != nil {
			log.Fatalf("gops/agent.Listen failed: %s", err.Error())
		}
	}

	cfg, err := config.Load(flagConfigFile, flagEnvFile)
	if err != nil {
		log.Fatalf("loading config failed: %s", err.Error())
	}
	log.ApplyDebugLogging(cfg.DebugLogging)

	sign, err := signer.FromDefaultChain(context.Background(), cfg.Region)
	if err != nil {
		log.Fatalf("resolving credentials failed: %s", err.Error())
	}

	client, err := dax.New(cfg, sign)
	if err != nil {
		log.Fatalf("dax.New failed: %s", err.Error())
	}
	defer client.Close()

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		http.Error(rw, "not found", http.StatusNotFound)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/stats", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(rw)
		enc.SetIndent("", "  ")
		if err := enc.Encode(client.Stats()); err != nil {
			http.Error(rw, err.Error(), http.StatusInternalServerError)
		}
	})

	handler := handlers.CustomLoggingHandler(log.InfoWriter, r, func(w io.Writer, params handlers.LogFormatterParams) {
		log.Finfof(w, "%s %s (Response: %d, Size: %d)", params.Request.Method, params.URL.RequestURI(), params.StatusCode, params.Size)
	})

	server := http.Server{
		Addr:         flagAddr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Infof("daxstats listening on %s", flagAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("daxstats server failed: %s", err.Error())
	}
}
