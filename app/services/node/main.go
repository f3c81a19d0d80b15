package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/powchain/app/services/node/handlers"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/ardanlabs/powchain/foundation/blockchain/worker"
	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/ardanlabs/powchain/foundation/logger"
	"github.com/ardanlabs/powchain/foundation/transport/udp"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

// Offsets from the node port for the web services when no host is configured.
const (
	debugOffset   = 2000
	publicOffset  = 3000
	privateOffset = 4000
)

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	// This is all the configuration for the application and the default values.
	// The port of this participant is the only positional argument.
	cfg := struct {
		conf.Version
		Args conf.Args
		Web  struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"help:defaults to the node port plus 2000"`
			PublicHost      string        `conf:"help:defaults to the node port plus 3000"`
			PrivateHost     string        `conf:"help:defaults to the node port plus 4000"`
		}
		Node struct {
			IP             string        `conf:"default:127.0.0.1"`
			KnownPorts     []int         `conf:"default:5000;5001;5002"`
			ReceiveTimeout time.Duration `conf:"default:1s"`
			MiningBudget   uint64        `conf:"default:1000"`
			MaxDatagram    int           `conf:"default:9216"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "proof of work chain node",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// The port must name one of the known participants before any node
	// state exists.
	port, err := strconv.Atoi(cfg.Args.Num(0))
	if err != nil {
		return fmt.Errorf("usage: node [options] <port>: port %q: %w", cfg.Args.Num(0), err)
	}
	if err := peer.ValidatePort(port, cfg.Node.KnownPorts); err != nil {
		return err
	}

	if cfg.Web.DebugHost == "" {
		cfg.Web.DebugHost = peer.Host(cfg.Node.IP, port+debugOffset)
	}
	if cfg.Web.PublicHost == "" {
		cfg.Web.PublicHost = peer.Host(cfg.Node.IP, port+publicOffset)
	}
	if cfg.Web.PrivateHost == "" {
		cfg.Web.PrivateHost = peer.Host(cfg.Node.IP, port+privateOffset)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build, "port", port)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Blockchain Support

	gen, err := genesis.Load()
	if err != nil {
		return fmt.Errorf("loading genesis: %w", err)
	}
	log.Infow("startup", "status", "genesis loaded", "hash", gen.Hash, "timestamp", gen.Timestamp)

	// The peer set is the closed group of participants that receive this
	// node's chain.
	host := peer.Host(cfg.Node.IP, port)
	peerSet := peer.Participants(cfg.Node.IP, cfg.Node.KnownPorts)

	for _, p := range peerSet.Copy(host) {
		log.Infow("startup", "status", "participant", "host", p.Host)
	}

	conn, err := udp.Listen(host, cfg.Node.MaxDatagram)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", host, err)
	}
	defer conn.Close()

	// The blockchain packages accept a function of this signature to allow the
	// application to log. These raw messages are also sent to any websocket
	// client that is connected into the system through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	// The worker owns the node state and runs the receive and mine loop.
	wrk, err := worker.Run(worker.Config{
		Host:           host,
		MinerAccount:   uint16(port),
		KnownPeers:     peerSet,
		Transport:      conn,
		Genesis:        gen,
		ReceiveTimeout: cfg.Node.ReceiveTimeout,
		MiningBudget:   cfg.Node.MiningBudget,
		EvHandler:      ev,
	})
	if err != nil {
		return fmt.Errorf("starting worker: %w", err)
	}
	defer wrk.Shutdown()

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	// Construct the mux for the debug calls.
	debugMux := handlers.DebugMux(build, log, wrk.Done())

	// Start the service listening for debug requests.
	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 2)

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing V1 public API support")

	// Construct the mux for the public API calls.
	publicMux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		Host:     host,
		Worker:   wrk,
		Peers:    peerSet,
		Genesis:  gen,
		Evts:     evts,
	})

	// Construct a server to service the requests against the mux.
	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      publicMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Start Private Service

	log.Infow("startup", "status", "initializing V1 private API support")

	// Construct the mux for the private API calls.
	privateMux := handlers.PrivateMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		Worker:   wrk,
	})

	// Construct a server to service the requests against the mux.
	private := http.Server{
		Addr:         cfg.Web.PrivateHost,
		Handler:      privateMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "private api router started", "host", private.Addr)
		serverErrors <- private.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-wrk.Done():
		return fmt.Errorf("node loop stopped: %w", wrk.Err())

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancelPri := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPri()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown private API started")
		if err := private.Shutdown(ctx); err != nil {
			private.Close()
			return fmt.Errorf("could not stop private service gracefully: %w", err)
		}

		// Give outstanding requests a deadline for completion.
		ctx, cancelPub := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPub()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}
