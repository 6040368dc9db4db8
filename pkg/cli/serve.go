package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/grpcwire/grpcwire/pkg/call"
	"github.com/grpcwire/grpcwire/pkg/config"
	"github.com/grpcwire/grpcwire/pkg/dispatch"
	"github.com/grpcwire/grpcwire/pkg/logging"
	"github.com/grpcwire/grpcwire/pkg/registry"
	"github.com/grpcwire/grpcwire/pkg/schema"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 15 * time.Second

// serveFlagVals is the package-level instance bound to cobra flags.
var serveFlagVals serveFlags

type serveFlags struct {
	configPath  string
	addr        string
	protos      []string
	importPaths []string
	encoding    string
	maxRecvSize int
	logLevel    string
	logFormat   string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Compile proto contracts and serve them",
	Long: `Start a server for the services declared in the given .proto files.
Every declared method is bound to an echo-style placeholder that returns an
empty response message, which makes the server useful for wire-level
contract and client testing without writing handler code.`,
	Example: `  # Serve the contracts in greeter.proto on the default port
  grpcwire serve --proto greeter.proto

  # Serve from a config file with gzip response compression
  grpcwire serve --config grpcwire.yaml --encoding gzip`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), &serveFlagVals)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	f := &serveFlagVals
	serveCmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Path to a YAML configuration file")
	serveCmd.Flags().StringVar(&f.addr, "addr", "", "Listen address (default :50051)")
	serveCmd.Flags().StringSliceVar(&f.protos, "proto", nil, "Proto file declaring served contracts (repeatable)")
	serveCmd.Flags().StringSliceVarP(&f.importPaths, "import-path", "I", nil, "Directory to search for proto imports (repeatable)")
	serveCmd.Flags().StringVar(&f.encoding, "encoding", "", "Response message encoding offered to clients (for example gzip)")
	serveCmd.Flags().IntVar(&f.maxRecvSize, "max-recv-size", 0, "Maximum inbound frame payload in bytes (0 = unlimited)")
	serveCmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	serveCmd.Flags().StringVar(&f.logFormat, "log-format", "", "Log format: text or json")
}

// loadConfig resolves the effective configuration: file values first, then
// flag overrides.
func loadConfig(f *serveFlags) (*config.Server, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.LoadFromFile(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if f.addr != "" {
		cfg.Addr = f.addr
	}
	if len(f.protos) > 0 {
		cfg.Protos = append(cfg.Protos, f.protos...)
	}
	if len(f.importPaths) > 0 {
		cfg.ImportPaths = append(cfg.ImportPaths, f.importPaths...)
	}
	if f.encoding != "" {
		cfg.Encoding = f.encoding
	}
	if f.maxRecvSize > 0 {
		cfg.MaxRecvSize = f.maxRecvSize
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.logFormat != "" {
		cfg.LogFormat = f.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(ctx context.Context, f *serveFlags) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
	})

	compiled, err := schema.Compile(ctx, cfg.Protos, cfg.ImportPaths)
	if err != nil {
		return err
	}

	handler := dispatch.New(
		dispatch.WithLogger(log),
		dispatch.WithEncoding(cfg.Encoding),
		dispatch.WithMaxRecvSize(cfg.MaxRecvSize),
	)
	for _, reg := range compiled.Registries() {
		svc, err := placeholderService(reg)
		if err != nil {
			return err
		}
		if err := handler.Register(svc); err != nil {
			return err
		}
		log.Info("service registered", "service", reg.Service(), "methods", len(reg.RPCs()))
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// placeholderService binds every declared method to an echo-style handler
// that answers with an empty response message.
func placeholderService(reg *registry.Registry) (*dispatch.Service, error) {
	svc := dispatch.NewService(reg)
	for _, rpc := range reg.RPCs() {
		rpc := rpc
		var err error
		if rpc.Shape == registry.Unary {
			err = svc.Unary(rpc.Name, func(_ *call.Context, _ any) (any, error) {
				return rpc.NewResponse(), nil
			})
		} else {
			err = svc.Stream(rpc.Name, func(_ *call.Context, stream *dispatch.Stream) error {
				return placeholderStream(rpc, stream)
			})
		}
		if err != nil {
			return nil, err
		}
	}
	return svc, nil
}

// placeholderStream answers one empty response per request message, or a
// single empty response for shapes where the client sends nothing further.
func placeholderStream(rpc registry.RPC, stream *dispatch.Stream) error {
	switch rpc.Shape {
	case registry.ServerStreaming:
		if _, err := stream.Recv(); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return stream.Send(rpc.NewResponse())
	case registry.ClientStreaming:
		for {
			_, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return stream.Send(rpc.NewResponse())
			}
			if err != nil {
				return err
			}
		}
	default: // bidirectional
		for {
			_, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			if err := stream.Send(rpc.NewResponse()); err != nil {
				return err
			}
		}
	}
}
