package commands

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tableflip.dev/ondeck/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	var (
		transport   string
		httpHost    string
		httpPort    int
		httpPath    string
		httpTLSCert string
		httpTLSKey  string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "start the Model Context Protocol server",
		Long: `Launch an MCP server that exposes today's focus, the later list and the
archive, plus tools to dump, complete, undo and promote tasks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				// stdout belongs to the transport.
				s.svc.OnRoutineComplete = func() { s.log.Info("routine complete") }

				path := strings.TrimSpace(httpPath)
				if path == "" {
					path = "/mcp"
				}
				if !strings.HasPrefix(path, "/") {
					path = "/" + path
				}

				runner := mcp.Runner{
					Service:          s.svc,
					Name:             "ondeck",
					Version:          version,
					HTTPEndpointPath: path,
					HTTPServerCert:   strings.TrimSpace(httpTLSCert),
					HTTPServerKey:    strings.TrimSpace(httpTLSKey),
				}

				switch strings.ToLower(strings.TrimSpace(transport)) {
				case "", string(mcp.TransportStdio):
					runner.Transport = mcp.TransportStdio
				case string(mcp.TransportHTTP):
					host := strings.TrimSpace(httpHost)
					if host == "" {
						host = "127.0.0.1"
					}
					if httpPort < 0 || httpPort > 65535 {
						return fmt.Errorf("invalid http-port %d", httpPort)
					}
					runner.Transport = mcp.TransportHTTP
					runner.HTTPListenAddr = net.JoinHostPort(host, strconv.Itoa(httpPort))
					runner.OnHTTPListening = func(a net.Addr) {
						scheme := "http"
						if runner.HTTPServerCert != "" {
							scheme = "https"
						}
						s.log.Info("mcp listening", zap.String("url", fmt.Sprintf("%s://%s%s", scheme, a, path)))
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "MCP HTTP server listening on %s://%s%s\n", scheme, a, path)
					}
				default:
					return fmt.Errorf("unsupported transport %q (expected stdio or http)", transport)
				}

				if _, err := s.hydrate(ctx); err != nil {
					return err
				}
				return runner.Do(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&transport, "transport", string(mcp.TransportStdio), "transport to use: stdio or http")
	cmd.Flags().StringVar(&httpHost, "http-host", "127.0.0.1", "host/interface for HTTP transport")
	cmd.Flags().IntVar(&httpPort, "http-port", 8080, "port for HTTP transport (use 0 for random)")
	cmd.Flags().StringVar(&httpPath, "http-path", "/mcp", "HTTP endpoint path")
	cmd.Flags().StringVar(&httpTLSCert, "http-tls-cert", "", "TLS certificate file for HTTPS")
	cmd.Flags().StringVar(&httpTLSKey, "http-tls-key", "", "TLS private key file for HTTPS")

	topLevel.AddCommand(cmd)
}
