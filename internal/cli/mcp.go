package cli

import (
	"context"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	errs "github.com/oitsjustjose/MC-Docker/internal/errors"
	"github.com/oitsjustjose/MC-Docker/internal/interfaces"
	"github.com/oitsjustjose/MC-Docker/internal/logging"
	"github.com/oitsjustjose/MC-Docker/internal/server"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the manager as MCP tools over stdio",
	Long: `Expose server management as Model Context Protocol tools on stdio, so MCP
clients (IDE agents, chat assistants) can create and control servers.

stdout carries the protocol stream; server log output goes to stderr.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// Tool argument and result shapes. ServerOptions doubles as the create_server
// input, so flags, YAML definitions and MCP calls share one vocabulary.
type serverArgs struct {
	Name string `json:"name" jsonschema:"name of the managed server"`
}

type forceArgs struct {
	Name  string `json:"name" jsonschema:"name of the managed server"`
	Force bool   `json:"force,omitempty" jsonschema:"kill the container instead of a graceful shutdown"`
}

type rconArgs struct {
	Name    string `json:"name" jsonschema:"name of the managed server"`
	Command string `json:"command" jsonschema:"console command to run, e.g. 'list'"`
}

type opResult struct {
	Message string `json:"message"`
}

type listResult struct {
	Servers []interfaces.ServerSummary `json:"servers"`
}

type rconResult struct {
	Output string `json:"output"`
}

func runMCP(cmd *cobra.Command, args []string) error {
	runtime, err := getRuntime()
	if err != nil {
		return err
	}
	defer runtime.Close()

	srv := mcp.NewServer(&mcp.Implementation{Name: "mc-docker", Version: Version}, nil)
	registerTools(srv, runtime)

	return srv.Run(cmd.Context(), &mcp.StdioTransport{})
}

// mcpManager binds a manager whose log lines go to stderr, keeping stdout
// clean for the protocol stream.
func mcpManager(ctx context.Context, runtime server.Runtime, name string) (*server.Manager, error) {
	if name == "" {
		return nil, errs.NewValidationError("server name is required")
	}
	log := logging.NewWithWriters(name, os.Stderr, os.Stderr)
	return server.NewManager(ctx, name, runtime, log)
}

func registerTools(srv *mcp.Server, runtime server.Runtime) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_servers",
		Description: "List every managed Minecraft server with state, health, port and backup flag",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, listResult, error) {
		summaries, err := server.List(ctx, runtime)
		if err != nil {
			return nil, listResult{}, err
		}
		return nil, listResult{Servers: summaries}, nil
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "server_status",
		Description: "Report a server's container state and health",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args serverArgs) (*mcp.CallToolResult, interfaces.ServerStatus, error) {
		mgr, err := mcpManager(ctx, runtime, args.Name)
		if err != nil {
			return nil, interfaces.ServerStatus{}, err
		}
		status, err := mgr.Status(ctx)
		return nil, status, err
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_server",
		Description: "Create and start a new Minecraft server container. Unset fields fall back to the tool's configured defaults.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, opts interfaces.ServerOptions) (*mcp.CallToolResult, opResult, error) {
		applyConfigDefaults(&opts)
		mgr, err := mcpManager(ctx, runtime, opts.Name)
		if err != nil {
			return nil, opResult{}, err
		}
		j := openJournal(os.Stderr)
		defer j.Close()
		err = mgr.Create(ctx, opts)
		j.RecordEvent(opts.Name, "create", err)
		if err != nil {
			return nil, opResult{}, err
		}
		j.SaveOptions(opts)
		return nil, opResult{Message: "Successfully Created Server"}, nil
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "start_server",
		Description: "Start a stopped server",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args serverArgs) (*mcp.CallToolResult, opResult, error) {
		mgr, err := mcpManager(ctx, runtime, args.Name)
		if err != nil {
			return nil, opResult{}, err
		}
		j := openJournal(os.Stderr)
		defer j.Close()
		err = mgr.Start(ctx)
		j.RecordEvent(args.Name, "start", err)
		if err != nil {
			return nil, opResult{}, err
		}
		return nil, opResult{Message: "Successfully Started Server"}, nil
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "stop_server",
		Description: "Stop a running server, gracefully by default",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args forceArgs) (*mcp.CallToolResult, opResult, error) {
		mgr, err := mcpManager(ctx, runtime, args.Name)
		if err != nil {
			return nil, opResult{}, err
		}
		j := openJournal(os.Stderr)
		defer j.Close()
		err = mgr.Stop(ctx, args.Force)
		j.RecordEvent(args.Name, "stop", err)
		if err != nil {
			return nil, opResult{}, err
		}
		return nil, opResult{Message: "Successfully Stopped Server"}, nil
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "restart_server",
		Description: "Restart a server, gracefully by default",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args forceArgs) (*mcp.CallToolResult, opResult, error) {
		mgr, err := mcpManager(ctx, runtime, args.Name)
		if err != nil {
			return nil, opResult{}, err
		}
		j := openJournal(os.Stderr)
		defer j.Close()
		err = mgr.Restart(ctx, args.Force)
		j.RecordEvent(args.Name, "restart", err)
		if err != nil {
			return nil, opResult{}, err
		}
		return nil, opResult{Message: "Successfully Restarted Server"}, nil
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_server",
		Description: "Stop and remove a server's container. World data on disk is kept.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args serverArgs) (*mcp.CallToolResult, opResult, error) {
		mgr, err := mcpManager(ctx, runtime, args.Name)
		if err != nil {
			return nil, opResult{}, err
		}
		j := openJournal(os.Stderr)
		defer j.Close()
		err = mgr.Delete(ctx)
		j.RecordEvent(args.Name, "delete", err)
		if err != nil {
			return nil, opResult{}, err
		}
		return nil, opResult{Message: "Successfully Deleted Server"}, nil
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "rcon_command",
		Description: "Run one console command on a running server and return its output",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args rconArgs) (*mcp.CallToolResult, rconResult, error) {
		mgr, err := mcpManager(ctx, runtime, args.Name)
		if err != nil {
			return nil, rconResult{}, err
		}
		out, err := mgr.Rcon(ctx, args.Command)
		if err != nil {
			return nil, rconResult{}, err
		}
		return nil, rconResult{Output: out}, nil
	})
}
