package internal

import (
	"github.com/MrSnakeDoc/linkvault/internal/middleware"
	"github.com/spf13/cobra"
)

var defaultCommands = []middleware.CommandFactory{
	middleware.UseMiddlewareChain(middleware.LoadConfig, middleware.BuildService)(NewServeCmd),
	middleware.UseMiddlewareChain(middleware.LoadConfig, middleware.BuildService)(NewListCmd),
	middleware.UseMiddlewareChain(middleware.LoadConfig, middleware.RequireWriteConfig, middleware.BuildService)(NewPushCmd),
	middleware.UseMiddlewareChain(middleware.LoadConfig, middleware.RequireWriteConfig, middleware.BuildService)(NewPruneCmd),
	middleware.UseMiddlewareChain(middleware.LoadConfig, middleware.BuildService)(NewPullCmd),
	middleware.UseMiddlewareChain(middleware.LoadConfig, middleware.BuildService)(NewReportCmd),
	middleware.UseMiddlewareChain(middleware.LoadConfig)(NewConfigCmd),
}

func RegisterSubCommands(cmd *cobra.Command) {
	for _, factory := range defaultCommands {
		cmd.AddCommand(factory())
	}
}
