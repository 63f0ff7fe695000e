package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/ondeck/pkg/commands/options"
)

var (
	output      = &options.OutputOptions{}
	useDefaults bool
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "ondeck",
		Short: base.Wrap80("Dump what is on your mind, keep today's focus short, and let the rest wait until it is due."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToday(cmd, &options.IDOptions{})
		},
	}

	options.AddOutputArg(cmd, output)
	cmd.PersistentFlags().BoolVar(&useDefaults, "defaults", false,
		"Continue with empty lists when saved data cannot be loaded in time.")

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addToday(topLevel)
	addDump(topLevel)
	addLater(topLevel)
	addPromote(topLevel)
	addDone(topLevel)
	addRoutine(topLevel)
	addArchive(topLevel)
	addRecap(topLevel)
	addKey(topLevel)
	addInfo(topLevel)
	addWatch(topLevel)
	addShell(topLevel)
	addMCP(topLevel)
	addUI(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
