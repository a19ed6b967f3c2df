// Package pickupctl implements the school-office command line for the pickup
// escalation API: starting a dismissal, watching its progress, and recording
// phoned-in guardian answers.
package pickupctl

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/amidulanjana/smart-classroom-sub000/pkg/system"
)

type runtimeState struct {
	server string
	writer io.Writer
	client *Client
}

// NewRootCommand builds the pickupctl command tree.
func NewRootCommand(out io.Writer) *cobra.Command {
	if out == nil {
		out = os.Stdout
	}
	rt := &runtimeState{writer: out}

	root := &cobra.Command{
		Use:           "pickupctl",
		Short:         "Emergency pickup CLI",
		Long:          "pickupctl drives the emergency pickup escalation API from the school office.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.server == "" {
				rt.server = os.Getenv("PICKUPCTL_SERVER")
			}
			if rt.server == "" {
				rt.server = "http://localhost:8080"
			}
			if cmd.Name() == "version" {
				return nil
			}
			client, err := NewClient(rt.server)
			if err != nil {
				return err
			}
			rt.client = client
			return nil
		},
	}

	root.PersistentFlags().StringVar(&rt.server, "server", "", "pickup API server base URL (env PICKUPCTL_SERVER)")

	root.AddCommand(
		newStartCommand(rt),
		newStatusCommand(rt),
		newReportCommand(rt),
		newRespondCommand(rt),
		newPickedUpCommand(rt),
		newVersionCommand(rt),
	)
	return root
}

func newVersionCommand(rt *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pickupctl version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("pickupctl %s\n", system.Version)
		},
	}
}
