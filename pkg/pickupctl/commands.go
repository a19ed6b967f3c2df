package pickupctl

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newStartCommand(rt *runtimeState) *cobra.Command {
	var (
		classID   string
		teacherID string
		reason    string
		pickupAt  string
	)
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start an emergency pickup event for a class",
		RunE: func(cmd *cobra.Command, _ []string) error {
			newPickupTime, err := time.Parse(time.RFC3339, pickupAt)
			if err != nil {
				return errors.Wrap(err, "invalid --pickup-at, expected RFC3339")
			}
			resp, err := rt.client.StartEvent(cmd.Context(), StartEventRequest{
				ClassID:       classID,
				InitiatorID:   teacherID,
				Reason:        reason,
				NewPickupTime: newPickupTime,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(rt.writer, "Event %s started: %d students, %d notifications sent, %d failed, %d escalated immediately\n",
				resp.Summary.EventID, resp.Summary.Students,
				resp.Summary.NotificationsSent, resp.Summary.NotificationsFailed,
				resp.Summary.EscalatedImmediately)
			return nil
		},
	}
	cmd.Flags().StringVar(&classID, "class", "", "class ID to dismiss")
	cmd.Flags().StringVar(&teacherID, "teacher", "", "initiating teacher ID")
	cmd.Flags().StringVar(&reason, "reason", "", "reason shown to guardians")
	cmd.Flags().StringVar(&pickupAt, "pickup-at", "", "new pickup time (RFC3339)")
	_ = cmd.MarkFlagRequired("class")
	_ = cmd.MarkFlagRequired("teacher")
	_ = cmd.MarkFlagRequired("pickup-at")
	return cmd
}

func newStatusCommand(rt *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "status <event-id>",
		Short: "Show per-student escalation status of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			event, err := rt.client.GetStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(rt.writer, "Event %s  class=%s  status=%s\n", event.ID, event.ClassID, event.Status)
			tw := tabwriter.NewWriter(rt.writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "STUDENT\tSTATUS\tLEVEL\tCONFIRMED BY\tATTEMPTS")
			for i := range event.Escalations {
				esc := &event.Escalations[i]
				confirmedBy := ""
				if esc.ConfirmedBy != nil {
					confirmedBy = fmt.Sprintf("%s (%s)", *esc.ConfirmedBy, esc.ConfirmedByRole)
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\n",
					esc.StudentName, esc.Status, esc.Level, confirmedBy, len(esc.Attempts))
			}
			return tw.Flush()
		},
	}
}

func newReportCommand(rt *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "report <event-id>",
		Short: "Show the completion report of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := rt.client.GetReport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(rt.writer, "Event %s  class=%s\n", report.EventID, report.ClassID)
			fmt.Fprintf(rt.writer, "  students:  %d\n", report.Students)
			fmt.Fprintf(rt.writer, "  confirmed: %d\n", report.Confirmed)
			fmt.Fprintf(rt.writer, "  picked up: %d\n", report.PickedUp)
			fmt.Fprintf(rt.writer, "  escalated: %d\n", report.Escalated)
			for role, n := range report.ByRole {
				fmt.Fprintf(rt.writer, "  confirmed by %s: %d\n", role, n)
			}
			for _, studentID := range report.Unresolved {
				fmt.Fprintf(rt.writer, "  UNRESOLVED: %s\n", studentID)
			}
			return nil
		},
	}
}

func newRespondCommand(rt *runtimeState) *cobra.Command {
	var (
		guardianID string
		decline    bool
	)
	cmd := &cobra.Command{
		Use:   "respond <event-id> <student-id>",
		Short: "Record a phoned-in guardian response",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := rt.client.Respond(cmd.Context(), args[0], args[1], guardianID, !decline)
			if err != nil {
				return err
			}
			if outcome.Stale {
				fmt.Fprintf(rt.writer, "Response was stale; student %s is already %s\n",
					outcome.StudentID, outcome.Status)
				return nil
			}
			fmt.Fprintf(rt.writer, "Student %s is now %s\n", outcome.StudentID, outcome.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&guardianID, "guardian", "", "guardian ID the answer came from")
	cmd.Flags().BoolVar(&decline, "decline", false, "record a decline instead of an accept")
	_ = cmd.MarkFlagRequired("guardian")
	return cmd
}

func newPickedUpCommand(rt *runtimeState) *cobra.Command {
	var actorID string
	cmd := &cobra.Command{
		Use:   "picked-up <event-id> <student-id>",
		Short: "Record the physical handover of a confirmed student",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			esc, err := rt.client.MarkPickedUp(cmd.Context(), args[0], args[1], actorID)
			if err != nil {
				return err
			}
			fmt.Fprintf(rt.writer, "Student %s marked %s\n", esc.StudentName, esc.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&actorID, "by", "", "teacher or staff ID recording the handover")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}
