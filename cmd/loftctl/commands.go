package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/loftkeeper/pkg/clients/loftapi"
)

type options struct {
	apiURL  string
	token   string
	timeout time.Duration
}

func (o *options) client() *loftapi.Client {
	return loftapi.NewClient(o.apiURL, o.token, loftapi.WithTimeout(o.timeout))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "loftctl",
		Short:         "Manage lofts, birds and daily tasks from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", envOr("LOFT_API_URL", "http://localhost:8080"), "API base URL (or set LOFT_API_URL)")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("LOFT_TOKEN"), "access token (or set LOFT_TOKEN)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 15*time.Second, "per-request timeout")

	root.AddCommand(
		newLoginCmd(opts),
		newProfileCmd(opts),
		newLoftsCmd(opts),
		newBirdsCmd(opts),
		newTasksCmd(opts),
	)
	return root
}

func newLoginCmd(opts *options) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange credentials for an access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.client().Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\nexport LOFT_TOKEN=%s\n", s.User.Email, s.AccessToken)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newProfileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := opts.client().Profile(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s <%s>\n", u.FirstName, u.LastName, u.Email)
			return nil
		},
	}
}

func newLoftsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lofts",
		Short: "List your lofts",
		RunE: func(cmd *cobra.Command, args []string) error {
			lofts, err := opts.client().Lofts(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tLOCATION\tBIRDS\tCAPACITY")
			for _, l := range lofts {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", l.ID, l.Name, l.Location, l.BirdCount, l.Capacity)
			}
			return tw.Flush()
		},
	}
}

func newBirdsCmd(opts *options) *cobra.Command {
	var q loftapi.BirdQuery
	cmd := &cobra.Command{
		Use:   "birds",
		Short: "List birds, filtered and paginated",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := opts.client().Birds(cmd.Context(), q)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RING\tNAME\tSEX\tSTATUS")
			for _, b := range page.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.RingNumber, b.Name, b.Sex, b.Status)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "page %d, %d of %d birds\n", page.Page, len(page.Items), page.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&q.LoftID, "loft", "", "loft id")
	cmd.Flags().StringVar(&q.Status, "status", "", "ACTIVE, SOLD, DECEASED, LOST or RETIRED")
	cmd.Flags().StringVar(&q.Sex, "sex", "", "MALE, FEMALE or UNKNOWN")
	cmd.Flags().StringVar(&q.Search, "search", "", "ring number or name fragment")
	cmd.Flags().IntVar(&q.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&q.PageSize, "page-size", 0, "page size")
	return cmd
}

func newTasksCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and complete task occurrences",
	}

	var from, to string
	list := &cobra.Command{
		Use:   "list",
		Short: "List occurrences in a date window (default: this week)",
		RunE: func(cmd *cobra.Command, args []string) error {
			occ, err := opts.client().Occurrences(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tDONE\tPRIORITY\tTITLE\tTASK")
			for _, o := range occ {
				done := " "
				if o.Completed {
					done = "x"
				}
				fmt.Fprintf(tw, "%s\t[%s]\t%s\t%s\t%s\n", o.Date, done, o.Priority, o.Title, o.TaskID)
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	list.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")

	var notes string
	complete := &cobra.Command{
		Use:   "complete TASK_ID DATE",
		Short: "Mark one occurrence as done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			done, err := opts.client().Complete(cmd.Context(), args[0], args[1], notes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "completed %s on %s\n", done.TaskID, done.Date)
			return nil
		},
	}
	complete.Flags().StringVar(&notes, "notes", "", "completion notes")

	uncomplete := &cobra.Command{
		Use:   "uncomplete TASK_ID DATE",
		Short: "Clear the completion of one occurrence",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.client().Uncomplete(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s on %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.AddCommand(list, complete, uncomplete)
	return cmd
}
