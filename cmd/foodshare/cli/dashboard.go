package cli

import (
	"fmt"
	"net/url"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/foodshare/foodshare/internal/dashboard"
)

// Dashboard fetches the activity summary for a donor.
func (c *APIClient) Dashboard(email string) (*dashboard.Summary, error) {
	var resp dashboard.Summary
	if err := c.do("GET", "/user-dashboard/"+url.PathEscape(email), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard EMAIL",
	Short: "Show a donor's activity summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	sum, err := client.Dashboard(args[0])
	if err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}

	return render(cmd, sum, func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "Donor:\t%s\n", sum.Email)
		fmt.Fprintf(w, "Added:\t%d\n", sum.TotalAdded)
		fmt.Fprintf(w, "Available:\t%d\n", sum.Available)
		fmt.Fprintf(w, "Donated:\t%d\n", sum.Donated)
		fmt.Fprintf(w, "Delivered:\t%d\n", sum.Delivered)
		fmt.Fprintf(w, "Expired:\t%d\n", sum.Expired)
		fmt.Fprintf(w, "Requests made:\t%d\n", sum.TotalRequests)

		fmt.Fprintln(w)
		for m, n := range sum.Monthly {
			if n > 0 {
				fmt.Fprintf(w, "%s:\t%d\n", time.Month(m+1).String()[:3], n)
			}
		}

		if len(sum.RecentFoods) > 0 {
			fmt.Fprintln(w, "\nRecent:")
			printFoodTable(w, sum.RecentFoods)
		}
	})
}
