package cli

import (
	"errors"
	"fmt"
	"net/url"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/foodshare/foodshare/internal/store"
)

// --- API client methods ---

// RequestsByFood lists the requests made for a food item.
func (c *APIClient) RequestsByFood(foodID string) ([]store.FoodRequest, error) {
	var resp []store.FoodRequest
	if err := c.do("GET", "/food-request/"+url.PathEscape(foodID), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RequestsByRequester lists the requests made by email.
func (c *APIClient) RequestsByRequester(email string) ([]store.FoodRequest, error) {
	var resp []store.FoodRequest
	if err := c.do("GET", "/my-request?email="+url.QueryEscape(email), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SearchRequests lists requests matching q; an empty q lists all.
func (c *APIClient) SearchRequests(q string) ([]store.FoodRequest, error) {
	var resp []store.FoodRequest
	path := "/request-food"
	if q != "" {
		path += "?q=" + url.QueryEscape(q)
	}
	if err := c.do("GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// AcceptRequest accepts a request and marks its food donated.
func (c *APIClient) AcceptRequest(id string) (*store.FoodRequest, error) {
	var resp store.FoodRequest
	if err := c.do("PATCH", "/food-request/accept/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RejectRequest rejects a request.
func (c *APIClient) RejectRequest(id string) (*store.FoodRequest, error) {
	var resp store.FoodRequest
	if err := c.do("PATCH", "/food-request/reject/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Cobra commands ---

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Review food requests",
	Long: `List, accept and reject requests for donated food.

Examples:
  foodshare requests list --food 665f1c2e9b1d4c3a2f0e1a11
  foodshare requests list --email requester@example.com
  foodshare requests list --query pending
  foodshare requests accept 665f1d7a9b1d4c3a2f0e1a20`,
}

var (
	requestsListFood  string
	requestsListEmail string
	requestsListQuery string
)

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List food requests",
	Args:  cobra.NoArgs,
	RunE:  runRequestsList,
}

var requestsAcceptCmd = &cobra.Command{
	Use:   "accept ID",
	Short: "Accept a request and mark its food donated",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequestsAccept,
}

var requestsRejectCmd = &cobra.Command{
	Use:   "reject ID",
	Short: "Reject a request",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequestsReject,
}

func init() {
	requestsListCmd.Flags().StringVar(&requestsListFood, "food", "", "Only requests for this food id")
	requestsListCmd.Flags().StringVar(&requestsListEmail, "email", "", "Only requests made by this email")
	requestsListCmd.Flags().StringVarP(&requestsListQuery, "query", "q", "", "Search requester, pickup location and status")
	requestsListCmd.MarkFlagsMutuallyExclusive("food", "email", "query")

	requestsCmd.AddCommand(requestsListCmd)
	requestsCmd.AddCommand(requestsAcceptCmd)
	requestsCmd.AddCommand(requestsRejectCmd)
}

func runRequestsList(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	var reqs []store.FoodRequest
	switch {
	case requestsListFood != "":
		reqs, err = client.RequestsByFood(requestsListFood)
	case requestsListEmail != "":
		reqs, err = client.RequestsByRequester(requestsListEmail)
	default:
		reqs, err = client.SearchRequests(requestsListQuery)
	}
	if err != nil {
		return fmt.Errorf("failed to list requests: %w", err)
	}

	return render(cmd, reqs, func(w *tabwriter.Writer) {
		printRequestTable(w, reqs)
	})
}

func runRequestsAccept(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	req, err := client.AcceptRequest(args[0])
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
			return fmt.Errorf("request %s or its food item no longer exists", args[0])
		}
		return fmt.Errorf("failed to accept request: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Request %s accepted; food %s marked donated\n", req.ID.Hex(), req.FoodID)
	return nil
}

func runRequestsReject(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	req, err := client.RejectRequest(args[0])
	if err != nil {
		return fmt.Errorf("failed to reject request: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Request %s rejected\n", req.ID.Hex())
	return nil
}

func printRequestTable(w *tabwriter.Writer, reqs []store.FoodRequest) {
	if len(reqs) == 0 {
		fmt.Fprintln(w, "No requests found.")
		return
	}
	fmt.Fprintln(w, "ID\tFOOD\tREQUESTER\tSTATUS\tREQUESTED")
	for _, r := range reqs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.ID.Hex(), r.FoodName, r.RequesterEmail, r.Status, formatDate(r.RequestedAt))
	}
}
