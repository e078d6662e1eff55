package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/foodshare/foodshare/internal/store"
)

// FoodPage is one page of the available food listing.
type FoodPage struct {
	Foods      []store.FoodItem `json:"foods"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int64            `json:"total_pages"`
}

// --- API client methods ---

// ListFoods fetches a page of available food.
func (c *APIClient) ListFoods(q url.Values) (*FoodPage, error) {
	var resp FoodPage
	path := "/foods"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	if err := c.do("GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetFood fetches a single food item.
func (c *APIClient) GetFood(id string) (*store.FoodItem, error) {
	var resp store.FoodItem
	if err := c.do("GET", "/foods/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HighestFoods fetches the items with the largest quantity.
func (c *APIClient) HighestFoods() ([]store.FoodItem, error) {
	var resp []store.FoodItem
	if err := c.do("GET", "/highest-foods", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// MyFoods fetches the items donated by email.
func (c *APIClient) MyFoods(email string) ([]store.FoodItem, error) {
	var resp []store.FoodItem
	if err := c.do("GET", "/my-foods?email="+url.QueryEscape(email), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DeleteFood removes a food item.
func (c *APIClient) DeleteFood(id string) error {
	return c.do("DELETE", "/foods/"+url.PathEscape(id), nil, nil)
}

// --- Cobra commands ---

var foodsCmd = &cobra.Command{
	Use:   "foods",
	Short: "Browse and manage food items",
	Long: `Browse available food and manage your donations.

Examples:
  foodshare foods list --search rice --sort food_quantity --order desc
  foodshare foods top
  foodshare foods mine --email donor@example.com
  foodshare foods get 665f1c2e9b1d4c3a2f0e1a11`,
}

var (
	foodsListSearch   string
	foodsListLocation string
	foodsListSort     string
	foodsListOrder    string
	foodsListPage     int
	foodsListLimit    int

	foodsMineEmail string
)

var foodsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available food",
	Args:  cobra.NoArgs,
	RunE:  runFoodsList,
}

var foodsGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show a food item",
	Args:  cobra.ExactArgs(1),
	RunE:  runFoodsGet,
}

var foodsTopCmd = &cobra.Command{
	Use:   "top",
	Short: "List the food items with the largest quantity",
	Args:  cobra.NoArgs,
	RunE:  runFoodsTop,
}

var foodsMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List the food a donor has added",
	Args:  cobra.NoArgs,
	RunE:  runFoodsMine,
}

var foodsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a food item",
	Args:  cobra.ExactArgs(1),
	RunE:  runFoodsDelete,
}

func init() {
	foodsListCmd.Flags().StringVar(&foodsListSearch, "search", "", "Match food names containing this text")
	foodsListCmd.Flags().StringVar(&foodsListLocation, "location", "", "Match pickup locations containing this text")
	foodsListCmd.Flags().StringVar(&foodsListSort, "sort", "", "Sort field (expire_date, food_quantity, created_at, food_name)")
	foodsListCmd.Flags().StringVar(&foodsListOrder, "order", "", "Sort order (asc or desc)")
	foodsListCmd.Flags().IntVar(&foodsListPage, "page", 0, "Page number, starting at 1")
	foodsListCmd.Flags().IntVar(&foodsListLimit, "limit", 0, "Items per page")

	foodsMineCmd.Flags().StringVar(&foodsMineEmail, "email", "", "Donor email (required)")
	foodsMineCmd.MarkFlagRequired("email")

	foodsCmd.AddCommand(foodsListCmd)
	foodsCmd.AddCommand(foodsGetCmd)
	foodsCmd.AddCommand(foodsTopCmd)
	foodsCmd.AddCommand(foodsMineCmd)
	foodsCmd.AddCommand(foodsDeleteCmd)
}

func foodListQuery() url.Values {
	q := url.Values{}
	if foodsListSearch != "" {
		q.Set("search", foodsListSearch)
	}
	if foodsListLocation != "" {
		q.Set("location", foodsListLocation)
	}
	if foodsListSort != "" {
		q.Set("sort", foodsListSort)
	}
	if foodsListOrder != "" {
		q.Set("order", foodsListOrder)
	}
	if foodsListPage > 0 {
		q.Set("page", strconv.Itoa(foodsListPage))
	}
	if foodsListLimit > 0 {
		q.Set("limit", strconv.Itoa(foodsListLimit))
	}
	return q
}

func runFoodsList(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	page, err := client.ListFoods(foodListQuery())
	if err != nil {
		return fmt.Errorf("failed to list foods: %w", err)
	}

	return render(cmd, page, func(w *tabwriter.Writer) {
		printFoodTable(w, page.Foods)
		fmt.Fprintf(w, "\nPage %d of %d (%d items)\n", page.Page, page.TotalPages, page.Total)
	})
}

func runFoodsGet(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	food, err := client.GetFood(args[0])
	if err != nil {
		return fmt.Errorf("failed to get food: %w", err)
	}

	return render(cmd, food, func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "ID:\t%s\n", food.ID.Hex())
		fmt.Fprintf(w, "Name:\t%s\n", food.FoodName)
		fmt.Fprintf(w, "Quantity:\t%d\n", food.FoodQuantity)
		fmt.Fprintf(w, "Status:\t%s\n", food.FoodStatus)
		fmt.Fprintf(w, "Expires:\t%s\n", formatDate(food.ExpireDate))
		fmt.Fprintf(w, "Pickup:\t%s\n", food.PickupLocation)
		fmt.Fprintf(w, "Donor:\t%s <%s>\n", food.DonatorName, food.DonatorEmail)
		if food.AdditionalNotes != "" {
			fmt.Fprintf(w, "Notes:\t%s\n", food.AdditionalNotes)
		}
	})
}

func runFoodsTop(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	foods, err := client.HighestFoods()
	if err != nil {
		return fmt.Errorf("failed to list foods: %w", err)
	}

	return render(cmd, foods, func(w *tabwriter.Writer) {
		printFoodTable(w, foods)
	})
}

func runFoodsMine(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	foods, err := client.MyFoods(foodsMineEmail)
	if err != nil {
		return fmt.Errorf("failed to list foods: %w", err)
	}

	return render(cmd, foods, func(w *tabwriter.Writer) {
		printFoodTable(w, foods)
	})
}

func runFoodsDelete(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	if err := client.DeleteFood(args[0]); err != nil {
		return fmt.Errorf("failed to delete food: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Food %s deleted\n", args[0])
	return nil
}

func printFoodTable(w *tabwriter.Writer, foods []store.FoodItem) {
	if len(foods) == 0 {
		fmt.Fprintln(w, "No food found.")
		return
	}
	fmt.Fprintln(w, "ID\tNAME\tQTY\tSTATUS\tEXPIRES\tPICKUP")
	for _, f := range foods {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			f.ID.Hex(), f.FoodName, f.FoodQuantity, f.FoodStatus, formatDate(f.ExpireDate), f.PickupLocation)
	}
}
