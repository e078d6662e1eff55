package cli

import (
	"fmt"
	"net/url"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/foodshare/foodshare/internal/store"
)

// --- API client methods ---

// ListUsers returns every registered user.
func (c *APIClient) ListUsers() ([]store.User, error) {
	var resp []store.User
	if err := c.do("GET", "/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// UserRole returns the role of the user with email.
func (c *APIClient) UserRole(email string) (string, error) {
	var resp struct {
		Role string `json:"role"`
	}
	if err := c.do("GET", "/users/"+url.PathEscape(email)+"/role", nil, &resp); err != nil {
		return "", err
	}
	return resp.Role, nil
}

// SetUserRole changes the role of the user with id.
func (c *APIClient) SetUserRole(id, role string) (*store.User, error) {
	var resp store.User
	if err := c.do("PATCH", "/users/role/"+url.PathEscape(id), map[string]string{"role": role}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Cobra commands ---

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
	Long: `List users and manage their roles.

Examples:
  foodshare users list
  foodshare users role someone@example.com
  foodshare users set-role 665f1e019b1d4c3a2f0e1a30 admin`,
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE:  runUsersList,
}

var usersRoleCmd = &cobra.Command{
	Use:   "role EMAIL",
	Short: "Print a user's role",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersRole,
}

var usersSetRoleCmd = &cobra.Command{
	Use:   "set-role ID ROLE",
	Short: "Change a user's role",
	Args:  cobra.ExactArgs(2),
	RunE:  runUsersSetRole,
}

func init() {
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersRoleCmd)
	usersCmd.AddCommand(usersSetRoleCmd)
}

func runUsersList(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	users, err := client.ListUsers()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	return render(cmd, users, func(w *tabwriter.Writer) {
		if len(users) == 0 {
			fmt.Fprintln(w, "No users found.")
			return
		}
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tJOINED")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID.Hex(), u.Name, u.Email, u.Role, formatDate(u.CreatedAt))
		}
	})
}

func runUsersRole(cmd *cobra.Command, args []string) error {
	client, err := NewClient()
	if err != nil {
		return err
	}

	role, err := client.UserRole(args[0])
	if err != nil {
		return fmt.Errorf("failed to get role: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), role)
	return nil
}

func runUsersSetRole(cmd *cobra.Command, args []string) error {
	if !store.ValidRole(args[1]) {
		return fmt.Errorf("role must be %q or %q", store.RoleUser, store.RoleAdmin)
	}

	client, err := NewClient()
	if err != nil {
		return err
	}

	u, err := client.SetUserRole(args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s is now %s\n", u.Email, u.Role)
	return nil
}
