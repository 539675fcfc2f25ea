package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sautihub/sauti/internal/model"
	"github.com/sautihub/sauti/internal/service"
	"github.com/sautihub/sauti/internal/store"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin users",
		Long:  "Create, list, and seed the administrative users who manage the portal.",
	}

	cmd.AddCommand(newAdminCreateCmd())
	cmd.AddCommand(newAdminListCmd())
	cmd.AddCommand(newAdminSeedCmd())

	return cmd
}

// ---------- admin create ----------

func newAdminCreateCmd() *cobra.Command {
	var (
		username string
		password string
		super    bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new admin user",
		Example: `  sauti admin create --username moderator --password secret
  sauti admin create --username chief --super  # prompts for password`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminCreate(username, password, super)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Admin username (required)")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (prompted if omitted)")
	cmd.Flags().BoolVar(&super, "super", false, "Grant super-admin privileges")
	cmd.MarkFlagRequired("username")

	return cmd
}

func runAdminCreate(username, password string, super bool) error {
	if password == "" {
		var err error
		password, err = promptPassword()
		if err != nil {
			return err
		}
	}

	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	role := model.RoleAdmin
	if super {
		role = model.RoleSuperAdmin
	}

	authSvc := service.NewAuthService(st, "")
	admin, err := authSvc.CreateAdmin(context.Background(), username, password, role)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			return fmt.Errorf("admin %q already exists", username)
		}
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Printf("Created %s %q (id %d)\n", admin.Role, admin.Username, admin.ID)
	return nil
}

// promptPassword reads a password twice from the terminal without echo.
func promptPassword() (string, error) {
	fmt.Print("Password: ")
	pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()

	fmt.Print("Confirm password: ")
	confirmBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}
	fmt.Println()

	if string(pwBytes) != string(confirmBytes) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(pwBytes), nil
}

// ---------- admin list ----------

func newAdminListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all admin users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminList(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runAdminList(jsonOutput bool) error {
	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	admins, err := st.ListAdmins(context.Background())
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(admins)
	}

	if len(admins) == 0 {
		fmt.Println("No admin users configured. Use 'sauti admin create' or 'sauti admin seed'.")
		return nil
	}

	fmt.Printf("%-6s %-24s %-12s %-20s\n", "ID", "USERNAME", "ROLE", "CREATED")
	fmt.Printf("%-6s %-24s %-12s %-20s\n", "--", "--------", "----", "-------")
	for _, a := range admins {
		fmt.Printf("%-6d %-24s %-12s %-20s\n", a.ID, a.Username, a.Role, a.CreatedAt.Format("2006-01-02 15:04"))
	}

	return nil
}

// ---------- admin seed ----------

func newAdminSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the initial super-admin and admin accounts",
		Long: `Seed the database with one super-admin and one regular admin account.

Credentials are read from SAUTI_SEED_SUPER_USERNAME / SAUTI_SEED_SUPER_PASSWORD
and SAUTI_SEED_ADMIN_USERNAME / SAUTI_SEED_ADMIN_PASSWORD. Missing values are
prompted for interactively. Accounts that already exist are left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminSeed()
		},
	}

	return cmd
}

func runAdminSeed() error {
	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	authSvc := service.NewAuthService(st, "")
	ctx := context.Background()

	seeds := []struct {
		label       string
		usernameEnv string
		passwordEnv string
		role        model.Role
	}{
		{"super-admin", "SAUTI_SEED_SUPER_USERNAME", "SAUTI_SEED_SUPER_PASSWORD", model.RoleSuperAdmin},
		{"admin", "SAUTI_SEED_ADMIN_USERNAME", "SAUTI_SEED_ADMIN_PASSWORD", model.RoleAdmin},
	}

	for _, seed := range seeds {
		username := os.Getenv(seed.usernameEnv)
		if username == "" {
			fmt.Printf("%s username: ", seed.label)
			if _, err := fmt.Scanln(&username); err != nil {
				return fmt.Errorf("failed to read %s username: %w", seed.label, err)
			}
		}

		if _, err := st.GetAdminByUsername(ctx, username); err == nil {
			fmt.Printf("Skipping %s %q: already exists\n", seed.label, username)
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("check %s %q: %w", seed.label, username, err)
		}

		password := os.Getenv(seed.passwordEnv)
		if password == "" {
			fmt.Printf("Password for %s %q\n", seed.label, username)
			password, err = promptPassword()
			if err != nil {
				return err
			}
		}

		admin, err := authSvc.CreateAdmin(ctx, username, password, seed.role)
		if err != nil {
			return fmt.Errorf("seed %s %q: %w", seed.label, username, err)
		}
		fmt.Printf("Created %s %q (id %d)\n", seed.label, admin.Username, admin.ID)
	}

	return nil
}
