// file: cmd/auth.go
// version: 2.0.0
// guid: 4a5b6c7d-8e9f-0a1b-2c3d-4e5f6a7b8ca0

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/obodeflix/obodeflix/internal/config"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Log in to the catalog server",
	Long: `Log in and save the session token to the config file so later admin
commands pick it up automatically.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := ""
		if len(args) > 0 {
			email = args[0]
		}
		if email == "" {
			fmt.Print("Email: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return err
			}
			email = strings.TrimSpace(line)
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return err
		}

		api := apiClient()
		session, err := api.Login(context.Background(), email, string(password))
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		config.AppConfig.APIToken = session.Token
		if err := config.SaveConfigToFile(); err != nil {
			fmt.Printf("Warning: token not saved, pass --token on later commands: %v\n", err)
		}
		fmt.Printf("Logged in as %s (%s)\n", session.User.Name, session.User.Type)
		return nil
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		api := apiClient()
		if api.Token() == "" {
			fmt.Println("Not logged in")
			return nil
		}
		if err := api.Logout(context.Background()); err != nil {
			return err
		}
		config.AppConfig.APIToken = ""
		if err := config.SaveConfigToFile(); err != nil {
			fmt.Printf("Warning: could not clear saved token: %v\n", err)
		}
		fmt.Println("Logged out")
		return nil
	},
}

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := apiClient().Me(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s> (%s)\n", user.Name, user.Email, user.Type)
		return nil
	},
}

// signupCmd represents the signup command. The first account on a fresh
// server becomes the admin.
var signupCmd = &cobra.Command{
	Use:   "signup <name> <email>",
	Short: "Register an account on the catalog server",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return err
		}

		api := apiClient()
		session, err := api.Signup(context.Background(), args[0], args[1], string(password))
		if err != nil {
			return fmt.Errorf("signup failed: %w", err)
		}

		config.AppConfig.APIToken = session.Token
		if err := config.SaveConfigToFile(); err != nil {
			fmt.Printf("Warning: token not saved: %v\n", err)
		}
		fmt.Printf("Registered %s (%s)\n", session.User.Name, session.User.Type)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(signupCmd)
}
