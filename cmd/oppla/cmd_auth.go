package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"oppla/internal/client"
	syncpkg "oppla/internal/sync"
)

var (
	loginToken string
	loginEmail string
)

// loginCmd stores Oppla credentials locally
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to Oppla",
	Long: `Stores your Oppla session token in ~/.oppla/credentials.json.

This command:
1. Opens the Oppla sign-in page in your browser
2. Prompts for the session token from Settings > Integrations
3. Saves it locally so sync and search can authenticate`,
	RunE: runLogin,
}

// logoutCmd removes stored credentials
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove stored credentials",
	RunE:  runLogout,
}

// whoamiCmd shows the signed-in account
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in Oppla account",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVar(&loginToken, "token", "", "Session token (skips the prompt)")
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	token := strings.TrimSpace(loginToken)
	if token == "" {
		signIn := syncpkg.SignInURL(userCfg.GetAppBaseURL())
		fmt.Printf("Opening %s\n", signIn)
		if err := syncpkg.OpenBrowser(signIn); err != nil {
			fmt.Println("Could not open a browser. Visit the URL above to sign in.")
		}
		fmt.Println("\nAfter signing in, copy your session token from Settings > Integrations.")
		fmt.Print("Token: ")

		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = strings.TrimSpace(line)
	}
	if token == "" {
		return fmt.Errorf("no token provided")
	}

	if err := api.SaveCredentials(client.Credentials{
		SessionToken: token,
		Email:        loginEmail,
		SavedAt:      time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	if loginEmail != "" {
		fmt.Printf("Signed in as %s\n", loginEmail)
	} else {
		fmt.Println("Signed in.")
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := api.ClearCredentials(); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	fmt.Println("Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	if !api.SignedIn() {
		fmt.Println("Not signed in. Run 'oppla login'.")
		return nil
	}
	if email := api.Email(); email != "" {
		fmt.Printf("Signed in as %s (%s)\n", email, api.BaseURL())
	} else {
		fmt.Printf("Signed in (%s)\n", api.BaseURL())
	}
	return nil
}
