package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string

	registerUsername string
	registerEmail    string
	registerPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the credential locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		username := loginUsername
		if username == "" {
			if username, err = promptLine("Username: "); err != nil {
				return err
			}
		}
		password := loginPassword
		if password == "" {
			if password, err = promptLine("Password: "); err != nil {
				return err
			}
		}

		if err := a.session.Login(cmd.Context(), username, password); err != nil {
			return err
		}
		user := a.session.User()
		fmt.Printf("Logged in as %s\n", user.Username)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		username := registerUsername
		if username == "" {
			if username, err = promptLine("Username: "); err != nil {
				return err
			}
		}
		email := registerEmail
		if email == "" {
			if email, err = promptLine("Email: "); err != nil {
				return err
			}
		}
		password := registerPassword
		if password == "" {
			if password, err = promptLine("Password: "); err != nil {
				return err
			}
		}

		if err := a.session.Register(cmd.Context(), username, email, password); err != nil {
			return err
		}
		fmt.Printf("Account created, logged in as %s\n", a.session.User().Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		a.session.Logout()
		fmt.Println("Logged out")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")

	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "Username")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "Email address")
	registerCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "Password (prompted when omitted)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
}
