package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/deadside-ru/hub/pkg/api"
	"github.com/deadside-ru/hub/pkg/model"
	"github.com/spf13/cobra"
)

var (
	profileUsername string
	profileEmail    string
	profileAvatar   string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update the current profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		displayOnly := profileUsername == "" && profileEmail == "" && profileAvatar == ""

		if err := a.requireAuth(cmd.Context()); err != nil {
			// Offline with a cached profile: still show something.
			if cached := a.session.CachedUser(); displayOnly && cached != nil {
				printProfile(cached)
				fmt.Println(dimStyle.Render("  (cached, backend unreachable)"))
				return nil
			}
			return err
		}
		user := a.session.User()

		if displayOnly {
			printProfile(user)
			return nil
		}

		username := user.Username
		if profileUsername != "" {
			username = profileUsername
		}
		email := user.Email
		if profileEmail != "" {
			email = profileEmail
		}

		var avatar *api.Attachment
		if profileAvatar != "" {
			data, err := os.ReadFile(profileAvatar)
			if err != nil {
				return fmt.Errorf("read avatar: %w", err)
			}
			avatar = &api.Attachment{
				Filename:    filepath.Base(profileAvatar),
				ContentType: avatarContentType(profileAvatar),
				Data:        data,
			}
		}

		if err := a.session.UpdateProfile(cmd.Context(), username, email, avatar); err != nil {
			return err
		}
		fmt.Println("Profile updated")
		return nil
	},
}

func printProfile(user *model.User) {
	fmt.Println(titleStyle.Render(user.Username))
	fmt.Printf("  id:    %s\n", user.ID)
	fmt.Printf("  email: %s\n", user.Email)
	if user.Avatar != "" {
		fmt.Printf("  avatar: %s\n", user.Avatar)
	}
}

func avatarContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

func init() {
	profileCmd.Flags().StringVar(&profileUsername, "username", "", "New username")
	profileCmd.Flags().StringVar(&profileEmail, "email", "", "New email address")
	profileCmd.Flags().StringVar(&profileAvatar, "avatar", "", "Path to a new avatar image")

	rootCmd.AddCommand(profileCmd)
}
