package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/deadside-ru/hub/pkg/model"
	"github.com/spf13/cobra"
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "List the hub's text and voice channels",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.requireAuth(cmd.Context()); err != nil {
			return err
		}

		channels, err := a.api.Channels(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render("Channels"))
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, ch := range channels {
			kind := "#"
			if ch.Type == model.ChannelVoice {
				kind = voiceStyle.Render("🔊")
			}
			fmt.Fprintf(w, "  %s %s\t%s\t%s\n", kind, titleStyle.Render(ch.Name),
				dimStyle.Render(ch.ID), ch.Description)
		}
		return w.Flush()
	},
}

var (
	createChannelType    string
	createChannelDesc    string
	createChannelPrivate bool
)

var createChannelCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a channel (admins only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.requireAuth(cmd.Context()); err != nil {
			return err
		}

		chType := model.ChannelText
		if createChannelType == "voice" {
			chType = model.ChannelVoice
		}
		ch, err := a.api.CreateChannel(cmd.Context(), args[0], chType, createChannelDesc, createChannelPrivate)
		if err != nil {
			return err
		}
		fmt.Printf("created %s %s\n", titleStyle.Render(ch.Name), dimStyle.Render(ch.ID))
		return nil
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show upcoming community events",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		events, err := a.api.Events(cmd.Context())
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println(dimStyle.Render("No events scheduled"))
			return nil
		}

		for _, ev := range events {
			fmt.Printf("%s %s\n", titleStyle.Render(ev.Title), dimStyle.Render("["+string(ev.Type)+"]"))
			fmt.Printf("  %s\n", ev.Date)
			if ev.Description != "" {
				fmt.Printf("  %s\n", ev.Description)
			}
			fmt.Println()
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show game server status",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		status, err := a.api.ServerStatus(cmd.Context())
		if err != nil {
			return err
		}

		state := offlineStyle.Render("OFFLINE")
		if status.Online {
			state = onlineStyle.Render("ONLINE")
		}
		fmt.Printf("%s  DEADSIDE Россия %s\n", state, dimStyle.Render(status.Version))
		fmt.Printf("  players: %d/%d\n", status.Players, status.MaxPlayers)
		fmt.Printf("  uptime:  %s\n", status.Uptime)
		fmt.Printf("  ping:    %dms\n", status.Ping)
		return nil
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List players currently on the game server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		players, err := a.api.OnlinePlayers(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render("Online players"))
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, p := range players {
			fmt.Fprintf(w, "  %s\t%s\n", usernameStyle.Render(p.Nickname), dimStyle.Render(p.Playtime))
		}
		return w.Flush()
	},
}

func init() {
	createChannelCmd.Flags().StringVar(&createChannelType, "type", "text", "channel type: text or voice")
	createChannelCmd.Flags().StringVar(&createChannelDesc, "description", "", "channel description")
	createChannelCmd.Flags().BoolVar(&createChannelPrivate, "private", false, "restrict to invited members")
	channelsCmd.AddCommand(createChannelCmd)

	rootCmd.AddCommand(channelsCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(playersCmd)
}
