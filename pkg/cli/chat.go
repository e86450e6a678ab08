package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/deadside-ru/hub/pkg/api"
	"github.com/deadside-ru/hub/pkg/audio"
	"github.com/deadside-ru/hub/pkg/client"
	"github.com/deadside-ru/hub/pkg/model"
	"github.com/deadside-ru/hub/pkg/realtime"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Join the community chat",
	Long: `Connects to the hub's realtime channel and drops into an
interactive session. Plain lines are sent as messages; lines starting
with "/" are commands:

  /channels            list channels
  /channel <id>        switch the active channel
  /join-voice <id>     join a voice channel
  /leave-voice <id>    leave a voice channel
  /react <msg> <emoji> toggle a reaction on a message
  /delete <msg>        delete one of your messages
  /record              start recording a voice message
  /stop                stop recording and send it
  /quit                disconnect and exit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		if err := a.requireAuth(ctx); err != nil {
			return err
		}
		user := a.session.User()

		// Warm up the audio backend while the user reads the banner.
		audio.PreInitAudio()

		backendURL := a.settings.BackendURL
		eng := client.New(a.api, func(ctx context.Context, id realtime.Identity) (client.EventConn, error) {
			return realtime.Dial(ctx, backendURL, id)
		})
		defer eng.Disconnect()

		eng.OnMessage = func(msg model.Message) {
			printMessage(msg)
		}
		eng.OnTyping = func(userIDs []string) {
			if len(userIDs) > 0 {
				fmt.Println(dimStyle.Render(fmt.Sprintf("… %d user(s) typing", len(userIDs))))
			}
		}
		eng.OnVoiceRoster = func(channelID string, roster []model.VoiceParticipant) {
			names := make([]string, 0, len(roster))
			for _, p := range roster {
				names = append(names, p.Username)
			}
			fmt.Println(voiceStyle.Render(fmt.Sprintf("voice %s: [%s]", channelID, strings.Join(names, ", "))))
		}
		eng.OnActive = func(ch *model.Channel) {
			fmt.Println(headerStyle.Render("#" + ch.Name))
			for _, msg := range eng.Messages(ch.ID) {
				printMessage(msg)
			}
		}
		eng.OnDisconnect = func() {
			fmt.Println(dimStyle.Render("disconnected"))
		}

		recorder := audio.NewRecorder(
			func() (audio.Source, error) {
				return audio.NewCaptureDevice(audio.RecordSampleRate, audio.RecordFrameSize, a.settings.AudioInput)
			},
			func(att *api.Attachment) error {
				return eng.SendMessage(ctx, "Голосовое сообщение", model.MessageVoice, att)
			},
		)

		if err := eng.Connect(ctx, *user); err != nil {
			return err
		}
		fmt.Println(dimStyle.Render("connected as " + user.Username + " — /quit to exit"))

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "/") {
				if quit := runChatCommand(ctx, eng, recorder, line); quit {
					return nil
				}
				continue
			}

			_ = eng.StartTyping()
			if err := eng.SendMessage(ctx, line, model.MessageText, nil); err != nil {
				fmt.Println(offlineStyle.Render(err.Error()))
			}
			_ = eng.StopTyping()
		}
		return scanner.Err()
	},
}

func runChatCommand(ctx context.Context, eng *client.Engine, recorder *audio.Recorder, line string) (quit bool) {
	fields := strings.Fields(line)
	cmd, arg, arg2 := fields[0], "", ""
	if len(fields) > 1 {
		arg = fields[1]
	}
	if len(fields) > 2 {
		arg2 = fields[2]
	}

	switch cmd {
	case "/quit":
		return true
	case "/channels":
		for _, ch := range eng.Channels() {
			marker := " "
			if active := eng.ActiveChannel(); active != nil && active.ID == ch.ID {
				marker = ">"
			}
			fmt.Printf("%s %s %s\n", marker, titleStyle.Render(ch.Name), dimStyle.Render(ch.ID))
		}
	case "/channel":
		if err := eng.SetActiveChannel(ctx, arg); err != nil {
			fmt.Println(offlineStyle.Render(err.Error()))
		}
	case "/join-voice":
		if err := eng.JoinVoiceChannel(ctx, arg); err != nil {
			fmt.Println(offlineStyle.Render(err.Error()))
		}
	case "/leave-voice":
		if err := eng.LeaveVoiceChannel(ctx, arg); err != nil {
			fmt.Println(offlineStyle.Render(err.Error()))
		}
	case "/react":
		if err := eng.React(ctx, arg, arg2); err != nil {
			fmt.Println(offlineStyle.Render(err.Error()))
		}
	case "/delete":
		if err := eng.DeleteMessage(ctx, arg); err != nil {
			fmt.Println(offlineStyle.Render(err.Error()))
		}
	case "/record":
		if err := recorder.Start(); err != nil {
			fmt.Println(offlineStyle.Render(err.Error()))
		} else {
			fmt.Println(voiceStyle.Render("recording… /stop to send"))
		}
	case "/stop":
		if _, err := recorder.Stop(); err != nil {
			fmt.Println(offlineStyle.Render(err.Error()))
		} else {
			fmt.Println(voiceStyle.Render("voice message sent"))
		}
	default:
		fmt.Println(dimStyle.Render("unknown command " + cmd))
	}
	return false
}

func printMessage(msg model.Message) {
	body := msg.Content
	if msg.Type == model.MessageVoice {
		body = voiceStyle.Render("🎤 " + msg.Content)
		if msg.FileURL != "" {
			body += dimStyle.Render(" " + msg.FileURL)
		}
	}
	ts := ""
	if !msg.CreatedAt.IsZero() {
		ts = dimStyle.Render(msg.CreatedAt.Local().Format("15:04") + " ")
	}
	fmt.Printf("%s%s %s\n", ts, usernameStyle.Render(msg.Username+":"), body)
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
