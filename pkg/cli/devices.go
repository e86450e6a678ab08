package cli

import (
	"fmt"

	"github.com/deadside-ru/hub/pkg/audio"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio input devices for voice messages",
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := audio.ListInputDevices()
		if err != nil {
			return fmt.Errorf("enumerate input devices: %w", err)
		}

		fmt.Println(headerStyle.Render("Audio inputs"))
		for _, d := range devices {
			marker := "  "
			if d.IsDefault {
				marker = onlineStyle.Render("* ")
			}
			fmt.Printf("%s%s %s\n", marker, d.Name, dimStyle.Render(fmt.Sprintf("(%d ch)", d.MaxInputs)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
