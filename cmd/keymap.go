package cmd

import (
	"github.com/spf13/cobra"
)

func newKeymapCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "keymap",
		Short: "Print a key map as YAML",
		Long: `Print the key bindings as a YAML key map. Without --file the built-in
bindings are printed; edit the output and pass it to label --keymap.`,
		Example: `  swing-labeler keymap > keys.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := loadKeymap(file)
			if err != nil {
				return err
			}

			data, err := keys.Encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Key map file to normalize; env SWING_LABELER_KEYMAP")

	return cmd
}
