package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rectsweep/pkg/scene"
)

// stdinPath selects standard input as the scene source.
const stdinPath = "-"

// loadScene reads a scene from path, or from stdin for "-". Stdin is parsed
// as YAML, which accepts JSON documents too.
func loadScene(cmd *cobra.Command, path string) (*scene.Scene, error) {
	if path == stdinPath {
		return scene.Read(cmd.InOrStdin(), scene.FormatYAML)
	}

	return scene.Load(path)
}

// formatFlag resolves an output format from a flag, falling back to the
// configured default when the flag was not given.
func formatFlag(cmd *cobra.Command, flagValue, configured string) string {
	if cmd.Flags().Changed("format") {
		return flagValue
	}

	return configured
}
