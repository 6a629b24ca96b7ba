package cli

import (
	"fmt"

	"github.com/rileyhilliard/vitals/internal/errors"
	"github.com/spf13/cobra"
)

// maxWindowFlag caps --window and --samples.
const maxWindowFlag = 1000

// StreamFlags holds the source selection flags shared by monitor and export.
type StreamFlags struct {
	URL string
	Env string
}

// AddStreamFlags registers --url and --env on a command.
func AddStreamFlags(cmd *cobra.Command, flags *StreamFlags) {
	cmd.Flags().StringVar(&flags.URL, "url", "", "stream endpoint (overrides the config)")
	cmd.Flags().StringVar(&flags.Env, "env", "", "endpoint environment: PROD or DEV")
}

// ValidateCount checks a sample count flag. Zero means "use the config".
func ValidateCount(flag string, n int) error {
	if n < 0 || n > maxWindowFlag {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("--%s must be between 1 and %d (got %d)", flag, maxWindowFlag, n),
			fmt.Sprintf("Leave --%s unset to use window.size from the config.", flag))
	}
	return nil
}
