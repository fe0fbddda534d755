package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dandi-labs/dandi/internal/apikey/reveal"
)

// RunRevealAPIKey prints the secret of idFlag and hides it again when Enter
// is pressed, the window elapses or ctx is cancelled, whichever comes first.
func RunRevealAPIKey(
	ctx context.Context,
	revealer reveal.Revealer,
	logger *slog.Logger,
	io IOTuple,
	ownerIDFlag, idFlag string,
	window time.Duration,
) error {
	ownerID, err := parseUUID("owner-id", ownerIDFlag)
	if err != nil {
		return err
	}

	id, err := parseUUID("id", idFlag)
	if err != nil {
		return err
	}

	if window <= 0 {
		return fmt.Errorf("invalid --window: must be positive")
	}

	hidden := make(chan struct{})
	var hideOnce sync.Once
	controller := reveal.NewController(revealer, ownerID,
		reveal.WithWindow(window),
		reveal.WithOnHide(func(uuid.UUID) {
			hideOnce.Do(func() { close(hidden) })
		}),
	)

	secret, err := controller.Reveal(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to reveal api key: %w", err)
	}

	logger.Info("api key revealed",
		slog.String("api_key_id", id.String()),
		slog.String("owner_id", ownerID.String()),
	)

	_, _ = fmt.Fprintf(io.Writer, "Key: %s\n", secret)
	_, _ = fmt.Fprintf(io.Writer, "Press Enter to hide (hides automatically in %s)\n", window)

	enter := make(chan struct{})
	go func() {
		if _, err := bufio.NewReader(io.Reader).ReadString('\n'); err == nil {
			close(enter)
		}
	}()

	select {
	case <-enter:
	case <-hidden:
	case <-ctx.Done():
	}
	controller.Hide()

	_, _ = fmt.Fprintln(io.Writer, "Key hidden.")
	return nil
}
