package cli

import (
	"context"
	"fmt"
	"time"
)

func (a *App) Health(ctx context.Context, _ []string) error {
	h, err := a.api.Health(ctx)
	if err != nil {
		a.setMode(ModeOffline)
		return err
	}
	a.setMode(ModeOnline)

	uptime := time.Duration(h.Uptime * float64(time.Second)).Round(time.Second)
	fmt.Fprintf(a.out, "Server: %s (up %s)\n", h.Message, uptime)
	return nil
}
