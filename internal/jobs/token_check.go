package jobs

import (
	"context"
	"log"
	"time"

	"gradecanvas/internal/canvas"
	"gradecanvas/internal/config"
	"gradecanvas/internal/model"
)

type SettingsLister interface {
	ListSyncEnabledSettings(ctx context.Context) ([]model.UserSettings, error)
}

// StartTokenCheckJob periodically validates stored Canvas tokens for users who
// opted into syncing, so expired tokens show up in the logs before a teacher
// hits them mid-grading.
func StartTokenCheckJob(ctx context.Context, cfg config.Config, settings SettingsLister) {
	if !cfg.TokenCheckJobEnabled {
		return
	}
	interval := cfg.TokenCheckJobInterval
	if interval <= 0 {
		interval = time.Hour
	}
	timeout := cfg.TokenCheckJobTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tickCtx, cancel := context.WithTimeout(ctx, timeout)
				checked, failed := checkTokens(tickCtx, settings)
				cancel()
				if failed > 0 {
					log.Printf("token check job: %d of %d stored tokens failed", failed, checked)
				}
			}
		}
	}()
}

func checkTokens(ctx context.Context, settings SettingsLister) (checked, failed int) {
	rows, err := settings.ListSyncEnabledSettings(ctx)
	if err != nil {
		log.Printf("token check job error: %v", err)
		return 0, 0
	}
	for _, row := range rows {
		if row.CanvasURL == nil || row.CanvasToken == nil {
			continue
		}
		checked++
		client := canvas.New(*row.CanvasURL, *row.CanvasToken)
		if _, err := client.TestConnection(ctx); err != nil {
			failed++
			log.Printf("token check job: user %s token invalid: %v", row.UserID, err)
		}
	}
	return checked, failed
}
