package enhance

import (
	"alcyxob/traindoc/internal/domain"
	"context"
	"log"
	"time"
)

const defaultBatchSize = 3

// EnhanceInBatches sends weeks to the gateway in small fixed-size chunks
// with an inter-batch delay, a courtesy toward the service's rate limit
// rather than a correctness requirement. The delay is skipped when the
// context is cancelled, and any batch failure keeps that batch's original
// weeks — the caller's local result always stands.
func EnhanceInBatches(ctx context.Context, gw Gateway, weeks []domain.WeekSession, profile Profile, batchSize int, delay time.Duration) []domain.WeekSession {
	if gw == nil || !gw.IsConfigured() || len(weeks) == 0 {
		return weeks
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	out := make([]domain.WeekSession, 0, len(weeks))
	for start := 0; start < len(weeks); start += batchSize {
		end := start + batchSize
		if end > len(weeks) {
			end = len(weeks)
		}
		batch := weeks[start:end]

		enhanced, err := gw.Enhance(ctx, batch, profile)
		if err != nil || len(enhanced) != len(batch) {
			if err != nil {
				log.Printf("WARN: enhancement batch %d-%d failed, keeping local weeks: %v", start, end, err)
			}
			out = append(out, batch...)
		} else {
			out = append(out, enhanced...)
		}

		if end < len(weeks) && delay > 0 {
			select {
			case <-ctx.Done():
				// Cancelled mid-run: pass the remaining weeks through as-is.
				out = append(out, weeks[end:]...)
				return out
			case <-time.After(delay):
			}
		}
	}
	return out
}
