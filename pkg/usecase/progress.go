package usecase

// emitStage calls cb with processed clamped to [0, total].
// It is a no-op when cb is nil or total is non-positive.
func emitStage(cb ProgressCallback, stage string, processed, total int) {
	if cb == nil || total <= 0 {
		return
	}

	processed = min(max(processed, 0), total)
	cb(stage, processed, total)
}
