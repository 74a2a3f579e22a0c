package targeting

// TuningParams holds the parameters that can be changed while running.
type TuningParams struct {
	Kp              float64 `json:"kp"`               // Proportional gain
	Kd              float64 `json:"kd"`               // Derivative gain (seconds)
	FireThreshold   float64 `json:"fire_threshold"`   // Fire window (rad)
	PredictionBlend float64 `json:"prediction_blend"` // Jerk-extrapolated accel weight (0-1)
	FeedForward     float64 `json:"feed_forward"`     // Bearing-rate feed-forward (seconds)
}

// Tuning returns the current tuning parameters.
func (c *Controller) Tuning() TuningParams {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return tuningOf(c.config)
}

// SetTuning updates tuning parameters at runtime.
// Only positive values are applied. If the result does not validate the
// configuration is left unchanged.
func (c *Controller) SetTuning(p TuningParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg := c.config
	if p.Kp > 0 {
		cfg.Kp = p.Kp
	}
	if p.Kd > 0 {
		cfg.Kd = p.Kd
	}
	if p.FireThreshold > 0 {
		cfg.FireThreshold = p.FireThreshold
	}
	if p.PredictionBlend > 0 {
		cfg.PredictionBlend = p.PredictionBlend
	}
	if p.FeedForward > 0 {
		cfg.FeedForward = p.FeedForward
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.config = cfg
	c.logger.Info("tuning updated",
		"kp", cfg.Kp,
		"kd", cfg.Kd,
		"fire_threshold", cfg.FireThreshold,
		"prediction_blend", cfg.PredictionBlend,
		"feed_forward", cfg.FeedForward)
	return nil
}

func tuningOf(cfg Config) TuningParams {
	return TuningParams{
		Kp:              cfg.Kp,
		Kd:              cfg.Kd,
		FireThreshold:   cfg.FireThreshold,
		PredictionBlend: cfg.PredictionBlend,
		FeedForward:     cfg.FeedForward,
	}
}
