package easing

import (
	"github.com/tanema/gween/ease"
)

// Tween is a named easing curve from the gween tween library. It is only
// defined on [0,1]; inputs are clamped.
type Tween struct {
	Name string
}

var tweens = map[string]ease.TweenFunc{
	"ease-in-quad":        ease.InQuad,
	"ease-out-quad":       ease.OutQuad,
	"ease-in-out-quad":    ease.InOutQuad,
	"ease-in-cubic":       ease.InCubic,
	"ease-out-cubic":      ease.OutCubic,
	"ease-in-out-cubic":   ease.InOutCubic,
	"ease-in-sine":        ease.InSine,
	"ease-out-sine":       ease.OutSine,
	"ease-in-out-sine":    ease.InOutSine,
	"ease-in-expo":        ease.InExpo,
	"ease-out-expo":       ease.OutExpo,
	"ease-in-out-expo":    ease.InOutExpo,
	"ease-in-back":        ease.InBack,
	"ease-out-back":       ease.OutBack,
	"ease-in-out-back":    ease.InOutBack,
	"ease-in-bounce":      ease.InBounce,
	"ease-out-bounce":     ease.OutBounce,
	"ease-in-out-bounce":  ease.InOutBounce,
	"ease-in-elastic":     ease.InElastic,
	"ease-out-elastic":    ease.OutElastic,
	"ease-in-out-elastic": ease.InOutElastic,
}

// Eval evaluates the tween over a unit change in a unit duration.
func (tw Tween) Eval(t float64) float64 {
	fn, ok := tweens[tw.Name]
	if !ok {
		return t
	}
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return float64(fn(float32(t), 0, 1, 1))
}

func (tw Tween) String() string { return tw.Name }
