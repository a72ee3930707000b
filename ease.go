package vetbuddy

import (
	"fmt"
	"strings"

	"github.com/tanema/gween/ease"
)

// easings maps layout easing names onto gween curves. Both gween's own names
// (outCubic) and the dotted power names used by web animation tooling
// (power2.out) are accepted; power1..4 are quad, cubic, quart and quint.
var easings = map[string]ease.TweenFunc{
	"none":   ease.Linear,
	"linear": ease.Linear,

	"power1.in": ease.InQuad, "power1.out": ease.OutQuad, "power1.inOut": ease.InOutQuad,
	"power2.in": ease.InCubic, "power2.out": ease.OutCubic, "power2.inOut": ease.InOutCubic,
	"power3.in": ease.InQuart, "power3.out": ease.OutQuart, "power3.inOut": ease.InOutQuart,
	"power4.in": ease.InQuint, "power4.out": ease.OutQuint, "power4.inOut": ease.InOutQuint,
	"sine.in": ease.InSine, "sine.out": ease.OutSine, "sine.inOut": ease.InOutSine,
	"expo.in": ease.InExpo, "expo.out": ease.OutExpo, "expo.inOut": ease.InOutExpo,
	"circ.in": ease.InCirc, "circ.out": ease.OutCirc, "circ.inOut": ease.InOutCirc,
	"back.in": ease.InBack, "back.out": ease.OutBack, "back.inOut": ease.InOutBack,
	"elastic.in": ease.InElastic, "elastic.out": ease.OutElastic, "elastic.inOut": ease.InOutElastic,
	"bounce.in": ease.InBounce, "bounce.out": ease.OutBounce, "bounce.inOut": ease.InOutBounce,

	"inQuad": ease.InQuad, "outQuad": ease.OutQuad, "inOutQuad": ease.InOutQuad,
	"inCubic": ease.InCubic, "outCubic": ease.OutCubic, "inOutCubic": ease.InOutCubic,
	"inQuart": ease.InQuart, "outQuart": ease.OutQuart, "inOutQuart": ease.InOutQuart,
	"inQuint": ease.InQuint, "outQuint": ease.OutQuint, "inOutQuint": ease.InOutQuint,
	"inSine": ease.InSine, "outSine": ease.OutSine, "inOutSine": ease.InOutSine,
	"outBack": ease.OutBack, "outBounce": ease.OutBounce, "outElastic": ease.OutElastic,
}

// EaseByName looks up an easing curve. Parameter suffixes such as
// "back.out(1.7)" are ignored; "" means linear.
func EaseByName(name string) (ease.TweenFunc, error) {
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ease.Linear, nil
	}
	fn, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q", name)
	}
	return fn, nil
}

// easeFraction applies fn to a normalized t in [0, 1]. A nil curve is linear
// and stays in float64.
func easeFraction(fn ease.TweenFunc, t float64) float64 {
	if fn == nil {
		return t
	}
	return float64(fn(float32(t), 0, 1, 1))
}
