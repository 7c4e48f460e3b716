package filters

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Filter strength ceilings reached when a knob is pushed to 0 or 100.
const (
	BrightnessMax  = 0.25
	ContrastSpan   = 0.25
	SaturationSpan = 0.25
	SharpenMax     = 1.0
	DenoiseLumaMax = 1.8
	DenoiseTempMax = 9.0
)

const (
	// neutralEpsilon is the deviation below which a resolved value is
	// treated as identity and emits no filter stage.
	neutralEpsilon = 1e-6
	// videoSpeedEpsilon gates the setpts retime stage.
	videoSpeedEpsilon = 0.0005
	// audioSpeedEpsilon gates the atempo chain; slightly wider than the
	// video gate so near-1.0 speeds keep the audio stream untouched.
	audioSpeedEpsilon = 0.001
	// tempoResidualEpsilon decides whether the leftover tempo factor
	// after range reduction still warrants its own stage.
	tempoResidualEpsilon = 1e-3
)

// Request carries one invocation's enhancement parameters. Nil knobs were
// never supplied; a knob at 50 is equivalent to leaving it unset.
type Request struct {
	Speed       float64
	Denoise     *int
	Sharpen     *int
	Contrast    *int
	Saturation  *int
	Brightness  *int
	ScaleHeight *int
}

// PercentNorm maps a 0..100 percentage onto [-1, 1] centered at 50.
func PercentNorm(pct int) float64 {
	return (float64(pct) - 50.0) / 50.0
}

// BuildVideo resolves the request into a comma-joined ffmpeg -vf chain.
// Stage order is fixed: denoise, sharpen, color equalization, scale, speed
// retime. An empty result means no video re-encoding is requested.
func BuildVideo(req Request) string {
	parts := make([]string, 0, 5)

	if req.Denoise != nil {
		// Denoise has no meaningful negative direction; values below 50
		// clamp to off rather than inverting.
		n := math.Max(0, PercentNorm(*req.Denoise))
		if n > 0 {
			l := DenoiseLumaMax * n
			t := DenoiseTempMax * n
			parts = append(parts, fmt.Sprintf("hqdn3d=%.3f:%.3f:%.3f:%.3f", l, l, t, t))
		}
	}

	if req.Sharpen != nil {
		amt := PercentNorm(*req.Sharpen) * SharpenMax
		if math.Abs(amt) > neutralEpsilon {
			parts = append(parts, fmt.Sprintf("unsharp=luma_msize_x=7:luma_msize_y=7:luma_amount=%.3f", amt))
		}
	}

	if eq, ok := buildColorEq(req); ok {
		parts = append(parts, eq)
	}

	if req.ScaleHeight != nil {
		// -2 lets ffmpeg pick an even width preserving aspect ratio.
		parts = append(parts, fmt.Sprintf("scale=-2:%d", *req.ScaleHeight))
	}

	if math.Abs(req.Speed-1.0) > videoSpeedEpsilon {
		parts = append(parts, "setpts=PTS/"+FormatSpeed(req.Speed))
	}

	return strings.Join(parts, ",")
}

func buildColorEq(req Request) (string, bool) {
	need := false
	contrast := 1.0
	saturation := 1.0
	brightness := 0.0

	if req.Contrast != nil {
		mult := 1.0 + PercentNorm(*req.Contrast)*ContrastSpan
		if math.Abs(mult-1.0) > neutralEpsilon {
			need = true
			contrast = mult
		}
	}
	if req.Saturation != nil {
		mult := 1.0 + PercentNorm(*req.Saturation)*SaturationSpan
		if math.Abs(mult-1.0) > neutralEpsilon {
			need = true
			saturation = mult
		}
	}
	if req.Brightness != nil {
		offset := PercentNorm(*req.Brightness) * BrightnessMax
		if math.Abs(offset) > neutralEpsilon {
			need = true
			brightness = offset
		}
	}
	if !need {
		return "", false
	}
	return fmt.Sprintf("eq=contrast=%.6f:saturation=%.6f:brightness=%.6f", contrast, saturation, brightness), true
}

// BuildAudio resolves the speed factor into an ffmpeg -af chain plus the
// audio codec arguments to pass alongside it. A speed close enough to 1.0
// returns an empty chain and stream-copy arguments.
//
// The atempo primitive only accepts ratios in [0.5, 2.0] per stage, so
// larger factors are decomposed into repeated 2.0x (or 0.5x) stages with a
// final residual stage for whatever remains.
func BuildAudio(speed float64) (string, []string) {
	if math.Abs(speed-1.0) < audioSpeedEpsilon {
		return "", []string{"-c:a", "copy"}
	}

	remaining := speed
	var chain []string
	if remaining > 2.0 {
		for remaining > 2.0+neutralEpsilon {
			chain = append(chain, "atempo=2.0")
			remaining /= 2.0
		}
	} else if remaining < 0.5 {
		for remaining < 0.5-neutralEpsilon {
			chain = append(chain, "atempo=0.5")
			remaining /= 0.5
		}
	}
	if math.Abs(remaining-1.0) > tempoResidualEpsilon {
		chain = append(chain, fmt.Sprintf("atempo=%.6f", remaining))
	}

	return strings.Join(chain, ","), []string{"-c:a", "aac", "-b:a", "192k"}
}

// FormatSpeed renders a speed factor with the shortest exact decimal form,
// so 2.0 prints as "2" and 1.25 as "1.25". Used both in the setpts stage
// and in default output file names.
func FormatSpeed(speed float64) string {
	return strconv.FormatFloat(speed, 'f', -1, 64)
}
