package video

import (
	"fmt"
	"strings"

	"github.com/ivlev/loopreel/internal/config"
)

// OutputFilter builds the -vf chain for a segment: letterbox the rendered
// frame into the output size, then apply the segment's fades.
func OutputFilter(p config.SegmentParams, padColor string) string {
	var chain []string

	outW, outH := p.OutWidth, p.OutHeight
	if outW == 0 || outH == 0 {
		outW, outH = p.Width, p.Height
	}
	if outW != p.Width || outH != p.Height {
		if padColor == "" {
			padColor = "black"
		}
		chain = append(chain,
			fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", outW, outH),
			fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=%s", outW, outH, padColor),
		)
	}

	if p.FadeIn > 0 {
		chain = append(chain, fmt.Sprintf("fade=t=in:st=0:d=%f", seconds(p.FadeIn, p.FPS)))
	}
	if p.FadeOut > 0 && p.FadeOut < p.Frames {
		start := seconds(p.Frames-p.FadeOut, p.FPS)
		chain = append(chain, fmt.Sprintf("fade=t=out:st=%f:d=%f", start, seconds(p.FadeOut, p.FPS)))
	}

	if len(chain) == 0 {
		return "null"
	}
	return strings.Join(chain, ",")
}

// ffmpeg accepts 0xRRGGBB but not #RRGGBB.
func padColorFromHex(hex string) string {
	if strings.HasPrefix(hex, "#") && len(hex) >= 7 {
		return "0x" + hex[1:7]
	}
	return hex
}

func seconds(frames, fps int) float64 {
	if fps <= 0 {
		return 0
	}
	return float64(frames) / float64(fps)
}
