package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"storyreel/internal/captions"
)

// buildFilterGraph chains one plate and one text layer per overlay onto the
// base video, each enabled only inside its window. The graph reads [0:v] and
// produces [vout] at the input's pixel dimensions.
func buildFilterGraph(overlays []captions.Overlay) string {
	if len(overlays) == 0 {
		return "[0:v:0]null[vout]"
	}
	var b strings.Builder
	b.WriteString("[0:v:0]")
	for i, overlay := range overlays {
		if i > 0 {
			b.WriteString(",\n")
		}
		enable := fmt.Sprintf("enable='between(t,%s,%s)'", formatSeconds(overlay.Start), formatSeconds(overlay.End))
		b.WriteString(drawBox(overlay, enable))
		b.WriteString(",\n")
		b.WriteString(drawText(overlay, enable))
	}
	b.WriteString("[vout]")
	return b.String()
}

func drawBox(overlay captions.Overlay, enable string) string {
	style := overlay.Style
	plate := plateHeight(style)
	width := "iw"
	if overlay.Width > 0 {
		width = strconv.Itoa(overlay.Width)
	}
	return fmt.Sprintf("drawbox=x=(iw-%s)/2:y=(ih-%d)/2:w=%s:h=%d:color=%s@%s:t=fill:%s",
		width, plate, width, plate, style.BoxColor, strconv.FormatFloat(style.BoxOpacity, 'f', -1, 64), enable)
}

func drawText(overlay captions.Overlay, enable string) string {
	style := overlay.Style
	var b strings.Builder
	b.WriteString("drawtext=")
	if style.FontFile != "" {
		b.WriteString("fontfile=")
		b.WriteString(escapeFilterValue(style.FontFile))
		b.WriteByte(':')
	}
	fmt.Fprintf(&b, "text=%s:expansion=none:fontsize=%d:fontcolor=%s", escapeFilterValue(overlay.Text), style.FontSize, style.FontColor)
	if style.BorderWidth > 0 {
		fmt.Fprintf(&b, ":borderw=%d:bordercolor=%s", style.BorderWidth, style.BorderColor)
	}
	b.WriteString(":x=(w-text_w)/2:y=(h-text_h)/2:")
	b.WriteString(enable)
	return b.String()
}

// plateHeight leaves half a line of padding around the glyphs and the outline.
func plateHeight(style captions.Style) int {
	return int(math.Round(float64(style.FontSize)*1.5)) + 2*style.BorderWidth
}

// escapeFilterValue applies both escaping levels a filter option value needs:
// once for the option parser and once for the filtergraph parser.
func escapeFilterValue(value string) string {
	return escapeRunes(escapeRunes(value, `\':`), `\'[],;`)
}

func escapeRunes(value, special string) string {
	var b strings.Builder
	b.Grow(len(value) + 4)
	for _, r := range value {
		if strings.ContainsRune(special, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}
