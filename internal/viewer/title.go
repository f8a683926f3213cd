package viewer

import (
	"fmt"
	"strings"

	"sv/internal/imageio"
	"sv/internal/pixel"
)

// Title describes a file as NAME - WxHxD TYPE followed by the watch and
// retention flags, for example "a.pfm - 640x480x1 float - watch keep"
func Title(p imageio.ImagePath, a pixel.Adapter, watching bool, mode RetentionMode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %dx%dx%d %s", p.Path,
		a.OriginalWidth(), a.OriginalHeight(), a.OriginalDepth(), a.OriginalType())

	var flags []string
	if watching {
		flags = append(flags, "watch")
	}
	if f := mode.titleFlag(); f != "" {
		flags = append(flags, f)
	}
	if len(flags) > 0 {
		b.WriteString(" - ")
		b.WriteString(strings.Join(flags, " "))
	}
	return b.String()
}
