package enex

import (
	"bytes"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/h2non/filetype"
	"go.uber.org/zap"
)

// probeResource fills in what the export left out: the real mime type when
// the declared one is missing or generic, and pixel dimensions for images.
func probeResource(res *Resource, log *zap.Logger) {
	if len(res.Mime) == 0 || res.Mime == "application/octet-stream" {
		if t, err := filetype.Match(res.Data); err == nil && t != filetype.Unknown {
			log.Debug("Sniffed resource type", zap.String("mime", t.MIME.Value))
			res.Mime = t.MIME.Value
		}
	}

	if res.IsImage() && (res.Width == 0 || res.Height == 0) {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(res.Data))
		if err != nil {
			log.Debug("Unable to probe image dimensions", zap.String("mime", res.Mime), zap.Error(err))
			return
		}
		res.Width, res.Height = cfg.Width, cfg.Height
	}
}
