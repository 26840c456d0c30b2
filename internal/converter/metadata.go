package converter

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// CameraInfo is the subset of raw EXIF worth logging before a decode.
type CameraInfo struct {
	Make  string
	Model string
	Taken time.Time
}

func (c CameraInfo) String() string {
	camera := strings.TrimSpace(c.Make + " " + c.Model)
	if camera == "" {
		camera = "unknown camera"
	}
	if c.Taken.IsZero() {
		return camera
	}
	return fmt.Sprintf("%s, taken %s", camera, c.Taken.Format("2006:01:02 15:04:05"))
}

// ReadCameraInfo reads EXIF from the TIFF structure CR2 and ARW files share.
func ReadCameraInfo(path string) (CameraInfo, error) {
	var info CameraInfo

	f, err := os.Open(path)
	if err != nil {
		return info, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return info, fmt.Errorf("exif decode: %w", err)
	}

	if tag, err := x.Get(exif.Make); err == nil {
		if v, err := tag.StringVal(); err == nil {
			info.Make = strings.TrimSpace(v)
		}
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if v, err := tag.StringVal(); err == nil {
			info.Model = strings.TrimSpace(v)
		}
	}
	if tm, err := x.DateTime(); err == nil {
		info.Taken = tm
	}
	return info, nil
}
